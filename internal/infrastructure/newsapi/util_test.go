package newsapi

import "testing"

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markup removed", "<b>AI</b> model <em>released</em>", "AI model released"},
		{"entities decoded", "&quot;AI&quot; rules &amp; more", `"AI" rules & more`},
		{"escaped brackets", "&lt;generative&gt;", "<generative>"},
		{"whitespace trimmed", "  plain text  ", "plain text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripTags(tt.in); got != tt.want {
				t.Fatalf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractLead(t *testing.T) {
	t.Parallel()

	content := "First sentence here. Second sentence here. Third sentence now. Fourth sentence extra."

	if got := ExtractLead(content, 2); got != "First sentence here. Second sentence here." {
		t.Fatalf("unexpected two-sentence lead: %q", got)
	}

	// Zero asks for the default of three sentences.
	if got := ExtractLead(content, 0); got != "First sentence here. Second sentence here. Third sentence now." {
		t.Fatalf("unexpected default lead: %q", got)
	}

	if got := ExtractLead("", 3); got != "" {
		t.Fatalf("expected empty lead, got %q", got)
	}

	// No sentence terminator: the whole text is the lead.
	if got := ExtractLead("a headline without punctuation", 3); got != "a headline without punctuation" {
		t.Fatalf("unexpected lead for unterminated text: %q", got)
	}
}
