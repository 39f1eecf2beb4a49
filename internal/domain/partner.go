package domain

import "strings"

// PartnerCompany is one row of the partnership database built after a run:
// an organization active in AI, extracted from a surviving article, with a
// concrete collaboration angle.
type PartnerCompany struct {
	Name               string
	Category           Category
	Field              string
	RecentAchievement  string
	CollaborationPoint string
	ArticleURL         string
	RunID              string
}

// DedupePartners collapses repeated company names (case-insensitive),
// keeping the entry with the most detailed achievement. First-seen order is
// preserved.
func DedupePartners(partners []PartnerCompany) []PartnerCompany {
	var unique []PartnerCompany
	index := map[string]int{}

	for _, partner := range partners {
		key := strings.ToLower(strings.TrimSpace(partner.Name))
		if key == "" {
			continue
		}
		at, seen := index[key]
		if !seen {
			index[key] = len(unique)
			unique = append(unique, partner)
			continue
		}
		if len(partner.RecentAchievement) > len(unique[at].RecentAchievement) {
			unique[at] = partner
		}
	}
	return unique
}
