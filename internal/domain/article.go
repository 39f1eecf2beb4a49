package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Category is one of the fixed classification buckets assigned at the
// category-filter stage.
type Category string

const (
	CategorySolution   Category = "solution"
	CategoryCase       Category = "case"
	CategoryTechnology Category = "technology"
	CategoryRegulation Category = "regulation"
)

// ValidCategories lists every category the classifier may assign.
var ValidCategories = []Category{
	CategorySolution,
	CategoryCase,
	CategoryTechnology,
	CategoryRegulation,
}

// ParseCategory maps a raw label to a known category; ok is false for
// anything outside the fixed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidCategories {
		if c == valid {
			return c, true
		}
	}
	return "", false
}

// Article is the core entity flowing through the pipeline. URL is the
// identity key within a single run.
type Article struct {
	URL         string
	Title       string
	PublishedAt time.Time
	Source      string
	Outlet      string
	Lead        string
	FullText    string

	// TitleLeadHash short-circuits exact duplicates before embeddings run.
	TitleLeadHash string
	Fingerprint   []float64
	Categories    []Category
}

// TitleLead is the text span fingerprinted by the first dedup stage.
func (a Article) TitleLead() string {
	if a.Lead == "" {
		return a.Title
	}
	return a.Title + " " + a.Lead
}

// Vector exposes the fingerprint for similarity clustering.
func (a Article) Vector() []float64 {
	return a.Fingerprint
}

// HasCategory reports whether the article was assigned the given category.
func (a Article) HasCategory(c Category) bool {
	for _, assigned := range a.Categories {
		if assigned == c {
			return true
		}
	}
	return false
}

// Protected reports whether the article carries the regulation category and
// is therefore subject to the retention guarantee.
func (a Article) Protected() bool {
	return a.HasCategory(CategoryRegulation)
}

// EffectiveText is the content the second dedup stage fingerprints: the
// extracted full text, or the lead when extraction fell back, or the title.
func (a Article) EffectiveText() string {
	if a.FullText != "" {
		return a.FullText
	}
	if a.Lead != "" {
		return a.Lead
	}
	return a.Title
}

// TextHash returns a normalized SHA-256 hash used for exact-duplicate
// detection.
func TextHash(text string) string {
	if text == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}
