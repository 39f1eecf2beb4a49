package domain

import "strings"

// Verdict is the structured outcome of the category-filter classification.
// WasFallback marks verdicts produced by the fail-safe default instead of a
// real model response.
type Verdict struct {
	Pass        bool
	Categories  []Category
	Rationale   string
	WasFallback bool
}

// FallbackVerdict is the fail-safe category verdict: keep the article and
// tag it technology so it is never silently dropped on classifier failure.
func FallbackVerdict(reason string) Verdict {
	return Verdict{
		Pass:        true,
		Categories:  []Category{CategoryTechnology},
		Rationale:   reason,
		WasFallback: true,
	}
}

// ValueVerdict is the outcome of the business-value validation stage.
type ValueVerdict struct {
	HasValue    bool
	Rationale   string
	WasFallback bool
	// Overridden is set when a regulatory article was judged valueless and
	// the retention guarantee forced it back in.
	Overridden bool
}

// FallbackValueVerdict errs toward inclusion on classifier failure.
func FallbackValueVerdict(reason string) ValueVerdict {
	return ValueVerdict{HasValue: true, Rationale: reason, WasFallback: true}
}

// ImpactType classifies how an article affects the business.
type ImpactType string

const (
	ImpactOpportunity ImpactType = "opportunity"
	ImpactThreat      ImpactType = "threat"
	ImpactMixed       ImpactType = "mixed"
	ImpactWatchlist   ImpactType = "watchlist"
)

// ParseImpactType maps a raw label to a known impact type, defaulting to
// watchlist for anything unrecognized.
func ParseImpactType(s string) ImpactType {
	switch ImpactType(strings.ToLower(strings.TrimSpace(s))) {
	case ImpactOpportunity:
		return ImpactOpportunity
	case ImpactThreat:
		return ImpactThreat
	case ImpactMixed:
		return ImpactMixed
	default:
		return ImpactWatchlist
	}
}

// ImpactArea names a business area touched by an article.
type ImpactArea string

const (
	AreaMembershipData ImpactArea = "membership data usage"
	AreaTargeting      ImpactArea = "targeting / segmentation"
	AreaAdvertising    ImpactArea = "advertising agency / data sales business"
	AreaOmnichannel    ImpactArea = "online-offline linkage"
	AreaCompliance     ImpactArea = "legal / compliance"
	AreaNone           ImpactArea = "none"
)

// ValidImpactAreas is the fixed six-element enumeration.
var ValidImpactAreas = []ImpactArea{
	AreaMembershipData,
	AreaTargeting,
	AreaAdvertising,
	AreaOmnichannel,
	AreaCompliance,
	AreaNone,
}

// ParseImpactAreas keeps only known areas, falling back to none when the
// model returned nothing usable.
func ParseImpactAreas(raw []string) []ImpactArea {
	var areas []ImpactArea
	for _, r := range raw {
		candidate := ImpactArea(strings.ToLower(strings.TrimSpace(r)))
		for _, valid := range ValidImpactAreas {
			if candidate == valid {
				areas = append(areas, candidate)
				break
			}
		}
	}
	if len(areas) == 0 {
		areas = []ImpactArea{AreaNone}
	}
	return areas
}

// ContextAnalysis annotates an article with its business impact. The
// context-analysis stage never removes articles.
type ContextAnalysis struct {
	Impact      ImpactType
	Areas       []ImpactArea
	Reasoning   string
	WasFallback bool
}

// FallbackContextAnalysis parks an article on the watchlist when the
// classifier is unavailable.
func FallbackContextAnalysis(reason string) ContextAnalysis {
	return ContextAnalysis{
		Impact:      ImpactWatchlist,
		Areas:       []ImpactArea{AreaNone},
		Reasoning:   reason,
		WasFallback: true,
	}
}

// AnalyzedArticle is an article that survived value validation, together
// with its verdicts.
type AnalyzedArticle struct {
	Article Article
	Value   ValueVerdict
	Context ContextAnalysis
}
