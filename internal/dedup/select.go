package dedup

import (
	"time"

	"NewsIntel/internal/domain"
)

// maxContentScore caps the full-text length term of the stage-2 score so the
// non-protected score stays bounded. The cap keeps any non-protected sum
// below maxContentScore + 500 + 400; protection is still enforced as a hard
// override, never through the bonus alone.
const maxContentScore = 100_000

const (
	outletBonusStage1    = 100
	outletBonusStage2    = 500
	categoryBonusStage2  = 100
	protectedBonusStage2 = 1000
)

// SelectStage1 picks the survivor for a title+lead duplicate cluster:
// longest lead wins, named outlets get a bonus, age subtracts a point per
// day. Ties break toward the earliest publication.
func SelectStage1(members []domain.Article, now time.Time) domain.Article {
	best := members[0]
	bestScore := stage1Score(best, now)

	for _, candidate := range members[1:] {
		score := stage1Score(candidate, now)
		switch {
		case score > bestScore:
			best, bestScore = candidate, score
		case score == bestScore && candidate.PublishedAt.Before(best.PublishedAt):
			best = candidate
		}
	}
	return best
}

func stage1Score(a domain.Article, now time.Time) int {
	score := len([]rune(a.Lead))
	if a.Outlet != "" {
		score += outletBonusStage1
	}
	score -= int(now.Sub(a.PublishedAt).Hours() / 24)
	return score
}

// SelectStage2 picks the survivor for a full-content duplicate cluster.
// When the cluster holds at least one protected article the survivor is
// always protected: the candidate set is narrowed to protected members
// before scoring, so the additive protected bonus can never be outweighed.
func SelectStage2(members []domain.Article) domain.Article {
	candidates := members
	if protected := protectedOnly(members); len(protected) > 0 {
		candidates = protected
	}

	best := candidates[0]
	bestScore := stage2Score(best)
	for _, candidate := range candidates[1:] {
		if score := stage2Score(candidate); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}

func stage2Score(a domain.Article) int {
	content := len([]rune(a.EffectiveText()))
	if content > maxContentScore {
		content = maxContentScore
	}

	score := content
	if a.Outlet != "" {
		score += outletBonusStage2
	}
	score += categoryBonusStage2 * len(a.Categories)
	if a.Protected() {
		score += protectedBonusStage2
	}
	return score
}

func protectedOnly(members []domain.Article) []domain.Article {
	var protected []domain.Article
	for _, m := range members {
		if m.Protected() {
			protected = append(protected, m)
		}
	}
	return protected
}
