package dedup

import (
	"github.com/google/uuid"

	"NewsIntel/internal/similarity"
)

// Fingerprinted is any item exposing a similarity fingerprint. An empty
// vector means the item could not be fingerprinted.
type Fingerprinted interface {
	Vector() []float64
}

// Cluster is a maximal set of items connected by a chain of pairwise
// similarities above the stage threshold. Ephemeral: created and consumed
// within one dedup stage.
type Cluster[T Fingerprinted] struct {
	ID      string
	Members []T
}

// Group partitions items into similarity clusters using graph-connectivity
// semantics: two items land in the same cluster if a chain of pairwise
// similarities above threshold connects them, even when their direct
// similarity is below it. Items without a fingerprint become singletons.
// O(n²) pairwise comparisons; batches stay in the low hundreds.
func Group[T Fingerprinted](items []T, threshold float64) []Cluster[T] {
	if len(items) == 0 {
		return nil
	}

	parent := make([]int, len(items))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < len(items); i++ {
		if len(items[i].Vector()) == 0 {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			if len(items[j].Vector()) == 0 {
				continue
			}
			if similarity.Cosine(items[i].Vector(), items[j].Vector()) >= threshold {
				union(i, j)
			}
		}
	}

	// Preserve first-seen order of cluster roots.
	order := make([]int, 0, len(items))
	grouped := make(map[int][]T, len(items))
	for i, item := range items {
		root := find(i)
		if _, seen := grouped[root]; !seen {
			order = append(order, root)
		}
		grouped[root] = append(grouped[root], item)
	}

	clusters := make([]Cluster[T], 0, len(order))
	for _, root := range order {
		clusters = append(clusters, Cluster[T]{
			ID:      uuid.NewString(),
			Members: grouped[root],
		})
	}
	return clusters
}
