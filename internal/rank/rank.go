package rank

import (
	"sort"

	"github.com/matheuskafuri/hnbest/internal/story"
)

// Rank orders pairs by score, highest first, and returns at most n of them.
// Equal scores keep their input order. The input slice is not modified.
// Callers validate n; a non-positive n yields an empty list.
func Rank(pairs []story.Pair, n int) story.Ranked {
	if n <= 0 || len(pairs) == 0 {
		return story.Ranked{}
	}

	sorted := make(story.Ranked, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Story.Score > sorted[j].Story.Score
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
