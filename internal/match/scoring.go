// internal/match/scoring.go
// Hobby-overlap scoring and candidate ranking

package match

import "sort"

// HobbyScore counts the hobby flags that are true on both profiles. Flags
// only one side holds do not count, in either direction.
func HobbyScore(a, b Hobbies) int {
	af, bf := a.flags(), b.flags()
	score := 0
	for i := range af {
		if af[i] && bf[i] {
			score++
		}
	}
	return score
}

// RankCandidates scores every candidate against the caller's profile and
// orders the result by score descending, ties broken by most recently
// updated profile first. The sort is stable so equal candidates keep the
// store's order within a snapshot.
func RankCandidates(own *Profile, candidates []*Candidate) []*ScoredCandidate {
	scored := make([]*ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, &ScoredCandidate{
			Candidate: c,
			Score:     HobbyScore(own.Hobbies, c.Hobbies),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].LastUpdated.After(scored[j].LastUpdated)
	})

	return scored
}
