package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHobbyScore(t *testing.T) {
	t.Run("counts only mutual hobbies", func(t *testing.T) {
		a := Hobbies{Hiking: true, Cooking: true}
		b := Hobbies{Hiking: true, Reading: true}
		assert.Equal(t, 1, HobbyScore(a, b))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Hobbies{Gardening: true, Walking: true, Movies: true}
		b := Hobbies{Walking: true, Movies: true, TaiChi: true}
		assert.Equal(t, HobbyScore(a, b), HobbyScore(b, a))
	})

	t.Run("no overlap", func(t *testing.T) {
		a := Hobbies{Singing: true}
		b := Hobbies{BoardGames: true}
		assert.Equal(t, 0, HobbyScore(a, b))
	})

	t.Run("full overlap", func(t *testing.T) {
		all := Hobbies{
			Hiking: true, Gardening: true, BoardGames: true, Singing: true,
			Reading: true, Walking: true, Cooking: true, Movies: true, TaiChi: true,
		}
		assert.Equal(t, 9, HobbyScore(all, all))
	})
}

func TestRankCandidates(t *testing.T) {
	now := time.Now()
	own := &Profile{
		UserID:  1,
		Hobbies: Hobbies{Hiking: true, Reading: true, Cooking: true},
	}

	t.Run("orders by score descending", func(t *testing.T) {
		candidates := []*Candidate{
			{UserID: 2, Hobbies: Hobbies{Hiking: true}, LastUpdated: now},
			{UserID: 3, Hobbies: Hobbies{Hiking: true, Reading: true, Cooking: true}, LastUpdated: now},
			{UserID: 4, Hobbies: Hobbies{}, LastUpdated: now},
		}

		ranked := RankCandidates(own, candidates)
		assert.Equal(t, []int64{3, 2, 4}, candidateIDs(ranked))
		assert.Equal(t, 3, ranked[0].Score)
		assert.Equal(t, 1, ranked[1].Score)
		assert.Equal(t, 0, ranked[2].Score)
	})

	t.Run("ties broken by most recent profile update", func(t *testing.T) {
		candidates := []*Candidate{
			{UserID: 2, Hobbies: Hobbies{Hiking: true}, LastUpdated: now.Add(-time.Hour)},
			{UserID: 3, Hobbies: Hobbies{Reading: true}, LastUpdated: now},
		}

		ranked := RankCandidates(own, candidates)
		assert.Equal(t, []int64{3, 2}, candidateIDs(ranked))
	})

	t.Run("empty pool", func(t *testing.T) {
		ranked := RankCandidates(own, nil)
		assert.Empty(t, ranked)
	})
}

func candidateIDs(ranked []*ScoredCandidate) []int64 {
	ids := make([]int64, len(ranked))
	for i, c := range ranked {
		ids[i] = c.UserID
	}
	return ids
}
