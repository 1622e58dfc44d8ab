package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	hasProfileFn     func(ctx context.Context, userID int64) (bool, error)
	createProfileFn  func(ctx context.Context, profile *Profile) error
	updateProfileFn  func(ctx context.Context, profile *Profile) error
	getProfileFn     func(ctx context.Context, userID int64) (*Profile, error)
	findCandidatesFn func(ctx context.Context, userID int64, excludeIDs []int64) ([]*Candidate, error)
	recordLikeFn     func(ctx context.Context, userID, targetUserID int64) (bool, error)
	recordSkipFn     func(ctx context.Context, userID, targetUserID int64) error
}

func (f *fakeRepository) HasProfile(ctx context.Context, userID int64) (bool, error) {
	return f.hasProfileFn(ctx, userID)
}

func (f *fakeRepository) CreateProfile(ctx context.Context, profile *Profile) error {
	return f.createProfileFn(ctx, profile)
}

func (f *fakeRepository) UpdateProfile(ctx context.Context, profile *Profile) error {
	return f.updateProfileFn(ctx, profile)
}

func (f *fakeRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return f.getProfileFn(ctx, userID)
}

func (f *fakeRepository) FindCandidates(ctx context.Context, userID int64, excludeIDs []int64) ([]*Candidate, error) {
	return f.findCandidatesFn(ctx, userID, excludeIDs)
}

func (f *fakeRepository) RecordLike(ctx context.Context, userID, targetUserID int64) (bool, error) {
	return f.recordLikeFn(ctx, userID, targetUserID)
}

func (f *fakeRepository) RecordSkip(ctx context.Context, userID, targetUserID int64) error {
	return f.recordSkipFn(ctx, userID, targetUserID)
}

type fakeFriendDirectory struct {
	ids []int64
}

func (f *fakeFriendDirectory) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.ids, nil
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when none exists", func(t *testing.T) {
		var created *Profile
		repo := &fakeRepository{
			hasProfileFn: func(ctx context.Context, userID int64) (bool, error) {
				return false, nil
			},
			createProfileFn: func(ctx context.Context, profile *Profile) error {
				created = profile
				return nil
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{})

		in := &ProfileInput{Bio: "retired teacher", Reading: true}
		require.NoError(t, svc.CreateProfile(ctx, 1, in))
		require.NotNil(t, created)
		assert.Equal(t, int64(1), created.UserID)
		assert.True(t, created.Hobbies.Reading)
	})

	t.Run("second create conflicts", func(t *testing.T) {
		repo := &fakeRepository{
			hasProfileFn: func(ctx context.Context, userID int64) (bool, error) {
				return true, nil
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{})

		err := svc.CreateProfile(ctx, 1, &ProfileInput{})
		assert.ErrorIs(t, err, ErrProfileExists)
	})
}

func TestUpdateProfileIsFullReplace(t *testing.T) {
	ctx := context.Background()

	var updated *Profile
	repo := &fakeRepository{
		updateProfileFn: func(ctx context.Context, profile *Profile) error {
			updated = profile
			return nil
		},
	}
	svc := NewService(repo, &fakeFriendDirectory{})

	// Input omitting hobbies resets every flag to false
	require.NoError(t, svc.UpdateProfile(ctx, 1, &ProfileInput{Bio: "new bio"}))
	require.NotNil(t, updated)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, Hobbies{}, updated.Hobbies)
}

func TestPotentialMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("requires own profile", func(t *testing.T) {
		repo := &fakeRepository{
			getProfileFn: func(ctx context.Context, userID int64) (*Profile, error) {
				return nil, ErrProfileNotFound
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{})

		_, err := svc.PotentialMatches(ctx, 1)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("passes friend IDs to the candidate query and ranks results", func(t *testing.T) {
		now := time.Now()
		var gotExclude []int64
		repo := &fakeRepository{
			getProfileFn: func(ctx context.Context, userID int64) (*Profile, error) {
				return &Profile{UserID: 1, Hobbies: Hobbies{Walking: true, Movies: true}}, nil
			},
			findCandidatesFn: func(ctx context.Context, userID int64, excludeIDs []int64) ([]*Candidate, error) {
				gotExclude = excludeIDs
				return []*Candidate{
					{UserID: 5, Hobbies: Hobbies{Walking: true}, LastUpdated: now},
					{UserID: 6, Hobbies: Hobbies{Walking: true, Movies: true}, LastUpdated: now},
				}, nil
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{ids: []int64{3, 4}})

		matches, err := svc.PotentialMatches(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, gotExclude)
		require.Len(t, matches, 2)
		assert.Equal(t, int64(6), matches[0].UserID)
		assert.Equal(t, 2, matches[0].Score)
	})
}

func TestLike(t *testing.T) {
	ctx := context.Background()

	t.Run("self like rejected", func(t *testing.T) {
		svc := NewService(&fakeRepository{}, &fakeFriendDirectory{})
		_, err := svc.Like(ctx, 1, 1)
		assert.ErrorIs(t, err, ErrSelfInteraction)
	})

	t.Run("one-sided like is not a match", func(t *testing.T) {
		repo := &fakeRepository{
			recordLikeFn: func(ctx context.Context, userID, targetUserID int64) (bool, error) {
				return false, nil
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{})

		result, err := svc.Like(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, result.Matched)
	})

	t.Run("reciprocal like reports a match", func(t *testing.T) {
		repo := &fakeRepository{
			recordLikeFn: func(ctx context.Context, userID, targetUserID int64) (bool, error) {
				return true, nil
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{})

		result, err := svc.Like(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, result.Matched)
	})
}

func TestSkip(t *testing.T) {
	ctx := context.Background()

	t.Run("self skip rejected", func(t *testing.T) {
		svc := NewService(&fakeRepository{}, &fakeFriendDirectory{})
		err := svc.Skip(ctx, 1, 1)
		assert.ErrorIs(t, err, ErrSelfInteraction)
	})

	t.Run("records the skip", func(t *testing.T) {
		var recorded bool
		repo := &fakeRepository{
			recordSkipFn: func(ctx context.Context, userID, targetUserID int64) error {
				recorded = true
				return nil
			},
		}
		svc := NewService(repo, &fakeFriendDirectory{})

		require.NoError(t, svc.Skip(ctx, 1, 2))
		assert.True(t, recorded)
	})
}
