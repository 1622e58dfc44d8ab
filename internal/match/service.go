// internal/match/service.go
// Companion matching: profiles, candidate ranking, like/skip transitions

package match

import (
	"context"
	"errors"
)

var (
	ErrProfileExists   = errors.New("match profile already exists")
	ErrProfileNotFound = errors.New("match profile not found")
	ErrSelfInteraction = errors.New("cannot like or skip yourself")
)

// FriendDirectory is the slice of the relationship service the match engine
// needs: the caller's current friends, excluded from the candidate pool on
// top of the exclusion the candidate query itself applies.
type FriendDirectory interface {
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

type Service interface {
	HasProfile(ctx context.Context, userID int64) (bool, error)
	CreateProfile(ctx context.Context, userID int64, in *ProfileInput) error
	UpdateProfile(ctx context.Context, userID int64, in *ProfileInput) error
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	PotentialMatches(ctx context.Context, userID int64) ([]*ScoredCandidate, error)
	Like(ctx context.Context, userID, targetUserID int64) (*LikeResult, error)
	Skip(ctx context.Context, userID, targetUserID int64) error
}

type service struct {
	repo    Repository
	friends FriendDirectory
}

func NewService(repo Repository, friends FriendDirectory) Service {
	return &service{repo: repo, friends: friends}
}

func (s *service) HasProfile(ctx context.Context, userID int64) (bool, error) {
	return s.repo.HasProfile(ctx, userID)
}

func (s *service) CreateProfile(ctx context.Context, userID int64, in *ProfileInput) error {
	exists, err := s.repo.HasProfile(ctx, userID)
	if err != nil {
		return err
	}
	if exists {
		return ErrProfileExists
	}
	return s.repo.CreateProfile(ctx, in.toProfile(userID))
}

// UpdateProfile is a full replace: every field including all hobby flags is
// overwritten from the input, matching create behavior for absent fields.
func (s *service) UpdateProfile(ctx context.Context, userID int64, in *ProfileInput) error {
	return s.repo.UpdateProfile(ctx, in.toProfile(userID))
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// PotentialMatches ranks every eligible profile against the caller's.
// Friends are excluded twice: the candidate query filters on the friendships
// table and the relationship service's friend list is applied on top, so a
// drift in either path cannot surface a friend as a candidate.
func (s *service) PotentialMatches(ctx context.Context, userID int64) ([]*ScoredCandidate, error) {
	own, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	friendIDs, err := s.friends.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.FindCandidates(ctx, userID, friendIDs)
	if err != nil {
		return nil, err
	}

	ranked := RankCandidates(own, candidates)
	for _, c := range ranked {
		RecordHobbyScore(c.Score)
	}
	return ranked, nil
}

func (s *service) Like(ctx context.Context, userID, targetUserID int64) (*LikeResult, error) {
	if userID == targetUserID {
		return nil, ErrSelfInteraction
	}

	matched, err := s.repo.RecordLike(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}

	RecordInteraction("like")
	if matched {
		RecordMatch()
	}
	return &LikeResult{Matched: matched}, nil
}

func (s *service) Skip(ctx context.Context, userID, targetUserID int64) error {
	if userID == targetUserID {
		return ErrSelfInteraction
	}

	if err := s.repo.RecordSkip(ctx, userID, targetUserID); err != nil {
		return err
	}

	RecordInteraction("skip")
	return nil
}
