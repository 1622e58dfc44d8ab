// internal/social/service.go
// Friend request lifecycle and friendship management

package social

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrSelfRequest     = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends  = errors.New("already friends with this user")
	ErrRequestPending  = errors.New("a friend request between you is already pending")
	ErrRequestRejected = errors.New("a previous friend request between you was rejected")
)

type Service interface {
	FriendshipStatus(ctx context.Context, userID, otherID int64) (string, error)
	SendFriendRequest(ctx context.Context, senderID int64, receiverPublicID string) (int64, error)
	AcceptFriendRequest(ctx context.Context, userID, requestID int64) error
	RejectFriendRequest(ctx context.Context, userID, requestID int64) error
	CancelFriendRequest(ctx context.Context, requestID, senderID int64) (bool, error)
	PendingRequests(ctx context.Context, userID int64) (*PendingRequests, error)
	Friends(ctx context.Context, userID int64) ([]*Friend, error)
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
	RemoveFriend(ctx context.Context, userID, friendID int64) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// FriendshipStatus reports the relationship between two users. Precedence,
// first match wins: existing friendship, request sent by userID, request sent
// by otherID, nothing on record (StatusNone). Read-only; SendFriendRequest
// uses it as its precondition gate.
func (s *service) FriendshipStatus(ctx context.Context, userID, otherID int64) (string, error) {
	friends, err := s.repo.FriendshipExists(ctx, userID, otherID)
	if err != nil {
		return StatusNone, err
	}
	if friends {
		return StatusFriends, nil
	}

	if req, err := s.repo.GetRequestBetween(ctx, userID, otherID); err != nil {
		return StatusNone, err
	} else if req != nil {
		switch req.Status {
		case RequestPending:
			return StatusOutgoingPending, nil
		case RequestRejected:
			return StatusRejected, nil
		}
	}

	if req, err := s.repo.GetRequestBetween(ctx, otherID, userID); err != nil {
		return StatusNone, err
	} else if req != nil {
		switch req.Status {
		case RequestPending:
			return StatusIncomingPending, nil
		case RequestRejected:
			return StatusRejected, nil
		}
	}

	return StatusNone, nil
}

func (s *service) SendFriendRequest(ctx context.Context, senderID int64, receiverPublicID string) (int64, error) {
	receiver, err := s.repo.ResolveUserByPublicID(ctx, receiverPublicID)
	if err != nil {
		return 0, err
	}

	if receiver.ID == senderID {
		return 0, ErrSelfRequest
	}

	status, err := s.FriendshipStatus(ctx, senderID, receiver.ID)
	if err != nil {
		return 0, err
	}
	switch status {
	case StatusFriends:
		return 0, ErrAlreadyFriends
	case StatusOutgoingPending, StatusIncomingPending:
		return 0, ErrRequestPending
	case StatusRejected:
		// rejection is permanent, no re-request path
		return 0, ErrRequestRejected
	}

	req := &FriendRequest{SenderID: senderID, ReceiverID: receiver.ID}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (s *service) AcceptFriendRequest(ctx context.Context, userID, requestID int64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	// only the receiver of a still-pending request may accept; anything else
	// is indistinguishable from a missing request to the caller
	if req.ReceiverID != userID || req.Status != RequestPending {
		return ErrRequestNotFound
	}

	return s.repo.AcceptRequest(ctx, req)
}

func (s *service) RejectFriendRequest(ctx context.Context, userID, requestID int64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != userID || req.Status != RequestPending {
		return ErrRequestNotFound
	}

	return s.repo.RejectRequest(ctx, requestID)
}

// CancelFriendRequest lets the original sender withdraw a still-pending
// request. Returns false rather than an error when nothing matched.
func (s *service) CancelFriendRequest(ctx context.Context, requestID, senderID int64) (bool, error) {
	return s.repo.DeletePendingRequest(ctx, requestID, senderID)
}

func (s *service) PendingRequests(ctx context.Context, userID int64) (*PendingRequests, error) {
	return s.repo.ListPendingRequests(ctx, userID)
}

func (s *service) Friends(ctx context.Context, userID int64) ([]*Friend, error) {
	return s.repo.ListFriends(ctx, userID)
}

func (s *service) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.ListFriendIDs(ctx, userID)
}

func (s *service) RemoveFriend(ctx context.Context, userID, friendID int64) (bool, error) {
	return s.repo.RemoveFriend(ctx, userID, friendID)
}
