package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	resolveUserFn      func(ctx context.Context, publicID string) (*UserInfo, error)
	createRequestFn    func(ctx context.Context, req *FriendRequest) error
	getRequestFn       func(ctx context.Context, id int64) (*FriendRequest, error)
	requestBetweenFn   func(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error)
	acceptRequestFn    func(ctx context.Context, req *FriendRequest) error
	rejectRequestFn    func(ctx context.Context, requestID int64) error
	deletePendingFn    func(ctx context.Context, requestID, senderID int64) (bool, error)
	listPendingFn      func(ctx context.Context, userID int64) (*PendingRequests, error)
	friendshipExistsFn func(ctx context.Context, a, b int64) (bool, error)
	listFriendsFn      func(ctx context.Context, userID int64) ([]*Friend, error)
	listFriendIDsFn    func(ctx context.Context, userID int64) ([]int64, error)
	removeFriendFn     func(ctx context.Context, a, b int64) (bool, error)
}

func (f *fakeRepository) ResolveUserByPublicID(ctx context.Context, publicID string) (*UserInfo, error) {
	return f.resolveUserFn(ctx, publicID)
}

func (f *fakeRepository) CreateRequest(ctx context.Context, req *FriendRequest) error {
	return f.createRequestFn(ctx, req)
}

func (f *fakeRepository) GetRequest(ctx context.Context, id int64) (*FriendRequest, error) {
	return f.getRequestFn(ctx, id)
}

func (f *fakeRepository) GetRequestBetween(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
	if f.requestBetweenFn == nil {
		return nil, nil
	}
	return f.requestBetweenFn(ctx, senderID, receiverID)
}

func (f *fakeRepository) AcceptRequest(ctx context.Context, req *FriendRequest) error {
	return f.acceptRequestFn(ctx, req)
}

func (f *fakeRepository) RejectRequest(ctx context.Context, requestID int64) error {
	return f.rejectRequestFn(ctx, requestID)
}

func (f *fakeRepository) DeletePendingRequest(ctx context.Context, requestID, senderID int64) (bool, error) {
	return f.deletePendingFn(ctx, requestID, senderID)
}

func (f *fakeRepository) ListPendingRequests(ctx context.Context, userID int64) (*PendingRequests, error) {
	return f.listPendingFn(ctx, userID)
}

func (f *fakeRepository) FriendshipExists(ctx context.Context, a, b int64) (bool, error) {
	if f.friendshipExistsFn == nil {
		return false, nil
	}
	return f.friendshipExistsFn(ctx, a, b)
}

func (f *fakeRepository) ListFriends(ctx context.Context, userID int64) ([]*Friend, error) {
	return f.listFriendsFn(ctx, userID)
}

func (f *fakeRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.listFriendIDsFn(ctx, userID)
}

func (f *fakeRepository) RemoveFriend(ctx context.Context, a, b int64) (bool, error) {
	return f.removeFriendFn(ctx, a, b)
}

func TestNormalizePair(t *testing.T) {
	lo, hi := NormalizePair(9, 2)
	assert.Equal(t, int64(2), lo)
	assert.Equal(t, int64(9), hi)

	lo, hi = NormalizePair(2, 9)
	assert.Equal(t, int64(2), lo)
	assert.Equal(t, int64(9), hi)
}

func TestFriendshipStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("friendship wins over a stale request row", func(t *testing.T) {
		repo := &fakeRepository{
			friendshipExistsFn: func(ctx context.Context, a, b int64) (bool, error) {
				return true, nil
			},
			requestBetweenFn: func(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
				return &FriendRequest{Status: RequestPending}, nil
			},
		}

		status, err := NewService(repo).FriendshipStatus(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusFriends, status)
	})

	t.Run("pending request is directional", func(t *testing.T) {
		repo := &fakeRepository{
			requestBetweenFn: func(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
				if senderID == 2 && receiverID == 1 {
					return &FriendRequest{SenderID: 2, ReceiverID: 1, Status: RequestPending}, nil
				}
				return nil, nil
			},
		}
		svc := NewService(repo)

		status, err := svc.FriendshipStatus(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusIncomingPending, status)

		status, err = svc.FriendshipStatus(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusOutgoingPending, status)
	})

	t.Run("rejection is visible from both sides", func(t *testing.T) {
		repo := &fakeRepository{
			requestBetweenFn: func(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
				if senderID == 1 && receiverID == 2 {
					return &FriendRequest{SenderID: 1, ReceiverID: 2, Status: RequestRejected}, nil
				}
				return nil, nil
			},
		}
		svc := NewService(repo)

		status, err := svc.FriendshipStatus(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, status)

		status, err = svc.FriendshipStatus(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, status)
	})

	t.Run("no history", func(t *testing.T) {
		status, err := NewService(&fakeRepository{}).FriendshipStatus(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusNone, status)
	})
}

func TestSendFriendRequest(t *testing.T) {
	ctx := context.Background()
	receiver := &UserInfo{ID: 2, PublicID: "b2c3d4e5-0000-0000-0000-000000000000", Username: "martha"}

	resolveReceiver := func(ctx context.Context, publicID string) (*UserInfo, error) {
		return receiver, nil
	}

	t.Run("creates a pending request", func(t *testing.T) {
		repo := &fakeRepository{
			resolveUserFn: resolveReceiver,
			createRequestFn: func(ctx context.Context, req *FriendRequest) error {
				assert.Equal(t, int64(1), req.SenderID)
				assert.Equal(t, int64(2), req.ReceiverID)
				req.ID = 77
				return nil
			},
		}

		id, err := NewService(repo).SendFriendRequest(ctx, 1, receiver.PublicID)
		require.NoError(t, err)
		assert.Equal(t, int64(77), id)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		repo := &fakeRepository{
			resolveUserFn: func(ctx context.Context, publicID string) (*UserInfo, error) {
				return nil, ErrUserNotFound
			},
		}

		_, err := NewService(repo).SendFriendRequest(ctx, 1, "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("self request", func(t *testing.T) {
		repo := &fakeRepository{
			resolveUserFn: func(ctx context.Context, publicID string) (*UserInfo, error) {
				return &UserInfo{ID: 1}, nil
			},
		}

		_, err := NewService(repo).SendFriendRequest(ctx, 1, "own-id")
		assert.ErrorIs(t, err, ErrSelfRequest)
	})

	t.Run("already friends", func(t *testing.T) {
		repo := &fakeRepository{
			resolveUserFn: resolveReceiver,
			friendshipExistsFn: func(ctx context.Context, a, b int64) (bool, error) {
				return true, nil
			},
		}

		_, err := NewService(repo).SendFriendRequest(ctx, 1, receiver.PublicID)
		assert.ErrorIs(t, err, ErrAlreadyFriends)
	})

	t.Run("pending in either direction blocks a new request", func(t *testing.T) {
		for _, sender := range []int64{1, 2} {
			repo := &fakeRepository{
				resolveUserFn: resolveReceiver,
				requestBetweenFn: func(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
					if senderID == sender {
						return &FriendRequest{SenderID: sender, Status: RequestPending}, nil
					}
					return nil, nil
				},
			}

			_, err := NewService(repo).SendFriendRequest(ctx, 1, receiver.PublicID)
			assert.ErrorIs(t, err, ErrRequestPending)
		}
	})

	t.Run("rejected pair can never re-request", func(t *testing.T) {
		repo := &fakeRepository{
			resolveUserFn: resolveReceiver,
			requestBetweenFn: func(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
				// the other user tried first and was rejected
				if senderID == 2 {
					return &FriendRequest{SenderID: 2, Status: RequestRejected}, nil
				}
				return nil, nil
			},
		}

		_, err := NewService(repo).SendFriendRequest(ctx, 1, receiver.PublicID)
		assert.ErrorIs(t, err, ErrRequestRejected)
	})
}

func TestAcceptFriendRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("receiver accepts a pending request", func(t *testing.T) {
		accepted := false
		repo := &fakeRepository{
			getRequestFn: func(ctx context.Context, id int64) (*FriendRequest, error) {
				return &FriendRequest{ID: id, SenderID: 1, ReceiverID: 2, Status: RequestPending}, nil
			},
			acceptRequestFn: func(ctx context.Context, req *FriendRequest) error {
				accepted = true
				return nil
			},
		}

		require.NoError(t, NewService(repo).AcceptFriendRequest(ctx, 2, 10))
		assert.True(t, accepted)
	})

	t.Run("sender cannot accept their own request", func(t *testing.T) {
		repo := &fakeRepository{
			getRequestFn: func(ctx context.Context, id int64) (*FriendRequest, error) {
				return &FriendRequest{ID: id, SenderID: 1, ReceiverID: 2, Status: RequestPending}, nil
			},
		}

		err := NewService(repo).AcceptFriendRequest(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("already-settled request reads as missing", func(t *testing.T) {
		repo := &fakeRepository{
			getRequestFn: func(ctx context.Context, id int64) (*FriendRequest, error) {
				return &FriendRequest{ID: id, SenderID: 1, ReceiverID: 2, Status: RequestAccepted}, nil
			},
		}

		err := NewService(repo).AcceptFriendRequest(ctx, 2, 10)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})
}

func TestRejectFriendRequest(t *testing.T) {
	ctx := context.Background()

	rejected := false
	repo := &fakeRepository{
		getRequestFn: func(ctx context.Context, id int64) (*FriendRequest, error) {
			return &FriendRequest{ID: id, SenderID: 1, ReceiverID: 2, Status: RequestPending}, nil
		},
		rejectRequestFn: func(ctx context.Context, requestID int64) error {
			rejected = true
			return nil
		},
	}

	require.NoError(t, NewService(repo).RejectFriendRequest(ctx, 2, 10))
	assert.True(t, rejected)
}

func TestCancelAndRemoveReportOutcome(t *testing.T) {
	ctx := context.Background()

	repo := &fakeRepository{
		deletePendingFn: func(ctx context.Context, requestID, senderID int64) (bool, error) {
			return requestID == 10, nil
		},
		removeFriendFn: func(ctx context.Context, a, b int64) (bool, error) {
			return b == 2, nil
		},
	}
	svc := NewService(repo)

	removed, err := svc.CancelFriendRequest(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.CancelFriendRequest(ctx, 11, 1)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveFriend(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFriend(ctx, 1, 3)
	require.NoError(t, err)
	assert.False(t, removed)
}
