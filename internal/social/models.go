package social

import "time"

// Friend request lifecycle statuses
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Relationship statuses as reported by FriendshipStatus. StatusNone means no
// relationship is on record and a new request may be sent.
const (
	StatusNone            = ""
	StatusFriends         = "friends"
	StatusOutgoingPending = "outgoing_pending"
	StatusIncomingPending = "incoming_pending"
	StatusRejected        = "rejected"
)

// FriendRequest is a directed invitation from one user to another
type FriendRequest struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Joined counterpart info for list views
	User *UserInfo `json:"user,omitempty"`
}

// Friendship is symmetric and stored once per pair, smaller id first
type Friendship struct {
	UserID1   int64     `json:"user_id_1" db:"user_id_1"`
	UserID2   int64     `json:"user_id_2" db:"user_id_2"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserInfo is the display payload joined onto requests and friend lists
type UserInfo struct {
	ID          int64   `json:"id" db:"id"`
	PublicID    string  `json:"public_id" db:"public_id"`
	Username    string  `json:"username" db:"username"`
	DisplayName *string `json:"display_name,omitempty" db:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty" db:"avatar_url"`
}

// Friend is one entry in a user's friend list
type Friend struct {
	UserInfo
	FriendsSince time.Time `json:"friends_since" db:"friends_since"`
}

// PendingRequests groups a user's open requests by direction
type PendingRequests struct {
	Incoming []*FriendRequest `json:"incoming"`
	Outgoing []*FriendRequest `json:"outgoing"`
}

// NormalizePair returns the two user ids in canonical storage order
// (smaller first). Every friendship write goes through this so the
// (a,b)/(b,a) pair can never produce two rows.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
