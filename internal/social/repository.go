package social

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	// Users
	ResolveUserByPublicID(ctx context.Context, publicID string) (*UserInfo, error)

	// Friend requests
	CreateRequest(ctx context.Context, req *FriendRequest) error
	GetRequest(ctx context.Context, id int64) (*FriendRequest, error)
	GetRequestBetween(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error)
	AcceptRequest(ctx context.Context, req *FriendRequest) error
	RejectRequest(ctx context.Context, requestID int64) error
	DeletePendingRequest(ctx context.Context, requestID, senderID int64) (bool, error)
	ListPendingRequests(ctx context.Context, userID int64) (*PendingRequests, error)

	// Friendships
	FriendshipExists(ctx context.Context, a, b int64) (bool, error)
	ListFriends(ctx context.Context, userID int64) ([]*Friend, error)
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	RemoveFriend(ctx context.Context, a, b int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// EnsureFriendship inserts the canonical friendship row for a pair if it is
// not already present. It accepts any sqlx executor so callers can run it
// inside their own transaction (request acceptance here, reciprocal match
// completion in the match package).
func EnsureFriendship(ctx context.Context, q sqlx.ExtContext, a, b int64) error {
	lo, hi := NormalizePair(a, b)
	_, err := q.ExecContext(ctx, `
		INSERT INTO friendships (user_id_1, user_id_2)
		VALUES ($1, $2)
		ON CONFLICT (user_id_1, user_id_2) DO NOTHING
	`, lo, hi)
	return err
}

func (r *postgresRepository) ResolveUserByPublicID(ctx context.Context, publicID string) (*UserInfo, error) {
	var user UserInfo
	query := `
		SELECT id, public_id, username, display_name, avatar_url
		FROM users
		WHERE public_id = $1
	`
	err := r.db.GetContext(ctx, &user, query, publicID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	return &user, nil
}

func (r *postgresRepository) CreateRequest(ctx context.Context, req *FriendRequest) error {
	query := `
		INSERT INTO friend_requests (sender_id, receiver_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, status, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, req.SenderID, req.ReceiverID).
		Scan(&req.ID, &req.Status, &req.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		// the partial unique index on the unordered pending pair caught a
		// concurrent duplicate
		return ErrRequestPending
	}
	return err
}

func (r *postgresRepository) GetRequest(ctx context.Context, id int64) (*FriendRequest, error) {
	var req FriendRequest
	query := `
		SELECT id, sender_id, receiver_id, status, created_at
		FROM friend_requests
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &req, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}
	return &req, nil
}

// GetRequestBetween returns the request from senderID to receiverID in that
// direction only, or nil when none exists.
func (r *postgresRepository) GetRequestBetween(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
	var req FriendRequest
	query := `
		SELECT id, sender_id, receiver_id, status, created_at
		FROM friend_requests
		WHERE sender_id = $1 AND receiver_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &req, query, senderID, receiverID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up friend request: %w", err)
	}
	return &req, nil
}

// AcceptRequest marks the request accepted and creates the friendship in one
// transaction, so no reader can observe one without the other.
func (r *postgresRepository) AcceptRequest(ctx context.Context, req *FriendRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE friend_requests
		SET status = 'accepted'
		WHERE id = $1 AND status = 'pending'
	`, req.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRequestNotFound
	}

	if err := EnsureFriendship(ctx, tx, req.SenderID, req.ReceiverID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) RejectRequest(ctx context.Context, requestID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE friend_requests
		SET status = 'rejected'
		WHERE id = $1 AND status = 'pending'
	`, requestID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *postgresRepository) DeletePendingRequest(ctx context.Context, requestID, senderID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM friend_requests
		WHERE id = $1 AND sender_id = $2 AND status = 'pending'
	`, requestID, senderID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *postgresRepository) ListPendingRequests(ctx context.Context, userID int64) (*PendingRequests, error) {
	incoming, err := r.listPendingByDirection(ctx, userID, "receiver_id", "sender_id")
	if err != nil {
		return nil, err
	}
	outgoing, err := r.listPendingByDirection(ctx, userID, "sender_id", "receiver_id")
	if err != nil {
		return nil, err
	}
	return &PendingRequests{Incoming: incoming, Outgoing: outgoing}, nil
}

func (r *postgresRepository) listPendingByDirection(ctx context.Context, userID int64, ownCol, otherCol string) ([]*FriendRequest, error) {
	query := fmt.Sprintf(`
		SELECT fr.id, fr.sender_id, fr.receiver_id, fr.status, fr.created_at,
		       u.id as "user.id", u.public_id as "user.public_id",
		       u.username as "user.username", u.display_name as "user.display_name",
		       u.avatar_url as "user.avatar_url"
		FROM friend_requests fr
		JOIN users u ON fr.%s = u.id
		WHERE fr.%s = $1 AND fr.status = 'pending'
		ORDER BY fr.created_at DESC
	`, otherCol, ownCol)

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	requests := []*FriendRequest{}
	for rows.Next() {
		var req FriendRequest
		var user UserInfo
		if err := rows.Scan(
			&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt,
			&user.ID, &user.PublicID, &user.Username, &user.DisplayName, &user.AvatarURL,
		); err != nil {
			return nil, err
		}
		req.User = &user
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

func (r *postgresRepository) FriendshipExists(ctx context.Context, a, b int64) (bool, error) {
	lo, hi := NormalizePair(a, b)
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE user_id_1 = $1 AND user_id_2 = $2
		)
	`
	err := r.db.GetContext(ctx, &exists, query, lo, hi)
	return exists, err
}

func (r *postgresRepository) ListFriends(ctx context.Context, userID int64) ([]*Friend, error) {
	query := `
		SELECT u.id, u.public_id, u.username, u.display_name, u.avatar_url,
		       f.created_at as friends_since
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_id_1 = $1 THEN f.user_id_2 ELSE f.user_id_1 END
		WHERE f.user_id_1 = $1 OR f.user_id_2 = $1
		ORDER BY f.created_at DESC
	`
	friends := []*Friend{}
	if err := r.db.SelectContext(ctx, &friends, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	return friends, nil
}

func (r *postgresRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	query := `
		SELECT CASE WHEN user_id_1 = $1 THEN user_id_2 ELSE user_id_1 END
		FROM friendships
		WHERE user_id_1 = $1 OR user_id_2 = $1
	`
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	return ids, nil
}

// RemoveFriend deletes the friendship row and any accepted request between
// the pair in one transaction. Reports whether anything was deleted.
func (r *postgresRepository) RemoveFriend(ctx context.Context, a, b int64) (bool, error) {
	lo, hi := NormalizePair(a, b)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM friendships
		WHERE user_id_1 = $1 AND user_id_2 = $2
	`, lo, hi)
	if err != nil {
		return false, err
	}
	deleted, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
		DELETE FROM friend_requests
		WHERE status = 'accepted'
		  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
	`, lo, hi)
	if err != nil {
		return false, err
	}
	requestsDeleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return deleted+requestsDeleted > 0, nil
}
