// internal/alerts/repository.go
// Postgres persistence for alerts and caregiver contacts

package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines alert storage operations
type Repository interface {
	CreateContact(ctx context.Context, contact *CaregiverContact) error
	ListContacts(ctx context.Context, userID int64) ([]*CaregiverContact, error)
	GetContact(ctx context.Context, userID, contactID int64) (*CaregiverContact, error)
	UpdateContact(ctx context.Context, contact *CaregiverContact) error
	DeleteContact(ctx context.Context, userID, contactID int64) (bool, error)

	CreateAlert(ctx context.Context, alert *Alert) error
	GetAlert(ctx context.Context, alertID int64) (*Alert, error)
	ResolveAlert(ctx context.Context, alertID, resolverID int64) (bool, error)
	ListAlerts(ctx context.Context, userID int64, limit int) ([]*Alert, error)
	IsCaregiverFor(ctx context.Context, caregiverUserID, userID int64) (bool, error)
	ResolveUserID(ctx context.Context, publicID string) (int64, string, error)
	CaregiverUserIDs(ctx context.Context, userID int64) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL alerts repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateContact(ctx context.Context, contact *CaregiverContact) error {
	query := `
		INSERT INTO caregiver_contacts (user_id, name, phone, email, notify_sms, notify_email, caregiver_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		contact.UserID, contact.Name, contact.Phone, contact.Email,
		contact.NotifySMS, contact.NotifyEmail, contact.CaregiverUserID,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListContacts(ctx context.Context, userID int64) ([]*CaregiverContact, error) {
	contacts := []*CaregiverContact{}
	query := `
		SELECT id, user_id, name, phone, email, notify_sms, notify_email, caregiver_user_id, created_at
		FROM caregiver_contacts
		WHERE user_id = $1
		ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (r *postgresRepository) GetContact(ctx context.Context, userID, contactID int64) (*CaregiverContact, error) {
	var contact CaregiverContact
	query := `
		SELECT id, user_id, name, phone, email, notify_sms, notify_email, caregiver_user_id, created_at
		FROM caregiver_contacts
		WHERE id = $1 AND user_id = $2`

	if err := r.db.GetContext(ctx, &contact, query, contactID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}

func (r *postgresRepository) UpdateContact(ctx context.Context, contact *CaregiverContact) error {
	query := `
		UPDATE caregiver_contacts
		SET name = $3, phone = $4, email = $5, notify_sms = $6, notify_email = $7, caregiver_user_id = $8
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		contact.ID, contact.UserID, contact.Name, contact.Phone, contact.Email,
		contact.NotifySMS, contact.NotifyEmail, contact.CaregiverUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *postgresRepository) DeleteContact(ctx context.Context, userID, contactID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM caregiver_contacts WHERE id = $1 AND user_id = $2`,
		contactID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}

	return rows > 0, nil
}

func (r *postgresRepository) CreateAlert(ctx context.Context, alert *Alert) error {
	query := `
		INSERT INTO alerts (user_id, message, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		alert.UserID, alert.Message, AlertActive,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	alert.Status = AlertActive

	return nil
}

func (r *postgresRepository) GetAlert(ctx context.Context, alertID int64) (*Alert, error) {
	var alert Alert
	query := `
		SELECT id, user_id, message, status, created_at, resolved_at, resolved_by
		FROM alerts
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &alert, query, alertID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return &alert, nil
}

func (r *postgresRepository) ResolveAlert(ctx context.Context, alertID, resolverID int64) (bool, error) {
	// Only flips active alerts; resolving twice is a no-op
	query := `
		UPDATE alerts
		SET status = $3, resolved_at = CURRENT_TIMESTAMP, resolved_by = $2
		WHERE id = $1 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, alertID, resolverID, AlertResolved, AlertActive)
	if err != nil {
		return false, fmt.Errorf("failed to resolve alert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check resolve result: %w", err)
	}

	return rows > 0, nil
}

func (r *postgresRepository) ListAlerts(ctx context.Context, userID int64, limit int) ([]*Alert, error) {
	alerts := []*Alert{}
	query := `
		SELECT id, user_id, message, status, created_at, resolved_at, resolved_by
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &alerts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

func (r *postgresRepository) IsCaregiverFor(ctx context.Context, caregiverUserID, userID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM caregiver_contacts
			WHERE user_id = $1 AND caregiver_user_id = $2
		)`

	if err := r.db.GetContext(ctx, &exists, query, userID, caregiverUserID); err != nil {
		return false, fmt.Errorf("failed to check caregiver link: %w", err)
	}

	return exists, nil
}

func (r *postgresRepository) ResolveUserID(ctx context.Context, publicID string) (int64, string, error) {
	var row struct {
		ID       int64  `db:"id"`
		Username string `db:"username"`
	}
	query := `SELECT id, username FROM users WHERE public_id = $1`

	if err := r.db.GetContext(ctx, &row, query, publicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrUserNotFound
		}
		return 0, "", fmt.Errorf("failed to resolve user: %w", err)
	}

	return row.ID, row.Username, nil
}

func (r *postgresRepository) CaregiverUserIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	query := `
		SELECT caregiver_user_id FROM caregiver_contacts
		WHERE user_id = $1 AND caregiver_user_id IS NOT NULL`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list caregiver users: %w", err)
	}

	return ids, nil
}
