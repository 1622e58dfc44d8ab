// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines profile storage operations
type Repository interface {
	GetProfile(ctx context.Context, userID int64) (*CareProfile, error)
	UpdateProfile(ctx context.Context, userID int64, p *CareProfile) error
	UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (previous *string, err error)
	GetPublicProfile(ctx context.Context, publicID string) (*PublicProfile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL profile repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*CareProfile, error) {
	var p CareProfile
	query := `
		SELECT id, public_id, username, display_name, bio, date_of_birth,
		       phone, city, mobility_notes, avatar_url, updated_at
		FROM users
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, p *CareProfile) error {
	query := `
		UPDATE users
		SET display_name = $2, bio = $3, date_of_birth = $4, phone = $5,
		    city = $6, mobility_notes = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		userID, p.DisplayName, p.Bio, p.DateOfBirth, p.Phone, p.City, p.MobilityNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *postgresRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*string, error) {
	var previous *string
	query := `
		SELECT avatar_url FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &previous, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_url = $2, updated_at = $3 WHERE id = $1`,
		userID, avatarURL, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return previous, nil
}

func (r *postgresRepository) GetPublicProfile(ctx context.Context, publicID string) (*PublicProfile, error) {
	var p PublicProfile
	query := `
		SELECT public_id, username, display_name, bio, city, avatar_url
		FROM users
		WHERE public_id = $1`

	if err := r.db.GetContext(ctx, &p, query, publicID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get public profile: %w", err)
	}

	return &p, nil
}
