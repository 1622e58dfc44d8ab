package match

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/damilolaoke/carelink-backend/internal/social"
)

type Repository interface {
	// Profiles
	HasProfile(ctx context.Context, userID int64) (bool, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, userID int64) (*Profile, error)

	// Candidates
	FindCandidates(ctx context.Context, userID int64, excludeIDs []int64) ([]*Candidate, error)

	// Interactions
	RecordLike(ctx context.Context, userID, targetUserID int64) (bool, error)
	RecordSkip(ctx context.Context, userID, targetUserID int64) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const hobbyColumns = `hiking, gardening, board_games, singing, reading, walking, cooking, movies, tai_chi`

func (r *postgresRepository) HasProfile(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM match_profiles WHERE user_id = $1)`
	err := r.db.GetContext(ctx, &exists, query, userID)
	return exists, err
}

func (r *postgresRepository) CreateProfile(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO match_profiles (user_id, bio, ` + hobbyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING last_updated
	`
	h := p.Hobbies
	err := r.db.QueryRowxContext(ctx, query,
		p.UserID, p.Bio,
		h.Hiking, h.Gardening, h.BoardGames, h.Singing, h.Reading,
		h.Walking, h.Cooking, h.Movies, h.TaiChi,
	).Scan(&p.LastUpdated)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrProfileExists
	}
	return err
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, p *Profile) error {
	query := `
		UPDATE match_profiles
		SET bio = $2, hiking = $3, gardening = $4, board_games = $5,
		    singing = $6, reading = $7, walking = $8, cooking = $9,
		    movies = $10, tai_chi = $11, last_updated = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`
	h := p.Hobbies
	res, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Bio,
		h.Hiking, h.Gardening, h.BoardGames, h.Singing, h.Reading,
		h.Walking, h.Cooking, h.Movies, h.TaiChi,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	query := `
		SELECT user_id, bio, ` + hobbyColumns + `, last_updated
		FROM match_profiles
		WHERE user_id = $1
	`
	var p Profile
	h := &p.Hobbies
	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&p.UserID, &p.Bio,
		&h.Hiking, &h.Gardening, &h.BoardGames, &h.Singing, &h.Reading,
		&h.Walking, &h.Cooking, &h.Movies, &h.TaiChi,
		&p.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match profile: %w", err)
	}
	return &p, nil
}

// FindCandidates returns every other profile the caller has not interacted
// with and is not friends with, joined with display info. A liked target is
// excluded the same as a skipped one. excludeIDs adds the caller-supplied
// exclusion list on top of what the query already filters.
func (r *postgresRepository) FindCandidates(ctx context.Context, userID int64, excludeIDs []int64) ([]*Candidate, error) {
	query := `
		SELECT mp.user_id, u.username, u.display_name, u.avatar_url,
		       mp.bio, mp.` + hobbyColumns + `, mp.last_updated
		FROM match_profiles mp
		JOIN users u ON u.id = mp.user_id
		WHERE mp.user_id != $1
		  AND mp.user_id != ALL($2)
		  AND NOT EXISTS (
		      SELECT 1 FROM match_interactions mi
		      WHERE mi.user_id = $1 AND mi.target_user_id = mp.user_id
		  )
		  AND NOT EXISTS (
		      SELECT 1 FROM friendships f
		      WHERE (f.user_id_1 = $1 AND f.user_id_2 = mp.user_id)
		         OR (f.user_id_1 = mp.user_id AND f.user_id_2 = $1)
		  )
	`
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	rows, err := r.db.QueryxContext(ctx, query, userID, pq.Array(excludeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	defer rows.Close()

	candidates := []*Candidate{}
	for rows.Next() {
		var c Candidate
		h := &c.Hobbies
		if err := rows.Scan(
			&c.UserID, &c.Username, &c.DisplayName, &c.AvatarURL, &c.Bio,
			&h.Hiking, &h.Gardening, &h.BoardGames, &h.Singing, &h.Reading,
			&h.Walking, &h.Cooking, &h.Movies, &h.TaiChi,
			&c.LastUpdated,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// RecordLike upserts the directed like and completes the match when the
// reciprocal like exists, all inside one transaction: both interaction rows
// flip to matched and the canonical friendship row is ensured before commit,
// so a concurrent reader can never observe a half-applied match. The pair
// takes an advisory lock before either row is written, which serializes two
// users liking each other at the same instant; the second writer sees the
// first writer's committed row and completes the match.
func (r *postgresRepository) RecordLike(ctx context.Context, userID, targetUserID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// lock the pair, not the row: under read committed each side's upsert
	// is invisible to the other until commit, so row locks alone let two
	// simultaneous likes both miss the reciprocal row
	_, err = tx.ExecContext(ctx, `
		SELECT pg_advisory_xact_lock(LEAST($1, $2)::int, GREATEST($1, $2)::int)
	`, userID, targetUserID)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO match_interactions (user_id, target_user_id, status)
		VALUES ($1, $2, 'liked')
		ON CONFLICT (user_id, target_user_id)
		DO UPDATE SET status = 'liked', updated_at = CURRENT_TIMESTAMP
	`, userID, targetUserID)
	if err != nil {
		return false, err
	}

	var reciprocal string
	err = tx.GetContext(ctx, &reciprocal, `
		SELECT status FROM match_interactions
		WHERE user_id = $1 AND target_user_id = $2
		FOR UPDATE
	`, targetUserID, userID)
	if err == sql.ErrNoRows {
		return false, tx.Commit()
	}
	if err != nil {
		return false, err
	}

	// a reciprocal row already in matched state means the pair matched
	// earlier and this is a re-like; flipping again keeps it idempotent
	if reciprocal != InteractionLiked && reciprocal != InteractionMatched {
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE match_interactions
		SET status = 'matched', updated_at = CURRENT_TIMESTAMP
		WHERE (user_id = $1 AND target_user_id = $2)
		   OR (user_id = $2 AND target_user_id = $1)
	`, userID, targetUserID)
	if err != nil {
		return false, err
	}

	if err := social.EnsureFriendship(ctx, tx, userID, targetUserID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// RecordSkip upserts the directed skip. A skip never demotes an interaction
// that already reached matched.
func (r *postgresRepository) RecordSkip(ctx context.Context, userID, targetUserID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO match_interactions (user_id, target_user_id, status)
		VALUES ($1, $2, 'skipped')
		ON CONFLICT (user_id, target_user_id)
		DO UPDATE SET status = 'skipped', updated_at = CURRENT_TIMESTAMP
		WHERE match_interactions.status != 'matched'
	`, userID, targetUserID)
	return err
}
