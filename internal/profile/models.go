// internal/profile/models.go

package profile

import "time"

// CareProfile is the caller-facing view of their own profile.
// Care fields live on the users table alongside the account columns.
type CareProfile struct {
	UserID        int64      `db:"id" json:"-"`
	PublicID      string     `db:"public_id" json:"public_id"`
	Username      string     `db:"username" json:"username"`
	DisplayName   string     `db:"display_name" json:"display_name"`
	Bio           *string    `db:"bio" json:"bio,omitempty"`
	DateOfBirth   *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	City          *string    `db:"city" json:"city,omitempty"`
	MobilityNotes *string    `db:"mobility_notes" json:"mobility_notes,omitempty"`
	AvatarURL     *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// PublicProfile is what other users see on friend lists and match cards
type PublicProfile struct {
	PublicID    string  `db:"public_id" json:"public_id"`
	Username    string  `db:"username" json:"username"`
	DisplayName string  `db:"display_name" json:"display_name"`
	Bio         *string `db:"bio" json:"bio,omitempty"`
	City        *string `db:"city" json:"city,omitempty"`
	AvatarURL   *string `db:"avatar_url" json:"avatar_url,omitempty"`
}

// UpdateProfileRequest carries a full profile update
type UpdateProfileRequest struct {
	DisplayName   string  `json:"display_name" validate:"required,min=1,max=100"`
	Bio           *string `json:"bio" validate:"omitempty,max=1000"`
	DateOfBirth   *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Phone         *string `json:"phone" validate:"omitempty,e164"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	MobilityNotes *string `json:"mobility_notes" validate:"omitempty,max=2000"`
}
