package match

import "time"

// Interaction statuses for a single directed (user, target) pair
const (
	InteractionLiked   = "liked"
	InteractionSkipped = "skipped"
	InteractionMatched = "matched"
)

// Hobbies is the fixed set of interest flags on every companion profile.
// Scoring counts flags that are true on both sides; a flag only one side
// holds contributes nothing.
type Hobbies struct {
	Hiking     bool `json:"hiking" db:"hiking"`
	Gardening  bool `json:"gardening" db:"gardening"`
	BoardGames bool `json:"board_games" db:"board_games"`
	Singing    bool `json:"singing" db:"singing"`
	Reading    bool `json:"reading" db:"reading"`
	Walking    bool `json:"walking" db:"walking"`
	Cooking    bool `json:"cooking" db:"cooking"`
	Movies     bool `json:"movies" db:"movies"`
	TaiChi     bool `json:"tai_chi" db:"tai_chi"`
}

func (h Hobbies) flags() [9]bool {
	return [9]bool{
		h.Hiking, h.Gardening, h.BoardGames, h.Singing, h.Reading,
		h.Walking, h.Cooking, h.Movies, h.TaiChi,
	}
}

// Profile is a user's companion-matching profile, one per user
type Profile struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Bio         string    `json:"bio" db:"bio"`
	Hobbies     Hobbies   `json:"hobbies"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// Interaction records one user's disposition toward a candidate. At most one
// row exists per ordered (UserID, TargetUserID) pair; a new action on the
// same pair overwrites the old status.
type Interaction struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	TargetUserID int64     `json:"target_user_id" db:"target_user_id"`
	Status       string    `json:"status" db:"status"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Candidate is a scoreable profile joined with its owner's display info
type Candidate struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Username    string    `json:"username" db:"username"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio         string    `json:"bio" db:"bio"`
	Hobbies     Hobbies   `json:"hobbies"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// ScoredCandidate is a candidate with its hobby overlap against the caller
type ScoredCandidate struct {
	*Candidate
	Score int `json:"score"`
}
