// internal/match/dto.go
package match

// ProfileInput is the request body for profile create and update. Every
// hobby flag is full-replace: a flag absent from the body decodes to false
// and is stored as false, same as on create.
type ProfileInput struct {
	Bio        string `json:"bio" validate:"max=1000"`
	Hiking     bool   `json:"hiking"`
	Gardening  bool   `json:"gardening"`
	BoardGames bool   `json:"board_games"`
	Singing    bool   `json:"singing"`
	Reading    bool   `json:"reading"`
	Walking    bool   `json:"walking"`
	Cooking    bool   `json:"cooking"`
	Movies     bool   `json:"movies"`
	TaiChi     bool   `json:"tai_chi"`
}

func (in *ProfileInput) toProfile(userID int64) *Profile {
	return &Profile{
		UserID: userID,
		Bio:    in.Bio,
		Hobbies: Hobbies{
			Hiking:     in.Hiking,
			Gardening:  in.Gardening,
			BoardGames: in.BoardGames,
			Singing:    in.Singing,
			Reading:    in.Reading,
			Walking:    in.Walking,
			Cooking:    in.Cooking,
			Movies:     in.Movies,
			TaiChi:     in.TaiChi,
		},
	}
}

// LikeResult is the response body for a like action
type LikeResult struct {
	Matched bool `json:"matched"`
}
