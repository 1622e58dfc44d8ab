// internal/profile/service.go
// Care profile reads/updates and avatar uploads

package profile

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidImage    = errors.New("unsupported image type")
)

// MaxAvatarSize caps avatar uploads at 5 MB
const MaxAvatarSize = 5 << 20

// Service defines profile operations
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*CareProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*CareProfile, error)
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error)
	GetPublicProfile(ctx context.Context, publicID string) (*PublicProfile, error)
}

type service struct {
	repo   Repository
	upload UploadService
}

// NewService creates a new profile service
func NewService(repo Repository, upload UploadService) Service {
	return &service{repo: repo, upload: upload}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*CareProfile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*CareProfile, error) {
	p := &CareProfile{
		DisplayName:   req.DisplayName,
		Bio:           req.Bio,
		Phone:         req.Phone,
		City:          req.City,
		MobilityNotes: req.MobilityNotes,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date of birth: %w", err)
		}
		p.DateOfBirth = &dob
	}

	if err := s.repo.UpdateProfile(ctx, userID, p); err != nil {
		return nil, err
	}

	return s.repo.GetProfile(ctx, userID)
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (s *service) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	if !allowedImageTypes[header.Header.Get("Content-Type")] {
		return "", ErrInvalidImage
	}

	url, err := s.upload.UploadFile(ctx, file, header, "avatars")
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	previous, err := s.repo.UpdateAvatar(ctx, userID, url)
	if err != nil {
		// Storage update failed; remove the orphaned upload
		s.upload.DeleteFile(ctx, url)
		return "", err
	}

	if previous != nil && *previous != "" {
		s.upload.DeleteFile(ctx, *previous)
	}

	return url, nil
}

func (s *service) GetPublicProfile(ctx context.Context, publicID string) (*PublicProfile, error) {
	return s.repo.GetPublicProfile(ctx, publicID)
}
