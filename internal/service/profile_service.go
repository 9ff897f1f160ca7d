package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/media"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/ports"
)

const (
	usernameConstraint = "profiles_username_key"
	maxUsernameLength  = 50
	maxFullNameLength  = 120
	defaultAvatarBytes = 5 * 1024 * 1024
)

var (
	ErrProfileUnauthenticated = domain.NewError(domain.KindUnauthenticated, "You must be logged in to edit your profile.", nil)
	ErrUsernameTaken          = domain.NewError(domain.KindConflict, "This username is already taken. Please choose another.", nil)
	ErrUsernameTooLong        = domain.NewError(domain.KindValidation, fmt.Sprintf("Username must be at most %d characters.", maxUsernameLength), nil)
	ErrFullNameTooLong        = domain.NewError(domain.KindValidation, fmt.Sprintf("Full name must be at most %d characters.", maxFullNameLength), nil)
	ErrAvatarRequired         = domain.NewError(domain.KindValidation, "Please choose an image to upload.", nil)
	ErrAvatarTooLarge         = domain.NewError(domain.KindValidation, "Avatar image is too large.", nil)
	ErrAvatarUnsupportedType  = domain.NewError(domain.KindValidation, "Avatar must be a JPEG, PNG, GIF or WebP image.", nil)
	ErrAvatarUpload           = domain.NewError(domain.KindStore, "Failed to upload avatar.", nil)
)

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ProfileServiceConfig struct {
	Bucket         string
	MaxAvatarBytes int64
	AvatarSize     int
	ImageProcessor media.Processor
}

type ProfileService struct {
	profiles       ports.ProfileRepository
	storage        ports.ObjectStorage
	bucket         string
	maxAvatarBytes int64
	avatarSize     int
	processor      media.Processor
}

func NewProfileService(profiles ports.ProfileRepository, storage ports.ObjectStorage, cfg ProfileServiceConfig) *ProfileService {
	maxBytes := cfg.MaxAvatarBytes
	if maxBytes <= 0 {
		maxBytes = defaultAvatarBytes
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "avatars"
	}
	return &ProfileService{
		profiles:       profiles,
		storage:        storage,
		bucket:         bucket,
		maxAvatarBytes: maxBytes,
		avatarSize:     cfg.AvatarSize,
		processor:      cfg.ImageProcessor,
	}
}

// GetProfile returns the owner's profile, or an empty one if no row exists yet.
func (s *ProfileService) GetProfile(ctx context.Context, ownerID *uuid.UUID) (*domain.Profile, error) {
	if ownerID == nil || *ownerID == uuid.Nil {
		return nil, ErrProfileUnauthenticated
	}
	profile, err := s.profiles.FindByID(ctx, *ownerID)
	if err != nil {
		if isNotFound(err) {
			return &domain.Profile{ID: *ownerID}, nil
		}
		return nil, storeError("Failed to load profile.", err)
	}
	return profile, nil
}

// UpdateProfile writes the provided fields. A username owned by someone
// else yields ErrUsernameTaken and leaves every row unchanged.
func (s *ProfileService) UpdateProfile(ctx context.Context, ownerID *uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	if ownerID == nil || *ownerID == uuid.Nil {
		return nil, ErrProfileUnauthenticated
	}
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if utf8.RuneCountInString(trimmed) > maxUsernameLength {
			return nil, ErrUsernameTooLong
		}
		update.Username = &trimmed
	}
	if update.FullName != nil && utf8.RuneCountInString(*update.FullName) > maxFullNameLength {
		return nil, ErrFullNameTooLong
	}

	profile, err := s.profiles.Upsert(ctx, *ownerID, update)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && (constraint == usernameConstraint || constraint == "") {
			return nil, ErrUsernameTaken.Wrap(err)
		}
		return nil, storeError("Failed to update profile.", err)
	}
	return profile, nil
}

// UploadAvatar crops and stores an image under <owner id>/<file name> and
// records the public URL on the profile.
func (s *ProfileService) UploadAvatar(ctx context.Context, ownerID *uuid.UUID, upload media.Upload, crop *media.Crop) (*domain.Profile, error) {
	if ownerID == nil || *ownerID == uuid.Nil {
		return nil, ErrProfileUnauthenticated
	}
	if upload.Reader == nil {
		return nil, ErrAvatarRequired
	}
	if upload.Size > s.maxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}
	upload.ContentType = media.NormalizeContentType(upload.ContentType, upload.FileName)
	if !allowedAvatarTypes[upload.ContentType] {
		return nil, ErrAvatarUnsupportedType
	}

	reader, size, contentType, err := prepareImageForUpload(ctx, s.processor, upload, crop, s.avatarSize)
	if errors.Is(err, media.ErrTooManyPixels) {
		return nil, ErrAvatarTooLarge
	}
	if err != nil {
		return nil, domain.NewError(domain.KindValidation, "Could not read the uploaded image.", err)
	}

	objectName := avatarObjectName(*ownerID, upload.FileName, contentType, s.processor != nil)
	url, err := s.storage.Upload(ctx, s.bucket, objectName, contentType, reader, size)
	if err != nil {
		return nil, ErrAvatarUpload.Wrap(err)
	}

	return s.UpdateProfile(ctx, ownerID, domain.ProfileUpdate{AvatarURL: &url})
}

func avatarObjectName(ownerID uuid.UUID, fileName, contentType string, reencoded bool) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "avatar"
	}
	if reencoded {
		base = strings.TrimSuffix(base, path.Ext(base)) + media.ExtensionFor(contentType)
	}
	return fmt.Sprintf("%s/%s", ownerID, base)
}
