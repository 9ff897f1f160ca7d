package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/media"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfileRequiresSession(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeStorage{}, ProfileServiceConfig{})

	_, err := svc.UpdateProfile(context.Background(), nil, domain.ProfileUpdate{Username: strPtr("x")})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no write")
	}
}

func TestUpdateProfileUsernameConflictLeavesRowsUnchanged(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeStorage{}, ProfileServiceConfig{})
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	if _, err := svc.UpdateProfile(ctx, &alice, domain.ProfileUpdate{Username: strPtr("wanderer"), FullName: strPtr("Alice")}); err != nil {
		t.Fatalf("alice update failed: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, &bob, domain.ProfileUpdate{Username: strPtr("bobby"), FullName: strPtr("Bob")}); err != nil {
		t.Fatalf("bob update failed: %v", err)
	}

	_, err := svc.UpdateProfile(ctx, &bob, domain.ProfileUpdate{Username: strPtr(" wanderer "), FullName: strPtr("Bob Changed")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if domain.MessageOf(err, "") != "This username is already taken. Please choose another." {
		t.Fatalf("unexpected message %q", domain.MessageOf(err, ""))
	}

	a, _ := repo.FindByID(ctx, alice)
	b, _ := repo.FindByID(ctx, bob)
	if *a.Username != "wanderer" || *a.FullName != "Alice" {
		t.Fatalf("alice changed: %+v", a)
	}
	if *b.Username != "bobby" || *b.FullName != "Bob" {
		t.Fatalf("bob changed: %+v", b)
	}
}

func TestUpdateProfileKeepsOmittedFields(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo, &fakeStorage{}, ProfileServiceConfig{})
	ctx := context.Background()
	owner := uuid.New()

	_, _ = svc.UpdateProfile(ctx, &owner, domain.ProfileUpdate{Username: strPtr("nomad"), FullName: strPtr("N")})
	p, err := svc.UpdateProfile(ctx, &owner, domain.ProfileUpdate{FullName: strPtr("")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if p.Username == nil || *p.Username != "nomad" {
		t.Fatalf("username should be kept, got %v", p.Username)
	}
	if p.FullName == nil || *p.FullName != "" {
		t.Fatalf("empty full name should be stored as given, got %v", p.FullName)
	}
	if p.UpdatedAt == nil {
		t.Fatalf("expected updated_at stamp")
	}
}

func TestUpdateProfileValidatesLengths(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeStorage{}, ProfileServiceConfig{})
	owner := uuid.New()
	long := strings.Repeat("a", maxUsernameLength+1)
	if _, err := svc.UpdateProfile(context.Background(), &owner, domain.ProfileUpdate{Username: &long}); !errors.Is(err, ErrUsernameTooLong) {
		t.Fatalf("expected too long, got %v", err)
	}
}

func TestGetProfileWithoutRowReturnsEmpty(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeStorage{}, ProfileServiceConfig{})
	owner := uuid.New()
	p, err := svc.GetProfile(context.Background(), &owner)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if p.ID != owner || p.Username != nil {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestUploadAvatarStoresUnderOwnerPath(t *testing.T) {
	repo := newFakeProfileRepo()
	storage := &fakeStorage{}
	processor := &stubImageProcessor{output: []byte("cropped"), contentType: "image/jpeg"}
	svc := NewProfileService(repo, storage, ProfileServiceConfig{Bucket: "avatars", AvatarSize: 128, ImageProcessor: processor})
	owner := uuid.New()
	crop := &media.Crop{X: 1, Y: 2, Width: 30, Height: 30}

	profile, err := svc.UploadAvatar(context.Background(), &owner, media.Upload{
		Reader:      bytes.NewReader([]byte("original")),
		Size:        8,
		FileName:    "holiday.webp",
		ContentType: "image/webp",
	}, crop)
	if err != nil {
		t.Fatalf("UploadAvatar returned error: %v", err)
	}

	if storage.bucket != "avatars" || storage.objectName != owner.String()+"/holiday.jpg" {
		t.Fatalf("unexpected object %s/%s", storage.bucket, storage.objectName)
	}
	if storage.contentType != "image/jpeg" || string(storage.body) != "cropped" {
		t.Fatalf("unexpected stored content %s %q", storage.contentType, storage.body)
	}
	if processor.lastCrop != crop || processor.lastSize != 128 {
		t.Fatalf("processor got crop %v size %d", processor.lastCrop, processor.lastSize)
	}
	want := "https://cdn.example.com/avatars/" + owner.String() + "/holiday.jpg"
	if profile.AvatarURL == nil || *profile.AvatarURL != want {
		t.Fatalf("expected avatar url %s, got %v", want, profile.AvatarURL)
	}
}

func TestUploadAvatarRejectsBadInput(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewProfileService(newFakeProfileRepo(), storage, ProfileServiceConfig{MaxAvatarBytes: 4})
	owner := uuid.New()
	ctx := context.Background()

	if _, err := svc.UploadAvatar(ctx, nil, media.Upload{Reader: strings.NewReader("x")}, nil); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := svc.UploadAvatar(ctx, &owner, media.Upload{Reader: strings.NewReader("12345"), Size: 5, ContentType: "image/png"}, nil); !errors.Is(err, ErrAvatarTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if _, err := svc.UploadAvatar(ctx, &owner, media.Upload{Reader: strings.NewReader("x"), Size: 1, FileName: "notes.txt"}, nil); !errors.Is(err, ErrAvatarUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	if storage.objectName != "" {
		t.Fatalf("expected nothing uploaded")
	}
}

func TestUploadAvatarRejectsOversizedImage(t *testing.T) {
	storage := &fakeStorage{}
	processor := &stubImageProcessor{err: fmt.Errorf("%w: 12000x12000", media.ErrTooManyPixels)}
	svc := NewProfileService(newFakeProfileRepo(), storage, ProfileServiceConfig{ImageProcessor: processor})
	owner := uuid.New()

	_, err := svc.UploadAvatar(context.Background(), &owner, media.Upload{Reader: strings.NewReader("png"), Size: 3, FileName: "bomb.png"}, nil)
	if !errors.Is(err, ErrAvatarTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if storage.objectName != "" {
		t.Fatalf("expected nothing uploaded")
	}
}

func TestUploadAvatarStorageFailure(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), &fakeStorage{err: errors.New("bucket missing")}, ProfileServiceConfig{})
	owner := uuid.New()
	_, err := svc.UploadAvatar(context.Background(), &owner, media.Upload{Reader: strings.NewReader("x"), Size: 1, ContentType: "image/png", FileName: "a.png"}, nil)
	if !errors.Is(err, ErrAvatarUpload) {
		t.Fatalf("expected upload error, got %v", err)
	}
}
