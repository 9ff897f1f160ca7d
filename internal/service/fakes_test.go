package service

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/media"
)

type fakeItineraryRepo struct {
	mu        sync.Mutex
	trips     []domain.SavedTrip
	createErr error
	findErr   error
	creates   int
}

func (f *fakeItineraryRepo) Create(_ context.Context, userID uuid.UUID, destination string, data domain.Document) (*domain.SavedTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	trip := domain.SavedTrip{
		ID:            uuid.New(),
		UserID:        userID,
		Destination:   destination,
		ItineraryData: data,
		CreatedAt:     time.Now().Add(time.Duration(len(f.trips)) * time.Second),
	}
	f.trips = append(f.trips, trip)
	return &trip, nil
}

func (f *fakeItineraryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.SavedTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SavedTrip, 0)
	for _, t := range f.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeItineraryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.SavedTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, t := range f.trips {
		if t.ID == id {
			trip := t
			return &trip, nil
		}
	}
	return nil, sql.ErrNoRows
}

// fakeProfileRepo enforces the unique username constraint like Postgres does.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
	upserts  int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]domain.Profile{}}
}

func (f *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if update.Username != nil && *update.Username != "" {
		for other, p := range f.profiles {
			if other != id && p.Username != nil && *p.Username == *update.Username {
				return nil, &pgconn.PgError{Code: "23505", ConstraintName: "profiles_username_key"}
			}
		}
	}
	p := f.profiles[id]
	p.ID = id
	if update.Username != nil {
		if *update.Username == "" {
			p.Username = nil
		} else {
			v := *update.Username
			p.Username = &v
		}
	}
	if update.FullName != nil {
		v := *update.FullName
		p.FullName = &v
	}
	if update.AvatarURL != nil {
		v := *update.AvatarURL
		p.AvatarURL = &v
	}
	now := time.Now()
	p.UpdatedAt = &now
	f.profiles[id] = p
	return &p, nil
}

func (f *fakeProfileRepo) EnsureExists(_ context.Context, id uuid.UUID, fullName, avatarURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[id]; ok {
		return nil
	}
	f.profiles[id] = domain.Profile{ID: id, FullName: fullName, AvatarURL: avatarURL}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserRepo) UpsertByProvider(_ context.Context, provider, subject, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Provider == provider && u.ProviderSubject == subject {
			if email != "" {
				u.Email = email
			}
			return u, nil
		}
	}
	u := &domain.User{ID: uuid.New(), Email: email, Provider: provider, ProviderSubject: subject, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s := &domain.Session{ID: f.nextID, UserID: userID, TokenHash: tokenHash, CreatedAt: time.Now(), ExpiresAt: expiresAt, IsActive: true}
	f.sessions[tokenHash] = s
	return s, nil
}

func (f *fakeSessionRepo) DeactivateSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[tokenHash]; ok {
		s.IsActive = false
	}
	return nil
}

func (f *fakeSessionRepo) FindActiveSession(_ context.Context, tokenHash string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[tokenHash]
	if !ok || !s.IsActive || time.Now().After(s.ExpiresAt) {
		return nil, sql.ErrNoRows
	}
	found := *s
	return &found, nil
}

type fakeStorage struct {
	bucket      string
	objectName  string
	contentType string
	body        []byte
	err         error
}

func (f *fakeStorage) Upload(_ context.Context, bucket, objectName, contentType string, reader io.Reader, _ int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.bucket, f.objectName, f.contentType, f.body = bucket, objectName, contentType, data
	return "https://cdn.example.com/" + bucket + "/" + objectName, nil
}

type stubImageProcessor struct {
	output      []byte
	contentType string
	err         error

	calls    int
	last     media.Upload
	lastCrop *media.Crop
	lastSize int
}

func (s *stubImageProcessor) Process(_ context.Context, upload media.Upload, crop *media.Crop, size int) (*media.Result, error) {
	s.calls++
	s.last = upload
	s.lastCrop = crop
	s.lastSize = size
	if s.err != nil {
		return nil, s.err
	}
	ct := s.contentType
	if ct == "" {
		ct = upload.ContentType
	}
	return &media.Result{
		Bytes:       append([]byte(nil), s.output...),
		ContentType: ct,
		Resized:     true,
	}, nil
}

// memoryJar is a CookieJar over a map; readOnly drops writes.
type memoryJar struct {
	values   map[string]string
	opts     map[string]CookieOptions
	readOnly bool
	writes   int
}

func newMemoryJar() *memoryJar {
	return &memoryJar{values: map[string]string{}, opts: map[string]CookieOptions{}}
}

func (j *memoryJar) Read(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *memoryJar) Write(name, value string, opts CookieOptions) {
	if j.readOnly {
		return
	}
	j.writes++
	j.values[name] = value
	j.opts[name] = opts
}

func (j *memoryJar) Clear(name string, opts CookieOptions) {
	if j.readOnly {
		return
	}
	j.writes++
	delete(j.values, name)
	j.opts[name] = opts
}
