package http

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
)

const testSiteURL = "http://localhost:3000"

type fakeItineraryRepo struct {
	mu      sync.Mutex
	trips   []domain.SavedTrip
	creates int
}

func (f *fakeItineraryRepo) Create(_ context.Context, userID uuid.UUID, destination string, data domain.Document) (*domain.SavedTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	trip := domain.SavedTrip{ID: uuid.New(), UserID: userID, Destination: destination, ItineraryData: data, CreatedAt: time.Now()}
	f.trips = append([]domain.SavedTrip{trip}, f.trips...)
	return &trip, nil
}

func (f *fakeItineraryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.SavedTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SavedTrip
	for _, t := range f.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeItineraryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.SavedTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.trips {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeProfileRepo struct{}

func (fakeProfileRepo) FindByID(context.Context, uuid.UUID) (*domain.Profile, error) {
	return nil, sql.ErrNoRows
}

func (fakeProfileRepo) Upsert(_ context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	return &domain.Profile{ID: id, Username: update.Username, FullName: update.FullName, AvatarURL: update.AvatarURL}, nil
}

func (fakeProfileRepo) EnsureExists(context.Context, uuid.UUID, *string, *string) error {
	return nil
}

type fakeSessionRepo struct {
	mu          sync.Mutex
	deactivated []string
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error) {
	return &domain.Session{ID: 1, UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, IsActive: true}, nil
}

func (f *fakeSessionRepo) DeactivateSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, tokenHash)
	return nil
}

func (f *fakeSessionRepo) FindActiveSession(context.Context, string) (*domain.Session, error) {
	return nil, sql.ErrNoRows
}

type fakeUserRepo struct{}

func (fakeUserRepo) UpsertByProvider(context.Context, string, string, string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (fakeUserRepo) FindByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

// fakeStreamer replays fragments and records the prompt it was given.
type fakeStreamer struct {
	fragments []string
	err       error
	prompt    string
}

func (f *fakeStreamer) Stream(_ context.Context, prompt string, emit func(string) error) error {
	f.prompt = prompt
	for _, fragment := range f.fragments {
		if err := emit(fragment); err != nil {
			return err
		}
	}
	return f.err
}

type testServer struct {
	e           *echo.Echo
	tokens      *util.JWTManager
	itineraries *fakeItineraryRepo
	sessions    *fakeSessionRepo
	streamer    *fakeStreamer
	renderer    *Renderer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	ts := &testServer{
		tokens:      util.NewJWTManager("test-secret", time.Hour),
		itineraries: &fakeItineraryRepo{},
		sessions:    &fakeSessionRepo{},
		streamer:    &fakeStreamer{},
	}

	sessionManager := service.NewSessionManager(ts.sessions, fakeUserRepo{}, ts.tokens, service.SessionManagerConfig{})
	itineraryService := service.NewItineraryService(ts.itineraries)
	profileService := service.NewProfileService(fakeProfileRepo{}, nil, service.ProfileServiceConfig{})
	authService := service.NewAuthService(fakeUserRepo{}, fakeProfileRepo{}, sessionManager)

	renderer, err := NewRenderer()
	require.NoError(t, err)
	ts.renderer = renderer

	e := NewRouter(RouterConfig{Logger: log})
	RegisterGenerate(e, ts.streamer, log)
	RegisterItineraries(e, itineraryService, sessionManager, testSiteURL, log)
	RegisterProfile(e, profileService, sessionManager, log)
	RegisterAuth(e, authService, testSiteURL, log)
	RegisterPages(e, PageDeps{
		Renderer:    renderer,
		Sessions:    sessionManager,
		Itineraries: itineraryService,
		Profiles:    profileService,
		Auth:        authService,
		SiteURL:     testSiteURL,
		Log:         log,
	})
	ts.e = e
	return ts
}

// signIn attaches a valid access cookie for userID to req.
func (ts *testServer) signIn(t *testing.T, req *http.Request, userID uuid.UUID) {
	t.Helper()
	token, _, err := ts.tokens.Generate(userID, "traveller@example.com", 1)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: service.AccessCookieName, Value: token})
}
