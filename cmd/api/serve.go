package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/njprem/Voyara_APP_BackEnd/internal/completion"
	"github.com/njprem/Voyara_APP_BackEnd/internal/config"
	"github.com/njprem/Voyara_APP_BackEnd/internal/logging"
	"github.com/njprem/Voyara_APP_BackEnd/internal/media"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/minio"
	"github.com/njprem/Voyara_APP_BackEnd/internal/repository/postgres"
	"github.com/njprem/Voyara_APP_BackEnd/internal/service"
	transport "github.com/njprem/Voyara_APP_BackEnd/internal/transport/http"
	"github.com/njprem/Voyara_APP_BackEnd/internal/util"
	"github.com/njprem/Voyara_APP_BackEnd/migrations"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := logging.New(logging.Options{
		Service:       "voyara-api",
		Level:         cfg.LogLevel,
		LogstashAddr:  cfg.LogstashTCPAddr,
		LogstashLevel: cfg.LogstashLevel,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog.Close()

	db, err := postgres.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		applied, err := migrations.Up(ctx, db.DB)
		if err != nil {
			return err
		}
		log.Info().Int("applied", applied).Msg("migrations up to date")
	}

	minioClient, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		return fmt.Errorf("connect object storage: %w", err)
	}
	storage := minio.NewStorage(minioClient, cfg.MinIOPublicURL)
	if err := storage.EnsureBucket(ctx, cfg.MinIOBucketAvatar); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.MinIOBucketAvatar).Msg("avatar bucket unavailable")
	}

	streamer, err := completion.NewOpenAIStreamer(completion.Config{
		APIKey:  cfg.CompletionAPIKey,
		BaseURL: cfg.CompletionBaseURL,
		Model:   cfg.CompletionModel,
	})
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	itineraryRepo := postgres.NewItineraryRepo(db)

	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	sessions := service.NewSessionManager(sessionRepo, userRepo, tokens, service.SessionManagerConfig{
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.CookieSecure,
	})

	var providers []service.OAuthProvider
	if cfg.GoogleEnabled() {
		providers = append(providers, service.NewGoogleProvider(service.OAuthClientConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL(),
		}))
	}
	if cfg.GitHubEnabled() {
		providers = append(providers, service.NewGitHubProvider(service.OAuthClientConfig{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL(),
		}))
	}
	if len(providers) == 0 {
		log.Warn().Msg("no OAuth providers configured; sign-in is disabled")
	}

	authService := service.NewAuthService(userRepo, profileRepo, sessions, providers...)
	itineraryService := service.NewItineraryService(itineraryRepo)
	profileService := service.NewProfileService(profileRepo, storage, service.ProfileServiceConfig{
		Bucket:         cfg.MinIOBucketAvatar,
		MaxAvatarBytes: cfg.AvatarMaxBytes,
		AvatarSize:     cfg.AvatarSize,
		ImageProcessor: media.NewAvatarProcessor(cfg.AvatarSize, media.WithMaxPixels(cfg.AvatarMaxPixels)),
	})

	renderer, err := transport.NewRenderer()
	if err != nil {
		return err
	}

	e := transport.NewRouter(transport.RouterConfig{AllowOrigins: cfg.AllowOrigins, Logger: log})
	transport.RegisterGenerate(e, completion.Instrument(streamer), log)
	transport.RegisterItineraries(e, itineraryService, sessions, cfg.SiteURL, log)
	transport.RegisterProfile(e, profileService, sessions, log)
	transport.RegisterAuth(e, authService, cfg.SiteURL, log)
	transport.RegisterPages(e, transport.PageDeps{
		Renderer:    renderer,
		Sessions:    sessions,
		Itineraries: itineraryService,
		Profiles:    profileService,
		Auth:        authService,
		SiteURL:     cfg.SiteURL,
		Log:         log,
	})
	transport.RegisterSwagger(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("site_url", cfg.SiteURL).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
