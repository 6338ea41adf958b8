package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sigmabread/breadchat-server/internal/auth"
	"github.com/sigmabread/breadchat-server/internal/config"
	"github.com/sigmabread/breadchat-server/internal/core"
	transporthttp "github.com/sigmabread/breadchat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	ownerPassword := cfg.OwnerPassword
	if ownerPassword == "" {
		generated, err := randomSecret(8)
		if err != nil {
			return nil, fmt.Errorf("generate owner password: %w", err)
		}
		ownerPassword = generated
		logger.Warn().
			Str("username", cfg.OwnerUsername).
			Str("password", ownerPassword).
			Msg("no owner password configured, generated one for this run")
	}
	ownerHash, err := auth.HashPassword(ownerPassword)
	if err != nil {
		return nil, fmt.Errorf("hash owner password: %w", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		generated, err := randomSecret(32)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		jwtSecret = generated
		logger.Warn().Msg("no jwt secret configured, resume tokens will not survive restarts")
	}

	directory := core.NewDirectory(core.OwnerSeed{
		Username:     cfg.OwnerUsername,
		DisplayName:  cfg.OwnerDisplayName,
		PasswordHash: ownerHash,
	})
	channels := core.NewChannelStore(cfg.Channels)
	moderation := core.NewModeration()
	typing := core.NewTypingTracker()

	authService := auth.NewService(directory, &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})

	hub := core.NewHub(core.HubDeps{
		Directory:      directory,
		Channels:       channels,
		Moderation:     moderation,
		Typing:         typing,
		Auth:           authService,
		DefaultChannel: cfg.DefaultChannel,
		Log:            logger,
	})

	server := transporthttp.NewServer(hub, directory, *cfg, logger)

	logger.Info().
		Strs("channels", cfg.Channels).
		Str("default_channel", cfg.DefaultChannel).
		Str("owner", cfg.OwnerUsername).
		Msg("server wired")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Run starts the hub and HTTP server and blocks until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

func randomSecret(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
