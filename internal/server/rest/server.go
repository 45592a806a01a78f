// Package rest exposes the account, pairing and dev-wallet operations over
// HTTP using fiber.
package rest

import (
	"context"
	"time"

	"github.com/atxwallet/atxserver/internal/logging"
	"github.com/atxwallet/atxserver/internal/server/auth"
	"github.com/atxwallet/atxserver/internal/server/models"
	"github.com/atxwallet/atxserver/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

// UserService is the account use-case layer consumed by the auth routes.
type UserService interface {
	Available() bool
	Register(ctx context.Context, name, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, login, password string) (*services.AuthResult, error)
}

// TokenVerifier checks bearer tokens on authenticated routes.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// PairingRegistry stores device pairings per browser session.
type PairingRegistry interface {
	Submit(session, device, address string) error
	Query(session string) (models.PairingEntry, bool)
}

// WalletStore persists dev-wallet profiles and histories.
type WalletStore interface {
	PutProfile(ctx context.Context, userID string, payload []byte) error
	GetProfile(ctx context.Context, userID string) ([]byte, error)
	HeadProfile(ctx context.Context, userID string) (bool, error)
	DeleteProfile(ctx context.Context, userID string) error
	PutHistory(ctx context.Context, userID string, payload []byte) error
	GetHistory(ctx context.Context, userID string) ([]byte, error)
}

// Options tunes the middleware stack.
type Options struct {
	CORSAllowOrigins string
	// AuthRateLimit is the number of /api/auth requests allowed per client IP
	// per minute; zero disables limiting.
	AuthRateLimit int
	BodyLimit     int
}

type Server struct {
	address  string
	app      *fiber.App
	logger   logging.Logger
	users    UserService
	tokens   TokenVerifier
	pairings PairingRegistry
	wallets  WalletStore
}

func NewServer(address string, l logging.Logger, us UserService, tv TokenVerifier, pr PairingRegistry, ws WalletStore, opts Options) *Server {
	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    us,
		tokens:   tv,
		pairings: pr,
		wallets:  ws,
	}

	if opts.BodyLimit <= 0 {
		opts.BodyLimit = fiber.DefaultBodyLimit
	}
	if opts.CORSAllowOrigins == "" {
		opts.CORSAllowOrigins = "*"
	}

	s.app = fiber.New(fiber.Config{
		Immutable:             true,
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{AllowOrigins: opts.CORSAllowOrigins}))
	s.app.Use(s.requestLogger)

	s.routes(opts)

	return s
}

func (s *Server) routes(opts Options) {
	api := s.app.Group("/api")

	api.Get("/health", s.health)

	authGroup := api.Group("/auth")
	if opts.AuthRateLimit > 0 {
		authGroup.Use(limiter.New(limiter.Config{
			Max:        opts.AuthRateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return writeMessage(c, fiber.StatusTooManyRequests, "Too many requests")
			},
		}))
	}
	authGroup.Post("/register", s.register)
	authGroup.Post("/login", s.login)
	authGroup.Get("/me", s.requireToken, s.me)

	api.Post("/pairings", s.submitPairing)
	api.Get("/pairings", s.missingParam("session"))
	// Sessions may contain "/", so the rest of the path is the session.
	api.Get("/pairings/*", s.queryPairing)

	// HEAD must be registered before GET, which also answers HEAD.
	api.Head("/dev-wallets/:userId", s.headProfile)
	api.Put("/dev-wallets/:userId", s.putProfile)
	api.Get("/dev-wallets/:userId", s.getProfile)
	api.Delete("/dev-wallets/:userId", s.deleteProfile)
	api.Put("/dev-wallets", s.missingParam("id"))

	api.Get("/dev-wallet-history/:userId", s.getHistory)
	api.Put("/dev-wallet-history/:userId", s.putHistory)
	api.Put("/dev-wallet-history", s.missingParam("id"))
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled and then shuts the server down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.app.ShutdownWithContext(shutdownCtx)
}
