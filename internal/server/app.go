// Package server initializes and runs the account service: it opens the
// credential store (or falls back to degraded mode), builds the token
// issuer, pairing registry and dev-wallet store, and serves them over HTTP
// until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/atxwallet/atxserver/internal/logging"
	"github.com/atxwallet/atxserver/internal/server/auth"
	"github.com/atxwallet/atxserver/internal/server/config"
	"github.com/atxwallet/atxserver/internal/server/devwallets"
	"github.com/atxwallet/atxserver/internal/server/pairing"
	"github.com/atxwallet/atxserver/internal/server/repositories/repomanager"
	"github.com/atxwallet/atxserver/internal/server/rest"
	"github.com/atxwallet/atxserver/internal/server/services"
)

const dbConnectTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	pairings    *pairing.Registry
	wallets     *devwallets.Store
	server      *rest.Server
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := repomanager.Open(ctx, c.DatabaseDSN, rm)
	if err != nil {
		logger.Warn(ctx, "database unavailable, auth routes disabled", "error", err)
		db = nil
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.TokenValidityDuration)
	us := services.NewUserService(db, rm, issuer)
	pr := pairing.NewRegistry(c.PairingTTL)

	backend, err := newWalletBackend(c)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("wallet store init error: %w", err)
	}
	ws := devwallets.NewStore(backend)

	srv := rest.NewServer(c.EndpointAddrHTTP, logger, us, issuer, pr, ws, rest.Options{
		CORSAllowOrigins: c.CORSAllowOrigins,
		AuthRateLimit:    c.AuthRateLimit,
	})

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: us,
		pairings:    pr,
		wallets:     ws,
		server:      srv,
	}, nil
}

func newWalletBackend(c *config.Config) (devwallets.Backend, error) {
	switch c.WalletBackend {
	case config.WalletBackendS3:
		client, err := devwallets.NewS3Client(context.Background(), devwallets.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return devwallets.NewS3Backend(client, c.S3Bucket, c.S3Prefix), nil
	default:
		return devwallets.NewFileBackend(c.WalletDir), nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "db_available", app.userService.Available(), "wallet_backend", app.config.WalletBackend)

	app.initSignalHandler(cancelFunc)

	sched, err := app.pairings.StartSweeper(ctx, app.config.PairingSweepInterval, app.logger.With("module", "pairing"))
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			app.logger.Error(ctx, "scheduler shutdown", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
