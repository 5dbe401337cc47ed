package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/studyassistant/internal/adapter/driven/gemini"
	"github.com/ericfisherdev/studyassistant/internal/adapter/driven/secretfile"
	sqliteadapter "github.com/ericfisherdev/studyassistant/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/studyassistant/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/studyassistant/internal/adapter/driving/web"
	"github.com/ericfisherdev/studyassistant/internal/application"
	"github.com/ericfisherdev/studyassistant/internal/config"
	"github.com/ericfisherdev/studyassistant/internal/domain/model"
	"github.com/ericfisherdev/studyassistant/internal/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	log.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"model", cfg.Model,
		"request_timeout", cfg.RequestTimeout,
		"max_inflight", cfg.MaxInFlight,
		"secrets_store", cfg.HasSecretKey(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	version, err := sqliteadapter.RunMigrations(db.Writer, log)
	if err != nil {
		return err
	}
	log.Info("database ready", "path", db.Path(), "schema_version", version)

	// 4. Wire adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	interactionStore := sqliteadapter.NewInteractionRepo(db)
	credentialFile := secretfile.New(cfg.CredentialsFile)

	// 5. Resolve the credential and build the generator. A failure here does
	// not stop the server; every page shows the error instead.
	dispatcher, setupErr := buildDispatcher(ctx, cfg, credentialFile, credentialStore, interactionStore, log)
	if setupErr != nil {
		log.Error("gemini client not configured, generation disabled", "error", setupErr)
	}

	// 6. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(dispatcher, setupErr, interactionStore, log))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(dispatcher, setupErr, log))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.ApplyMiddleware(mux, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 7. Serve until the signal context ends, then drain.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("studyassistant started", "addr", cfg.ListenAddr, "generator_ready", setupErr == nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutdown complete")
	return nil
}

func buildDispatcher(
	ctx context.Context,
	cfg *config.Config,
	file *secretfile.File,
	store *sqliteadapter.CredentialRepo,
	interactions *sqliteadapter.InteractionRepo,
	log *slog.Logger,
) (*application.Dispatcher, error) {
	loader := application.NewCredentialLoader(config.CredentialEnvVar, cfg.APIKey, file, store, log)
	cred, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cred.Source == model.CredentialFromFile {
		log.Info("credential loaded", "source", cred.Source, "path", file.Path())
	} else {
		log.Info("credential loaded", "source", cred.Source)
	}

	client, err := gemini.NewClient(cred.Value, gemini.Options{
		BaseURL: cfg.APIBaseURL,
		Model:   cfg.Model,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	log.Info("gemini client ready", "model", client.Model(), "timeout", cfg.RequestTimeout)

	return application.NewDispatcher(client, interactions, cfg.MaxInFlight, cfg.RequestTimeout, log), nil
}
