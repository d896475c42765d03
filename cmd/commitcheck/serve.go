package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/commitcheck/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/commitcheck/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/commitcheck/internal/adapter/driven/urlcheck"
	httphandler "github.com/ericfisherdev/commitcheck/internal/adapter/driving/http"
	"github.com/ericfisherdev/commitcheck/internal/application"
	"github.com/ericfisherdev/commitcheck/internal/config"
)

// errNoToken is returned by commands that need GitHub access.
var errNoToken = errors.New("COMMITCHECK_GITHUB_TOKEN is not set")

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Poll watched repositories and serve the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.HasGitHubToken() {
		return errNoToken
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"url_timeout", cfg.URLTimeout,
		"post_comments", cfg.PostComments,
	)

	// 2. Open database (dual reader/writer with WAL mode) and migrate.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", db.Path())

	// 3. Wire adapters and services.
	repoStore := sqliteadapter.NewRepoRepo(db)
	configStore := sqliteadapter.NewCheckConfigRepo(db)
	runStore := sqliteadapter.NewCheckRunRepo(db)

	ghClient := githubadapter.NewClient(cfg.GitHubToken)
	checker := application.NewCommitChecker(urlcheck.NewChecker(cfg.URLTimeout))

	checkSvc := application.NewCheckService(ghClient, configStore, runStore, checker, cfg.DefaultCheckConfig(), cfg.PostComments)
	pollSvc := application.NewPollService(ghClient, repoStore, runStore, checkSvc, cfg.PollInterval)

	pollDone := make(chan struct{})
	go func() {
		pollSvc.Start(ctx)
		close(pollDone)
	}()

	// 4. Serve the API.
	apiHandler := httphandler.NewHandler(repoStore, configStore, runStore, checkSvc, pollSvc, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(apiHandler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Manual checks wait on GitHub and the URL checks.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	slog.Info("commitcheck started", "version", version)

	// 5. Wait for shutdown signal or server failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-srvErr:
		cancel()
		<-pollDone
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	<-pollDone
	slog.Info("shutdown complete")
	return nil
}
