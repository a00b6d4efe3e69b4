package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	spycatagency "github.com/oKhodus/spy-cat/internal"
	"github.com/oKhodus/spy-cat/internal/repositories"
	"github.com/oKhodus/spy-cat/internal/services"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	if !log.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Error("database.open_failed", "error", err)
		return err
	}
	defer db.Close()

	cache, closeCache, err := newBreedCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	store := repositories.NewSQLStore(db, cfg.Dialect())
	catAPI := newCatAPI(cfg, cache, log)
	catService := services.NewDefaultCatService(store, catAPI, log.With("component", "cats"))
	missionService := services.NewDefaultMissionService(store, log.With("component", "missions"))
	server := spycatagency.NewServer(catService, catAPI, missionService,
		spycatagency.WithAddr(cfg.HTTPAddr),
		spycatagency.WithCORSOrigins(cfg.CORSOrigins...),
		spycatagency.WithLogger(log),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server.failed", "error", err)
			return err
		}
		return nil
	case sig := <-quit:
		log.Info("server.shutting_down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server.forced_shutdown", "error", err)
		return err
	}

	log.Info("server.exited")
	return nil
}
