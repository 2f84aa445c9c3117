package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"chesslens/internal/api"
	"chesslens/internal/logger"
	"chesslens/internal/services"
	"chesslens/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	log := logger.Default()
	cfg := a.cfg

	log.Info("chesslens server starting")
	log.Debug("addr=%s db_path=%s engine=%s depth=%d", cfg.Addr, cfg.DBPath, cfg.EngineAPIURL, cfg.EngineDepth)

	analysisPool := worker.NewPool("analysis-pool", cfg.AnalysisWorkerCount, cfg.AnalysisQueueSize)
	importPool := worker.NewPool("import-pool", cfg.ImportWorkerCount, cfg.ImportQueueSize)

	importService := services.NewImportService(
		a.games, a.profiles, a.chessClient,
		importPool, analysisPool, a.analysis,
		cfg.ArchiveLimit,
	)

	srv := api.NewServer(
		services.NewProfileService(a.profiles),
		services.NewGameService(a.games, a.moves, cfg.Analysis),
		a.analysis,
		a.reports,
		importService,
		analysisPool,
	)

	ctx, cancel := context.WithCancel(context.Background())
	analysisPool.Start(ctx)
	importPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Info("received signal %v, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}
	analysisPool.Stop()
	importPool.Stop()

	log.Info("chesslens server stopped")
	return nil
}
