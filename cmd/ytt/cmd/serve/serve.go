package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yt-transcript/cmd/ytt/cmd/common"
	"yt-transcript/internal/api/server"
	"yt-transcript/internal/app"
)

// shutdownTimeout bounds how long in-flight transcriptions may finish after a signal
const shutdownTimeout = 2 * time.Minute

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcript HTTP API",
	Long: `Run the transcript HTTP API.

POST /api/fetch-transcript with {"videoUrl": "..."} returns {"transcript": "..."}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := common.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		a := app.Initialize(cfg, logger)

		if !cfg.HasOpenAIKey() {
			logger.Warn("OPENAI_API_KEY is not set; transcript requests will fail until it is configured")
		}

		probeCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		if v, err := a.Downloader.Version(probeCtx); err != nil {
			logger.Warn("yt-dlp is not usable; downloads will fail",
				zap.String("path", cfg.YtDlpPath),
				zap.Error(err),
			)
		} else {
			logger.Info("Found yt-dlp", zap.String("version", v))
		}
		cancel()

		srv := server.NewServer(server.Config{
			Host:             cfg.Host,
			Port:             cfg.Port,
			Environment:      cfg.Environment,
			MaxBodyBytes:     cfg.MaxBodyBytes,
			CORSAllowOrigins: cfg.CORSAllowOrigins,
			ReadTimeout:      30 * time.Second,
			IdleTimeout:      120 * time.Second,
		}, a.Pipeline, a.Metrics, a.Registry, logger)

		if err := srv.Start(); err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received signal", zap.String("signal", sig.String()))
		case err, ok := <-srv.Errors():
			if ok {
				return err
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
