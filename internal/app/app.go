package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"yt-transcript/internal/app/api"
	"yt-transcript/internal/app/api/openai"
	"yt-transcript/internal/app/api/openai/whisper"
	"yt-transcript/internal/app/metrics"
	"yt-transcript/internal/app/transcript"
	"yt-transcript/internal/config"
	"yt-transcript/internal/downloader"
)

// App holds the wired components shared by the serve and transcribe commands
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Downloader *downloader.YtDlp
	Pipeline   *transcript.Pipeline
}

// provideRemoteTranscriber uploads to OpenAI. Without OPENAI_API_KEY it
// reports itself unconfigured instead of failing at startup.
func provideRemoteTranscriber(cfg *config.Config) api.Transcriber {
	client := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	return whisper.NewRemoteTranscriber(client, cfg.HasOpenAIKey())
}

func provideDownloader(cfg *config.Config, logger *zap.Logger) *downloader.YtDlp {
	return downloader.NewYtDlp(cfg.YtDlpPath, logger.Named("yt-dlp"))
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func providePipeline(cfg *config.Config, dl downloader.Downloader, tr api.Transcriber, m *metrics.Metrics, logger *zap.Logger, options ...transcript.Option) *transcript.Pipeline {
	opts := transcript.Options{
		ScratchDir:           cfg.ScratchDir,
		AllowedHosts:         cfg.AllowedHosts,
		DownloadTimeout:      cfg.DownloadTimeout,
		TranscriptionTimeout: cfg.TranscriptionTimeout,
	}
	options = append([]transcript.Option{transcript.WithMetrics(m)}, options...)
	return transcript.NewPipeline(dl, tr, opts, logger.Named("pipeline"), options...)
}

// Initialize wires the pipeline and its collaborators from cfg. Extra
// options are applied to the pipeline after the defaults.
func Initialize(cfg *config.Config, logger *zap.Logger, options ...transcript.Option) *App {
	reg := provideRegistry()
	m := metrics.New(reg)
	dl := provideDownloader(cfg, logger)
	tr := provideRemoteTranscriber(cfg)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   reg,
		Metrics:    m,
		Downloader: dl,
		Pipeline:   providePipeline(cfg, dl, tr, m, logger, options...),
	}
}
