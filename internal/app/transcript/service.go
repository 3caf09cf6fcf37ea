package transcript

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"yt-transcript/internal/app/api"
	openaiapi "yt-transcript/internal/app/api/openai"
	apperrors "yt-transcript/internal/app/errors"
	"yt-transcript/internal/app/metrics"
	"yt-transcript/internal/app/util/files"
	"yt-transcript/internal/downloader"
)

// Stage names a step of the transcript pipeline
type Stage string

const (
	StageValidate   Stage = "validate"
	StagePrepare    Stage = "prepare"
	StageDownload   Stage = "download"
	StageLocate     Stage = "locate"
	StageTranscribe Stage = "transcribe"
	StageCleanup    Stage = "cleanup"
)

// Stages lists every stage in execution order
var Stages = []Stage{StageValidate, StagePrepare, StageDownload, StageLocate, StageTranscribe, StageCleanup}

// OutcomeSuccess is the metrics outcome of a run that produced a transcript
const OutcomeSuccess = "success"

// Request is one transcript job
type Request struct {
	VideoURL  string
	RequestID string
}

// Result is the outcome of a successful job
type Result struct {
	Transcript string
	AudioFile  string
	Elapsed    time.Duration
}

// Service turns a video URL into a transcript
type Service interface {
	FetchTranscript(ctx context.Context, req Request) (*Result, error)
}

// Options tunes a Pipeline. Zero timeouts mean no limit beyond ctx.
type Options struct {
	ScratchDir           string
	AllowedHosts         []string
	DownloadTimeout      time.Duration
	TranscriptionTimeout time.Duration
}

// Option configures optional Pipeline collaborators
type Option func(*Pipeline)

// WithMetrics records stage timings and outcomes into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithStageHook calls fn as each stage starts
func WithStageHook(fn func(Stage)) Option {
	return func(p *Pipeline) {
		p.onStage = fn
	}
}

// Pipeline downloads the audio of a video into a private scratch directory,
// uploads it for transcription and removes the directory afterwards.
// It is safe for concurrent use; every call gets its own directory.
type Pipeline struct {
	downloader  downloader.Downloader
	transcriber api.Transcriber
	opts        Options
	logger      *zap.Logger
	metrics     *metrics.Metrics
	onStage     func(Stage)
}

// NewPipeline creates a Pipeline
func NewPipeline(dl downloader.Downloader, tr api.Transcriber, opts Options, logger *zap.Logger, options ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		downloader:  dl,
		transcriber: tr,
		opts:        opts,
		logger:      logger,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// FetchTranscript runs the whole pipeline for req. Returned errors carry an
// apperrors kind and label.
func (p *Pipeline) FetchTranscript(ctx context.Context, req Request) (result *Result, err error) {
	start := time.Now()
	log := p.logger.With(
		zap.String("request_id", req.RequestID),
		zap.String("video_url", req.VideoURL),
	)

	defer func() {
		outcome := OutcomeSuccess
		if err != nil {
			outcome = string(apperrors.KindOf(err))
		}
		p.metrics.RecordOutcome(outcome)
	}()

	done := p.enter(StageValidate)
	videoURL, err := NormalizeVideoURL(req.VideoURL, p.opts.AllowedHosts)
	done()
	if err != nil {
		log.Info("Rejected video URL", zap.Error(err))
		return nil, err
	}

	// nothing is downloaded when the upload could never happen
	if !p.transcriber.Configured() {
		log.Error("Transcription credentials are not configured")
		return nil, apperrors.ErrMissingAPIKey
	}

	done = p.enter(StagePrepare)
	dir, err := files.CreateScratchDir(p.opts.ScratchDir)
	done()
	if err != nil {
		log.Error("Failed to create scratch directory",
			zap.String("scratch_dir", p.opts.ScratchDir),
			zap.Error(err),
		)
		return nil, apperrors.Wrap(err, apperrors.ErrScratchDir)
	}
	defer p.cleanup(log, dir)

	log = log.With(zap.String("work_dir", dir))

	done = p.enter(StageDownload)
	err = p.download(ctx, log, videoURL, dir)
	done()
	if err != nil {
		return nil, err
	}

	done = p.enter(StageLocate)
	audio, found, err := files.LatestCompletedFile(dir, downloader.AudioFilePrefix)
	done()
	if err != nil {
		log.Error("Failed to list downloaded files", zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrNoAudioFiles)
	}
	if !found {
		log.Error("Downloader finished without an audio file")
		return nil, apperrors.ErrNoAudioFiles
	}
	log.Info("Audio downloaded",
		zap.String("file", audio.Name),
		zap.Int64("size", audio.Size),
	)

	done = p.enter(StageTranscribe)
	text, err := p.transcribe(ctx, log, audio.FullPath)
	done()
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	log.Info("Transcript ready",
		zap.Int("characters", len(text)),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		Transcript: text,
		AudioFile:  audio.Name,
		Elapsed:    elapsed,
	}, nil
}

func (p *Pipeline) download(ctx context.Context, log *zap.Logger, videoURL string, dir string) error {
	if p.opts.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.DownloadTimeout)
		defer cancel()
	}

	res, err := p.downloader.FetchBestAudio(ctx, videoURL, dir)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var dlErr *downloader.DownloadError
		if errors.As(err, &dlErr) && dlErr.Result != nil {
			res = dlErr.Result
		}
		if res != nil {
			fields = append(fields,
				zap.Int("exit_code", res.ExitCode),
				zap.ByteString("stdout", res.Stdout),
				zap.ByteString("stderr", res.Stderr),
			)
		}
		log.Error("Audio download failed", fields...)
		return apperrors.Wrap(err, apperrors.ErrDownloadFailed)
	}

	if res != nil {
		log.Debug("Downloader finished",
			zap.Duration("duration", res.Duration),
			zap.ByteString("stdout", res.Stdout),
			zap.ByteString("stderr", res.Stderr),
		)
	}
	return nil
}

func (p *Pipeline) transcribe(ctx context.Context, log *zap.Logger, path string) (string, error) {
	if p.opts.TranscriptionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.TranscriptionTimeout)
		defer cancel()
	}

	text, err := p.transcriber.Transcript(ctx, path)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingAPIKey) {
			log.Error("Transcription credentials are not configured")
			return "", err
		}

		fields := []zap.Field{zap.Error(err)}
		if status, errType, message, ok := openaiapi.ErrorDetails(err); ok {
			fields = append(fields,
				zap.Int("openai_status", status),
				zap.String("openai_type", errType),
				zap.String("openai_message", message),
			)
		}
		log.Error("Transcription failed", fields...)
		return "", apperrors.Wrap(err, apperrors.ErrTranscriptionFailed)
	}
	return text, nil
}

// cleanup removes the scratch directory. Failures are logged only; they
// never change the outcome of the request.
func (p *Pipeline) cleanup(log *zap.Logger, dir string) {
	done := p.enter(StageCleanup)
	defer done()

	if err := files.RemoveDir(dir); err != nil {
		log.Warn("Failed to remove scratch directory", zap.Error(err))
	}
}

// enter announces stage and returns a func that records its duration
func (p *Pipeline) enter(stage Stage) func() {
	if p.onStage != nil {
		p.onStage(stage)
	}
	start := time.Now()
	return func() {
		p.metrics.ObserveStage(string(stage), time.Since(start))
	}
}
