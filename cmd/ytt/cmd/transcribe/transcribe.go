package transcribe

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yt-transcript/cmd/ytt/cmd/common"
	"yt-transcript/internal/app"
	apperrors "yt-transcript/internal/app/errors"
	"yt-transcript/internal/app/progress"
	"yt-transcript/internal/app/transcript"
)

var outputFile string
var showProgress bool

func init() {
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"write the transcript to this file instead of stdout")
	Cmd.Flags().BoolVar(&showProgress, "progress", false,
		"show a progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <video-url>",
	Short: "Transcribe one video and print the transcript",
	Long: `Transcribe one video and print the transcript

- Runs the same pipeline as the HTTP API, without a server
- A progress bar over the pipeline stages is drawn on stderr`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := common.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		pm := progress.NewManager(progress.Config{
			Enabled: progress.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		bar := pm.CreateBar(len(transcript.Stages), "Transcribing")

		a := app.Initialize(cfg, logger, transcript.WithStageHook(func(s transcript.Stage) {
			bar.SetStep(lo.IndexOf(transcript.Stages, s), string(s))
		}))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := a.Pipeline.FetchTranscript(ctx, transcript.Request{
			VideoURL:  args[0],
			RequestID: uuid.NewString(),
		})
		if err != nil {
			bar.Abort()
			pm.Wait()
			if label := apperrors.Label(err); label != "" {
				return errors.New(label)
			}
			return err
		}
		bar.Complete()
		pm.Wait()

		if outputFile == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Transcript)
			return err
		}
		if err := os.WriteFile(outputFile, []byte(result.Transcript+"\n"), 0o644); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		logger.Info("Transcript written", zap.String("file", outputFile))
		return nil
	},
}
