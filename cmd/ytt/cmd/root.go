package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"yt-transcript/cmd/ytt/cmd/common"
	"yt-transcript/cmd/ytt/cmd/serve"
	"yt-transcript/cmd/ytt/cmd/transcribe"
	"yt-transcript/cmd/ytt/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytt",
	Short: "Turn YouTube videos into text transcripts",
	Long: `Turn YouTube videos into text transcripts.
- yt-dlp fetches the best audio stream into a private scratch directory
- the audio is uploaded to OpenAI for transcription
- the scratch directory is removed once the transcript is back`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&common.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&common.ConfigFile, "config", "", "YAML config file (environment variables take precedence)")
}
