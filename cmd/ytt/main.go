package main

import (
	"fmt"
	"os"

	"yt-transcript/cmd/ytt/cmd"
	"yt-transcript/internal/config"
)

func main() {
	// A missing .env is normal in production; only parse failures are reported.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
