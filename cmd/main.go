// Package main provides the mika voice relay server and its companion tools.
//
// Usage:
//
//	mika serve [--config mika.yaml] [--env-file .env]
//	mika chat  [--server URL] [--session ID] <audio-file>
//	mika chunk [--max-chars N] [file]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mika",
	Short: "Voice conversation relay",
	Long: `Voice conversation relay.

Accepts a spoken utterance, transcribes it, asks a language model for a
reply and turns that reply back into audio, keeping a running transcript
per conversation.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
