package main

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/satriahrh/mika/internal/textchunk"
)

var chunkMaxChars int

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Show how text is split for speech synthesis",
	Long: `Show how text is split for speech synthesis.

Reads the file, or stdin when no file is given, and prints one line per
chunk with its length in characters.

Examples:
  mika chunk reply.txt
  echo "a long reply" | mika chunk --max-chars 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		out := cmd.OutOrStdout()
		chunks := textchunk.Split(string(data), chunkMaxChars)
		for i, chunk := range chunks {
			fmt.Fprintf(out, "[%d] (%d chars) %s\n", i, utf8.RuneCountInString(chunk), chunk)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d chunks\n", len(chunks))
		return nil
	},
}

func init() {
	chunkCmd.Flags().IntVar(&chunkMaxChars, "max-chars", textchunk.DefaultMaxChars, "maximum characters per chunk")
	rootCmd.AddCommand(chunkCmd)
}
