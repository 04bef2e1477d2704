package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	chatServer  string
	chatSession string
	chatTimeout time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat <audio-file>",
	Short: "Send a recording to a running server",
	Long: `Send a recording to a running server and print the reply.

With the mock speech-to-text provider a .txt file is transcribed as its
contents, which makes it easy to script a conversation.

Examples:
  mika chat hello.webm
  mika chat --session demo question.txt
  mika chat --server http://10.0.0.5:4554 --session demo hello.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session := chatSession
		if session == "" {
			session = uuid.NewString()
			fmt.Fprintf(cmd.ErrOrStderr(), "Using session %s\n", session)
		}

		body, status, err := uploadRecording(chatServer, session, args[0], chatTimeout)
		if err != nil {
			return err
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(body)
		}
		fmt.Fprintln(cmd.OutOrStdout(), pretty.String())

		if status != http.StatusOK {
			return fmt.Errorf("server returned %d", status)
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatServer, "server", "http://localhost:4554", "server base URL")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session id (random when empty)")
	chatCmd.Flags().DurationVar(&chatTimeout, "timeout", 3*time.Minute, "request timeout")
	rootCmd.AddCommand(chatCmd)
}

// uploadRecording posts path as the multipart "file" field and returns the
// raw response body and status
func uploadRecording(server, session, path string, timeout time.Duration) ([]byte, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, 0, fmt.Errorf("failed to read recording: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to finish form: %w", err)
	}

	url := strings.TrimSuffix(server, "/") + "/agent/chat/" + session
	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}
