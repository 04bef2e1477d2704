package api

import "github.com/satriahrh/mika/domain/entities"

// ErrorResponse is the body of every failed request. AudioURLs carries the
// fallback audio the client should play, when there is one.
type ErrorResponse struct {
	AudioURLs []string `json:"audio_urls,omitempty"`
	Error     string   `json:"error"`
	Detail    string   `json:"detail,omitempty"`
}

// ChatResponse represents a completed chat turn
type ChatResponse struct {
	Transcription string          `json:"transcription"`
	LLMResponse   string          `json:"llm_response"`
	AudioURLs     []string        `json:"audio_urls"`
	History       []entities.Turn `json:"history"`
}

// TTSRequest represents a one-shot synthesis request
type TTSRequest struct {
	Text string `json:"text"`
}

// TTSResponse represents a one-shot synthesis result. On failure AudioURL
// holds the fallback audio and Error is set.
type TTSResponse struct {
	AudioURL string `json:"audio_url"`
	Error    string `json:"error,omitempty"`
}

// HealthResponse represents the health check result
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Sessions int    `json:"sessions"`
}
