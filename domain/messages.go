package domain

import "github.com/satriahrh/mika/domain/entities"

// ChatResult is the outcome of a fully successful chat request
type ChatResult struct {
	Transcription string          `json:"transcription"`
	Reply         string          `json:"llm_response"`
	AudioURLs     []string        `json:"audio_urls"`
	History       []entities.Turn `json:"history"`
	Tier          string          `json:"-"`
}
