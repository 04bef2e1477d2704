package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a request ended degraded
type ErrorKind string

const (
	KindSTTFailure         ErrorKind = "stt_failure"
	KindEmptyTranscription ErrorKind = "empty_transcription"
	KindLLMFailure         ErrorKind = "llm_failure"
	KindTTSFailure         ErrorKind = "tts_failure"
	KindInternalFailure    ErrorKind = "internal_failure"
)

var (
	ErrSTTFailure         = errors.New("STT service unavailable")
	ErrEmptyTranscription = errors.New("Empty transcription")
	ErrLLMFailure         = errors.New("LLM service unavailable")
	ErrTTSFailure         = errors.New("TTS service unavailable")
	ErrInternalFailure    = errors.New("Internal server error")
)

// Sentinel returns the error every failure of this kind wraps
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindSTTFailure:
		return ErrSTTFailure
	case KindEmptyTranscription:
		return ErrEmptyTranscription
	case KindLLMFailure:
		return ErrLLMFailure
	case KindTTSFailure:
		return ErrTTSFailure
	default:
		return ErrInternalFailure
	}
}

// DegradedError is returned by the conversation pipeline when a stage
// fails terminally. AudioURLs holds what the client should play instead.
type DegradedError struct {
	Kind      ErrorKind
	Message   string
	AudioURLs []string
	Err       error
}

// NewDegradedError builds a degraded result for kind. The message is the
// public text of the kind's sentinel error.
func NewDegradedError(kind ErrorKind, fallbackURL string, cause error) *DegradedError {
	d := &DegradedError{
		Kind:    kind,
		Message: kind.Sentinel().Error(),
		Err:     cause,
	}
	if kind != KindEmptyTranscription {
		d.AudioURLs = []string{fallbackURL}
	}
	return d
}

func (e *DegradedError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DegradedError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.Sentinel()}
	}
	return []error{e.Kind.Sentinel(), e.Err}
}

// TiersExhaustedError reports that every configured model tier failed
type TiersExhaustedError struct {
	Tiers    []string
	LastTier string
	Last     error
}

func (e *TiersExhaustedError) Error() string {
	return fmt.Sprintf("all %d model tiers failed [%s], last tier %s: %v",
		len(e.Tiers), strings.Join(e.Tiers, ", "), e.LastTier, e.Last)
}

func (e *TiersExhaustedError) Unwrap() []error {
	return []error{ErrLLMFailure, e.Last}
}
