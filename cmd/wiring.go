package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/satriahrh/mika/adapters/llm"
	"github.com/satriahrh/mika/adapters/stt"
	"github.com/satriahrh/mika/adapters/tts"
	"github.com/satriahrh/mika/domain/repositories"
	"github.com/satriahrh/mika/internal/config"
	"github.com/satriahrh/mika/usecase"
)

// generatedAudioDir is where synthesizers that return raw audio store it,
// relative to the static directory
const generatedAudioDir = "tts"

func newSpeechToText(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.SpeechToText, error) {
	switch cfg.STT.Provider {
	case "assemblyai":
		return stt.NewAssemblyAISpeechToText(stt.AssemblyAIConfig{
			APIKey:   cfg.STT.APIKey,
			BaseURL:  cfg.STT.BaseURL,
			Language: cfg.STT.Language,
		}, logger)
	case "google":
		return stt.NewGoogleSpeechToText(ctx, stt.GoogleConfig{
			CredentialsFile: cfg.STT.CredentialsFile,
			Language:        cfg.STT.Language,
		}, logger)
	case "mock":
		return stt.NewMockSpeechToText(logger), nil
	default:
		return nil, fmt.Errorf("unsupported speech-to-text provider %q", cfg.STT.Provider)
	}
}

// newTiers builds the model tiers in configured order. Tiers that share a
// provider share its client.
func newTiers(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]usecase.Tier, error) {
	clients := make(map[string]repositories.LargeLanguageModel)

	client := func(provider string) (repositories.LargeLanguageModel, error) {
		if c, ok := clients[provider]; ok {
			return c, nil
		}

		var (
			c   repositories.LargeLanguageModel
			err error
		)
		switch provider {
		case "gemini":
			c, err = llm.NewGeminiLLM(ctx, llm.GeminiConfig{APIKey: cfg.LLM.GeminiAPIKey}, logger)
		case "openai":
			c, err = llm.NewOpenAILLM(llm.OpenAIConfig{
				APIKey:  cfg.LLM.OpenAIAPIKey,
				BaseURL: cfg.LLM.OpenAIBaseURL,
			}, logger)
		case "mock":
			c = llm.NewMockLLM(logger)
		default:
			err = fmt.Errorf("unsupported language model provider %q", provider)
		}
		if err != nil {
			return nil, err
		}

		clients[provider] = c
		return c, nil
	}

	tiers := make([]usecase.Tier, 0, len(cfg.LLM.Tiers))
	for _, tierCfg := range cfg.LLM.Tiers {
		c, err := client(tierCfg.Provider)
		if err != nil {
			return nil, fmt.Errorf("tier %s: %w", tierCfg.Name, err)
		}

		tiers = append(tiers, usecase.Tier{
			Name:  tierCfg.Name,
			Model: tierCfg.Model,
			LLM:   c,
		})
	}

	return tiers, nil
}

func newTextToSpeech(cfg *config.Config, logger *zap.Logger) (repositories.TextToSpeech, error) {
	switch cfg.TTS.Provider {
	case "murf":
		return tts.NewMurfTTS(tts.MurfConfig{
			APIKey:     cfg.TTS.MurfAPIKey,
			APIBaseURL: cfg.TTS.MurfBaseURL,
			VoiceID:    cfg.TTS.VoiceID,
			Style:      cfg.TTS.Style,
			Timeout:    cfg.TTS.Timeout,
		}, logger)
	case "elevenlabs":
		return tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey:     cfg.TTS.ElevenLabsAPIKey,
			OutputDir:  filepath.Join(cfg.Paths.StaticDir, generatedAudioDir),
			PublicPath: "/static/" + generatedAudioDir,
			VoiceID:    cfg.TTS.VoiceID,
			Timeout:    cfg.TTS.Timeout,
		}, logger)
	case "mock":
		return tts.NewMockTextToSpeech(cfg.Paths.FallbackAudio, logger), nil
	default:
		return nil, fmt.Errorf("unsupported text-to-speech provider %q", cfg.TTS.Provider)
	}
}
