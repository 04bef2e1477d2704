package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Paths   PathsConfig   `yaml:"paths"`
	STT     STTConfig     `yaml:"stt"`
	LLM     LLMConfig     `yaml:"llm"`
	TTS     TTSConfig     `yaml:"tts"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	// Debug adds error detail to internal failure responses. Development only.
	Debug bool `yaml:"debug"`
}

// PathsConfig contains filesystem locations
type PathsConfig struct {
	UploadDir     string `yaml:"upload_dir"`
	StaticDir     string `yaml:"static_dir"`
	FallbackAudio string `yaml:"fallback_audio"`
}

// STTConfig contains speech-to-text configuration
type STTConfig struct {
	Provider        string        `yaml:"provider"` // assemblyai, google or mock
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	CredentialsFile string        `yaml:"credentials_file"`
	Language        string        `yaml:"language"`
	Timeout         time.Duration `yaml:"timeout"`
}

// TierConfig describes one model tier tried in fallback order
type TierConfig struct {
	Name     string `yaml:"name"`
	Provider string `yaml:"provider"` // gemini, openai or mock
	Model    string `yaml:"model"`
}

// LLMConfig contains language model configuration
type LLMConfig struct {
	Tiers         []TierConfig  `yaml:"tiers"`
	GeminiAPIKey  string        `yaml:"gemini_api_key"`
	OpenAIAPIKey  string        `yaml:"openai_api_key"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

// TTSConfig contains text-to-speech configuration
type TTSConfig struct {
	Provider         string        `yaml:"provider"` // murf, elevenlabs or mock
	MurfAPIKey       string        `yaml:"murf_api_key"`
	MurfBaseURL      string        `yaml:"murf_base_url"`
	VoiceID          string        `yaml:"voice_id"` // empty uses the provider default
	Style            string        `yaml:"style"`
	ElevenLabsAPIKey string        `yaml:"elevenlabs_api_key"`
	MaxChunkChars    int           `yaml:"max_chunk_chars"`
	Concurrency      int           `yaml:"concurrency"`
	Timeout          time.Duration `yaml:"timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "0.0.0.0",
			Port:    4554,
		},
		Paths: PathsConfig{
			UploadDir:     "uploads",
			StaticDir:     "static",
			FallbackAudio: "/static/error.wav",
		},
		STT: STTConfig{
			Provider: "assemblyai",
			Language: "en-US",
			Timeout:  60 * time.Second,
		},
		LLM: LLMConfig{
			Tiers: []TierConfig{
				{Name: "primary", Provider: "gemini", Model: "gemini-1.5-flash"},
				{Name: "fallback-1", Provider: "gemini", Model: "gemini-2.5-flash"},
				{Name: "fallback-2", Provider: "gemini", Model: "gemini-2.5-pro"},
			},
			Timeout: 30 * time.Second,
		},
		TTS: TTSConfig{
			Provider:      "murf",
			MaxChunkChars: 3000,
			Concurrency:   4,
			Timeout:       60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins).
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// applyEnv overrides fields from environment variables
func (c *Config) applyEnv() error {
	setString(&c.Server.Address, "HOST")
	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if err := setBool(&c.Server.Debug, "DEBUG"); err != nil {
		return err
	}

	setString(&c.Paths.UploadDir, "UPLOAD_DIR")
	setString(&c.Paths.StaticDir, "STATIC_DIR")
	setString(&c.Paths.FallbackAudio, "FALLBACK_AUDIO")

	setString(&c.STT.Provider, "STT_PROVIDER")
	setString(&c.STT.APIKey, "ASSEMBLYAI_API_KEY")
	setString(&c.STT.BaseURL, "ASSEMBLYAI_BASE_URL")
	setString(&c.STT.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.STT.Language, "STT_LANGUAGE")
	if err := setDuration(&c.STT.Timeout, "STT_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	if err := setDuration(&c.LLM.Timeout, "LLM_TIMEOUT"); err != nil {
		return err
	}
	if raw := os.Getenv("LLM_TIERS"); raw != "" {
		tiers, err := ParseTiers(raw)
		if err != nil {
			return fmt.Errorf("LLM_TIERS: %w", err)
		}
		c.LLM.Tiers = tiers
	}

	setString(&c.TTS.Provider, "TTS_PROVIDER")
	setString(&c.TTS.MurfAPIKey, "MURF_API_KEY")
	setString(&c.TTS.MurfBaseURL, "MURF_BASE_URL")
	setString(&c.TTS.VoiceID, "TTS_VOICE_ID")
	setString(&c.TTS.Style, "TTS_STYLE")
	setString(&c.TTS.ElevenLabsAPIKey, "ELEVEN_LABS_API_KEY")
	if err := setInt(&c.TTS.MaxChunkChars, "TTS_MAX_CHUNK_CHARS"); err != nil {
		return err
	}
	if err := setInt(&c.TTS.Concurrency, "TTS_CONCURRENCY"); err != nil {
		return err
	}
	if err := setDuration(&c.TTS.Timeout, "TTS_TIMEOUT"); err != nil {
		return err
	}

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")

	return nil
}

// ParseTiers parses "provider:model,provider:model" into tiers named after
// their model. A bare model name uses the gemini provider.
func ParseTiers(raw string) ([]TierConfig, error) {
	var tiers []TierConfig
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		provider, model, found := strings.Cut(item, ":")
		if !found {
			provider, model = "gemini", item
		}
		if model == "" {
			return nil, fmt.Errorf("tier %q has no model", item)
		}

		tiers = append(tiers, TierConfig{Name: model, Provider: provider, Model: model})
	}

	if len(tiers) == 0 {
		return nil, fmt.Errorf("no tiers in %q", raw)
	}

	return tiers, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Paths.Validate(); err != nil {
		return fmt.Errorf("paths config: %w", err)
	}

	if err := c.STT.Validate(); err != nil {
		return fmt.Errorf("stt config: %w", err)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}

	if err := c.TTS.Validate(); err != nil {
		return fmt.Errorf("tts config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	return nil
}

// ListenAddress returns host:port for the HTTP listener
func (s *ServerConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Validate validates path configuration
func (p *PathsConfig) Validate() error {
	if p.UploadDir == "" {
		return fmt.Errorf("upload_dir cannot be empty")
	}
	if p.StaticDir == "" {
		return fmt.Errorf("static_dir cannot be empty")
	}
	if p.FallbackAudio == "" {
		return fmt.Errorf("fallback_audio cannot be empty")
	}
	return nil
}

// Validate validates speech-to-text configuration
func (s *STTConfig) Validate() error {
	switch s.Provider {
	case "assemblyai":
		if s.APIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required for the assemblyai provider")
		}
	case "google", "mock":
	default:
		return fmt.Errorf("unsupported provider %q", s.Provider)
	}

	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

// Validate validates language model configuration
func (l *LLMConfig) Validate() error {
	if len(l.Tiers) == 0 {
		return fmt.Errorf("at least one tier is required")
	}

	seen := make(map[string]bool, len(l.Tiers))
	for i, tier := range l.Tiers {
		if tier.Name == "" || tier.Model == "" {
			return fmt.Errorf("tier %d needs a name and a model", i)
		}
		if seen[tier.Name] {
			return fmt.Errorf("duplicate tier name %q", tier.Name)
		}
		seen[tier.Name] = true

		switch tier.Provider {
		case "gemini":
			if l.GeminiAPIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY is required for tier %q", tier.Name)
			}
		case "openai":
			if l.OpenAIAPIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is required for tier %q", tier.Name)
			}
		case "mock":
		default:
			return fmt.Errorf("tier %q has unsupported provider %q", tier.Name, tier.Provider)
		}
	}

	if l.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", l.Timeout)
	}
	return nil
}

// Validate validates text-to-speech configuration
func (t *TTSConfig) Validate() error {
	switch t.Provider {
	case "murf":
		if t.MurfAPIKey == "" {
			return fmt.Errorf("MURF_API_KEY is required for the murf provider")
		}
	case "elevenlabs":
		if t.ElevenLabsAPIKey == "" {
			return fmt.Errorf("ELEVEN_LABS_API_KEY is required for the elevenlabs provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unsupported provider %q", t.Provider)
	}

	if t.MaxChunkChars < 1 {
		return fmt.Errorf("max_chunk_chars must be at least 1, got %d", t.MaxChunkChars)
	}
	if t.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", t.Concurrency)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", t.Timeout)
	}
	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", l.Level)
	}

	switch l.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q", l.Format)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
