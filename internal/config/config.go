package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Files loaded before the environment is parsed, when they exist.
// Values already set in the environment win.
var dotenvFiles = []string{".env.local", ".env"}

// Companion configures the avatar client
type Companion struct {
	PageURL              string        `env:"ARUNIKA_PAGE_URL" envDefault:"http://localhost:8765"`
	UserAgent            string        `env:"ARUNIKA_USER_AGENT" envDefault:"arunika-companion/1.0"`
	ControlAddr          string        `env:"ARUNIKA_CONTROL_ADDR" envDefault:"127.0.0.1:8090"`
	FrameRate            int           `env:"ARUNIKA_FRAME_RATE" envDefault:"60"`
	AudioDir             string        `env:"ARUNIKA_AUDIO_DIR"`
	MaxReconnectAttempts int           `env:"ARUNIKA_MAX_RECONNECT_ATTEMPTS" envDefault:"5"`
	ReconnectBaseDelay   time.Duration `env:"ARUNIKA_RECONNECT_BASE_DELAY" envDefault:"2s"`
	TextDwell            time.Duration `env:"ARUNIKA_TEXT_DWELL" envDefault:"5s"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
}

// DevServer configures the development backend
type DevServer struct {
	Port             string       `env:"PORT" envDefault:"8765"`
	GeminiAPIKey     string       `env:"GEMINI_API_KEY"`
	GeminiModel      string       `env:"GEMINI_MODEL"`
	ElevenLabs       ElevenLabs   `envPrefix:"ELEVEN_LABS_"`
	GoogleSpeech     GoogleSpeech `envPrefix:"GOOGLE_SPEECH_"`
	AudioBufferBytes int          `env:"AUDIO_BUFFER_BYTES" envDefault:"80000"`
	LogFormat        string       `env:"LOG_FORMAT" envDefault:"json"`
}

// ElevenLabs configures reply voicing; an empty API key disables it
type ElevenLabs struct {
	APIKey       string  `env:"API_KEY"`
	APIBaseURL   string  `env:"API_BASE_URL"`
	VoiceID      string  `env:"VOICE_ID"`
	ModelID      string  `env:"MODEL_ID"`
	OutputFormat string  `env:"OUTPUT_FORMAT"`
	Stability    float64 `env:"STABILITY"`
	Clarity      float64 `env:"CLARITY"`
}

// GoogleSpeech configures voice transcription. When disabled the dev backend
// uses canned transcripts.
type GoogleSpeech struct {
	Enabled    bool   `env:"ENABLED"`
	Language   string `env:"LANGUAGE" envDefault:"en-US"`
	SampleRate int    `env:"SAMPLE_RATE" envDefault:"16000"`
	Encoding   string `env:"ENCODING" envDefault:"LINEAR16"`
}

// LoadDotEnv loads the dotenv files that exist
func LoadDotEnv() error {
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadCompanion reads and validates the client configuration
func LoadCompanion() (Companion, error) {
	var cfg Companion
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadDevServer reads and validates the dev backend configuration
func LoadDevServer() (DevServer, error) {
	var cfg DevServer
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, validateLogFormat(cfg.LogFormat)
}

// Validate checks value ranges
func (c Companion) Validate() error {
	u, err := url.Parse(c.PageURL)
	if err != nil {
		return fmt.Errorf("invalid ARUNIKA_PAGE_URL: %w", err)
	}
	if u.Hostname() == "" {
		return errors.New("ARUNIKA_PAGE_URL must include a host")
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("ARUNIKA_FRAME_RATE must be positive, got %d", c.FrameRate)
	}
	if c.MaxReconnectAttempts <= 0 {
		return fmt.Errorf("ARUNIKA_MAX_RECONNECT_ATTEMPTS must be positive, got %d", c.MaxReconnectAttempts)
	}
	if c.ReconnectBaseDelay <= 0 {
		return fmt.Errorf("ARUNIKA_RECONNECT_BASE_DELAY must be positive, got %v", c.ReconnectBaseDelay)
	}
	if c.TextDwell <= 0 {
		return fmt.Errorf("ARUNIKA_TEXT_DWELL must be positive, got %v", c.TextDwell)
	}
	return validateLogFormat(c.LogFormat)
}

func validateLogFormat(format string) error {
	switch format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", format)
	}
}

// NewLogger builds the process logger: production JSON or development console
func NewLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
