package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Host string `yaml:"host" env:"VOICEDESK_HOST"`
	Port int    `yaml:"port" env:"VOICEDESK_PORT"`

	// generated speech, round trip output and uploads
	TempDir string `yaml:"temp_dir" env:"VOICEDESK_TEMP_DIR"`
	// normalized clone samples
	CloneDir string `yaml:"clone_dir" env:"VOICEDESK_CLONE_DIR"`
	// how long temporary audio is kept before it is deleted
	AssetTTL time.Duration `yaml:"asset_ttl" env:"VOICEDESK_ASSET_TTL"`
	// max upload size in bytes
	MaxUpload int64 `yaml:"max_upload" env:"VOICEDESK_MAX_UPLOAD"`

	// requests per second accepted by the interface server, 0 disables
	RateLimit float64 `yaml:"rate_limit" env:"VOICEDESK_RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" env:"VOICEDESK_RATE_BURST"`

	LogLevel string `yaml:"log_level" env:"VOICEDESK_LOG_LEVEL"`
	LogJSON  bool   `yaml:"log_json" env:"VOICEDESK_LOG_JSON"`

	TTS TTS `yaml:"tts"`
	STT STT `yaml:"stt"`
	S3  S3  `yaml:"s3"`
}

type TTS struct {
	// coqui, elevenlabs, openai, google or stub
	Engine     string     `yaml:"engine" env:"VOICEDESK_TTS_ENGINE"`
	Coqui      Coqui      `yaml:"coqui"`
	ElevenLabs ElevenLabs `yaml:"elevenlabs"`
	OpenAI     OpenAI     `yaml:"openai"`
}

type STT struct {
	// whisper, openai or stub
	Engine  string  `yaml:"engine" env:"VOICEDESK_STT_ENGINE"`
	Whisper Whisper `yaml:"whisper"`
	OpenAI  OpenAI  `yaml:"openai"`
}

type Coqui struct {
	Binary  string `yaml:"binary" env:"COQUI_BINARY"`
	Model   string `yaml:"model" env:"COQUI_MODEL"`
	UseCUDA bool   `yaml:"use_cuda" env:"COQUI_USE_CUDA"`
}

type Whisper struct {
	Binary string `yaml:"binary" env:"WHISPER_BINARY"`
	Model  string `yaml:"model" env:"WHISPER_MODEL"`
}

type ElevenLabs struct {
	APIKey  string        `yaml:"api_key" env:"ELEVENLABS_API_KEY"`
	ModelID string        `yaml:"model_id" env:"ELEVENLABS_MODEL_ID"`
	VoiceID string        `yaml:"voice_id" env:"ELEVENLABS_VOICE_ID"`
	Timeout time.Duration `yaml:"timeout" env:"ELEVENLABS_TIMEOUT"`
}

type OpenAI struct {
	APIKey             string `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL            string `yaml:"base_url" env:"OPENAI_BASE_URL"`
	SpeechModel        string `yaml:"speech_model" env:"OPENAI_SPEECH_MODEL"`
	TranscriptionModel string `yaml:"transcription_model" env:"OPENAI_TRANSCRIPTION_MODEL"`
}

// S3 mirrors generated audio to a bucket. Disabled while Bucket is empty.
type S3 struct {
	Endpoint  string `yaml:"endpoint" env:"S3_HOSTNAME"`
	Region    string `yaml:"region" env:"S3_REGION"`
	AccessKey string `yaml:"access_key" env:"S3_ACCESS"`
	SecretKey string `yaml:"secret_key" env:"S3_SECRET"`
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Prefix    string `yaml:"prefix" env:"S3_PREFIX"`
}

func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// Default mirrors the settings the assistant always shipped with.
func Default() Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      7860,
		TempDir:   "temp_audio",
		CloneDir:  "voice_clones",
		AssetTTL:  time.Hour,
		MaxUpload: 32 << 20,
		RateLimit: 5,
		RateBurst: 10,
		LogLevel:  "info",
		TTS: TTS{
			Engine: "coqui",
			Coqui: Coqui{
				Binary: "tts",
				Model:  "tts_models/multilingual/multi-dataset/xtts_v2",
			},
			ElevenLabs: ElevenLabs{
				ModelID: "eleven_multilingual_v2",
				Timeout: 30 * time.Second,
			},
			OpenAI: OpenAI{
				SpeechModel: "tts-1",
			},
		},
		STT: STT{
			Engine: "whisper",
			Whisper: Whisper{
				Binary: "whisper",
				Model:  "base",
			},
			OpenAI: OpenAI{
				TranscriptionModel: "whisper-1",
			},
		},
		S3: S3{
			Region: "auto",
			Prefix: "voicedesk/",
		},
	}
}

// Load applies, in order: defaults, the yaml file at filename (if not
// empty), a .env file in the working directory and the process environment.
func Load(filename string) (Config, error) {
	cfg := Default()

	if filename != "" {
		file, err := os.ReadFile(filename)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config; %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s; %w", filename, err)
		}
	}

	// a missing .env is fine
	_ = godotenv.Load()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment; %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	if c.TempDir == "" {
		errs = append(errs, errors.New("temp_dir is empty"))
	}
	if c.CloneDir == "" {
		errs = append(errs, errors.New("clone_dir is empty"))
	}
	if c.AssetTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid asset_ttl %s", c.AssetTTL))
	}
	if c.MaxUpload <= 0 {
		errs = append(errs, fmt.Errorf("invalid max_upload %d", c.MaxUpload))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("invalid rate_limit %v", c.RateLimit))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the interface server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
