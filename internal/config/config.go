// Package config loads PharmScribe configuration and builds the shared
// logger.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values. Environment variables override the
// optional YAML config file, which overrides the defaults.
type Config struct {
	// Gemini API
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// Per-modality analysis models (fixed selection table, see router)
	ModelText     string `yaml:"model_text"`
	ModelVision   string `yaml:"model_vision"`
	ModelAudio    string `yaml:"model_audio"`
	ModelDocument string `yaml:"model_document"`

	// Chat and speech
	ModelChat      string `yaml:"model_chat"`
	ModelSpeech    string `yaml:"model_speech"`
	VoicePrimary   string `yaml:"voice_primary"`
	VoiceSecondary string `yaml:"voice_secondary"`

	// History store
	HistoryPath string `yaml:"history_path"`

	// HTTP server
	ListenAddr string `yaml:"listen_addr"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

func defaults() Config {
	return Config{
		ModelText:      "gemini-2.5-flash-lite",
		ModelVision:    "gemini-2.5-pro",
		ModelAudio:     "gemini-2.5-flash",
		ModelDocument:  "gemini-2.5-flash",
		ModelChat:      "gemini-2.5-flash",
		ModelSpeech:    "gemini-2.5-flash-preview-tts",
		VoicePrimary:   "Kore",
		VoiceSecondary: "Zephyr",
		HistoryPath:    defaultHistoryPath(),
		ListenAddr:     ":8590",
		LogFile:        "/tmp/pharmscribe.log",
		LogLevel:       slog.LevelInfo,
	}
}

// Load reads configuration: defaults, then ~/.pharmscribe.yaml (or
// PHARMSCRIBE_CONFIG) if present, then environment variables.
func Load() Config {
	cfg := defaults()

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// A malformed config file is ignored rather than fatal;
			// env vars and defaults still apply.
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.ModelText = getEnv("PHARMSCRIBE_MODEL_TEXT", cfg.ModelText)
	cfg.ModelVision = getEnv("PHARMSCRIBE_MODEL_VISION", cfg.ModelVision)
	cfg.ModelAudio = getEnv("PHARMSCRIBE_MODEL_AUDIO", cfg.ModelAudio)
	cfg.ModelDocument = getEnv("PHARMSCRIBE_MODEL_DOCUMENT", cfg.ModelDocument)
	cfg.ModelChat = getEnv("PHARMSCRIBE_MODEL_CHAT", cfg.ModelChat)
	cfg.ModelSpeech = getEnv("PHARMSCRIBE_MODEL_SPEECH", cfg.ModelSpeech)
	cfg.VoicePrimary = getEnv("PHARMSCRIBE_VOICE_PRIMARY", cfg.VoicePrimary)
	cfg.VoiceSecondary = getEnv("PHARMSCRIBE_VOICE_SECONDARY", cfg.VoiceSecondary)
	cfg.HistoryPath = getEnv("PHARMSCRIBE_HISTORY_PATH", cfg.HistoryPath)
	cfg.ListenAddr = getEnv("PHARMSCRIBE_LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogFile = getEnv("PHARMSCRIBE_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("PHARMSCRIBE_LOG_LEVEL", ""))

	return cfg
}

func configFilePath() string {
	if path := os.Getenv("PHARMSCRIBE_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/.pharmscribe.yaml", home)
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pharmscribe.db"
	}
	return fmt.Sprintf("%s/.pharmscribe/history.db", home)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
