package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PHARMSCRIBE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()

	if cfg.ModelText != "gemini-2.5-flash-lite" {
		t.Errorf("ModelText = %q", cfg.ModelText)
	}
	if cfg.VoicePrimary != "Kore" || cfg.VoiceSecondary != "Zephyr" {
		t.Errorf("voices = %q, %q", cfg.VoicePrimary, cfg.VoiceSecondary)
	}
	if cfg.ListenAddr != ":8590" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharmscribe.yaml")
	content := "model_text: from-file\nlisten_addr: \":9999\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHARMSCRIBE_CONFIG", path)
	t.Setenv("PHARMSCRIBE_MODEL_TEXT", "from-env")

	cfg := Load()

	if cfg.ModelText != "from-env" {
		t.Errorf("ModelText = %q, want env value", cfg.ModelText)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, want file value", cfg.ListenAddr)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
