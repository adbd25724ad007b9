package config

import (
	"testing"
	"time"
)

func TestNewRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	if _, err := New(); err == nil {
		t.Error("Expected an error without BOT_TOKEN")
	}
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.TTSService != "edge" {
		t.Errorf("Expected default tts service edge, got %s", cfg.TTSService)
	}
	if cfg.MongoDatabase != "swara" {
		t.Errorf("Expected default database swara, got %s", cfg.MongoDatabase)
	}
	if cfg.MaxTextLength != 1000 {
		t.Errorf("Expected default max text length 1000, got %d", cfg.MaxTextLength)
	}
	if cfg.LivenessInterval != 4*time.Second {
		t.Errorf("Expected default liveness interval 4s, got %s", cfg.LivenessInterval)
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("PORT", "9000")
	t.Setenv("TTS_SERVICE", "google")
	t.Setenv("LIVENESS_INTERVAL", "2s")
	t.Setenv("MAX_TEXT_LENGTH", "500")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.Port != "9000" || cfg.TTSService != "google" {
		t.Errorf("Expected overrides applied, got %s/%s", cfg.Port, cfg.TTSService)
	}
	if cfg.LivenessInterval != 2*time.Second || cfg.MaxTextLength != 500 {
		t.Errorf("Expected overrides applied, got %s/%d", cfg.LivenessInterval, cfg.MaxTextLength)
	}
}

func TestNewRejectsNonPositiveValues(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MAX_TEXT_LENGTH", "0")

	if _, err := New(); err == nil {
		t.Error("Expected an error for MAX_TEXT_LENGTH=0")
	}
}
