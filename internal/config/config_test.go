package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MaxUploadMB != 32 {
		t.Errorf("expected default upload limit 32, got %d", cfg.MaxUploadMB)
	}
	if cfg.DetectorTimeout != 30*time.Second {
		t.Errorf("expected default detector timeout 30s, got %v", cfg.DetectorTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DETECTOR_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_MB", "8")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DetectorTimeout != 5*time.Second {
		t.Errorf("expected detector timeout 5s, got %v", cfg.DetectorTimeout)
	}
	if cfg.MaxUploadMB != 8 {
		t.Errorf("expected upload limit 8, got %d", cfg.MaxUploadMB)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "not a number")
	t.Setenv("DETECTOR_TIMEOUT", "soon")

	cfg := Load()

	if cfg.MaxUploadMB != 32 {
		t.Errorf("malformed int should fall back to default, got %d", cfg.MaxUploadMB)
	}
	if cfg.DetectorTimeout != 30*time.Second {
		t.Errorf("malformed duration should fall back to default, got %v", cfg.DetectorTimeout)
	}
}
