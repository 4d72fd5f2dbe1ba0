package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("DatabaseURL = %q, want empty (memory mode)", cfg.DatabaseURL)
	}
	if cfg.GenDelayMin != 2*time.Second || cfg.GenDelayMax != 5*time.Second {
		t.Fatalf("generation delay window = [%s,%s], want [2s,5s]", cfg.GenDelayMin, cfg.GenDelayMax)
	}
	if cfg.EventBufferSize != 500 {
		t.Fatalf("EventBufferSize = %d, want 500", cfg.EventBufferSize)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("pool window = [%d,%d], want [1,10]", cfg.DBMinConns, cfg.DBMaxConns)
	}
}

func TestLoadConfigRejectsInvertedPoolWindow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig accepted min conns above max conns")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig accepted missing JWT_SECRET")
	}
}

func TestLoadConfigRejectsInvertedDelayWindow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GEN_DELAY_MIN_MS", "5000")
	t.Setenv("GEN_DELAY_MAX_MS", "1000")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig accepted max delay below min delay")
	}
}

func TestLoadConfigParsesOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:5173 ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://app.example.com", "http://localhost:5173"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %#v, want %#v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}
