package config

import (
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "GENERATE_MAX_LIMIT", "JWT_EXPIRES_DAYS", "CATALOG_FILE"} {
		t.Setenv(k, "") // restored on cleanup
		_ = os.Unsetenv(k)
	}
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "5175" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.GenerateMaxLimit != 200 {
		t.Fatalf("GenerateMaxLimit = %d", cfg.GenerateMaxLimit)
	}
	if cfg.JWTExpiresDays != 14 {
		t.Fatalf("JWTExpiresDays = %d", cfg.JWTExpiresDays)
	}
	if cfg.Level() != zerolog.InfoLevel {
		t.Fatalf("Level = %v", cfg.Level())
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GENERATE_MAX_LIMIT", "50")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "8080" || cfg.GenerateMaxLimit != 50 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Fatalf("Level = %v", cfg.Level())
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"GENERATE_MAX_LIMIT": "0",
		"JWT_EXPIRES_DAYS":   "many",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "parse env:") {
				t.Fatalf("expected parse env prefix, got %v", err)
			}
		})
	}
}

func TestLevelFallback(t *testing.T) {
	if got := (Config{LogLevel: "loud"}).Level(); got != zerolog.InfoLevel {
		t.Fatalf("Level = %v", got)
	}
}
