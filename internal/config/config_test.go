package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.DefaultURL != "http://localhost:8000/api/" {
		t.Fatalf("unexpected default URL %q", cfg.Backend.DefaultURL)
	}
	if !cfg.Backend.ResetBaseURLOnStart || !cfg.Backend.OfflineCatalog {
		t.Fatalf("expected reset and offline catalog on by default")
	}
	if cfg.Backend.Timeout != 15*time.Second || cfg.Backend.DiscoveryTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts %v %v", cfg.Backend.Timeout, cfg.Backend.DiscoveryTimeout)
	}
	if cfg.Prefs.Backend != PrefsFile || cfg.Prefs.Name != "app_prefs" {
		t.Fatalf("unexpected prefs config %+v", cfg.Prefs)
	}
	if cfg.Gateway.Port != "8090" || cfg.DevServer.Port != "8000" {
		t.Fatalf("unexpected ports %q %q", cfg.Gateway.Port, cfg.DevServer.Port)
	}
	if cfg.DevServer.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl %v", cfg.DevServer.TokenTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"BACKEND_DEFAULT_URL":             "https://api.example.com/api",
		"BACKEND_RESET_BASE_URL_ON_START": "false",
		"PREFS_BACKEND":                   "redis",
		"REDIS_ADDR":                      "localhost:6379",
		"REDIS_DB":                        "2",
		"DEVSERVER_TOKEN_TTL":             "30m",
		"ENV":                             "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.ResetBaseURLOnStart {
		t.Fatalf("expected reset disabled")
	}
	if cfg.Redis.DB != 2 || cfg.DevServer.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected overrides %+v %+v", cfg.Redis, cfg.DevServer)
	}
	if cfg.Pretty() {
		t.Fatalf("production without LOG_PRETTY should log JSON")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown prefs backend": {"PREFS_BACKEND": "sqlite"},
		"redis without addr":    {"PREFS_BACKEND": "redis"},
		"bad default url":       {"BACKEND_DEFAULT_URL": "localhost:8000"},
		"bad duration":          {"BACKEND_TIMEOUT": "soon"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
