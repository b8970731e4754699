package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.LogsPath != "./logs" {
		t.Errorf("LogsPath = %q, want ./logs", cfg.LogsPath)
	}
	if cfg.ProxyLevel != 0 {
		t.Errorf("ProxyLevel = %d, want 0", cfg.ProxyLevel)
	}
	if cfg.ServerAddr != ":8080" || cfg.AdminAddr != ":9091" {
		t.Errorf("unexpected addresses %q %q", cfg.ServerAddr, cfg.AdminAddr)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr should be empty by default, got %q", cfg.RedisAddr)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MATTERLOGSERVER_LOGS_PATH", "/srv/matterlog")
	t.Setenv("MATTERLOGSERVER_PROXY_LEVEL", "2")
	t.Setenv("MATTERLOGSERVER_BASE_URL", "https://logs.example.org")
	t.Setenv("SEARCH_RATE_LIMIT", "0.5")
	t.Setenv("REDIS_HEALTH_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.LogsPath != "/srv/matterlog" || cfg.ProxyLevel != 2 || cfg.BaseURL != "https://logs.example.org" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.SearchRateLimit != 0.5 {
		t.Errorf("SearchRateLimit = %v", cfg.SearchRateLimit)
	}
	if cfg.RedisHealthInterval != time.Minute {
		t.Errorf("RedisHealthInterval = %v", cfg.RedisHealthInterval)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("MATTERLOGSERVER_PROXY_LEVEL", "many")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric proxy level")
	}
}
