package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "sublet_market" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.JWTTTL)
	}
	if cfg.NotifyWorkers != 4 || cfg.SMTP.Port != "587" {
		t.Fatalf("unexpected worker or smtp defaults: %d %s", cfg.NotifyWorkers, cfg.SMTP.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MONGO_DB", "other")
	t.Setenv("NOTIFY_WORKERS", "2")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg := Load()
	if cfg.Port != "9000" || cfg.Mongo.Database != "other" || cfg.NotifyWorkers != 2 || cfg.SMTP.Host != "smtp.example.com" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (&Config{}).Validate(); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if err := (&Config{Env: "production", JWTSecret: "short"}).Validate(); err == nil {
		t.Fatal("expected error for short production secret")
	}
}

func TestConfig_AllowedOrigins(t *testing.T) {
	if got := (&Config{}).AllowedOrigins(); !reflect.DeepEqual(got, []string{"*"}) {
		t.Fatalf("expected wildcard, got %v", got)
	}
	cfg := &Config{CORSOrigins: "https://a.test, ,https://b.test"}
	if got := cfg.AllowedOrigins(); !reflect.DeepEqual(got, []string{"https://a.test", "https://b.test"}) {
		t.Fatalf("unexpected origins: %v", got)
	}
}
