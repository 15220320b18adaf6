package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!!")
	os.Setenv("DB_PASSWORD", "test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Env != "development" {
		t.Errorf("Env: got %q, want development", cfg.Server.Env)
	}
	if cfg.Server.IsProduction() {
		t.Error("IsProduction() = true for development env")
	}
	if cfg.Auth.TokenExpiry != 24*time.Hour {
		t.Errorf("TokenExpiry: got %v, want 24h", cfg.Auth.TokenExpiry)
	}
	if cfg.Auth.ResetTokenTTL != 10*time.Minute {
		t.Errorf("ResetTokenTTL: got %v, want 10m", cfg.Auth.ResetTokenTTL)
	}
	if cfg.Database.Name != "trailbook" {
		t.Errorf("DB name: got %q, want trailbook", cfg.Database.Name)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing JWT_SECRET")
	}
}

func TestLoad_MissingDBPassword(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!!")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing DB_PASSWORD")
	}
}

func TestLoad_RejectsInvalidEnv(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("ENV", "staging")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for invalid ENV")
	}
}

func TestLoad_WeakJWTSecretInProduction(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	os.Setenv("JWT_SECRET", "short-secret")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for short production secret")
	}
}

func TestLoad_CustomDurations(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("JWT_EXPIRES_IN", "90m")
	os.Setenv("RESET_TOKEN_TTL", "5m")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.TokenExpiry != 90*time.Minute {
		t.Errorf("TokenExpiry: got %v, want 90m", cfg.Auth.TokenExpiry)
	}
	if cfg.Auth.ResetTokenTTL != 5*time.Minute {
		t.Errorf("ResetTokenTTL: got %v, want 5m", cfg.Auth.ResetTokenTTL)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("JWT_EXPIRES_IN", "not-a-duration")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Auth.TokenExpiry != 24*time.Hour {
		t.Errorf("TokenExpiry with invalid value: got %v, want 24h", cfg.Auth.TokenExpiry)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "pw", Name: "trailbook", SSLMode: "disable",
	}
	want := "host=db port=5433 user=app password=pw dbname=trailbook sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
