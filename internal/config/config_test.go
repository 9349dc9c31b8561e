package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:              "8000",
		Env:               "development",
		DataFile:          "healthguard360_data.json",
		SessionSecret:     "0123456789abcdef",
		SessionTTLMinutes: 60,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "production"
	cfg.SessionSecret = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Errorf("expected SESSION_SECRET error, got %v", err)
	}
}

func TestValidateShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.SessionSecret = "tooshort"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestValidateTTL(t *testing.T) {
	cfg := validConfig()
	cfg.SessionTTLMinutes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive TTL")
	}
}

func TestValidateDataFile(t *testing.T) {
	cfg := validConfig()
	cfg.DataFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty data file")
	}
}

func TestIsDev(t *testing.T) {
	cfg := validConfig()
	if !cfg.IsDev() {
		t.Error("development config should report IsDev")
	}
	cfg.Env = "production"
	if cfg.IsDev() || !cfg.IsProduction() {
		t.Error("production config misreported")
	}
}
