package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{}

	err := cnf.validateAndAddDefaults()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cnf.ProjectName != "Guardpay Server" {
		t.Errorf("Expected default project name, got %q", cnf.ProjectName)
	}
	if cnf.Server.Port != DEFAULT_PORT {
		t.Errorf("Expected default port %s, got %s", DEFAULT_PORT, cnf.Server.Port)
	}
	if cnf.Ledger.NetworkDelayMs != DefaultNetworkDelayMs {
		t.Errorf("Expected default network delay, got %d", cnf.Ledger.NetworkDelayMs)
	}

	cnf = Configuration{Ledger: LedgerConfig{NetworkDelayMs: -5}}
	if err := cnf.validateAndAddDefaults(); err == nil {
		t.Error("Expected error for negative network delay")
	}
}

func TestRateLimitDefaults(t *testing.T) {
	rps := 10.0
	cnf := Configuration{RateLimit: RateLimitConfig{RequestsPerSecond: &rps}}
	if err := cnf.validateAndAddDefaults(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cnf.RateLimit.Burst == nil || *cnf.RateLimit.Burst != 20 {
		t.Errorf("Expected burst default of 20, got %v", cnf.RateLimit.Burst)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		t.Error("Expected cleanup interval default")
	}

	cnf = Configuration{}
	_ = cnf.validateAndAddDefaults()
	if cnf.RateLimit.RequestsPerSecond != nil {
		t.Error("Rate limiting should stay disabled when unset")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	fileConfig := Configuration{
		ProjectName: "guardpay file test",
		Server:      ServerConfig{Port: "9091"},
		Redis:       RedisConfig{Dns: "localhost:6379"},
	}

	f, err := os.CreateTemp(t.TempDir(), "guardpay*.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := json.NewEncoder(f).Encode(&fileConfig); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	if err := loadConfigFromFile(f.Name()); err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}

	loaded, err := Fetch()
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if loaded.ProjectName != "guardpay file test" {
		t.Errorf("ProjectName = %q", loaded.ProjectName)
	}
	if loaded.Server.Port != "9091" {
		t.Errorf("Port = %q", loaded.Server.Port)
	}
	if !loaded.QueueEnabled() {
		t.Error("QueueEnabled() should be true when redis dns is set")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("GUARDPAY_SERVER_PORT", "7777")

	if err := loadConfigFromFile("does-not-exist.json"); err != nil {
		t.Fatalf("loadConfigFromFile() error = %v", err)
	}
	loaded, err := Fetch()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != "7777" {
		t.Errorf("Port = %q, want env override 7777", loaded.Server.Port)
	}
}
