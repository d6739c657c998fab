package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("PORT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.EnvVars.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.EnvVars.Port)
	}
	if cfg.EnvVars.StorageBackend != BackendPostgres {
		t.Errorf("StorageBackend = %q, want %q", cfg.EnvVars.StorageBackend, BackendPostgres)
	}
	if len(cfg.EnvVars.CorsAllowedOrigins) != 2 {
		t.Errorf("CorsAllowedOrigins = %v, want 2 entries", cfg.EnvVars.CorsAllowedOrigins)
	}
}

func TestCheckConfigEnvFields(t *testing.T) {
	cfg := &Config{EnvVars: EnvVars{Port: "8080", GinMode: "debug", StorageBackend: BackendMemory, RateLimitRPS: 5}}
	if err := cfg.CheckConfigEnvFields(); err != nil {
		t.Errorf("CheckConfigEnvFields() = %v, want nil", err)
	}

	cfg.EnvVars.Port = ""
	err := cfg.CheckConfigEnvFields()
	if err == nil || !strings.Contains(err.Error(), "PORT") {
		t.Errorf("CheckConfigEnvFields() = %v, want missing PORT", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     EnvVars
		wantErr bool
	}{
		{"memory", EnvVars{StorageBackend: BackendMemory, GinMode: "debug", RateLimitRPS: 1}, false},
		{"postgres with url", EnvVars{StorageBackend: BackendPostgres, DatabaseUrl: "postgres://x", GinMode: "release", RateLimitRPS: 1}, false},
		{"postgres without url", EnvVars{StorageBackend: BackendPostgres, GinMode: "debug", RateLimitRPS: 1}, true},
		{"unknown backend", EnvVars{StorageBackend: "sqlite", GinMode: "debug", RateLimitRPS: 1}, true},
		{"unknown gin mode", EnvVars{StorageBackend: BackendMemory, GinMode: "loud", RateLimitRPS: 1}, true},
		{"zero rate", EnvVars{StorageBackend: BackendMemory, GinMode: "debug"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EnvVars: tt.env}
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsDev(t *testing.T) {
	if (&Config{EnvVars: EnvVars{GinMode: "release"}}).IsDev() {
		t.Error("IsDev() = true in release mode")
	}
	if !(&Config{EnvVars: EnvVars{GinMode: "debug"}}).IsDev() {
		t.Error("IsDev() = false in debug mode")
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := `ingredients:
  - name: Tomato
    description: Red and juicy
    diet_friendly: [vegan, vegetarian]
  - name: Salt
    description: Mineral
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(seed.Ingredients) != 2 {
		t.Fatalf("len(Ingredients) = %d, want 2", len(seed.Ingredients))
	}
	if got := seed.Ingredients[0].DietFriendly; len(got) != 2 || got[0] != "vegan" {
		t.Errorf("DietFriendly = %v, want [vegan vegetarian]", got)
	}
}

func TestLoadSeed_Errors(t *testing.T) {
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSeed(missing) = nil error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("ingredients: [unterminated"), 0o600)
	if _, err := LoadSeed(path); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("LoadSeed(bad) = %v, want parse error", err)
	}
}
