package webguard

import (
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults with secret",
			mutate: nil,
		},
		{
			name:    "missing secret",
			mutate:  func(cfg *Config) { cfg.JWT.Secret = nil },
			wantErr: true,
		},
		{
			name:    "zero access ttl",
			mutate:  func(cfg *Config) { cfg.JWT.AccessTTL = 0 },
			wantErr: true,
		},
		{
			name:    "unknown validation mode",
			mutate:  func(cfg *Config) { cfg.ValidationMode = ValidationMode(9) },
			wantErr: true,
		},
		{
			name:    "strict without revocation",
			mutate:  func(cfg *Config) { cfg.ValidationMode = ModeStrict },
			wantErr: true,
		},
		{
			name: "strict with revocation",
			mutate: func(cfg *Config) {
				cfg.ValidationMode = ModeStrict
				cfg.Revocation.Enabled = true
			},
		},
		{
			name: "throttle without budget",
			mutate: func(cfg *Config) {
				cfg.Throttle.Enabled = true
				cfg.Throttle.MaxFailures = 0
			},
			wantErr: true,
		},
		{
			name: "throttle without cooldown",
			mutate: func(cfg *Config) {
				cfg.Throttle.Enabled = true
				cfg.Throttle.Cooldown = 0
			},
			wantErr: true,
		},
		{
			name: "audit without buffer",
			mutate: func(cfg *Config) {
				cfg.Audit.Enabled = true
				cfg.Audit.BufferSize = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			err := validateConfig(cfg)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Errorf("access ttl = %v, want 15m", cfg.JWT.AccessTTL)
	}
	if cfg.ValidationMode != ModeJWTOnly {
		t.Errorf("validation mode = %v, want jwtonly", cfg.ValidationMode)
	}
	if cfg.Revocation.Enabled || cfg.Throttle.Enabled || cfg.Audit.Enabled || cfg.Metrics.Enabled {
		t.Error("optional subsystems enabled by default")
	}
	if cfg.Revocation.RedisPrefix != "wg" {
		t.Errorf("redis prefix = %q, want wg", cfg.Revocation.RedisPrefix)
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := validTestConfig()
	clone := cloneConfig(cfg)

	cfg.JWT.Secret[0] = 'x'
	if clone.JWT.Secret[0] == 'x' {
		t.Error("clone shares secret backing array with original")
	}
}
