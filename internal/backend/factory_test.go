package backend

import (
	"context"
	"path/filepath"
	"testing"

	"vestadmin/internal/config"
	"vestadmin/internal/kv/memory"
	"vestadmin/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    BackendType
		wantErr bool
	}{
		{"memory", "memory", MemoryBackend, false},
		{"redis", "redis", RedisBackend, false},
		{"sqlite", "sqlite", SQLiteBackend, false},
		{"unknown", "postgres", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAppConfig(&config.Config{KVBackend: tt.backend, RedisAddr: "localhost:6379"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromAppConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Type != tt.want {
				t.Errorf("FromAppConfig() type = %v, want %v", got.Type, tt.want)
			}
		})
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Errorf("FromAppConfig(nil) should fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"redis without addr", Config{Type: RedisBackend}, true},
		{"redis", Config{Type: RedisBackend, RedisAddr: "localhost:6379"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"invalid type", Config{Type: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_CreateBackend(t *testing.T) {
	f := NewFactory(nil)
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := res.Store.(*memory.Store); !ok {
			t.Errorf("expected memory store, got %T", res.Store)
		}
		if res.Cleanup != nil {
			t.Errorf("memory backend should not need cleanup")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kv.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		defer res.Cleanup()
		if _, ok := res.Store.(*storage.SQLiteRepository); !ok {
			t.Errorf("expected sqlite store, got %T", res.Store)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: "postgres"}); err == nil {
			t.Errorf("expected error for unsupported backend")
		}
	})
}
