package config

import (
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"ATM_ENV", "ATM_STORE_BACKEND", "ATM_DATA_FILE", "ATM_BCRYPT_COST", "ATM_RESET_DAILY_LIMIT", "ATM_METRICS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.StoreBackend != BackendFile || cfg.DataFile != "users.json" {
		t.Fatalf("backend=%q", cfg.StoreBackend)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Fatalf("bcrypt cost=%d want %d", cfg.BcryptCost, bcrypt.DefaultCost)
	}
	if !cfg.ResetDailyLimit {
		t.Fatal("daily reset should default to enabled")
	}
	if !cfg.EnvFileMissing() {
		t.Fatal("no .env in temp dir, EnvFileMissing should be true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ATM_STORE_BACKEND", BackendRedis)
	t.Setenv("ATM_DATA_FILE", "other.json")
	t.Setenv("ATM_BCRYPT_COST", "4")
	t.Setenv("ATM_RESET_DAILY_LIMIT", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.StoreBackend != BackendRedis || cfg.DataFile != "other.json" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.BcryptCost != 4 || cfg.ResetDailyLimit {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("ATM_STORE_BACKEND", "sqlite")
	if _, err := Load(); err == nil {
		t.Fatal("want error for unknown backend")
	}

	t.Setenv("ATM_STORE_BACKEND", BackendFile)
	t.Setenv("ATM_BCRYPT_COST", "99")
	if _, err := Load(); err == nil {
		t.Fatal("want error for out-of-range bcrypt cost")
	}

	t.Setenv("ATM_BCRYPT_COST", "")
	t.Setenv("ATM_RESET_DAILY_LIMIT", "sometimes")
	if _, err := Load(); err == nil {
		t.Fatal("want error for bad bool")
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
