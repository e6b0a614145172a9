package repository

import (
	"context"
	"os"
	"testing"
)

func checkBackendRoundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	first := map[string]string{BalanceKey("1"): "10000.00", LockedKey("1"): "false"}
	if err := b.Save(ctx, first); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	second := map[string]string{BalanceKey("2"): "500.00"}
	if err := b.Save(ctx, second); err != nil {
		t.Fatalf("Save err=%v", err)
	}

	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(got) != 1 || got[BalanceKey("2")] != "500.00" {
		t.Fatalf("snapshot should be replaced wholesale, got %v", got)
	}
}

func TestPostgresBackend_RoundTrip(t *testing.T) {
	url := os.Getenv("ATM_TEST_DB_URL")
	if url == "" {
		t.Skip("ATM_TEST_DB_URL not set")
	}
	b, err := NewPostgresBackend(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer b.Close()
	checkBackendRoundTrip(t, b)
}

func TestRedisBackend_RoundTrip(t *testing.T) {
	url := os.Getenv("ATM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ATM_TEST_REDIS_URL not set")
	}
	b, err := NewRedisBackend(context.Background(), url, "atm:test:store")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer b.Close()
	checkBackendRoundTrip(t, b)
}
