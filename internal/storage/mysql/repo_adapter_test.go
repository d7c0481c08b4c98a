package mysql

import (
	"context"
	"testing"

	"fleximart/internal/storage"
)

// TestMySQLStorageRegistrationUsesNewRepositoryHook verifies that the "mysql"
// backend registered in init() uses the newRepository hook and that
// wrappedRepo delegates Close.
func TestMySQLStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	ctx := context.Background()

	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		gotCfg Config
		closed bool

		fakeRepo = &Repository{}
	)

	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	cfg := storage.Config{Kind: "mysql", DSN: "etl:etl@tcp(localhost:3306)/fleximart_db"}
	repo, err := storage.New(ctx, cfg)
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if gotCfg.DSN != cfg.DSN {
		t.Errorf("hook cfg.DSN = %q, want %q", gotCfg.DSN, cfg.DSN)
	}

	repo.Close()
	if !closed {
		t.Fatal("wrappedRepo.Close() did not invoke closeFn")
	}
}
