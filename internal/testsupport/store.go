package testsupport

import (
	"context"
	"testing"

	"retitle/internal/config"
	"retitle/internal/process"
)

// MustOpenStore opens a process.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *process.Store {
	t.Helper()

	store, err := process.Open(cfg)
	if err != nil {
		t.Fatalf("process.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewProcess creates a process record for tests using the provided store.
func NewProcess(t testing.TB, store *process.Store, title, project, ruleset string) *process.Process {
	t.Helper()

	p, err := store.Create(context.Background(), title, project, ruleset)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return p
}
