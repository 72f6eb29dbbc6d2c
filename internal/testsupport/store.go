package testsupport

import (
	"testing"

	"cuetrack/internal/config"
	"cuetrack/internal/sessionstore"
)

// MustOpenStore opens a sessionstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, opts ...sessionstore.Option) *sessionstore.Store {
	t.Helper()

	store, err := sessionstore.Open(cfg, opts...)
	if err != nil {
		t.Fatalf("sessionstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
