package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/bz888/loanchat/internal/config"
	"github.com/bz888/loanchat/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withStore(t *testing.T, store session.Store) {
	t.Helper()
	prev := newStore
	newStore = func(*config.Config) (session.Store, error) { return store, nil }
	t.Cleanup(func() { newStore = prev })
}

func TestOpenBackendClosesStoreWhenClientFails(t *testing.T) {
	mem := session.NewMemory()
	withStore(t, mem)

	store, client, err := openBackend(&config.Config{APIBaseURL: "http://[::1", Timeout: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create api client")
	assert.Nil(t, store)
	assert.Nil(t, client)

	_, err = mem.SessionID(context.Background())
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestOpenBackendKeepsStoreOpen(t *testing.T) {
	mem := session.NewMemory()
	withStore(t, mem)

	store, client, err := openBackend(&config.Config{APIBaseURL: "http://localhost:8000", Timeout: time.Second})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Same(t, mem, store)

	require.NoError(t, store.SetSessionID(context.Background(), "s1"))
	require.NoError(t, store.Close())
}
