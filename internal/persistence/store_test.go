package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/config"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	require.NoError(t, store.Set(ctx, "a", []byte("1")))
	val, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), val)

	require.NoError(t, store.Delete(ctx, "a"))
	_, ok, err = store.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "otp", []byte("x")))
	now = now.Add(59 * time.Second)
	_, ok, _ := store.Get(ctx, "otp")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = store.Get(ctx, "otp")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestScopedStoreIsolatesClients(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStore(0)
	alice := Scoped(shared, "client:alice:")
	bob := Scoped(shared, "client:bob:")

	require.NoError(t, alice.Set(ctx, "wedding_otp_data", []byte("a")))
	require.NoError(t, bob.Set(ctx, "wedding_otp_data", []byte("b")))
	require.NoError(t, alice.Set(ctx, "auth_phone", []byte("a")))

	val, ok, _ := bob.Get(ctx, "wedding_otp_data")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), val)

	require.NoError(t, alice.DeletePrefix(ctx, ""))
	_, ok, _ = alice.Get(ctx, "wedding_otp_data")
	assert.False(t, ok)
	_, ok, _ = bob.Get(ctx, "wedding_otp_data")
	assert.True(t, ok)
	assert.Equal(t, 1, shared.Len())
}

func TestCodecFailsClosed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	require.NoError(t, SaveJSON(ctx, store, "k", sample{Name: "x", Count: 2}))
	var got sample
	ok, err := LoadJSON(ctx, store, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sample{Name: "x", Count: 2}, got)

	cases := map[string]string{
		"not json":      "{{{",
		"raw payload":   `{"name":"x","count":2}`,
		"wrong version": `{"v":2,"data":{"name":"x"}}`,
		"bad data":      `{"v":1,"data":{"count":"two"}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k", []byte(raw)))
			var dst sample
			ok, err := LoadJSON(ctx, store, "k", &dst)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	ok, err = LoadJSON(ctx, store, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMigrationNamesSorted(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_profiles.sql", "002_credentials.sql"}, names)
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNoDSN)
	assert.Nil(t, pg)
	assert.Error(t, pg.Ping(context.Background()))
}
