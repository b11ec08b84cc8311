package kvstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "wizard.missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "wizard.user", `{"steps":{}}`))
	v, ok, err := s.Get(ctx, "wizard.user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"steps":{}}`, v)

	require.NoError(t, s.Set(ctx, "wizard.user", `{"steps":{"step3":{}}}`))
	v, _, _ = s.Get(ctx, "wizard.user")
	assert.Equal(t, `{"steps":{"step3":{}}}`, v)

	require.NoError(t, s.Remove(ctx, "wizard.user"))
	_, ok, err = s.Get(ctx, "wizard.user")
	require.NoError(t, err)
	assert.False(t, ok)

	// удаление отсутствующего ключа не ошибка
	require.NoError(t, s.Remove(ctx, "wizard.user"))

	for _, key := range []string{"", ".", "..", "a/b", `a\b`} {
		assert.ErrorIs(t, s.Set(ctx, key, "x"), ErrInvalidKey, key)
	}
}

func TestMemory(t *testing.T) {
	checkStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	s, err := NewFile(afero.NewMemMapFs(), "/var/drafts")
	require.NoError(t, err)
	checkStore(t, s)
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	s, err := NewFile(fs, "/var/drafts")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "wizard.artist-registration", `{"current_step_display":7}`))

	reopened, err := NewFile(fs, "/var/drafts")
	require.NoError(t, err)
	v, ok, err := reopened.Get(ctx, "wizard.artist-registration")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"current_step_display":7}`, v)

	// временных файлов не остается
	entries, err := afero.ReadDir(fs, "/var/drafts")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "wizard.artist-registration.json", entries[0].Name())
}

func TestFileRespectsContext(t *testing.T) {
	s, err := NewFile(afero.NewMemMapFs(), "/var/drafts")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	checkStore(t, NewRedis(client, "test:"+uuid.NewString()+":", time.Minute))
}
