package sender

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, maxLen int64) (*miniredis.Miniredis, *RedisSender) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s := NewRedisSender(RedisConfig{
		Addr:   mr.Addr(),
		Stream: "events",
		MaxLen: maxLen,
	})

	return mr, s
}

func TestRedisSender_Handle(t *testing.T) {
	mr, s := setupTestRedis(t, 0)
	defer s.Close()

	batch := testBatch()
	require.NoError(t, s.Handle(t.Context(), batch))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	entries, err := client.XRange(t.Context(), "events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, len(batch))

	for i, e := range entries {
		assert.Equal(t, batch[i].StatementName, e.Values["statement"])
		assert.Equal(t, batch[i].SID, e.Values["SID"])
		assert.Equal(t, batch[i].Timestamp, e.Values["timestamp"])
	}
	assert.Equal(t, "13.7", entries[0].Values["value"])
}

func TestRedisSender_StreamIsCapped(t *testing.T) {
	mr, s := setupTestRedis(t, 2)
	defer s.Close()

	require.NoError(t, s.Handle(t.Context(), testBatch()))
	require.NoError(t, s.Handle(t.Context(), testBatch()))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	// redis обрезает по MAXLEN ~ с запасом, miniredis обрезает точно
	n, err := client.XLen(t.Context(), "events").Result()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(2))
	assert.Less(t, n, int64(2*len(testBatch())))
}

func TestRedisSender_UsesApproximateTrim(t *testing.T) {
	mr, s := setupTestRedis(t, 5)
	defer s.Close()

	require.NoError(t, s.Handle(t.Context(), testBatch()))

	// в miniredis MAXLEN = не разбирается, поэтому успешная запись подтверждает форму MAXLEN ~
	entries, err := mr.Stream("events")
	require.NoError(t, err)
	assert.Len(t, entries, len(testBatch()))
}

func TestRedisSender_ServerDown(t *testing.T) {
	mr, s := setupTestRedis(t, 0)
	defer s.Close()

	mr.Close()
	assert.Error(t, s.Handle(t.Context(), testBatch()))
}

func TestRedisSender_EmptyBatch(t *testing.T) {
	mr, s := setupTestRedis(t, 0)
	defer s.Close()

	require.NoError(t, s.Handle(t.Context(), nil))
	assert.False(t, mr.Exists("events"))
}
