package message_repo

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshathishka/collabstudy/state"
)

func newSeqRepo(t *testing.T) *MessageRepo {
	t.Helper()
	mockRedis := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	t.Cleanup(func() { client.Close() })
	return &MessageRepo{AppState: &state.AppState{Redis: client}}
}

func TestNextSeq_MonotonicPerRoom(t *testing.T) {
	repo := newSeqRepo(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		seq, err := repo.NextSeq(ctx, "room-1")
		require.Nil(t, err)
		assert.Equal(t, want, seq)
	}
}

func TestNextSeq_IndependentPerRoom(t *testing.T) {
	repo := newSeqRepo(t)
	ctx := context.Background()

	seqA, err := repo.NextSeq(ctx, "room-a")
	require.Nil(t, err)
	seqB, err := repo.NextSeq(ctx, "room-b")
	require.Nil(t, err)

	assert.Equal(t, int64(1), seqA)
	assert.Equal(t, int64(1), seqB, "rooms keep separate counters")
}
