package message_service

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// keyedMutex serializes mutating operations per message id. Sharded so the
// lock table stays fixed-size regardless of how many messages are live; two
// messages hashing to the same shard merely contend, they never corrupt.
// The zero value is ready to use.
type keyedMutex struct {
	shards [lockShards]sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	shard := &k.shards[h.Sum32()%lockShards]
	shard.Lock()
	return shard.Unlock
}
