package job

import "hash/fnv"

// ShardIndex maps key to a stable shard in [0, shards). shards must be > 0.
func ShardIndex(key string, shards int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(shards))
}
