package cachesink

import (
	"strconv"
	"time"

	"github.com/allegro/bigcache"

	"github.com/michipili/go-stream/stream"

	bufferedstream "github.com/michipili/go-stream/buffered-stream"
)

const (
	__DefaultEvictionTime = 100 * 365 * 24 * time.Hour
	__DefaultShardsFactor = 100
	__DefaultMaxShards    = 128
	__OneMB               = 1024 * 1024
)

// SinkCfg bounds the chunk store.
type SinkCfg struct {
	MaxChunks    uint64 // number of chunks kept before eviction kicks in
	MaxChunkSize uint64 // chunk size upper bound, in bytes
}

func (cfg *SinkCfg) bigCacheCfg() bigcache.Config {
	bcCfg := bigcache.DefaultConfig(__DefaultEvictionTime)
	bcCfg.Verbose = false

	shardsUpLimit := uint(cfg.MaxChunks/__DefaultShardsFactor) + 1
	bcCfg.Shards = int(findNearestPowerOf2Num(shardsUpLimit))
	if bcCfg.Shards > __DefaultMaxShards {
		bcCfg.Shards = __DefaultMaxShards
	}

	bcCfg.MaxEntriesInWindow = 10 * bcCfg.Shards
	bcCfg.MaxEntrySize = int(cfg.MaxChunkSize)

	bcCfg.HardMaxCacheSize = int((cfg.MaxChunks*cfg.MaxChunkSize)/__OneMB) + 1
	return bcCfg
}

func findNearestPowerOf2Num(n uint) uint {
	if (n & (n - 1)) == 0 {
		return n
	}
	k := uint(1)
	for (k << 1) < n {
		k <<= 1
	}
	return k
}

// Sink drains byte buffers into an in-memory chunk store: each drain
// step files the whole pending chunk as a numbered cache entry. Memory
// stays bounded by evicting the oldest chunks, which makes the sink a
// cheap tail capture for diagnostics.
type Sink struct {
	cache *bigcache.BigCache
	next  int
}

// NewSink creates a chunk store sized by cfg.
func NewSink(cfg *SinkCfg) (*Sink, error) {
	cache, err := bigcache.NewBigCache(cfg.bigCacheCfg())
	if err != nil {
		return nil, err
	}
	return &Sink{cache: cache}, nil
}

func (s *Sink) Drain(b *stream.Buffer[byte]) (stream.Outcome, error) {
	chunk := append([]byte(nil), b.Data[b.Index:b.Length]...)
	if err := s.cache.Set(chunkKey(s.next), chunk); err != nil {
		return stream.Ok, err
	}
	s.next++
	b.Index = b.Length
	return stream.Ok, nil
}

// Chunk returns the stored chunk by sequence number; evicted or never
// written chunks report the cache's not-found error.
func (s *Sink) Chunk(i int) ([]byte, error) {
	return s.cache.Get(chunkKey(i))
}

// Chunks returns the number of chunks written so far, including any
// already evicted.
func (s *Sink) Chunks() int {
	return s.next
}

// Reset drops every stored chunk and restarts the numbering.
func (s *Sink) Reset() error {
	s.next = 0
	return s.cache.Reset()
}

func chunkKey(i int) string {
	return "chunk-" + strconv.Itoa(i)
}

// NewOutput builds a buffered byte output stream over a fresh chunk
// store.
func NewOutput(cfg *SinkCfg, capacity int) (*bufferedstream.OutputStream[byte], *Sink, error) {
	sink, err := NewSink(cfg)
	if err != nil {
		return nil, nil, err
	}
	return bufferedstream.NewOutputStream[byte](sink, capacity), sink, nil
}
