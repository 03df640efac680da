package collector

import (
	"encoding/binary"
	"sync"
	"sync/atomic"

	"github.com/zeebo/blake3"
)

// PointerEvent is one pointer sample from the presentation layer.
type PointerEvent struct {
	X              int
	Y              int
	TimestampNanos int64
	SourceID       int
}

// encode packs the event into 28 little-endian bytes.
func (e PointerEvent) encode() [28]byte {
	var b [28]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(e.TimestampNanos))
	binary.LittleEndian.PutUint64(b[8:16], uint64(int64(e.X)))
	binary.LittleEndian.PutUint64(b[16:24], uint64(int64(e.Y)))
	binary.LittleEndian.PutUint32(b[24:28], uint32(e.SourceID))
	return b
}

// PointerCollector folds pointer samples into a running BLAKE3 digest.
// Its lock is never held together with the pool lock.
type PointerCollector struct {
	mu      sync.Mutex
	digest  *blake3.Hasher
	pending int
	samples atomic.Uint64
}

func NewPointerCollector() *PointerCollector {
	return &PointerCollector{
		digest: blake3.New(),
	}
}

// Observe records one event. It only hashes 28 bytes and never touches the
// pool, so it is safe to call from an event loop.
func (c *PointerCollector) Observe(e PointerEvent) {
	b := e.encode()

	c.mu.Lock()
	c.digest.Write(b[:])
	c.pending++
	c.mu.Unlock()

	c.samples.Add(1)
}

// Drain swaps in a fresh digest and returns the finalized old one. The
// returned 32 bytes are produced even when nothing was observed.
func (c *PointerCollector) Drain() []byte {
	c.mu.Lock()
	old := c.digest
	c.digest = blake3.New()
	c.pending = 0
	c.mu.Unlock()

	return old.Sum(nil)
}

// Pending returns the number of events observed since the last Drain.
func (c *PointerCollector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Samples returns the total number of events ever observed.
func (c *PointerCollector) Samples() uint64 {
	return c.samples.Load()
}
