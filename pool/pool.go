package pool

import (
	"Entropass/constants"
	"crypto/rand"
	"io"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

var (
	ErrInvalidSeed = errors.New("invalid pool seed")
	ErrPoisoned    = errors.New("pool poisoned by panic while locked")
)

// Pool is the entropy reservoir. Every operation holds mu for its whole
// duration; mix and mixIn assume the caller already holds it.
type Pool struct {
	mu       sync.Mutex
	state    [constants.PoolSize]byte
	cursor   int
	mixCount atomic.Uint64 // written under mu, read lock-free
	poisoned bool
}

// New returns a pool seeded from the operating system's CSPRNG.
func New() (*Pool, error) {
	p := &Pool{}
	if _, err := io.ReadFull(rand.Reader, p.state[:]); err != nil {
		return nil, errors.Wrap(err, "seed pool from os")
	}
	return p, nil
}

// NewFromBytes returns a pool whose state is a copy of seed. The seed must
// be exactly constants.PoolSize bytes long.
func NewFromBytes(seed []byte) (*Pool, error) {
	if len(seed) != constants.PoolSize {
		return nil, errors.Wrapf(ErrInvalidSeed, "got %d bytes, want %d",
			len(seed), constants.PoolSize)
	}
	p := &Pool{}
	copy(p.state[:], seed)
	return p, nil
}

// locked runs fn with the pool lock held. A panic inside fn leaves the
// state half-mixed, so the pool is marked poisoned and the panic continues
// up the stack; every later call panics with ErrPoisoned.
func (p *Pool) locked(fn func()) {
	p.mu.Lock()
	if p.poisoned {
		p.mu.Unlock()
		panic(ErrPoisoned)
	}

	completed := false
	defer func() {
		if !completed {
			p.poisoned = true
		}
		p.mu.Unlock()
	}()

	fn()
	completed = true
}

// mix hashes the full buffer and XORs the digest cyclically back over it.
func (p *Pool) mix() {
	digest := blake3.Sum512(p.state[:])
	for i := range p.state {
		p.state[i] ^= digest[i%constants.DigestSize]
	}
	p.mixCount.Add(1)
}

// mixIn adds data bytewise at the cursor, mixing on every wrap. A final
// mix runs unless the last byte already triggered one.
func (p *Pool) mixIn(data []byte) {
	if len(data) == 0 {
		return
	}

	wrapped := false
	for _, b := range data {
		p.state[p.cursor] += b
		p.cursor++
		wrapped = p.cursor == constants.PoolSize
		if wrapped {
			p.cursor = 0
			p.mix()
		}
	}

	if !wrapped {
		p.mix()
	}
}

// MixIn injects data into the pool. Empty input is a no-op.
func (p *Pool) MixIn(data []byte) {
	p.locked(func() {
		p.mixIn(data)
	})
}

// MixInAll injects every non-empty chunk under a single lock acquisition.
func (p *Pool) MixInAll(chunks ...[]byte) {
	p.locked(func() {
		for _, chunk := range chunks {
			p.mixIn(chunk)
		}
	})
}

// Stir runs one mix step without injecting anything.
func (p *Pool) Stir() {
	p.locked(p.mix)
}

// Snapshot copies n bytes starting at the cursor (wrapping around the
// buffer) and re-mixes the pool before the lock is released, so the copied
// bytes can not be recovered from any later state.
func (p *Pool) Snapshot(n int) []byte {
	if n <= 0 {
		return nil
	}
	if n > constants.PoolSize {
		n = constants.PoolSize
	}

	out := make([]byte, n)
	p.locked(func() {
		for i := range out {
			out[i] = p.state[(p.cursor+i)%constants.PoolSize]
		}
		p.mix()
	})
	return out
}

// MixCount returns how many mix steps the pool has run.
func (p *Pool) MixCount() uint64 {
	return p.mixCount.Load()
}

// Cursor returns the index the next MixIn byte lands on.
func (p *Pool) Cursor() int {
	var c int
	p.locked(func() {
		c = p.cursor
	})
	return c
}

// Bytes returns a copy of the raw state. Only useful for tests.
func (p *Pool) Bytes() []byte {
	out := make([]byte, constants.PoolSize)
	p.locked(func() {
		copy(out, p.state[:])
	})
	return out
}
