package generator

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// EntropySource hands out fresh random bytes from outside the pool.
type EntropySource interface {
	Read(n int) ([]byte, error)
}

// RNGPool reads OS randomness through reusable scratch buffers.
type RNGPool struct {
	pool   sync.Pool
	size   int
	reader io.Reader
}

func NewRNGPool(size int) *RNGPool {
	return newRNGPool(size, rand.Reader)
}

func newRNGPool(size int, reader io.Reader) *RNGPool {
	return &RNGPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		},
		size:   size,
		reader: reader,
	}
}

// Read returns n freshly read bytes. Unlike a fallback buffer, a failed
// OS read is reported; callers must not derive secrets without it.
func (p *RNGPool) Read(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}

	buf := p.pool.Get().([]byte)
	if len(buf) < n {
		buf = make([]byte, n)
	}
	scratch := buf[:n]

	if _, err := io.ReadFull(p.reader, scratch); err != nil {
		p.pool.Put(buf)
		return nil, errors.Wrap(err, "read os entropy")
	}

	// Copy to prevent reuse
	result := make([]byte, n)
	copy(result, scratch)

	clear(scratch)
	p.pool.Put(buf)
	return result, nil
}
