package pool

import (
	"Entropass/constants"
	"bytes"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func zeroPool(t *testing.T) *Pool {
	t.Helper()
	p, err := NewFromBytes(make([]byte, constants.PoolSize))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	return p
}

func TestNewFromBytesRejectsWrongSize(t *testing.T) {
	for _, n := range []int{0, 1, constants.PoolSize - 1, constants.PoolSize + 1} {
		_, err := NewFromBytes(make([]byte, n))
		if !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("seed of %d bytes: expected ErrInvalidSeed, got %v", n, err)
		}
	}
}

func TestNewSeedsFromOS(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two OS-seeded pools have identical state")
	}
	if a.MixCount() != 0 || a.Cursor() != 0 {
		t.Errorf("fresh pool should start at mix 0 cursor 0, got %d/%d", a.MixCount(), a.Cursor())
	}
}

// Scenario: all-zero pool, one full-length zero injection
func TestMixInZerosFullPool(t *testing.T) {
	p := zeroPool(t)

	p.MixIn(make([]byte, constants.PoolSize))

	if got := p.MixCount(); got != 1 {
		t.Errorf("expected exactly one mix, got %d", got)
	}
	if bytes.Equal(p.Bytes(), make([]byte, constants.PoolSize)) {
		t.Error("pool is still all zero after mixing")
	}
	if p.Cursor() != 0 {
		t.Errorf("cursor should wrap back to 0, got %d", p.Cursor())
	}
}

func TestMixInEmptyIsNoop(t *testing.T) {
	p := zeroPool(t)
	before := p.Bytes()

	p.MixIn(nil)
	p.MixIn([]byte{})

	if p.MixCount() != 0 {
		t.Errorf("empty input should not mix, count %d", p.MixCount())
	}
	if !bytes.Equal(before, p.Bytes()) {
		t.Error("empty input changed the pool")
	}
}

func TestMixInAlwaysChangesPool(t *testing.T) {
	inputs := [][]byte{
		{0x00},
		{0xff},
		bytes.Repeat([]byte{0x00}, 7),
		bytes.Repeat([]byte{0x5a}, constants.PoolSize-1),
		bytes.Repeat([]byte{0x01}, constants.PoolSize*3+5),
	}

	for i, in := range inputs {
		p := zeroPool(t)
		before := p.Bytes()
		p.MixIn(in)
		if bytes.Equal(before, p.Bytes()) {
			t.Errorf("input %d (%d bytes) left the pool unchanged", i, len(in))
		}
	}
}

func TestMixInCountsWraps(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		mixes uint64
	}{
		{"single byte", 1, 1},
		{"just under pool", constants.PoolSize - 1, 1},
		{"exact pool", constants.PoolSize, 1},
		{"pool plus one", constants.PoolSize + 1, 2},
		{"two pools", constants.PoolSize * 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := zeroPool(t)
			p.MixIn(make([]byte, tt.size))
			if got := p.MixCount(); got != tt.mixes {
				t.Errorf("expected %d mixes, got %d", tt.mixes, got)
			}
			if want := tt.size % constants.PoolSize; p.Cursor() != want {
				t.Errorf("expected cursor %d, got %d", want, p.Cursor())
			}
		})
	}
}

func TestStirDeterministic(t *testing.T) {
	seed := make([]byte, constants.PoolSize)
	for i := range seed {
		seed[i] = byte(i * 7)
	}

	a, _ := NewFromBytes(seed)
	b, _ := NewFromBytes(seed)

	a.Stir()
	b.Stir()

	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical pools diverged after one mix")
	}
	if a.MixCount() != 1 {
		t.Errorf("mix should advance the counter by one, got %d", a.MixCount())
	}

	a.Stir()
	if a.MixCount() != 2 {
		t.Errorf("second mix should leave the counter at 2, got %d", a.MixCount())
	}
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("extra mix did not change the pool")
	}
}

func TestSnapshotRemixes(t *testing.T) {
	p := zeroPool(t)
	p.MixIn([]byte("seed material"))
	before := p.Bytes()
	count := p.MixCount()

	snap := p.Snapshot(constants.SnapshotSize)

	if len(snap) != constants.SnapshotSize {
		t.Fatalf("expected %d snapshot bytes, got %d", constants.SnapshotSize, len(snap))
	}
	cursor := p.Cursor()
	for i := range snap {
		if snap[i] != before[(cursor+i)%constants.PoolSize] {
			t.Fatalf("snapshot byte %d does not match pool state at cursor", i)
		}
	}
	if p.MixCount() != count+1 {
		t.Errorf("snapshot should mix once, count went %d -> %d", count, p.MixCount())
	}
	if bytes.Contains(p.Bytes(), snap) {
		t.Error("snapshot bytes still present in pool after re-mix")
	}
}

func TestSnapshotBounds(t *testing.T) {
	p := zeroPool(t)
	if s := p.Snapshot(0); s != nil {
		t.Errorf("zero-length snapshot should be nil, got %d bytes", len(s))
	}
	if s := p.Snapshot(constants.PoolSize * 2); len(s) != constants.PoolSize {
		t.Errorf("oversized snapshot should clamp to pool size, got %d", len(s))
	}
}

func TestMixInAllSingleLock(t *testing.T) {
	p := zeroPool(t)
	q := zeroPool(t)

	p.MixInAll([]byte("abc"), nil, []byte("defg"))
	q.MixIn([]byte("abc"))
	q.MixIn([]byte("defg"))

	if !bytes.Equal(p.Bytes(), q.Bytes()) {
		t.Error("MixInAll should match sequential MixIn calls")
	}
}

func TestPanicPoisonsPool(t *testing.T) {
	p := zeroPool(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic inside locked section was swallowed")
			}
		}()
		p.locked(func() {
			panic("mid-mix failure")
		})
	}()

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrPoisoned) {
			t.Fatalf("expected ErrPoisoned panic, got %v", r)
		}
	}()
	p.MixIn([]byte{1})
}

func TestConcurrentMixIn(t *testing.T) {
	p := zeroPool(t)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				p.MixIn([]byte{byte(w), byte(i)})
			}
		}(w)
	}
	wg.Wait()

	if got := p.MixCount(); got != 800 {
		t.Errorf("expected 800 mixes from 800 short injections, got %d", got)
	}
}
