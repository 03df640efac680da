package generator

import (
	"Entropass/constants"
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Expand stretches seed into outLen pseudorandom bytes.
//
// A 32-byte key is derived from seed with BLAKE3 in derive-key mode under
// constants.ExpandLabel. Output blocks are then chained:
//
//	block_i = BLAKE3-keyed(key, block_{i-1} || 0x01 || uint32be(i))
//
// starting from an empty block_0 and i = 1. The result is deterministic and
// prefix-stable: Expand(s, n)[:m] == Expand(s, m) for every m <= n.
func Expand(seed []byte, outLen int) []byte {
	if outLen <= 0 {
		return []byte{}
	}

	var prk [constants.BlockSize]byte
	blake3.DeriveKey(constants.ExpandLabel, seed, prk[:])
	defer clear(prk[:])

	h, err := blake3.NewKeyed(prk[:])
	if err != nil {
		// key length is fixed at compile time
		panic(err)
	}

	blocks := (outLen + constants.BlockSize - 1) / constants.BlockSize
	out := make([]byte, 0, blocks*constants.BlockSize)

	var (
		block   []byte
		counter [4]byte
	)
	for i := 1; i <= blocks; i++ {
		binary.BigEndian.PutUint32(counter[:], uint32(i))

		h.Reset()
		h.Write(block)
		h.Write([]byte{0x01})
		h.Write(counter[:])
		block = h.Sum(nil)

		out = append(out, block...)
	}

	return out[:outLen]
}

// keystream is an endless prefix-stable byte stream over one key. When the
// current buffer runs dry it asks Expand for twice as much and continues
// past the bytes already consumed.
type keystream struct {
	key []byte
	buf []byte
	pos int
}

func newKeystream(key []byte, initial int) *keystream {
	if initial < constants.BlockSize {
		initial = constants.BlockSize
	}
	return &keystream{
		key: key,
		buf: Expand(key, initial),
	}
}

func (k *keystream) next() byte {
	if k.pos == len(k.buf) {
		k.buf = Expand(k.key, 2*len(k.buf))
	}
	b := k.buf[k.pos]
	k.pos++
	return b
}

// intn returns a uniform integer in [0, n) by rejection sampling 32-bit
// draws; values at or above the largest multiple of n are discarded.
func (k *keystream) intn(n int) int {
	if n <= 1 {
		return 0
	}

	bound := uint64(n)
	limit := (1 << 32) - (1<<32)%bound
	for {
		v := uint64(k.next())<<24 | uint64(k.next())<<16 | uint64(k.next())<<8 | uint64(k.next())
		if v < limit {
			return int(v % bound)
		}
	}
}

func (k *keystream) wipe() {
	clear(k.key)
	clear(k.buf)
}
