package generator

import (
	"Entropass/collector"
	"Entropass/constants"
	"Entropass/pool"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidArgument = errors.New("invalid argument")

// complexityLabel separates the enforcement stream from the sampling stream.
var complexityLabel = []byte("complexity")

// Lengths configures the three standard passwords.
type Lengths struct {
	ASCII        int
	Alphanumeric int
	Hex          int
}

// DefaultLengths returns the lengths configured in constants.
func DefaultLengths() Lengths {
	return Lengths{
		ASCII:        constants.ASCIILength,
		Alphanumeric: constants.AlnumLength,
		Hex:          constants.HexLength,
	}
}

// DerivedSecret is one tick's worth of output. The receiver owns it.
type DerivedSecret struct {
	ASCII        string
	Alphanumeric string
	Hex          string
	MixCount     uint64
	GeneratedAt  time.Time
}

// Deriver turns pool snapshots into passwords.
type Deriver struct {
	pool   *pool.Pool
	source EntropySource
	clock  func() []byte
}

func NewDeriver(p *pool.Pool, source EntropySource) *Deriver {
	return &Deriver{
		pool:   p,
		source: source,
		clock:  collector.TimerSample,
	}
}

// Derive returns a password of exactly length characters drawn uniformly
// from charset. Every call refreshes the pool with OS randomness and the
// timer first, snapshots it (which re-mixes), and finally folds the
// snapshot back in so it can not be reconstructed from later state.
//
// With enforceComplexity set, each of the four Categories missing from the
// result is planted at a uniformly chosen index. For length < 4 later
// plants may overwrite earlier ones.
func (d *Deriver) Derive(charset string, length int, enforceComplexity bool) (string, error) {
	if len(charset) == 0 {
		return "", errors.Wrap(ErrInvalidArgument, "charset is empty")
	}
	if len(charset) > 256 {
		return "", errors.Wrapf(ErrInvalidArgument,
			"charset has %d symbols, at most 256 are addressable", len(charset))
	}
	if i := nonASCII(charset); i >= 0 {
		return "", errors.Wrapf(ErrInvalidArgument,
			"charset byte %d (0x%02x) is not ASCII", i, charset[i])
	}
	if length < 1 {
		return "", errors.Wrapf(ErrInvalidArgument, "length %d is less than 1", length)
	}

	fresh, err := d.source.Read(constants.OSEntropyBytes)
	if err != nil {
		return "", errors.Wrap(err, "refresh pool before derivation")
	}
	d.pool.MixInAll(fresh, d.clock())
	clear(fresh)

	snapshot := d.pool.Snapshot(constants.SnapshotSize)
	defer clear(snapshot)

	out := sample(snapshot, charset, length)
	defer clear(out)

	if enforceComplexity {
		enforce(out, snapshot)
	}

	password := string(out)
	d.pool.MixIn(snapshot)
	return password, nil
}

// sample walks an expanded keystream, rejecting biased bytes. When the
// stream is exhausted it re-expands from snapshot || output so far; if no
// character was accepted since the last expansion the same key is
// extended instead, so the loop always makes progress.
func sample(snapshot []byte, charset string, length int) []byte {
	size := len(charset)
	limit := rejectionLimit(size)

	out := make([]byte, 0, length)
	key := snapshot
	stream := Expand(key, 2*length)
	pos := 0
	lastLen := 0

	for len(out) < length {
		if pos == len(stream) {
			clear(stream)
			if len(out) > lastLen {
				if len(key) > len(snapshot) {
					clear(key)
				}
				key = append(append(make([]byte, 0, len(snapshot)+len(out)), snapshot...), out...)
				stream = Expand(key, 2*length)
				pos = 0
				lastLen = len(out)
			} else {
				stream = Expand(key, 2*len(stream))
			}
		}

		v := int(stream[pos])
		pos++
		if v >= limit {
			continue
		}
		out = append(out, charset[v%size])
	}

	clear(stream)
	if len(key) > len(snapshot) {
		clear(key)
	}
	return out
}

// enforce plants one character from every missing category. Targets are
// drawn uniformly from the positions that are neither planted already nor
// the only representative of their category, which always exist once the
// output has four or more characters. Shorter outputs fall back to any
// position and the last plant wins.
func enforce(out []byte, snapshot []byte) {
	missing := MissingCategories(string(out))
	if len(missing) == 0 {
		return
	}

	key := append(append(make([]byte, 0, len(snapshot)+len(complexityLabel)), snapshot...), complexityLabel...)
	ks := newKeystream(key, 8*len(missing))
	defer ks.wipe()

	planted := make([]bool, len(out))
	for _, c := range missing {
		var idx int
		if safe := replaceable(out, planted); len(safe) > 0 {
			idx = safe[ks.intn(len(safe))]
		} else {
			idx = ks.intn(len(out))
		}
		out[idx] = c.Alphabet[ks.intn(len(c.Alphabet))]
		planted[idx] = true
	}
}

// replaceable lists the indexes whose character can be overwritten without
// losing a category that is currently covered.
func replaceable(out []byte, planted []bool) []int {
	var counts [4]int
	for _, b := range out {
		if c := categoryOf(b); c >= 0 {
			counts[c]++
		}
	}

	var safe []int
	for i, b := range out {
		if planted[i] {
			continue
		}
		if c := categoryOf(b); c >= 0 && counts[c] == 1 {
			continue
		}
		safe = append(safe, i)
	}
	return safe
}

// DeriveSecret produces the three standard passwords for one tick.
func (d *Deriver) DeriveSecret(lengths Lengths) (*DerivedSecret, error) {
	ascii, err := d.Derive(ASCII, lengths.ASCII, true)
	if err != nil {
		return nil, errors.Wrap(err, "ascii password")
	}
	alnum, err := d.Derive(Alphanumeric, lengths.Alphanumeric, false)
	if err != nil {
		return nil, errors.Wrap(err, "alphanumeric password")
	}
	hex, err := d.Derive(Hex, lengths.Hex, false)
	if err != nil {
		return nil, errors.Wrap(err, "hex password")
	}

	return &DerivedSecret{
		ASCII:        ascii,
		Alphanumeric: alnum,
		Hex:          hex,
		MixCount:     d.pool.MixCount(),
		GeneratedAt:  time.Now(),
	}, nil
}
