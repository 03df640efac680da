package collector

import (
	"encoding/binary"
	"time"
)

var processStart = time.Now()

// TimerSample returns the wall clock in nanoseconds followed by the
// monotonic nanoseconds elapsed since process start, 16 bytes in total.
func TimerSample() []byte {
	now := time.Now()

	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b[0:8], uint64(now.UnixNano()))
	binary.LittleEndian.PutUint64(b[8:16], uint64(now.Sub(processStart).Nanoseconds()))
	return b
}
