package collector

import (
	"encoding/binary"
	"os"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
)

// ProcessStatCollector samples process memory figures once per tick.
type ProcessStatCollector interface {
	Sample() ([]byte, error)
}

// memoryInfoReader is the slice of *process.Process the collector uses.
type memoryInfoReader interface {
	MemoryInfo() (*process.MemoryInfoStat, error)
}

type processStats struct {
	proc    memoryInfoReader
	sysMem  func() (*mem.VirtualMemoryStat, error)
	lastRSS atomic.Uint64
}

// ProbeProcessStats checks once whether this platform exposes resident
// memory for the current process. When it does not, the second result is
// false and the loop simply runs without this source.
func ProbeProcessStats() (ProcessStatCollector, bool) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, false
	}
	return probe(proc, mem.VirtualMemory)
}

func probe(proc memoryInfoReader, sysMem func() (*mem.VirtualMemoryStat, error)) (ProcessStatCollector, bool) {
	info, err := proc.MemoryInfo()
	if err != nil || info == nil {
		return nil, false
	}
	s := &processStats{
		proc:   proc,
		sysMem: sysMem,
	}
	s.lastRSS.Store(info.RSS)
	return s, true
}

// Sample returns RSS and VMS of the process, followed by the system's
// available memory when that can be read.
func (s *processStats) Sample() ([]byte, error) {
	info, err := s.proc.MemoryInfo()
	if err != nil {
		return nil, errors.Wrap(err, "read process memory")
	}
	if info == nil {
		return nil, errors.New("read process memory: no data")
	}
	s.lastRSS.Store(info.RSS)

	b := make([]byte, 16, 24)
	binary.LittleEndian.PutUint64(b[0:8], info.RSS)
	binary.LittleEndian.PutUint64(b[8:16], info.VMS)

	if s.sysMem != nil {
		if vm, err := s.sysMem(); err == nil && vm != nil {
			b = binary.LittleEndian.AppendUint64(b, vm.Available)
		}
	}
	return b, nil
}

// LastRSS returns the resident set size seen by the most recent sample.
func LastRSS(c ProcessStatCollector) (uint64, bool) {
	s, ok := c.(*processStats)
	if !ok {
		return 0, false
	}
	return s.lastRSS.Load(), true
}
