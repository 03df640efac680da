package utils

import "runtime"

const mb = 1 << 20

type MemStats struct {
	AllocatedMB float64
	SystemMB    float64
	TotalMB     float64
}

func GetMemStats() *MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &MemStats{
		AllocatedMB: float64(m.Alloc) / mb,
		SystemMB:    float64(m.Sys) / mb,
		TotalMB:     float64(m.TotalAlloc) / mb,
	}
}

// BytesToMB converts a byte count to mebibytes.
func BytesToMB(b uint64) float64 {
	return float64(b) / mb
}
