package main

import (
	"Entropass/config"
	"Entropass/constants"
	"Entropass/logger"
	"Entropass/runtime"
	"Entropass/utils"
	goruntime "runtime"

	"github.com/shirou/gopsutil/mem"
)

// initialize builds the application context and reports what the mixer
// will run with.
func initialize(cfg config.Config, count int) (*runtime.AppContext, error) {
	logger.LogHeaderStatus(localLog, constants.LogInfo,
		"Debug:     %-10v Count:      %-10d",
		utils.BoolToEnabledDisabled(cfg.Debug),
		count)

	ctx, err := runtime.NewAppContext(localLog, cfg)
	if err != nil {
		return nil, err
	}
	ctx.Count = count

	logSystemInfo(ctx)

	logger.LogStatus(localLog, constants.LogInfo,
		"%s Pool seeded from OS (%d bytes)", constants.EmojiSeed, constants.PoolSize)
	return ctx, nil
}

func logSystemInfo(ctx *runtime.AppContext) {
	v, err := mem.VirtualMemory()
	if err != nil {
		logger.LogDebug(ctx.LocalLog, constants.LogMem, "System memory unavailable: %v", err)
		logger.LogStatus(ctx.LocalLog, constants.LogMem,
			"System has %d Cores", goruntime.NumCPU())
		return
	}

	logger.LogStatus(ctx.LocalLog, constants.LogMem,
		"System has %d Cores and %.1f GB RAM",
		goruntime.NumCPU(),
		float64(v.Total)/(1024*1024*1024))
	logger.LogDebug(ctx.LocalLog, constants.LogMem,
		"Heap %.1fMB, process sys %.1fMB",
		utils.GetMemStats().AllocatedMB,
		utils.GetMemStats().SystemMB)
}
