package runtime

import (
	"Entropass/collector"
	"Entropass/constants"
	"Entropass/generator"
	"Entropass/logger"
	"Entropass/utils"
	"time"
)

type consumerState struct {
	latest       *generator.DerivedSecret
	printed      int
	printTicker  *time.Ticker
	statsTicker  *time.Ticker
	reportFrozen bool
}

// StartMixer logs the active settings and launches the mixer goroutine.
func StartMixer(ctx *AppContext) {
	cfg := ctx.Config
	stats := ctx.Mixer.Stats()

	logger.LogHeaderStatus(ctx.LocalLog, constants.LogMix,
		"Cadence:   %-10s Buffer:     %-10d",
		utils.FormatCadence(cfg.Cadence),
		cfg.ResultBuffer)
	logger.LogStatus(ctx.LocalLog, constants.LogMix,
		"ASCII:     %-10d Alnum:      %-10d",
		cfg.ASCIILength,
		cfg.AlnumLength)
	logger.LogStatus(ctx.LocalLog, constants.LogMix,
		"Hex:       %-10d Proc Stats: %-10s",
		cfg.HexLength,
		utils.BoolToEnabledDisabled(stats.ProcessStats))
	logger.PrintSeparator(constants.LogMix)

	ctx.Mixer.Start()
}

// RunConsumer drains the result channel, printing the freshest record on
// every print interval, until shutdown or until ctx.Count records have
// been printed.
func RunConsumer(ctx *AppContext) {
	state := &consumerState{
		printTicker: time.NewTicker(ctx.Config.PrintInterval),
		statsTicker: time.NewTicker(ctx.Config.StatsInterval),
	}
	defer state.printTicker.Stop()
	defer state.statsTicker.Stop()
	defer logger.LogDebug(ctx.LocalLog, constants.LogDebug, "Consumer stopped")

	for {
		select {
		case <-ctx.ShutdownChan:
			return

		case secret := <-ctx.Mixer.Results():
			state.latest = secret

		case <-state.printTicker.C:
			drainLatest(ctx, state)
			if printLatest(ctx, state) && ctx.Count > 0 && state.printed >= ctx.Count {
				ctx.RequestShutdown()
				return
			}

		case <-state.statsTicker.C:
			logStats(ctx)
		}
	}
}

// drainLatest empties whatever is queued without blocking, keeping only
// the newest record.
func drainLatest(ctx *AppContext, state *consumerState) {
	for {
		select {
		case secret := <-ctx.Mixer.Results():
			state.latest = secret
		default:
			return
		}
	}
}

func printLatest(ctx *AppContext, state *consumerState) bool {
	if ctx.Mixer.Frozen() {
		if !state.reportFrozen {
			logger.LogStatus(ctx.LocalLog, constants.LogWarn,
				"%s Frozen at mix %d", constants.EmojiFrozen, ctx.Mixer.Stats().MixCount)
			state.reportFrozen = true
		}
		// never show a pre-freeze record after resuming
		state.latest = nil
		return false
	}
	state.reportFrozen = false

	if state.latest == nil {
		return false
	}

	s := state.latest
	logger.LogSecret(ctx.LocalLog, s.MixCount, s.ASCII, s.Alphanumeric, s.Hex)
	state.latest = nil
	state.printed++
	return true
}

func logStats(ctx *AppContext) {
	stats := ctx.Mixer.Stats()

	rssMB := utils.GetMemStats().SystemMB
	if stats.ProcessStats {
		if rss, ok := collector.LastRSS(ctx.Mixer.procStats); ok {
			rssMB = utils.BytesToMB(rss)
		}
	}

	logger.LogMixerStats(ctx.LocalLog,
		stats.Ticks,
		stats.Published,
		stats.Dropped,
		stats.MixCount,
		rssMB,
		stats.PointerSamples)
}
