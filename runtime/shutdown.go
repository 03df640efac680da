package runtime

import (
	"Entropass/constants"
	"Entropass/logger"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown initializes signal handling for the application.
// SIGTERM, SIGINT and SIGQUIT close the context's shutdown channel; SIGUSR1
// toggles the mixer's freeze flag in place of an on-screen button.
//
// Returns:
//   - chan struct{}: Channel that will be closed on shutdown signal
func SetupGracefulShutdown(ctx *AppContext) chan struct{} {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(sigChan)

		for {
			select {
			case <-ctx.ShutdownChan:
				return
			case sig := <-sigChan:
				if sig == syscall.SIGUSR1 {
					frozen := ctx.Mixer.ToggleFrozen()
					logFreeze(ctx, frozen)
					continue
				}

				fmt.Print("\r\033[K")
				logger.LogHeaderStatus(ctx.LocalLog, constants.LogWarn,
					"Received signal %v, initiating shutdown...", sig)
				logger.PrintSeparator(constants.LogWarn)

				ctx.RequestShutdown()
				return
			}
		}
	}()

	return ctx.ShutdownChan
}

func logFreeze(ctx *AppContext, frozen bool) {
	if frozen {
		logger.LogStatus(ctx.LocalLog, constants.LogWarn,
			"%s Output frozen (mixing continues)", constants.EmojiFrozen)
		return
	}
	logger.LogStatus(ctx.LocalLog, constants.LogInfo,
		"%s Output resumed", constants.EmojiSuccess)
}
