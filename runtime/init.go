package runtime

import (
	"Entropass/collector"
	"Entropass/config"
	"Entropass/constants"
	"Entropass/generator"
	"Entropass/logger"
	"Entropass/pool"
	"log"
	"sync"

	"github.com/pkg/errors"
)

type AppContext struct {
	LocalLog     *log.Logger
	Config       config.Config
	DebugMode    bool
	Count        int // records to print before exiting, 0 runs until a signal
	Pool         *pool.Pool
	Mixer        *Mixer
	ShutdownChan chan struct{}
	DoneChan     chan struct{}
	Wg           sync.WaitGroup
	ShutdownOnce sync.Once
	CloseOnce    sync.Once
}

// NewAppContext builds a fresh pool and mixer. The process stats collector
// is probed exactly once here.
func NewAppContext(localLog *log.Logger, cfg config.Config) (*AppContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := pool.New()
	if err != nil {
		return nil, errors.Wrap(err, "create entropy pool")
	}

	procStats, ok := collector.ProbeProcessStats()
	if !ok {
		logger.LogStatus(localLog, constants.LogWarn,
			"%s Process memory stats unavailable, skipping that source", constants.EmojiWarning)
	}

	mixer := NewMixer(p,
		generator.NewRNGPool(constants.ReseedBlockSize),
		collector.NewPointerCollector(),
		procStats,
		cfg,
		localLog)

	return &AppContext{
		LocalLog:     localLog,
		Config:       cfg,
		DebugMode:    cfg.Debug,
		Pool:         p,
		Mixer:        mixer,
		ShutdownChan: make(chan struct{}),
		DoneChan:     make(chan struct{}),
	}, nil
}

// RequestShutdown closes ShutdownChan exactly once.
func (ctx *AppContext) RequestShutdown() {
	ctx.ShutdownOnce.Do(func() {
		close(ctx.ShutdownChan)
	})
}

// Close stops the mixer and releases every waiter. Safe to call twice.
func (ctx *AppContext) Close() {
	ctx.CloseOnce.Do(func() {
		ctx.RequestShutdown()
		ctx.Mixer.Stop()
		ctx.Wg.Wait()
		close(ctx.DoneChan)
	})
}
