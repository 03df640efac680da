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
	"sync/atomic"
	"time"
)

// Stats is a point-in-time copy of the mixer counters.
type Stats struct {
	Ticks          uint64
	Published      uint64
	Dropped        uint64
	Reseeds        uint64
	MixCount       uint64
	PointerSamples uint64
	ProcessStats   bool
}

// Mixer reseeds the pool on a fixed cadence and publishes fresh passwords
// while it is not frozen. Entropy keeps flowing into the pool while frozen.
type Mixer struct {
	pool      *pool.Pool
	deriver   *generator.Deriver
	source    generator.EntropySource
	pointer   *collector.PointerCollector
	procStats collector.ProcessStatCollector
	lengths   generator.Lengths
	cadence   time.Duration
	localLog  *log.Logger

	results chan *generator.DerivedSecret
	frozen  atomic.Bool

	stopChan  chan struct{}
	doneChan  chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool

	// owned by the loop goroutine
	reseedEpoch uint64

	ticks     atomic.Uint64
	published atomic.Uint64
	dropped   atomic.Uint64
	reseeds   atomic.Uint64
}

// NewMixer wires a mixer around p. procStats may be nil when the platform
// has no process memory figures.
func NewMixer(p *pool.Pool,
	source generator.EntropySource,
	pointer *collector.PointerCollector,
	procStats collector.ProcessStatCollector,
	cfg config.Config,
	localLog *log.Logger) *Mixer {

	if pointer == nil {
		pointer = collector.NewPointerCollector()
	}
	if localLog == nil {
		localLog = log.Default()
	}

	return &Mixer{
		pool:        p,
		deriver:     generator.NewDeriver(p, source),
		source:      source,
		pointer:     pointer,
		procStats:   procStats,
		lengths:     cfg.Lengths(),
		cadence:     cfg.Cadence,
		localLog:    localLog,
		results:     make(chan *generator.DerivedSecret, cfg.ResultBuffer),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
		reseedEpoch: p.MixCount() / constants.ReseedEvery,
	}
}

// Results is drained by the consumer. Records are never re-sent.
func (m *Mixer) Results() <-chan *generator.DerivedSecret {
	return m.results
}

// Pointer returns the collector that pointer events should be fed into.
func (m *Mixer) Pointer() *collector.PointerCollector {
	return m.pointer
}

// Deriver exposes the mixer's deriver for one-off custom passwords.
func (m *Mixer) Deriver() *generator.Deriver {
	return m.deriver
}

// SetFrozen stops or resumes publication. Mixing continues either way.
func (m *Mixer) SetFrozen(frozen bool) {
	m.frozen.Store(frozen)
}

// Frozen reports whether publication is paused.
func (m *Mixer) Frozen() bool {
	return m.frozen.Load()
}

// ToggleFrozen flips the freeze flag and returns the new value.
func (m *Mixer) ToggleFrozen() bool {
	for {
		old := m.frozen.Load()
		if m.frozen.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Stats snapshots the counters; safe to call from any goroutine.
func (m *Mixer) Stats() Stats {
	return Stats{
		Ticks:          m.ticks.Load(),
		Published:      m.published.Load(),
		Dropped:        m.dropped.Load(),
		Reseeds:        m.reseeds.Load(),
		MixCount:       m.pool.MixCount(),
		PointerSamples: m.pointer.Samples(),
		ProcessStats:   m.procStats != nil,
	}
}

// Start launches the loop goroutine. Extra calls are ignored.
func (m *Mixer) Start() {
	m.startOnce.Do(func() {
		m.started.Store(true)
		go m.run()
	})
}

// Stop signals the loop and waits for it to exit, which takes at most one
// cadence interval plus the tick in progress. Safe to call more than once.
func (m *Mixer) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	if m.started.Load() {
		<-m.doneChan
	}
}

// Done is closed once the loop goroutine has returned.
func (m *Mixer) Done() <-chan struct{} {
	return m.doneChan
}

func (m *Mixer) run() {
	defer close(m.doneChan)
	defer func() {
		logger.LogDebug(m.localLog, constants.LogDebug, "Mixer stopped after %d ticks", m.ticks.Load())
	}()

	for {
		select {
		case <-m.stopChan:
			return
		default:
		}

		start := time.Now()
		m.Tick()

		remaining := m.cadence - time.Since(start)
		if remaining <= 0 {
			continue
		}

		timer := time.NewTimer(remaining)
		select {
		case <-m.stopChan:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Tick runs one mixer iteration on the calling goroutine. The loop calls it
// once per cadence; tests call it directly.
func (m *Mixer) Tick() {
	defer m.ticks.Add(1)

	// pointer digest: collector lock only, released before the pool lock
	m.pool.MixIn(m.pointer.Drain())

	osEntropy, err := m.source.Read(constants.OSEntropyBytes)
	if err != nil {
		logger.LogError(m.localLog, constants.LogError, err, "OS entropy unavailable this tick")
	}
	m.pool.MixInAll(osEntropy, collector.TimerSample())
	clear(osEntropy)

	if m.procStats != nil {
		if sample, err := m.procStats.Sample(); err == nil {
			m.pool.MixIn(sample)
		} else {
			logger.LogDebug(m.localLog, constants.LogMem, "Process stats skipped: %v", err)
		}
	}

	m.reseed()

	if m.frozen.Load() {
		return
	}

	secret, err := m.deriver.DeriveSecret(m.lengths)
	if err != nil {
		logger.LogError(m.localLog, constants.LogError, err, "Derivation failed")
		return
	}

	m.publish(secret)
}

// reseed injects an extra OS block each time the mix count enters a new
// multiple of constants.ReseedEvery. A tick runs several mixes, so the
// epoch is compared rather than testing count%ReseedEvery == 0.
func (m *Mixer) reseed() {
	epoch := m.pool.MixCount() / constants.ReseedEvery
	if epoch <= m.reseedEpoch {
		return
	}

	block, err := m.source.Read(constants.ReseedBlockSize)
	if err != nil {
		logger.LogError(m.localLog, constants.LogError, err, "Reseed block unavailable")
		return
	}
	m.pool.MixIn(block)
	clear(block)

	m.reseedEpoch = m.pool.MixCount() / constants.ReseedEvery
	m.reseeds.Add(1)
	logger.LogDebug(m.localLog, constants.LogMix, "Reseeded from OS at mix %d", m.pool.MixCount())
}

// publish hands the secret to the consumer without blocking; a full
// channel drops it and the next tick tries again with fresh values.
func (m *Mixer) publish(secret *generator.DerivedSecret) {
	select {
	case m.results <- secret:
		m.published.Add(1)
	default:
		m.dropped.Add(1)
	}
}
