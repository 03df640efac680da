package constants

import (
	"log"
	"time"
)

// Package-level variables
var (
	Logger     *log.Logger
	DebugMode  bool
	LineLength = 65 // max line length
)

// Pool geometry
const (
	PoolSize     = 192 // bytes of entropy state, never resized
	DigestSize   = 64  // mix digest length, XORed cyclically over the pool
	SnapshotSize = 64  // bytes read from the pool per derivation
	BlockSize    = 32  // key expansion block size
)

// Reseeding
const (
	OSEntropyBytes  = 32  // OS randomness per tick and per derivation
	ReseedBlockSize = 64  // extra OS block injected on every ReseedEvery mixes
	ReseedEvery     = 256 // mixes between extra OS blocks
)

// ExpandLabel is the BLAKE3 derive-key context used to turn a pool snapshot
// into a pseudorandom key. Changing it changes every derived password.
const ExpandLabel = "entropass 2026-10-19 key expansion v1"

// Mixer defaults, overridable by environment and flags
var (
	MixCadence       = 20 * time.Millisecond
	ResultBuffer     = 8
	PrintInterval    = 1 * time.Second
	StatsLogInterval = 30 * time.Second
	ASCIILength      = 64
	AlnumLength      = 64
	HexLength        = 64
)

// Headers and text-based variables
var (
	LogStart  = "[⌛️ START] " // startup
	LogStats  = "[📝 STATS] "  // statistics
	LogHeader = "[〰️ HEADR] " // header
	LogWarn   = "[⏰ ALARM] "  // warning
	LogError  = "[❌ ERROR] "  // error
	LogDebug  = "[🔍 DEBUG] "  // debugging
	LogInfo   = "[🔎  INFO] "  // info
	LogMix    = "[🌀 -MIX-] "  // pool mixing
	LogPass   = "[🔑 -PASS] "  // derived passwords
	LogMem    = "[🧠 -MEM-] "  // memory sampling

	// Status emojis for consistent usage
	EmojiKey     = "🔑"
	EmojiSeed    = "🌱"
	EmojiFrozen  = "🧊"
	EmojiMemory  = "🧠"
	EmojiSuccess = "✅"
	EmojiWarning = "⚠️"
)
