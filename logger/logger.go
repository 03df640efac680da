package logger

import (
	"Entropass/constants"
	"Entropass/utils"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

var (
	lastLogType   string
	lineCounter   int64
	currentHeader string
)

// Separator output goes here; tests swap it for a buffer.
var out io.Writer = os.Stdout

const (
	HeaderStats = "  TICKS   |  PUBLISHED |  DROPPED  |  MIXES    |  RSS  | PTR"
	HeaderPass  = "MIXES     | PASSWORDS"
)

// Logger is a custom logger type
type Logger struct {
	*log.Logger
}

// NewLogger creates a console logger on w. Lines carry their own
// prefixes and timestamps, so no log flags are set.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", 0),
	}
}

// SetOutput redirects separators and debug lines.
func SetOutput(w io.Writer) {
	out = w
}

func PrintSeparator(logType string) {
	// Create separator line with dynamic length
	separator := strings.Repeat("─", constants.LineLength)
	fmt.Fprintf(out, "%s%s\n", logType, separator)
}

func Banner() {
	fmt.Fprintf(out, `
   ____        __                                       🌀 Mixer 🌀
  / __/__  ___/ /________  ___  ___ ____ ___     🔑 64-char secrets 🔑
 / _// _ \/ __/ __/ _ \/ _ \/ _ \/ _ '(_-<(_-<
/___/_//_/\__/_/  \___/ .__/ .__/\_,_/___/___/
                     /_/  /_/

`)
}

// LogError standardizes error logging with line wrapping
func LogError(logger *log.Logger, prefix string, err error, context string) {
	if logger == nil {
		logger = log.Default()
	}

	var message string
	if context != "" {
		message = fmt.Sprintf("%s %s: %v", prefix, context, err)
	} else {
		message = fmt.Sprintf("%s Error: %v", prefix, err)
	}

	// Calculate max length for content after prefix
	maxLen := constants.LineLength - len(prefix) - 1 // -1 for space after prefix

	// If message is longer than max length, split it
	if len(message) > constants.LineLength {
		lines := utils.SplitMessage(message, maxLen, prefix)
		for _, line := range lines {
			logger.Print(line)
		}
	} else {
		logger.Print(message)
	}
}

// LogDebug standardizes debug logging
func LogDebug(logger *log.Logger, prefix string, format string, args ...interface{}) {
	if constants.DebugMode && format != "" {
		// no timestamp on debug lines
		fmt.Fprintf(out, "%s%s\n", prefix, fmt.Sprintf(format, args...))
	}
}

// LogStatus standardizes status/info logging with line wrapping
func LogStatus(logger *log.Logger, prefix string, message string, args ...interface{}) {
	if logger == nil {
		logger = log.Default()
	}

	// Format the message with args
	msg := fmt.Sprintf(message, args...)
	fullMessage := fmt.Sprintf("%s%s", prefix, msg)

	// Calculate max length for content after prefix
	maxLen := constants.LineLength - len(prefix) - 1 // -1 for space after prefix

	// If message is longer than max length, split it
	if len(fullMessage) > constants.LineLength {
		lines := utils.SplitMessage(fullMessage, maxLen, prefix)
		for _, line := range lines {
			logger.Print(line)
		}
	} else {
		logger.Print(fullMessage)
	}
}

// LogHeaderStatus prints a separator followed by a single trimmed line
func LogHeaderStatus(logger *log.Logger,
	prefix string,
	message string,
	args ...interface{}) {

	if logger == nil {
		logger = log.Default()
	}
	// Trim message and combine prefix to stay within line length
	msg := fmt.Sprintf(message, args...)
	maxLen := constants.LineLength - len(prefix) - 1 // Account for prefix and space
	if maxLen > 0 && len(msg) > maxLen {
		msg = msg[:maxLen-1]
	}
	PrintSeparator(prefix)
	logger.Printf("%s%s", prefix, msg)
}

func logWithTypeChange(logger *log.Logger, logType string, message string) {
	lineCounter++

	// Check for header printing before resetting counter
	if lastLogType != logType || lineCounter%42 == 0 {
		var header string
		switch logType {
		case constants.LogStats:
			header = HeaderStats
		case constants.LogPass:
			header = HeaderPass
		}

		// Only print header if it's different from current header
		if header != "" && header != currentHeader {
			PrintSeparator(constants.LogHeader)
			logger.Printf("%s %s", constants.LogHeader, header)
			PrintSeparator(constants.LogHeader)
			currentHeader = header
		}

		// Reset counter only on type change
		if lastLogType != logType {
			lineCounter = 0
		}
	}

	logger.Print(message)
	lastLogType = logType

	// Reset counter after 42 lines
	if lineCounter >= 42 {
		lineCounter = 0
	}
}

// LogMixerStats prints one row of mixer counters under HeaderStats.
func LogMixerStats(
	logger *log.Logger,
	ticks uint64,
	published uint64,
	dropped uint64,
	mixes uint64,
	rssMB float64,
	pointerSamples uint64,
) {
	message := fmt.Sprintf("[%s] %8s | %10s | %9s | %9s | %4.0fM | %s",
		time.Now().Format("15:04:05"),
		utils.FormatNumber(float64(ticks)),
		utils.FormatWithCommas(int(published)),
		utils.FormatWithCommas(int(dropped)),
		utils.FormatNumber(float64(mixes)),
		rssMB,
		utils.FormatNumber(float64(pointerSamples)))

	logWithTypeChange(logger, constants.LogStats, message)
}

// LogSecret prints one derived record under HeaderPass, one password per
// line so long outputs are never wrapped mid-secret.
func LogSecret(logger *log.Logger, mixCount uint64, ascii, alnum, hex string) {
	logWithTypeChange(logger, constants.LogPass,
		fmt.Sprintf("%s%-9s | %s", constants.LogPass, utils.FormatNumber(float64(mixCount)), ascii))
	logger.Printf("%s%-9s | %s", constants.LogPass, "", alnum)
	logger.Printf("%s%-9s | %s", constants.LogPass, "", hex)
}
