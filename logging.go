package celt

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// logger is the package-level structured logger. It defaults to
// discarding output, so embedding this package in a larger program never
// prints anything unless the caller opts in via SetLogger.
var (
	loggerMu sync.Mutex
	logger   = log.NewWithOptions(io.Discard, log.Options{Prefix: "celt"})
)

// SetLogger installs l as the destination for this package's diagnostic
// output: warnings when a frame's bit budget has more than a handful of
// bits left unused after quantization, and notices when packet-loss
// concealment activates for a frame. Passing nil restores the default
// (silent) logger.
func SetLogger(l *log.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Prefix: "celt"})
		return
	}
	logger = l
}

func currentLogger() *log.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// unusedBitsWarnThreshold is the leftover-bit count at or above which a
// frame is considered to be under-using its byte budget (spec §4.5: "if
// at least seven bits remain, a warning is surfaced but is not fatal").
const unusedBitsWarnThreshold = 7

func warnUnusedBits(remaining int) {
	if remaining >= unusedBitsWarnThreshold {
		currentLogger().Warn("frame left bits unused after quantization", "bits", remaining)
	}
}

func noticePLC(frame int) {
	currentLogger().Warn("packet loss concealment active", "frame", frame)
}
