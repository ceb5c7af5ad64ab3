package rx

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrorHandler receives errors that have no active receiver left.
type ErrorHandler func(err error)

// The handler is process-wide because there is nothing else to deliver an
// undeliverable error to. All other state in this package is per instance.
var (
	errorHandlerMu sync.RWMutex
	errorHandler   ErrorHandler = logError
)

func logError(err error) {
	log.Error().Err(err).Str("component", "rx").Msg("unhandled stream error")
}

// ReportError routes err through the async error channel.
func ReportError(err error) {
	if err == nil {
		return
	}
	errorHandlerMu.RLock()
	h := errorHandler
	errorHandlerMu.RUnlock()
	h(err)
}

// SetErrorHandler replaces the async error handler and returns the previous
// one. A nil handler restores the default, which logs through zerolog.
func SetErrorHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = logError
	}
	errorHandlerMu.Lock()
	defer errorHandlerMu.Unlock()
	prev := errorHandler
	errorHandler = h
	return prev
}
