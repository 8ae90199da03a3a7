package localsearch

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// log is the package-level logger. Unlike a long-lived service, a
// stateless library defaults to a no-op logger so embedders pay nothing
// unless they opt in via SetLogger.
var (
	logMu sync.RWMutex
	log   zerolog.Logger = zerolog.Nop()
)

// SetLogger installs l as the package logger for subsequent Run calls.
// Safe to call concurrently with running optimizations (protected by a
// RWMutex; Run/RunWithCallback read the logger once per run via runLogger).
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	log = l
}

// runLogger returns a fresh run_id and a logger tagged with it, so log
// lines from concurrently executing Run calls can be told apart the way
// the teacher tags request/tenant IDs.
func runLogger() (string, zerolog.Logger) {
	logMu.RLock()
	base := log
	logMu.RUnlock()
	runID := uuid.NewString()
	return runID, base.With().Str("run_id", runID).Logger()
}
