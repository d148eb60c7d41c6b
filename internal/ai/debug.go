package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs of hostile controllers.
// Set once from main via EnableDebugLogging.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables hostile debug logging.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if hostile debug logging is enabled.
// Guard per-attack and per-tick logs with it:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("hostile attack", "agentID", id)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
