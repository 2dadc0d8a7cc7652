package zoneengine

import "github.com/btcsuite/btclog"

// Logger is the subset of btclog.Logger the engine depends on, so tests can
// substitute a no-op implementation without pulling in the full backend.
type Logger interface {
	Debugf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Warnf(format string, params ...interface{})
	Errorf(format string, params ...interface{})
}

// log is the package-level, subsystem-tagged logger, following the
// ltndLog/hswcLog convention the teacher uses throughout lnd: every package
// owns one logger variable, set once at daemon start via UseLogger.
var log Logger = btclog.Disabled

// UseLogger sets the package-wide logger used by zoneengine. Called once by
// the daemon entrypoint after parsing configuration, mirroring lnd's
// per-package UseLogger functions wired up from a central log.go.
func UseLogger(logger btclog.Logger) {
	log = logger
}
