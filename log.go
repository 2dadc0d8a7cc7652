package liquidity

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zoneengine"
)

// Subsystem loggers, following lnd's log.go convention: one tagged logger
// per package, all backed by the same btclog.Backend, set up once here and
// handed out via each package's UseLogger.
var (
	backend = btclog.NewBackend(os.Stdout)

	srvrLog = backend.Logger("SRVR")
	zoneLog = backend.Logger("ZONE")
	gtwyLog = backend.Logger("GTWY")
)

// InitLogging wires every subsystem logger to level, mirroring lnd's
// SetLogLevels call from the daemon entrypoint.
func InitLogging(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		lvl = btclog.LevelInfo
	}

	srvrLog.SetLevel(lvl)
	zoneLog.SetLevel(lvl)
	gtwyLog.SetLevel(lvl)

	zoneengine.UseLogger(zoneLog)
	return nil
}
