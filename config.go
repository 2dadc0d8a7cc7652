package liquidity

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "liquidity.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultRPCPort        = 8443
	defaultHealthPort     = 8080
)

// Config mirrors lnd's config.go convention: a single flat struct parsed by
// go-flags from both the config file and the command line, the command
// line taking precedence.
type Config struct {
	ConfigFile string `long:"configfile" description:"Path to configuration file"`
	DataDir    string `long:"datadir" description:"Directory holding the zone event journal"`
	LogDir     string `long:"logdir" description:"Directory to log output to"`
	DebugLevel string `long:"debuglevel" description:"Logging level for all subsystems"`

	RPCListen    string `long:"rpclisten" description:"Address the gateway-facing gRPC boundary listens on"`
	HealthListen string `long:"healthlisten" description:"Address the operational HTTP endpoints /metrics, /version, and /akka-management are served on"`

	EtcdHosts []string `long:"etcdhost" description:"etcd endpoint used for shard ownership leases"`

	NATSURL     string `long:"natsurl" description:"NATS Streaming cluster URL for status publication"`
	NATSCluster string `long:"natscluster" description:"NATS Streaming cluster id"`

	AdminJWTPublicKeyPath string `long:"adminjwtpubkey" description:"Path to a PEM-encoded RSA public key validating /akka-management admin JWTs"`

	MaxNumberOfShards int `long:"maxshards" description:"Cluster shard count (not read: ShardFor uses the zonewire.MaxNumberOfShards constant)"`
}

// DefaultConfig returns the config populated with the same defaults lnd's
// loadConfig seeds before parsing overrides onto it.
func DefaultConfig() Config {
	return Config{
		DataDir:           defaultDataDirname,
		DebugLevel:        defaultLogLevel,
		RPCListen:         fmt.Sprintf("0.0.0.0:%d", defaultRPCPort),
		HealthListen:      fmt.Sprintf("0.0.0.0:%d", defaultHealthPort),
		NATSCluster:       "liquidity-cluster",
		MaxNumberOfShards: 10,
	}
}

// LoadConfig parses the config file (if present) and then the command line
// flags over it, the same two-pass precedence lnd's loadConfig implements.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	preCfg := cfg
	if _, err := flags.NewParser(&preCfg, flags.Default).Parse(); err != nil {
		return nil, err
	}
	if preCfg.ConfigFile != "" {
		cfg.ConfigFile = preCfg.ConfigFile
	}

	configPath := cfg.ConfigFile
	if configPath == "" {
		configPath = filepath.Join(defaultDataDirname, defaultConfigFilename)
	}
	if _, err := os.Stat(configPath); err == nil {
		parser := flags.NewIniParser(flags.NewParser(&cfg, flags.Default))
		if err := parser.ParseFile(configPath); err != nil {
			return nil, fmt.Errorf("liquidity: unable to parse config file: %w", err)
		}
	}

	if _, err := flags.NewParser(&cfg, flags.Default).Parse(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
