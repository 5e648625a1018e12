// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2017-2023 The Spacemesh developers

package server

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/datverify/config/round_config"
	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/scheduler"
)

const (
	defaultDbDirName      = "db"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10
	defaultQueueSize      = 64
	defaultCacheSize      = 1024
)

// Config defines the configuration options for the datverify daemon.
type Config struct {
	Genesis        Genesis `long:"genesis-time"   description:"Genesis timestamp in RFC3339 format"`
	Dir            string  `long:"dir"            description:"The base directory that contains the data, logs, configuration file, etc."`
	ConfigFile     string  `long:"configfile"     description:"Path to configuration file"                                                  short:"c"`
	DataDir        string  `long:"datadir"        description:"The directory to store data within."                                         short:"b"`
	DbDir          string  `long:"dbdir"          description:"The directory to store the registry within"`
	LogDir         string  `long:"logdir"         description:"Directory to log output."`
	DebugLog       bool    `long:"debuglog"       description:"Enable debug logs"`
	JSONLog        bool    `long:"jsonlog"        description:"Whether to log in JSON format"`
	MaxLogFiles    int     `long:"maxlogfiles"    description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int     `long:"maxlogfilesize" description:"Maximum logfile size in MB"`
	MetricsPort    *uint16 `long:"metrics-port"   description:"The port to expose metrics"`
	QueueSize      int     `long:"queue-size"     description:"Number of calls that may wait for the round loop"`

	CPUProfile string `long:"cpuprofile" description:"Write CPU profile to the specified file"`
	Profile    string `long:"profile"    description:"Enable HTTP profiling on given port -- must be between 1024 and 65535"`

	Round     round_config.Config `group:"Round"`
	Scheduler scheduler.Config    `group:"Scheduler"`
	Beacon    BeaconConfig        `group:"Beacon"`
	Registry  RegistryConfig      `group:"Registry"`
}

type BeaconConfig struct {
	// Seed of the beacon. A random seed is generated and persisted in the
	// data directory when none is given.
	Seed Seed `long:"beacon-seed" description:"Hex encoded beacon seed"`
}

type RegistryConfig struct {
	CacheSize int  `long:"registry-cache-size" description:"Number of dat records cached in memory"`
	NoSync    bool `long:"registry-no-sync"    description:"Do not fsync registry commits"`
}

type Genesis time.Time

// UnmarshalFlag implements flags.Unmarshaler.
func (g *Genesis) UnmarshalFlag(value string) error {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	*g = Genesis(t)
	return nil
}

func (g Genesis) Time() time.Time {
	return time.Time(g)
}

type Seed []byte

// UnmarshalFlag implements flags.Unmarshaler.
func (s *Seed) UnmarshalFlag(value string) error {
	b, err := hex.DecodeString(value)
	if err != nil {
		return fmt.Errorf("decoding beacon seed: %w", err)
	}
	*s = b
	return nil
}

// DefaultConfig returns a config with default hardcoded values.
func DefaultConfig() *Config {
	dir := "./datverify"
	cacheDir, err := os.UserCacheDir()
	if err == nil {
		dir = filepath.Join(cacheDir, "datverify")
	}

	return &Config{
		Genesis:        Genesis(time.Now()),
		Dir:            dir,
		DataDir:        filepath.Join(dir, defaultDataDirname),
		DbDir:          filepath.Join(dir, defaultDbDirName),
		LogDir:         filepath.Join(dir, defaultLogDirname),
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		QueueSize:      defaultQueueSize,
		Round:          round_config.DefaultConfig(),
		Scheduler:      scheduler.DefaultConfig(),
		Registry:       RegistryConfig{CacheSize: defaultCacheSize},
	}
}

// ParseFlags reads values from command line arguments.
func ParseFlags(preCfg *Config) (*Config, error) {
	if _, err := flags.Parse(preCfg); err != nil {
		return nil, err
	}
	return preCfg, nil
}

// ReadConfigFile reads config from an ini file.
// It uses the provided `cfg` as a base config and overrides it with the values
// from the config file.
func ReadConfigFile(cfg *Config) (*Config, error) {
	if cfg.ConfigFile == "" {
		return cfg, nil
	}
	logging.FromContext(context.Background()).Sugar().Debugf("reading config from %s", cfg.ConfigFile)
	if err := flags.IniParse(cfg.ConfigFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from %v: %w", cfg.ConfigFile, err)
	}

	return cfg, nil
}

// SetupConfig expands paths and initializes filesystem.
func SetupConfig(cfg *Config) (*Config, error) {
	// If the base directory is not the default, the other directories follow
	// it unless they were set explicitly.
	defaultCfg := DefaultConfig()
	if cfg.Dir != defaultCfg.Dir {
		if cfg.DataDir == defaultCfg.DataDir {
			cfg.DataDir = filepath.Join(cfg.Dir, defaultDataDirname)
		}
		if cfg.LogDir == defaultCfg.LogDir {
			cfg.LogDir = filepath.Join(cfg.Dir, defaultLogDirname)
		}
		if cfg.DbDir == defaultCfg.DbDir {
			cfg.DbDir = filepath.Join(cfg.Dir, defaultDbDirName)
		}
	}

	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %v: %w", cfg.Dir, err)
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.DbDir = cleanAndExpandPath(cfg.DbDir)

	return cfg, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		user, err := user.Current()
		if err == nil {
			homeDir = user.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// implement zap.ObjectMarshaler interface.
func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddTime("genesis", c.Genesis.Time())
	enc.AddString("datadir", c.DataDir)
	enc.AddString("dbdir", c.DbDir)
	enc.AddInt("queue-size", c.QueueSize)
	if err := enc.AddObject("round", c.Round); err != nil {
		return err
	}
	return enc.AddObject("scheduler", c.Scheduler)
}
