package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadingNonExistingConfigFile(t *testing.T) {
	cfg := Config{
		ConfigFile: "non-existing-file",
	}
	_, err := ReadConfigFile(&cfg)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ConfigFile = filepath.Join(dir, "config.ini")
	ini := `datadir = /tmp

[Round]
round-duration = 1m

[Scheduler]
max-pending-challenges = 4
admin = alice
admin = bob

[Beacon]
beacon-seed = 0102ff
`
	require.NoError(t, os.WriteFile(cfg.ConfigFile, []byte(ini), 0o600))

	cfg, err := ReadConfigFile(cfg)
	require.NoError(t, err)
	require.Equal(t, "/tmp", cfg.DataDir)
	require.Equal(t, time.Minute, cfg.Round.RoundDuration)
	require.Equal(t, DefaultConfig().Round.EndGap, cfg.Round.EndGap)
	require.Equal(t, 4, cfg.Scheduler.MaxPendingChallenges)
	require.Equal(t, []string{"alice", "bob"}, cfg.Scheduler.Admins)
	require.Equal(t, Seed{1, 2, 0xff}, cfg.Beacon.Seed)
}

func TestReadConfigFilePathNotSet(t *testing.T) {
	cfg, err := ReadConfigFile(&Config{})
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
}

func TestSeedMustBeHex(t *testing.T) {
	var s Seed
	require.Error(t, s.UnmarshalFlag("not hex"))
	require.NoError(t, s.UnmarshalFlag("abcd"))
	require.Equal(t, Seed{0xab, 0xcd}, s)
}

func TestSetupConfig(t *testing.T) {
	t.Setenv("HOME", "/home/datverify")
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.LogDir = "$HOME/custom-logs"

	cfg, err := SetupConfig(cfg)
	require.NoError(t, err)
	require.DirExists(t, dir)
	require.Equal(t, filepath.Join(dir, defaultDataDirname), cfg.DataDir)
	require.Equal(t, filepath.Join(dir, defaultDbDirName), cfg.DbDir)
	require.Equal(t, "/home/datverify/custom-logs", cfg.LogDir)
}
