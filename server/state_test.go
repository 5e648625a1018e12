package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadState(t *testing.T) {
	seed := []byte("configured beacon seed")

	t.Run("generate new seed", func(t *testing.T) {
		s, err := loadState(context.Background(), t.TempDir(), nil)
		require.NoError(t, err)
		require.Len(t, s.BeaconSeed, seedSize)
	})
	t.Run("use configured seed", func(t *testing.T) {
		s, err := loadState(context.Background(), t.TempDir(), seed)
		require.NoError(t, err)
		require.Equal(t, seed, s.BeaconSeed)
	})
	t.Run("detect mismatch between persisted and configured seed", func(t *testing.T) {
		dir := t.TempDir()
		s, err := loadState(context.Background(), dir, nil)
		require.NoError(t, err)
		require.NoError(t, saveState(dir, s))

		_, err = loadState(context.Background(), dir, seed)
		require.Error(t, err)
	})
	t.Run("persisting seed", func(t *testing.T) {
		dir := t.TempDir()
		s, err := loadState(context.Background(), dir, nil)
		require.NoError(t, err)
		require.NoError(t, saveState(dir, s))

		s2, err := loadState(context.Background(), dir, nil)
		require.NoError(t, err)
		require.Equal(t, s.BeaconSeed, s2.BeaconSeed)

		s3, err := loadState(context.Background(), dir, s.BeaconSeed)
		require.NoError(t, err)
		require.Equal(t, s.BeaconSeed, s3.BeaconSeed)
	})
	t.Run("corrupted state", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, stateFilename), []byte{1}, 0o600))
		_, err := loadState(context.Background(), dir, nil)
		require.Error(t, err)
	})
}
