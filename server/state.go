package server

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	xdr "github.com/nullstyle/go-xdr/xdr3"
	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/logging"
)

const (
	stateFilename = "state.bin"
	seedSize      = 32
)

// state survives restarts of the daemon.
type state struct {
	BeaconSeed []byte
}

func saveState(datadir string, s *state) error {
	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, s); err != nil {
		return fmt.Errorf("serializing state: %w", err)
	}
	if err := atomic.WriteFile(filepath.Join(datadir, stateFilename), &w); err != nil {
		return fmt.Errorf("writing state to disk: %w", err)
	}
	return nil
}

// loadState reads the persisted state of datadir. A missing state is created
// from the configured seed, or from a random one if none is configured.
// A configured seed must match the persisted one: changing it would change
// every draw made from now on.
func loadState(ctx context.Context, datadir string, configured []byte) (*state, error) {
	logger := logging.FromContext(ctx)
	data, err := os.ReadFile(filepath.Join(datadir, stateFilename))
	switch {
	case errors.Is(err, os.ErrNotExist):
		s := &state{BeaconSeed: configured}
		if len(configured) == 0 {
			logger.Info("generating new beacon seed")
			s.BeaconSeed = make([]byte, seedSize)
			if _, err := rand.Read(s.BeaconSeed); err != nil {
				return nil, fmt.Errorf("generating beacon seed: %w", err)
			}
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("loading state: %w", err)
	}

	s := &state{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), s); err != nil {
		return nil, fmt.Errorf("deserializing state: %w", err)
	}
	if len(configured) != 0 && !bytes.Equal(configured, s.BeaconSeed) {
		return nil, errors.New("configured beacon seed doesn't match the persisted one")
	}
	logger.Debug("loaded state", zap.Binary("beacon_seed", s.BeaconSeed))
	return s, nil
}
