package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/spacemeshos/datverify/hash"
)

const defaultChunkSize = 64 * 1024

// config defines the configuration options for dattree.
type config struct {
	ChunkSize    int               `long:"chunk-size"    description:"Size of the chunks the input is split into"`
	ParentLayout hash.ParentLayout `long:"parent-layout" description:"Pre-image layout of parent nodes (child-digests or legacy)"`
	KeyFile      string            `long:"key-file"      description:"File holding the hex encoded ed25519 seed of the dat key"`
	Prove        *uint64           `long:"prove"         description:"Flat-tree index of a leaf to build a proof for"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	cfg := config{
		ChunkSize:    defaultChunkSize,
		ParentLayout: hash.ParentLayoutChildDigests,
	}

	if _, err := flags.Parse(&cfg); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		return nil, err
	}
	if cfg.ChunkSize <= 0 {
		err := fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
		_, _ = fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	return &cfg, nil
}
