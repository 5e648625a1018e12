// Command dattree builds the merkle tree of a dat from its files and prints
// what a writer registers and what a seeder submits: the root payload, its
// signature and, optionally, the proof for one leaf.
package main

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spacemeshos/datverify/hash"
	"github.com/spacemeshos/datverify/signing"
	"github.com/spacemeshos/datverify/verifier"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		os.Exit(1)
	}

	tree := hash.NewTree(cfg.ParentLayout)
	for _, name := range cfg.Args.Files {
		if err := appendFile(tree, name, cfg.ChunkSize); err != nil {
			log.Fatalf("adding %s: %v", name, err)
		}
	}

	root := tree.RootPayload()
	size, _ := root.TotalLength()
	fmt.Printf("layout: %s, leaves: %d, tree size: %d\n", cfg.ParentLayout, tree.Leaves(), size)
	for _, r := range root.Children {
		fmt.Printf("root node %d: %s (length %d)\n", r.Index, r.Hash, r.TotalLength)
	}
	fmt.Printf("root hash: %s\n", root.Hash())

	var priv ed25519.PrivateKey
	if cfg.KeyFile != "" {
		priv, err = readKey(cfg.KeyFile)
		if err != nil {
			log.Fatalf("reading key: %v", err)
		}
		sig, err := signing.SignRoot(priv, root.Hash())
		if err != nil {
			log.Fatalf("signing root: %v", err)
		}
		fmt.Printf("dat key: %s\n", signing.PublicKey(priv))
		fmt.Printf("root signature: %x\n", sig[:])
	}

	if cfg.Prove == nil {
		return
	}
	nodes, ok := tree.Proof(*cfg.Prove)
	if !ok {
		log.Fatalf("no leaf at index %d", *cfg.Prove)
	}
	claimed := verifier.ExpectedRoot(*cfg.Prove, nodes)
	fmt.Printf("proof of leaf %d, claimed root %s\n", *cfg.Prove, claimed)
	for _, n := range nodes {
		fmt.Printf("  node %d: %s (length %d)\n", n.Index, n.Hash, n.Size)
	}
	if priv != nil {
		sig, err := signing.SignRoot(priv, claimed)
		if err != nil {
			log.Fatalf("signing claimed root: %v", err)
		}
		fmt.Printf("proof signature: %x\n", sig[:])
	}
}

// appendFile splits a file into chunks of chunkSize bytes, the last one
// possibly shorter, and appends them to tree.
func appendFile(tree *hash.Tree, name string, chunkSize int) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, chunkSize)
	for {
		n, err := io.ReadFull(f, buf)
		if n > 0 {
			tree.Append(buf[:n])
		}
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		case err != nil:
			return err
		}
	}
}

func readKey(name string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return nil, err
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
