package server_test

// End to end tests running the daemon and calling it through its client.

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/datverify/hash"
	"github.com/spacemeshos/datverify/scheduler"
	"github.com/spacemeshos/datverify/server"
	"github.com/spacemeshos/datverify/shared"
	"github.com/spacemeshos/datverify/signing"
	"github.com/spacemeshos/datverify/verifier"
)

type chanNotifier chan scheduler.Event

func (n chanNotifier) Notify(_ context.Context, e scheduler.Event) {
	select {
	case n <- e:
	default:
	}
}

func nextEvent[T scheduler.Event](t *testing.T, events <-chan scheduler.Event) T {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e := <-events:
			if ev, ok := e.(T); ok {
				return ev
			}
		case <-timeout:
			var zero T
			require.FailNowf(t, "timed out", "waiting for %s", zero.Name())
		}
	}
}

func testConfig(t *testing.T) *server.Config {
	t.Helper()
	cfg := server.DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.Genesis = server.Genesis(time.Now())
	cfg.Round.RoundDuration = 500 * time.Millisecond
	cfg.Round.EndGap = 100 * time.Millisecond
	port := uint16(0)
	cfg.MetricsPort = &port
	cfg, err := server.SetupConfig(cfg)
	require.NoError(t, err)
	return cfg
}

func TestServerChallengeRoundTrip(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chanNotifier, 64)
	cfg := testConfig(t)
	srv, err := server.New(ctx, *cfg, server.WithSchedulerOptions(scheduler.WithNotifier(events)))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, srv.Close()) })

	var eg errgroup.Group
	eg.Go(func() error { return srv.Start(ctx) })

	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	chunk := []byte("the only chunk")
	tree := hash.NewTree(hash.ParentLayoutChildDigests)
	tree.Append(chunk)
	root := tree.RootPayload()
	sig, err := signing.SignRoot(priv, root.Hash())
	require.NoError(t, err)
	key := signing.PublicKey(priv)

	client := srv.Client()
	require.NoError(t, client.RegisterData(ctx, "owner", key, root, sig))
	require.NoError(t, client.RegisterSeeder(ctx, "seeder"))

	issued := nextEvent[scheduler.ChallengeIssued](t, events)
	require.Equal(t, key, issued.Challenge.DatKey)
	require.Zero(t, issued.Challenge.LeafIndex)
	require.Equal(t, shared.AccountID("seeder"), issued.Challenge.Seeder)

	// with a single leaf the claimed root equals the registered one
	nodes := []shared.Node{{Index: 0, Hash: hash.LeafHash(chunk), Size: uint64(len(chunk))}}
	claimed := verifier.ExpectedRoot(0, nodes)
	proofSig, err := signing.SignRoot(priv, claimed)
	require.NoError(t, err)
	proof := &shared.Proof{Index: 0, Nodes: nodes, Signature: &proofSig}
	require.NoError(t, client.SubmitProof(ctx, "seeder", issued.Challenge.ID, proof, claimed, chunk))

	cleared := nextEvent[scheduler.ChallengeCleared](t, events)
	require.Equal(t, issued.Challenge, cleared.Challenge)
	require.Equal(t, scheduler.ClearedByProof, cleared.Reason)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", srv.MetricsAddr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Contains(t, string(body), `datverify_scheduler_proofs_total{result="accepted"} 1`)

	cancel()
	require.NoError(t, eg.Wait())
}

func TestServerPersistsBeaconSeed(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.MetricsPort = nil

	srv, err := server.New(context.Background(), *cfg)
	require.NoError(t, err)
	require.Nil(t, srv.MetricsAddr())
	require.NoError(t, srv.Close())
	require.FileExists(t, filepath.Join(cfg.DataDir, "state.bin"))

	// a different seed is refused once one was persisted
	cfg.Beacon.Seed = server.Seed("another seed")
	_, err = server.New(context.Background(), *cfg)
	require.Error(t, err)

	require.NoError(t, os.Remove(filepath.Join(cfg.DataDir, "state.bin")))
	srv, err = server.New(context.Background(), *cfg)
	require.NoError(t, err)
	require.NoError(t, srv.Close())
}
