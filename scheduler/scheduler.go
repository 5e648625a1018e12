// Package scheduler runs the dat challenge protocol.
//
// A Scheduler keeps the registry of dats and the seeders replicating them,
// issues a challenge for one leaf of one pinned dat at the beginning of a
// round, accepts proofs for pending challenges and fails the ones that expire
// at the end of a round.
//
// A Scheduler is not safe for concurrent use: every method must run to
// completion before the next one is invoked. Each method either commits all
// of its registry changes or none of them.
package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/registry"
	"github.com/spacemeshos/datverify/shared"
)

type Scheduler struct {
	cfg       Config
	db        *registry.DB
	rand      Randomness
	notifier  Notifier
	penalizer Penalizer
	authority Authority
}

type newSchedulerOptions struct {
	cfg       Config
	notifier  Notifier
	penalizer Penalizer
	authority Authority
}

type OptionFunc func(*newSchedulerOptions)

func WithConfig(cfg Config) OptionFunc {
	return func(opts *newSchedulerOptions) {
		opts.cfg = cfg
	}
}

func WithNotifier(notifier Notifier) OptionFunc {
	return func(opts *newSchedulerOptions) {
		opts.notifier = notifier
	}
}

func WithPenalizer(penalizer Penalizer) OptionFunc {
	return func(opts *newSchedulerOptions) {
		opts.penalizer = penalizer
	}
}

// WithAuthority overrides the admin list of the config.
func WithAuthority(authority Authority) OptionFunc {
	return func(opts *newSchedulerOptions) {
		opts.authority = authority
	}
}

func New(db *registry.DB, rand Randomness, opts ...OptionFunc) *Scheduler {
	options := newSchedulerOptions{
		cfg:       DefaultConfig(),
		notifier:  LogNotifier{},
		penalizer: LogPenalizer{},
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.authority == nil {
		options.authority = NewStaticAuthority(options.cfg.Admins...)
	}
	return &Scheduler{
		cfg:       options.cfg,
		db:        db,
		rand:      rand,
		notifier:  options.notifier,
		penalizer: options.penalizer,
		authority: options.authority,
	}
}

// update runs fn in a transaction and commits it if fn succeeds.
// The returned events are emitted only after a successful commit.
func (s *Scheduler) update(ctx context.Context, fn func(tx *registry.Txn) ([]Event, error)) error {
	tx := s.db.Begin()
	defer tx.Discard()
	events, err := fn(tx)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing registry changes: %w", err)
	}
	for _, e := range events {
		s.notifier.Notify(ctx, e)
	}
	return nil
}

func (s *Scheduler) requirePrivileged(caller shared.AccountID) error {
	if !s.authority.IsPrivileged(caller) {
		return fmt.Errorf("%w: %s is not privileged", shared.ErrPermission, caller)
	}
	return nil
}

// Dat returns the record of a registered dat.
func (s *Scheduler) Dat(key shared.PublicKey) (rec *shared.DatRecord, err error) {
	err = s.db.View(func(tx *registry.Txn) error {
		rec, err = tx.Dat(key)
		return err
	})
	return rec, err
}

// Challenge returns a pending challenge.
func (s *Scheduler) Challenge(id uint64) (c *shared.Challenge, err error) {
	err = s.db.View(func(tx *registry.Txn) error {
		var ok bool
		c, ok, err = tx.Challenge(id)
		if err == nil && !ok {
			err = fmt.Errorf("%w: challenge %d", shared.ErrNotFound, id)
		}
		return err
	})
	return c, err
}

func (s *Scheduler) PendingChallenges() (pending []*shared.Challenge, err error) {
	err = s.db.View(func(tx *registry.Txn) error {
		pending, err = tx.PendingChallenges()
		return err
	})
	return pending, err
}

// Pins returns the ids of the dats a seeder replicates.
func (s *Scheduler) Pins(seeder shared.AccountID) (pins []uint64, err error) {
	err = s.db.View(func(tx *registry.Txn) error {
		pins, err = tx.Pins(seeder)
		return err
	})
	return pins, err
}

// Seeders returns the accounts pinning at least one dat.
func (s *Scheduler) Seeders() ([]shared.AccountID, error) {
	var entries []registry.SeederEntry
	err := s.db.View(func(tx *registry.Txn) (err error) {
		entries, err = tx.Seeders()
		return err
	})
	if err != nil {
		return nil, err
	}
	seeders := make([]shared.AccountID, 0, len(entries))
	for _, e := range entries {
		seeders = append(seeders, e.Account)
	}
	return seeders, nil
}

// LogNotifier writes events to the logger of the context.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event Event) {
	logging.FromContext(ctx).Info(event.Name(), zap.Object("event", event))
}

// LogPenalizer only records penalties in the log.
type LogPenalizer struct{}

func (LogPenalizer) Penalize(ctx context.Context, seeder shared.AccountID, challenge shared.Challenge) error {
	logging.FromContext(ctx).Warn("penalizing seeder", zap.String("seeder", string(seeder)), zap.Object("challenge", &challenge))
	return nil
}
