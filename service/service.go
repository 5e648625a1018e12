// Package service drives the scheduler with the round clock.
//
// It owns the only goroutine that touches the scheduler: round hooks fire
// from its timers and external calls reach it through the transport queue,
// so nothing ever runs concurrently with a round hook.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/transport"
)

//go:generate mockgen -package mocks -destination mocks/service.go . Scheduler,Beacon

type Scheduler interface {
	OnRoundBegin(ctx context.Context, round uint64) error
	OnRoundEnd(ctx context.Context, round uint64) error
}

// Beacon is advanced to each round before the round begins.
type Beacon interface {
	Advance(round uint64)
}

type roundConfig interface {
	RoundStart(genesis time.Time, round uint64) time.Time
	RoundEnd(genesis time.Time, round uint64) time.Time
	CurrentRound(genesis, when time.Time) uint64
}

type Service struct {
	genesis  time.Time
	roundCfg roundConfig
	sched    Scheduler
	beacon   Beacon
	requests <-chan transport.Request
}

func New(
	genesis time.Time,
	roundCfg roundConfig,
	sched Scheduler,
	beacon Beacon,
	queue *transport.InMemory,
) *Service {
	s := &Service{
		genesis:  genesis,
		roundCfg: roundCfg,
		sched:    sched,
		beacon:   beacon,
	}
	if queue != nil {
		s.requests = queue.Requests()
	}
	return s
}

type phase int

const (
	begin phase = iota
	end
)

// Run fires the round hooks on time and serves queued calls in between
// until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx).Named("service")
	ctx = logging.NewContext(ctx, logger)

	round := s.roundCfg.CurrentRound(s.genesis, time.Now())
	if !time.Now().Before(s.roundCfg.RoundEnd(s.genesis, round)) {
		// started in the gap after a round ended
		round++
	}
	next := begin
	timer := s.schedule(ctx, round, next)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer:
			switch next {
			case begin:
				s.beacon.Advance(round)
				if err := s.sched.OnRoundBegin(ctx, round); err != nil {
					logger.Error("failed to begin round", zap.Uint64("round", round), zap.Error(err))
				}
				next = end
			case end:
				if err := s.sched.OnRoundEnd(ctx, round); err != nil {
					logger.Error("failed to end round", zap.Uint64("round", round), zap.Error(err))
				}
				round++
				next = begin
			}
			timer = s.schedule(ctx, round, next)
		case req := <-s.requests:
			_ = req.Execute(ctx)
		}
	}
}

func (s *Service) schedule(ctx context.Context, round uint64, next phase) <-chan time.Time {
	at := s.roundCfg.RoundEnd(s.genesis, round)
	if next == begin {
		at = s.roundCfg.RoundStart(s.genesis, round)
	}
	waitTime := time.Until(at)
	if waitTime > time.Second {
		logging.FromContext(ctx).Debug("waiting for round", zap.Duration("wait time", waitTime), zap.Uint64("round", round))
	}
	return time.After(waitTime)
}
