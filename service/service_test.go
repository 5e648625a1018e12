package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/datverify/config/round_config"
	"github.com/spacemeshos/datverify/logging"
	"github.com/spacemeshos/datverify/service"
	"github.com/spacemeshos/datverify/service/mocks"
	"github.com/spacemeshos/datverify/transport"
)

func TestRunFiresRoundHooksInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), zaptest.NewLogger(t)))
	defer cancel()

	hooks := make(chan string, 100)
	record := func(format string, round uint64) {
		select {
		case hooks <- fmt.Sprintf(format, round):
		default:
		}
	}
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockScheduler(ctrl)
	sched.EXPECT().OnRoundBegin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, round uint64) error {
			record("begin %d", round)
			return nil
		}).AnyTimes()
	sched.EXPECT().OnRoundEnd(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, round uint64) error {
			record("end %d", round)
			// errors are logged, the loop goes on
			return errors.New("penalizer down")
		}).AnyTimes()
	beacon := mocks.NewMockBeacon(ctrl)
	beacon.EXPECT().Advance(gomock.Any()).Do(func(round uint64) { record("advance %d", round) }).AnyTimes()

	roundCfg := round_config.Config{RoundDuration: 200 * time.Millisecond, EndGap: 50 * time.Millisecond}
	q := transport.NewInMemory(1)
	svc := service.New(time.Now(), &roundCfg, sched, beacon, q)

	var eg errgroup.Group
	eg.Go(func() error { return svc.Run(ctx) })

	require.NoError(t, q.Do(ctx, "noop", func(context.Context) error { return nil }))

	var got []string
	for len(got) < 5 {
		select {
		case h := <-hooks:
			got = append(got, h)
		case <-time.After(5 * time.Second):
			require.FailNow(t, "timed out waiting for round hooks", "got %v", got)
		}
	}
	require.Equal(t, []string{"advance 0", "begin 0", "end 0", "advance 1", "begin 1"}, got)

	cancel()
	require.NoError(t, eg.Wait())
}

func TestRunStartingInGapSkipsToNextRound(t *testing.T) {
	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), zaptest.NewLogger(t)))
	defer cancel()

	begun := make(chan uint64, 1)
	ctrl := gomock.NewController(t)
	sched := mocks.NewMockScheduler(ctrl)
	sched.EXPECT().OnRoundBegin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, round uint64) error {
			select {
			case begun <- round:
			default:
			}
			return nil
		}).AnyTimes()
	sched.EXPECT().OnRoundEnd(gomock.Any(), gomock.Any()).AnyTimes()
	beacon := mocks.NewMockBeacon(ctrl)
	beacon.EXPECT().Advance(gomock.Any()).AnyTimes()

	// round 0 ended 50ms ago, round 1 begins in 750ms
	roundCfg := round_config.Config{RoundDuration: time.Second, EndGap: 800 * time.Millisecond}
	genesis := time.Now().Add(-250 * time.Millisecond)
	svc := service.New(genesis, &roundCfg, sched, beacon, nil)

	var eg errgroup.Group
	eg.Go(func() error { return svc.Run(ctx) })

	select {
	case round := <-begun:
		require.EqualValues(t, 1, round)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for round 1")
	}
	cancel()
	require.NoError(t, eg.Wait())
}
