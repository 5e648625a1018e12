package round_config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	defaultRoundDuration = 12 * time.Second
	defaultEndGap        = 2 * time.Second
)

// Config describes the round clock. Round r begins at
// genesis + r*RoundDuration and ends EndGap before the next round begins.
type Config struct {
	RoundDuration time.Duration `long:"round-duration" description:"Duration of a round"`
	EndGap        time.Duration `long:"end-gap"        description:"Time between the end of a round and the beginning of the next one"`
}

func DefaultConfig() Config {
	return Config{
		RoundDuration: defaultRoundDuration,
		EndGap:        defaultEndGap,
	}
}

func (c *Config) RoundStart(genesis time.Time, round uint64) time.Time {
	return genesis.Add(c.RoundDuration * time.Duration(round))
}

func (c *Config) RoundEnd(genesis time.Time, round uint64) time.Time {
	return c.RoundStart(genesis, round).Add(c.RoundDuration - c.EndGap)
}

// CurrentRound returns the round in progress at a given point in time.
// Before genesis it is round 0.
func (c *Config) CurrentRound(genesis, when time.Time) uint64 {
	sinceGenesis := when.Sub(genesis)
	if sinceGenesis < 0 {
		return 0
	}
	return uint64(sinceGenesis / c.RoundDuration)
}

// implement zap.ObjectMarshaler interface.
func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddDuration("round-duration", c.RoundDuration)
	enc.AddDuration("end-gap", c.EndGap)
	return nil
}
