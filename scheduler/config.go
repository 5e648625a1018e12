package scheduler

import (
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/datverify/shared"
)

func DefaultConfig() Config {
	return Config{
		MaxPendingChallenges: 1,
	}
}

//nolint:lll
type Config struct {
	MaxPendingChallenges int      `long:"max-pending-challenges" description:"No challenge is issued while this many challenges are pending"`
	MaxChallengeRounds   uint64   `long:"max-challenge-rounds"   description:"Upper bound on the rounds a seeder gets to answer a challenge (0 = bounded by the dat tree size only)"`
	Admins               []string `long:"admin"                  description:"Account allowed to invoke privileged operations (repeatable)"`
}

// implement zap.ObjectMarshaler interface.
func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("max_pending_challenges", c.MaxPendingChallenges)
	enc.AddUint64("max_challenge_rounds", c.MaxChallengeRounds)
	enc.AddInt("admins", len(c.Admins))
	return nil
}

// StaticAuthority grants privileges to a fixed set of accounts.
type StaticAuthority map[shared.AccountID]struct{}

func NewStaticAuthority(admins ...string) StaticAuthority {
	a := make(StaticAuthority, len(admins))
	for _, admin := range admins {
		a[shared.AccountID(admin)] = struct{}{}
	}
	return a
}

func (a StaticAuthority) IsPrivileged(caller shared.AccountID) bool {
	_, ok := a[caller]
	return ok
}
