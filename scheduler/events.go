package scheduler

import (
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/datverify/shared"
)

type Event interface {
	zapcore.ObjectMarshaler
	Name() string
}

// DatStored is emitted when a dat is registered or its root is updated.
type DatStored struct {
	ID      uint64
	Key     shared.PublicKey
	Owner   shared.AccountID
	Updated bool
}

func (DatStored) Name() string { return "dat_stored" }

func (e DatStored) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("id", e.ID)
	enc.AddString("key", e.Key.String())
	enc.AddString("owner", string(e.Owner))
	enc.AddBool("updated", e.Updated)
	return nil
}

type DatUnstored struct {
	ID  uint64
	Key shared.PublicKey
}

func (DatUnstored) Name() string { return "dat_unstored" }

func (e DatUnstored) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("id", e.ID)
	enc.AddString("key", e.Key.String())
	return nil
}

// NewPin is emitted when a seeder is assigned a dat to replicate.
type NewPin struct {
	Seeder shared.AccountID
	DatID  uint64
	DatKey shared.PublicKey
}

func (NewPin) Name() string { return "new_pin" }

func (e NewPin) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("seeder", string(e.Seeder))
	enc.AddUint64("dat_id", e.DatID)
	enc.AddString("dat", e.DatKey.String())
	return nil
}

type ChallengeIssued struct {
	Challenge shared.Challenge
}

func (ChallengeIssued) Name() string { return "challenge_issued" }

func (e ChallengeIssued) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return enc.AddObject("challenge", &e.Challenge)
}

// ClearReason tells why a challenge was resolved without a failure.
type ClearReason int

const (
	ClearedByProof ClearReason = iota
	ClearedByForce
	ClearedDatRemoved
)

func (r ClearReason) String() string {
	switch r {
	case ClearedByProof:
		return "proof"
	case ClearedByForce:
		return "force"
	case ClearedDatRemoved:
		return "dat_removed"
	default:
		return "unknown"
	}
}

type ChallengeCleared struct {
	Challenge shared.Challenge
	Reason    ClearReason
}

func (ChallengeCleared) Name() string { return "challenge_cleared" }

func (e ChallengeCleared) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("reason", e.Reason.String())
	return enc.AddObject("challenge", &e.Challenge)
}

// ChallengeFailed is emitted when a challenge expired unanswered. The seeder
// has been unregistered by then.
type ChallengeFailed struct {
	Challenge shared.Challenge
}

func (ChallengeFailed) Name() string { return "challenge_failed" }

func (e ChallengeFailed) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return enc.AddObject("challenge", &e.Challenge)
}

type Attested struct {
	Account     shared.AccountID
	Attestation shared.Attestation
}

func (Attested) Name() string { return "attested" }

func (e Attested) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("account", string(e.Account))
	enc.AddUint8("location", e.Attestation.Location)
	if e.Attestation.Latency != nil {
		enc.AddUint8("latency", *e.Attestation.Latency)
	} else {
		enc.AddBool("failed", true)
	}
	return nil
}
