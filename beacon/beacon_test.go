package beacon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministicPerRound(t *testing.T) {
	t.Parallel()
	a := New([]byte("seed"))
	b := New([]byte("seed"))
	subject := []byte("dat_verify_init")

	require.Equal(t, a.Random(subject), b.Random(subject))

	a.Advance(7)
	require.EqualValues(t, 7, a.Round())
	require.NotEqual(t, a.Random(subject), b.Random(subject))

	b.Advance(7)
	require.Equal(t, a.Random(subject), b.Random(subject))
}

func TestSubjectAndSeedSeparate(t *testing.T) {
	t.Parallel()
	a := New([]byte("seed"))
	require.NotEqual(t, a.Random([]byte("x")), a.Random([]byte("y")))

	other := New([]byte("other seed"))
	require.NotEqual(t, a.Random([]byte("x")), other.Random([]byte("x")))
}
