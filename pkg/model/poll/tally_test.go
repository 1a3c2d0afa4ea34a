package poll_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/model/poll"
)

func TestTallyVector_Bytes(t *testing.T) {
	tests := []struct {
		name    string
		tallies poll.TallyVector
	}{
		{"empty", poll.TallyVector{}},
		{"single", poll.TallyVector{1}},
		{"sparse", poll.TallyVector{0, 0, 0, 1}},
		{"large counts", poll.TallyVector{1 << 40, 7, 1<<64 - 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.tallies.Bytes()
			require.Len(t, data, 4+8*len(tt.tallies))

			decoded, err := poll.TallyVectorFromBytes(data)
			require.NoError(t, err)
			require.Equal(t, tt.tallies, decoded)
		})
	}
}

func TestTallyVectorFromBytes_Invalid(t *testing.T) {
	valid := poll.TallyVector{1, 2, 3}.Bytes()

	for _, data := range [][]byte{
		nil,
		{1, 0},
		valid[:len(valid)-1],
		append(valid, 0),
	} {
		_, err := poll.TallyVectorFromBytes(data)
		require.ErrorIs(t, err, poll.ErrInvalidTallyVector)
	}
}

func TestTallyVector_TotalAndClone(t *testing.T) {
	tallies := poll.TallyVector{2, 0, 5}
	require.Equal(t, uint64(7), tallies.Total())
	require.Equal(t, uint64(0), poll.TallyVector{}.Total())

	clone := tallies.Clone()
	clone[0] = 100
	require.Equal(t, uint64(2), tallies[0])

	var empty poll.TallyVector
	require.NotNil(t, empty.Clone())
}
