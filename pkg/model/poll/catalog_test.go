package poll_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/model/poll"
)

func TestOptionCatalog_Bytes(t *testing.T) {
	tests := []struct {
		name    string
		catalog poll.OptionCatalog
	}{
		{"empty", poll.OptionCatalog{}},
		{"yes no", poll.OptionCatalog{"Yes", "No"}},
		{"duplicates and empty labels", poll.OptionCatalog{"A", "A", ""}},
		{"unicode", poll.OptionCatalog{"Ja ✓", "Nein ✗"}},
		{"max label", poll.OptionCatalog{strings.Repeat("x", poll.OptionLabelMaxLength)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.catalog.Bytes()
			require.NoError(t, err)

			decoded, err := poll.OptionCatalogFromBytes(data)
			require.NoError(t, err)
			require.Equal(t, tt.catalog, decoded)
		})
	}
}

func TestOptionCatalog_Limits(t *testing.T) {
	_, err := poll.OptionCatalog{strings.Repeat("x", poll.OptionLabelMaxLength+1)}.Bytes()
	require.ErrorIs(t, err, poll.ErrOptionLabelTooLong)

	_, err = make(poll.OptionCatalog, poll.OptionsMaxCount+1).Bytes()
	require.ErrorIs(t, err, poll.ErrTooManyOptions)
}

func TestOptionCatalogFromBytes_Invalid(t *testing.T) {
	valid, err := poll.OptionCatalog{"Yes", "No"}.Bytes()
	require.NoError(t, err)

	for _, data := range [][]byte{
		nil,
		valid[:len(valid)-1],
		append(valid, 0),
	} {
		_, err := poll.OptionCatalogFromBytes(data)
		require.ErrorIs(t, err, poll.ErrInvalidOptionCatalog)
	}
}
