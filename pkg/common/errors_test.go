package common_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/common"
)

func TestSoftError_As(t *testing.T) {
	anError := errors.New("an error")

	wrapped := fmt.Errorf("wrap me up: %w", common.SoftError{Err: anError})

	var softErr common.SoftError
	require.True(t, errors.As(wrapped, &softErr))
	require.True(t, errors.Is(wrapped, anError))
}

func TestCriticalError_As(t *testing.T) {
	anError := errors.New("database corrupted")

	wrapped := errors.WithMessage(common.CriticalError{Err: anError}, "startup")

	var criticalErr common.CriticalError
	require.True(t, errors.As(wrapped, &criticalErr))
	require.Equal(t, anError, criticalErr.Err)
}

func TestDatabaseError_IsStorageFailure(t *testing.T) {
	cause := errors.New("disk full")

	err := errors.Wrap(common.NewDatabaseError(cause), "failed to store tallies")

	require.True(t, errors.Is(err, common.ErrStorageFailure))
	require.True(t, errors.Is(err, cause))
	require.Contains(t, err.Error(), "disk full")
	require.False(t, errors.Is(cause, common.ErrStorageFailure))
}
