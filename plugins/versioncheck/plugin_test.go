package versioncheck

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixVersion(t *testing.T) {
	require.Equal(t, "0.1.0", fixVersion("v0.1.0"))
	require.Equal(t, "0.2.0-rc.1", fixVersion("v0.2.0-rc1"))
	require.Equal(t, "0.2.0-rc.1", fixVersion("0.2.0-rc.1"))
}

func TestIncludeVersionInCheck(t *testing.T) {
	require.True(t, includeVersionInCheck("0.1.0", "0.2.0"))
	require.False(t, includeVersionInCheck("0.1.0", "0.2.0-rc.1"))
	require.True(t, includeVersionInCheck("0.2.0-rc.1", "0.2.0-rc.2"))
}
