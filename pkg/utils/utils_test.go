package utils_test

import (
	"crypto/ed25519"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/utils"
)

func TestParseEd25519Keys(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	parsedPub, err := utils.ParseEd25519PublicKeyFromString(hex.EncodeToString(pub))
	require.NoError(t, err)
	require.Equal(t, pub, parsedPub)

	parsedPriv, err := utils.ParseEd25519PrivateKeyFromString("0x" + hex.EncodeToString(priv))
	require.NoError(t, err)
	require.Equal(t, priv, parsedPriv)

	fromSeed, err := utils.ParseEd25519PrivateKeyFromString(hex.EncodeToString(priv.Seed()))
	require.NoError(t, err)
	require.Equal(t, priv, fromSeed)

	_, err = utils.ParseEd25519PublicKeyFromString("abcd")
	require.ErrorIs(t, err, utils.ErrInvalidKeyLength)

	_, err = utils.ParseEd25519PrivateKeyFromString("zz")
	require.Error(t, err)
}

func TestLoadEd25519PrivateKeyFromEnvironment(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	t.Setenv("TALLY_TEST_KEY", hex.EncodeToString(priv))

	loaded, err := utils.LoadEd25519PrivateKeyFromEnvironment("TALLY_TEST_KEY")
	require.NoError(t, err)
	require.Equal(t, priv, loaded)

	_, err = utils.LoadEd25519PrivateKeyFromEnvironment("TALLY_TEST_KEY_MISSING")
	require.Error(t, err)
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()

	empty, err := utils.DirectoryEmpty(dir)
	require.NoError(t, err)
	require.True(t, empty)

	type info struct {
		Engine string `toml:"databaseEngine" json:"engine"`
	}

	tomlPath := filepath.Join(dir, "dbinfo")
	require.NoError(t, utils.WriteTOMLToFile(tomlPath, &info{Engine: "pebble"}, 0660, "# auto-generated"))

	var readTOML info
	require.NoError(t, utils.ReadTOMLFromFile(tomlPath, &readTOML))
	require.Equal(t, "pebble", readTOML.Engine)

	jsonPath := filepath.Join(dir, "info.json")
	require.NoError(t, utils.WriteJSONToFile(jsonPath, &info{Engine: "mapdb"}, 0660))

	var readJSON info
	require.NoError(t, utils.ReadJSONFromFile(jsonPath, &readJSON))
	require.Equal(t, "mapdb", readJSON.Engine)

	exists, err := utils.PathExists(jsonPath)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = utils.PathExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, exists)

	empty, err = utils.DirectoryEmpty(dir)
	require.NoError(t, err)
	require.False(t, empty)

	fileInfo, err := os.Stat(jsonPath)
	require.NoError(t, err)
	tomlInfo, err := os.Stat(tomlPath)
	require.NoError(t, err)

	size, err := utils.FolderSize(dir)
	require.NoError(t, err)
	require.Equal(t, fileInfo.Size()+tomlInfo.Size(), size)
}

func TestRateMeter(t *testing.T) {
	meter := utils.NewRateMeter(time.Second)
	require.Zero(t, meter.PerSecond())

	meter.Mark(3)
	meter.Mark(2)
	require.InDelta(t, 5.0, meter.PerSecond(), 0.001)

	short := utils.NewRateMeter(10 * time.Millisecond)
	short.Mark(1)
	time.Sleep(20 * time.Millisecond)
	require.Zero(t, short.PerSecond())
}

func TestWrappedLogger_NilSafe(t *testing.T) {
	l := utils.NewWrappedLogger(nil)
	require.Nil(t, l.Logger())
	require.Nil(t, l.LoggerNamed("sub"))

	l.LogDebugf("%d", 1)
	l.LogInfo("info")
	l.LogWarnf("%s", "warn")
	l.LogError("error")
}
