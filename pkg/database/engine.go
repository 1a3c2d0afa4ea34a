package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/utils"
)

type Engine string

const (
	EngineUnknown Engine = "unknown"
	EnginePebble  Engine = "pebble"
	EngineMapDB   Engine = "mapdb"

	dbInfoFileName = "dbinfo"
)

var (
	ErrUnknownEngine = errors.New("unknown database engine")
)

type databaseInfo struct {
	Engine string `toml:"databaseEngine"`
}

// DatabaseEngine parses a string and returns an engine.
// Returns an error if the engine is unknown.
func DatabaseEngine(engineStr string) (Engine, error) {

	engine := Engine(strings.ToLower(engineStr))

	switch engine {
	case EnginePebble, EngineMapDB:
		return engine, nil
	default:
		return EngineUnknown, errors.Wrapf(ErrUnknownEngine, "%s, supported engines: pebble/mapdb", engineStr)
	}
}

// CheckDatabaseEngine checks if the correct database engine is used.
// This function stores a so called "database info file" in the database folder or
// checks if an existing "database info file" contains the correct engine.
// Otherwise the files in the database folder are not compatible.
func CheckDatabaseEngine(dbPath string, createDatabaseIfNotExists bool, dbEngine Engine) (Engine, error) {

	if dbEngine == EngineMapDB {
		// no need to create or access a "database info file" in case of mapdb (in-memory)
		return EngineMapDB, nil
	}

	// check if the database exists and if it should be created
	dbExists, err := DatabaseExists(dbPath)
	if err != nil {
		return EngineUnknown, err
	}

	if !dbExists && !createDatabaseIfNotExists {
		return EngineUnknown, fmt.Errorf("database not found (%s)", dbPath)
	}

	dbInfoFilePath := filepath.Join(dbPath, dbInfoFileName)
	infoExists, err := utils.PathExists(dbInfoFilePath)
	if err != nil {
		return EngineUnknown, fmt.Errorf("unable to check database info file (%s): %w", dbInfoFilePath, err)
	}

	if !infoExists {
		if dbExists {
			return EngineUnknown, fmt.Errorf("database info file not found (%s)", dbInfoFilePath)
		}

		// a fresh database, remember the engine it is created with
		if err := storeDatabaseInfoToFile(dbInfoFilePath, dbEngine); err != nil {
			return EngineUnknown, err
		}

		return dbEngine, nil
	}

	dbEngineFromInfoFile, err := LoadDatabaseEngineFromFile(dbInfoFilePath)
	if err != nil {
		return EngineUnknown, err
	}

	if dbEngineFromInfoFile != dbEngine {
		return EngineUnknown, fmt.Errorf("database (%s) engine does not match the configuration: '%v' != '%v'", dbPath, dbEngineFromInfoFile, dbEngine)
	}

	return dbEngine, nil
}

// LoadDatabaseEngineFromFile returns the engine from the "database info file".
func LoadDatabaseEngineFromFile(path string) (Engine, error) {

	var info databaseInfo

	if err := utils.ReadTOMLFromFile(path, &info); err != nil {
		return EngineUnknown, fmt.Errorf("unable to read database info file: %w", err)
	}

	return DatabaseEngine(info.Engine)
}

// storeDatabaseInfoToFile stores the used engine in a "database info file".
func storeDatabaseInfoToFile(filePath string, engine Engine) error {
	dirPath := filepath.Dir(filePath)

	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return fmt.Errorf("could not create database dir '%s': %w", dirPath, err)
	}

	info := &databaseInfo{
		Engine: string(engine),
	}

	return utils.WriteTOMLToFile(filePath, info, 0660, "# auto-generated\n# !!! do not modify this file !!!")
}

// DatabaseExists checks if the database folder exists and is not empty.
func DatabaseExists(dbPath string) (bool, error) {

	dirExists, err := utils.PathExists(dbPath)
	if err != nil {
		return false, fmt.Errorf("unable to check database path (%s): %w", dbPath, err)
	}
	if !dirExists {
		return false, nil
	}

	// directory exists, but maybe database doesn't exist.
	// check if the directory is empty (needed for example in docker environments)
	dirEmpty, err := utils.DirectoryEmpty(dbPath)
	if err != nil {
		return false, fmt.Errorf("unable to check database path (%s): %w", dbPath, err)
	}

	return !dirEmpty, nil
}
