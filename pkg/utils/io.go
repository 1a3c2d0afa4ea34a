package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// PathExists returns whether the given file or directory exists.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// DirectoryEmpty returns whether the given directory is empty.
func DirectoryEmpty(dirPath string) (bool, error) {
	f, err := os.Open(dirPath)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	// read in only one file, if there is none, the directory is empty
	if _, err = f.Readdirnames(1); err == io.EOF {
		return true, nil
	}

	return false, err
}

// ReadJSONFromFile reads JSON data from the file named by filename to data.
func ReadJSONFromFile(filename string, data interface{}) error {
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("unable to read JSON file %s: %w", filename, err)
	}
	return json.Unmarshal(jsonData, data)
}

// WriteJSONToFile writes the indented JSON representation of data to a file named by filename.
// The file is created with perm if it does not exist, otherwise it is truncated.
func WriteJSONToFile(filename string, data interface{}, perm os.FileMode) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal data to JSON: %w", err)
	}

	return writeFileSynced(filename, jsonData, perm)
}

// ReadTOMLFromFile reads TOML data from the file named by filename to data.
func ReadTOMLFromFile(filename string, data interface{}) error {
	tomlData, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("unable to read TOML file %s: %w", filename, err)
	}
	return toml.Unmarshal(tomlData, data)
}

// WriteTOMLToFile writes the TOML representation of data to a file named by filename.
// The file is created with perm if it does not exist, otherwise it is truncated.
// An additional header can be passed.
func WriteTOMLToFile(filename string, data interface{}, perm os.FileMode, header ...string) error {
	tomlData, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("unable to marshal data to TOML: %w", err)
	}

	if len(header) > 0 {
		tomlData = append([]byte(header[0]+"\n"), tomlData...)
	}

	return writeFileSynced(filename, tomlData, perm)
}

func writeFileSynced(filename string, content []byte, perm os.FileMode) (err error) {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("unable to write data to %s: %w", filename, err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("unable to fsync file content to %s: %w", filename, err)
	}

	return nil
}
