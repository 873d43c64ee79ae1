// Package ledger reads and writes the transaction data file: a JSON array
// of transactions, each an array of item strings.
package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/basketprune/internal/basket"
)

// defaultMode is the permission of a data file created by Save.
const defaultMode os.FileMode = 0644

// File is a transaction data file on disk.
type File struct {
	path string
}

// Open returns the data file at path, creating it with an empty list if it
// does not exist yet.
func Open(path string) (*File, error) {
	f := &File{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		if err := f.Save([][]string{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return f, nil
}

// Path returns the file's location.
func (f *File) Path() string {
	return f.path
}

// Load reads every transaction from the file.
//
// Content that is not valid JSON, or whose top level is not a list, loads
// as an empty collection. A record that is not a list of strings loads as an
// empty transaction. Only I/O failures are returned as errors.
func (f *File) Load() ([][]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return [][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	return Decode(data), nil
}

// Decode parses data-file content with the same fail-closed rules as Load.
func Decode(data []byte) [][]string {
	if len(bytes.TrimSpace(data)) == 0 {
		return [][]string{}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return [][]string{}
	}
	return basket.FromAny(decoded)
}

// Save replaces the file's content with transactions. The write goes to a
// temp file first and is renamed into place. An existing file keeps its
// permissions. transactions is not modified.
func (f *File) Save(transactions [][]string) error {
	records := make([][]string, len(transactions))
	for i, tx := range transactions {
		if tx == nil {
			tx = []string{}
		}
		records[i] = tx
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}

	mode := defaultMode
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename data file: %w", err)
	}
	return nil
}

// Append adds one transaction to the end of the file.
func (f *File) Append(items []string) error {
	txs, err := f.Load()
	if err != nil {
		return err
	}
	return f.Save(append(txs, items))
}
