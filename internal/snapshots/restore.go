package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Replacer swaps the stored transaction collection.
type Replacer interface {
	ReplaceTransactions(ctx context.Context, records [][]string) error
}

// Load reads the snapshot with the given ID.
func (m *Manager) Load(id string) (*Data, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return nil, fmt.Errorf("invalid snapshot id %q", id)
	}

	raw, err := os.ReadFile(m.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", id, err)
	}
	if data.Transactions == nil {
		data.Transactions = [][]string{}
	}
	return &data, nil
}

// Restore replaces the stored transactions with the snapshot's content and
// returns how many transactions were restored.
func (m *Manager) Restore(ctx context.Context, dst Replacer, id string) (int, error) {
	data, err := m.Load(id)
	if err != nil {
		return 0, err
	}

	if err := dst.ReplaceTransactions(ctx, data.Transactions); err != nil {
		return 0, fmt.Errorf("failed to restore snapshot %s: %w", id, err)
	}
	return len(data.Transactions), nil
}
