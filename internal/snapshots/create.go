package snapshots

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no snapshot matches.
var ErrNotFound = errors.New("snapshot not found")

const idLayout = "2006-01-02-150405.000000"

// Create writes transactions to a new snapshot file and returns its
// description.
func (m *Manager) Create(transactions [][]string, reason string) (*Snapshot, error) {
	// Ensure snapshot directory exists
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if transactions == nil {
		transactions = [][]string{}
	}
	data := &Data{
		CreatedAt:    m.now().UTC(),
		Reason:       reason,
		Transactions: transactions,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot data: %w", err)
	}

	// Filename: YYYY-MM-DD-HHMMSS.micro.json, suffixed if it already exists
	base := data.CreatedAt.Format(idLayout)
	id := base
	for i := 1; ; i++ {
		f, err := os.OpenFile(m.path(id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) && i < 100 {
			id = fmt.Sprintf("%s-%d", base, i)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create snapshot file: %w", err)
		}
		if _, err := f.Write(jsonData); err != nil {
			f.Close()
			os.Remove(m.path(id))
			return nil, fmt.Errorf("failed to write snapshot file: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(m.path(id))
			return nil, fmt.Errorf("failed to close snapshot file: %w", err)
		}
		break
	}

	return &Snapshot{
		ID:           id,
		Path:         m.path(id),
		CreatedAt:    data.CreatedAt,
		Reason:       reason,
		Transactions: len(transactions),
	}, nil
}

// List returns every snapshot, newest first. A missing directory means no
// snapshots. Unreadable files are skipped.
func (m *Manager) List() ([]*Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var snapshots []*Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".json")
		data, err := m.Load(id)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, &Snapshot{
			ID:           id,
			Path:         m.path(id),
			CreatedAt:    data.CreatedAt,
			Reason:       data.Reason,
			Transactions: len(data.Transactions),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID > snapshots[j].ID
	})
	return snapshots, nil
}

// Latest returns the newest snapshot.
func (m *Manager) Latest() (*Snapshot, error) {
	snapshots, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, ErrNotFound
	}
	return snapshots[0], nil
}

// Cleanup removes snapshots older than maxAge and returns how many were
// deleted.
func (m *Manager) Cleanup(maxAge time.Duration) (int, error) {
	snapshots, err := m.List()
	if err != nil {
		return 0, err
	}

	cutoff := m.now().Add(-maxAge)
	deleted := 0
	for _, s := range snapshots {
		if !s.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("failed to delete snapshot file %s: %w", s.Path, err)
		}
		deleted++
	}
	return deleted, nil
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.dir, id+".json")
}
