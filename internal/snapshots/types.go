// Package snapshots keeps JSON backups of the transaction collection so
// destructive commands can be undone.
package snapshots

import (
	"time"
)

// Data is the JSON structure stored in a snapshot file.
type Data struct {
	CreatedAt    time.Time  `json:"created_at"`
	Reason       string     `json:"reason"`
	Transactions [][]string `json:"transactions"`
}

// Snapshot describes a snapshot file without its transactions.
type Snapshot struct {
	ID           string
	Path         string
	CreatedAt    time.Time
	Reason       string
	Transactions int
}

// Manager manages snapshot creation, listing and cleanup in one directory.
type Manager struct {
	dir string
	now func() time.Time
}

// New creates a new snapshot Manager storing files in dir.
func New(dir string) *Manager {
	return &Manager{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the snapshot directory.
func (m *Manager) Dir() string {
	return m.dir
}
