package snapshots

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "snapshots"))
}

func TestCreateSnapshot(t *testing.T) {
	m := newTestManager(t)

	records := [][]string{{"rokok", "kopi"}, {}, {"snack"}}
	snap, err := m.Create(records, "clear")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snap.Transactions != 3 {
		t.Errorf("Transactions = %d, want 3", snap.Transactions)
	}
	if snap.Reason != "clear" {
		t.Errorf("Reason = %q, want clear", snap.Reason)
	}
	if filepath.Dir(snap.Path) != m.Dir() {
		t.Errorf("snapshot written to %s, want dir %s", snap.Path, m.Dir())
	}
	if _, err := os.Stat(snap.Path); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	data, err := m.Load(snap.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(data.Transactions) != 3 || len(data.Transactions[1]) != 0 {
		t.Errorf("round trip mismatch: %v", data.Transactions)
	}
	if data.Transactions[0][1] != "kopi" {
		t.Errorf("Transactions[0] = %v, want [rokok kopi]", data.Transactions[0])
	}
}

func TestCreateSnapshot_SameInstant(t *testing.T) {
	m := newTestManager(t)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	first, err := m.Create([][]string{{"a"}}, "one")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := m.Create([][]string{{"b"}}, "two")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct IDs, both %s", first.ID)
	}

	latest, err := m.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("Latest() = %s, want %s", latest.ID, second.ID)
	}
}

func TestList_NewestFirst(t *testing.T) {
	m := newTestManager(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, reason := range []string{"oldest", "middle", "newest"} {
		at := base.Add(time.Duration(i) * time.Hour)
		m.now = func() time.Time { return at }
		if _, err := m.Create(nil, reason); err != nil {
			t.Fatalf("Create(%s) error = %v", reason, err)
		}
	}

	// Stray files are ignored.
	if err := os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(m.Dir(), "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(List()) = %d, want 3", len(list))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, s := range list {
		if s.Reason != want[i] {
			t.Errorf("list[%d].Reason = %s, want %s", i, s.Reason, want[i])
		}
	}
}

func TestList_MissingDir(t *testing.T) {
	m := newTestManager(t)

	list, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no snapshots, got %d", len(list))
	}

	if _, err := m.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Load("2026-01-01-000000.000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
	}

	for _, id := range []string{"", "../escape", `a\b`} {
		if _, err := m.Load(id); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) error = %v, want invalid id", id, err)
		}
	}
}

func TestCleanup(t *testing.T) {
	m := newTestManager(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return now.AddDate(0, 0, -100) }
	if _, err := m.Create(nil, "old"); err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return now.AddDate(0, 0, -1) }
	if _, err := m.Create(nil, "recent"); err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return now }
	deleted, err := m.Cleanup(90 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	list, _ := m.List()
	if len(list) != 1 || list[0].Reason != "recent" {
		t.Errorf("remaining snapshots = %+v, want only recent", list)
	}
}

type fakeReplacer struct {
	got [][]string
	err error
}

func (f *fakeReplacer) ReplaceTransactions(ctx context.Context, records [][]string) error {
	if f.err != nil {
		return f.err
	}
	f.got = records
	return nil
}

func TestRestore(t *testing.T) {
	m := newTestManager(t)
	snap, err := m.Create([][]string{{"rokok"}, {"kopi", "roti"}}, "import --replace")
	if err != nil {
		t.Fatal(err)
	}

	dst := &fakeReplacer{}
	n, err := m.Restore(context.Background(), dst, snap.ID)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if n != 2 || len(dst.got) != 2 {
		t.Errorf("restored %d (%v), want 2", n, dst.got)
	}

	dst.err = errors.New("disk full")
	if _, err := m.Restore(context.Background(), dst, snap.ID); err == nil {
		t.Error("expected error from failing replacer")
	}

	if _, err := m.Restore(context.Background(), &fakeReplacer{}, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore(missing) error = %v, want ErrNotFound", err)
	}
}
