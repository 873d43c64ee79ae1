package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Transaction operations

// InsertTransaction stores one transaction and returns its ID.
func (s *Store) InsertTransaction(ctx context.Context, items []string) (int64, error) {
	var id int64
	err := s.withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		id, err = insertTransaction(ctx, tx, items, time.Now())
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", classify(err))
	}
	return id, nil
}

// InsertTransactions stores many transactions in a single database
// transaction and returns how many were written.
func (s *Store) InsertTransactions(ctx context.Context, records [][]string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := s.withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		now := time.Now()
		for _, items := range records {
			if _, err := insertTransaction(ctx, tx, items, now); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert transactions: %w", classify(err))
	}
	return len(records), nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, items []string, at time.Time) (int64, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (created_at) VALUES (?)`,
		at.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for pos, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transaction_items (transaction_id, position, item) VALUES (?, ?, ?)`,
			id, pos, item,
		)
		if err != nil {
			return 0, err
		}
	}

	return id, nil
}

// ListTransactionRecords returns every stored transaction in insertion order.
// A transaction without items is returned with an empty Items slice.
func (s *Store) ListTransactionRecords(ctx context.Context) ([]*Transaction, error) {
	query := `
		SELECT t.id, t.created_at, i.item
		FROM transactions t
		LEFT JOIN transaction_items i ON i.transaction_id = t.id
		ORDER BY t.id, i.position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", classify(err))
	}
	defer rows.Close()

	var records []*Transaction
	var current *Transaction
	for rows.Next() {
		var id int64
		var createdAt string
		var item sql.NullString

		if err := rows.Scan(&id, &createdAt, &item); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		if current == nil || current.ID != id {
			ts, err := time.Parse(time.RFC3339Nano, createdAt)
			if err != nil {
				return nil, fmt.Errorf("failed to parse created_at for transaction %d: %w", id, err)
			}
			current = &Transaction{ID: id, CreatedAt: ts, Items: []string{}}
			records = append(records, current)
		}
		if item.Valid {
			current.Items = append(current.Items, item.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return records, nil
}

// ListTransactions returns the raw items of every stored transaction in
// insertion order.
func (s *Store) ListTransactions(ctx context.Context) ([][]string, error) {
	records, err := s.ListTransactionRecords(ctx)
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Items)
	}
	return out, nil
}

// CountTransactions returns the number of stored transactions.
func (s *Store) CountTransactions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", classify(err))
	}
	return count, nil
}

// DeleteTransaction removes a transaction and its items.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	var rows int64
	err := s.withRetry(ctx, func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, classify(err))
	}

	if rows == 0 {
		return fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	return nil
}

// ClearTransactions removes every transaction and returns how many were
// deleted.
func (s *Store) ClearTransactions(ctx context.Context) (int64, error) {
	var rows int64
	err := s.withRetry(ctx, func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM transactions`)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear transactions: %w", classify(err))
	}
	return rows, nil
}

// ReplaceTransactions swaps the whole transaction collection for records in
// one database transaction.
func (s *Store) ReplaceTransactions(ctx context.Context, records [][]string) error {
	err := s.withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return err
		}
		now := time.Now()
		for _, items := range records {
			if _, err := insertTransaction(ctx, tx, items, now); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("failed to replace transactions: %w", classify(err))
	}
	return nil
}

// Analysis run operations

// SaveRun records an analysis run together with its patterns.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	categoriesJSON, err := json.Marshal(nonNil(run.Categories))
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	err = s.withRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO analysis_runs
			(id, created_at, min_support, min_length, categories, transaction_count, frequent_count, wasteful_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.CreatedAt.UTC().Format(timeLayout),
			run.MinSupport,
			run.MinLength,
			string(categoriesJSON),
			run.TransactionCount,
			run.FrequentCount,
			run.WastefulCount,
		)
		if err != nil {
			return err
		}

		for _, p := range run.Patterns {
			itemsJSON, err := json.Marshal(nonNil(p.Items))
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO run_patterns (run_id, items, support, wasteful) VALUES (?, ?, ?, ?)`,
				run.ID, string(itemsJSON), p.Support, p.Wasteful,
			)
			if err != nil {
				return err
			}
		}

		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, classify(err))
	}
	return nil
}

const runColumns = `id, created_at, min_support, min_length, categories, transaction_count, frequent_count, wasteful_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	var categoriesJSON string

	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.MinSupport,
		&run.MinLength,
		&categoriesJSON,
		&run.TransactionCount,
		&run.FrequentCount,
		&run.WastefulCount,
	)
	if err != nil {
		return nil, err
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &run.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories for run %s: %w", run.ID, err)
	}

	return &run, nil
}

// ListRuns returns the most recent runs, newest first, without patterns.
// A limit of zero or less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", classify(err))
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a run by ID, including its patterns ordered by support.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, classify(err))
	}

	run.Patterns, err = s.getRunPatterns(ctx, id)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// LatestRun returns the most recent run with its patterns.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", classify(err))
	}
	return s.GetRun(ctx, id)
}

func (s *Store) getRunPatterns(ctx context.Context, runID string) ([]RunPattern, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT items, support, wasteful
		FROM run_patterns
		WHERE run_id = ?
		ORDER BY support DESC, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patterns for run %s: %w", runID, classify(err))
	}
	defer rows.Close()

	var patterns []RunPattern
	for rows.Next() {
		var p RunPattern
		var itemsJSON string
		if err := rows.Scan(&itemsJSON, &p.Support, &p.Wasteful); err != nil {
			return nil, fmt.Errorf("failed to scan pattern row: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &p.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pattern items: %w", err)
		}
		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}

	return patterns, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
