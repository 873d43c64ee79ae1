package store

import "time"

// Transaction is a stored shopping record. Items are kept exactly as
// entered; normalization happens at analysis time.
type Transaction struct {
	ID        int64
	CreatedAt time.Time
	Items     []string
}

// Run records one analysis and its parameters.
type Run struct {
	ID               string
	CreatedAt        time.Time
	MinSupport       float64
	MinLength        int
	Categories       []string
	TransactionCount int
	FrequentCount    int
	WastefulCount    int
	Patterns         []RunPattern // populated by GetRun and LatestRun only
}

// RunPattern is a frequent itemset saved with a run.
type RunPattern struct {
	Items    []string
	Support  float64
	Wasteful bool
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
