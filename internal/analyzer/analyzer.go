// Package analyzer runs the basket analysis pipeline: normalize stored
// transactions, mine frequent itemsets, classify wasteful patterns and
// produce recommendations.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackwell-systems/basketprune/internal/apriori"
	"github.com/blackwell-systems/basketprune/internal/basket"
)

// TransactionSource supplies raw transactions, one slice of tokens each.
type TransactionSource interface {
	ListTransactions(ctx context.Context) ([][]string, error)
}

// Analyzer mines a transaction source for wasteful spending patterns.
type Analyzer struct {
	source TransactionSource
	logger *zap.Logger
	now    func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the analyzer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates a new Analyzer reading from source.
func New(source TransactionSource, opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run loads every transaction and analyzes it with p. A MinLength below 1
// falls back to DefaultMinLength. An invalid MinSupport returns an error
// wrapping apriori.ErrInvalidParameter.
func (a *Analyzer) Run(ctx context.Context, p Params) (*Report, error) {
	miner, err := apriori.NewMiner(p.MinSupport, apriori.WithLogger(a.logger.Named("apriori")))
	if err != nil {
		return nil, err
	}

	raw, err := a.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return a.analyze(miner, raw, p), nil
}

// Analyze runs the pipeline over raw transactions supplied directly.
func (a *Analyzer) Analyze(raw [][]string, p Params) (*Report, error) {
	miner, err := apriori.NewMiner(p.MinSupport, apriori.WithLogger(a.logger.Named("apriori")))
	if err != nil {
		return nil, err
	}
	return a.analyze(miner, raw, p), nil
}

func (a *Analyzer) analyze(miner *apriori.Miner, raw [][]string, p Params) *Report {
	if p.MinLength < 1 {
		p.MinLength = DefaultMinLength
	}

	normalized := basket.Normalize(raw)
	frequent := miner.Mine(normalized.Transactions)

	detector := NewDetector(frequent, p.Categories)
	wasteful := detector.Detect(p.MinLength)

	report := &Report{
		ID:              uuid.NewString(),
		CreatedAt:       a.now(),
		Params:          p,
		Transactions:    len(normalized.Transactions),
		Items:           normalized.Items,
		Frequent:        frequent,
		Wasteful:        wasteful,
		Levels:          miner.Levels(),
		Recommendations: Recommend(wasteful),
	}

	a.logger.Info("analysis complete",
		zap.String("run_id", report.ID),
		zap.Int("transactions", report.Transactions),
		zap.Int("items", len(report.Items)),
		zap.Int("frequent", frequent.Len()),
		zap.Int("wasteful", wasteful.Len()),
		zap.Float64("min_support", p.MinSupport),
		zap.Int("min_length", p.MinLength))

	return report
}
