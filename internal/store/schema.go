package store

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transaction_items (
    transaction_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    item TEXT NOT NULL,
    PRIMARY KEY (transaction_id, position),
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS analysis_runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    min_support REAL NOT NULL,
    min_length INTEGER NOT NULL,
    categories TEXT NOT NULL,
    transaction_count INTEGER NOT NULL,
    frequent_count INTEGER NOT NULL,
    wasteful_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_patterns (
    run_id TEXT NOT NULL,
    items TEXT NOT NULL,
    support REAL NOT NULL,
    wasteful BOOLEAN NOT NULL,
    FOREIGN KEY (run_id) REFERENCES analysis_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_transaction ON transaction_items(transaction_id);
CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at);
CREATE INDEX IF NOT EXISTS idx_run_patterns_run ON run_patterns(run_id);
`
