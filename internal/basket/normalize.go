// Package basket turns raw shopping records into canonical transactions.
package basket

import (
	"sort"
	"strings"
)

// NormalizeItem returns the canonical form of a raw token.
func NormalizeItem(raw string) Item {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Normalize cleans raw transactions into canonical sets of items.
//
// Transaction order and count are preserved. Duplicate items inside one
// record collapse to one. A blank token is kept as the empty item; callers
// that do not want it must drop it before submitting. Empty input yields an
// empty result, never an error.
func Normalize(raw [][]string) Normalized {
	n := Normalized{
		Transactions: make([]Transaction, 0, len(raw)),
		Items:        []Item{},
	}

	seen := make(map[Item]struct{})
	for _, record := range raw {
		tx := normalizeRecord(record)
		for _, item := range tx {
			seen[item] = struct{}{}
		}
		n.Transactions = append(n.Transactions, tx)
	}

	for item := range seen {
		n.Items = append(n.Items, item)
	}
	sort.Strings(n.Items)

	return n
}

func normalizeRecord(record []string) Transaction {
	set := make(map[Item]struct{}, len(record))
	tx := make(Transaction, 0, len(record))
	for _, raw := range record {
		item := NormalizeItem(raw)
		if _, dup := set[item]; dup {
			continue
		}
		set[item] = struct{}{}
		tx = append(tx, item)
	}
	sort.Strings(tx)
	return tx
}

// FromAny converts loosely typed data, such as the result of decoding JSON
// into an interface value, into raw transactions. A record that is not a
// list of strings becomes an empty transaction rather than an error. A value
// that is not a list at all yields no transactions.
func FromAny(v any) [][]string {
	records, ok := v.([]any)
	if !ok {
		if typed, ok := v.([][]string); ok {
			return typed
		}
		return [][]string{}
	}

	out := make([][]string, 0, len(records))
	for _, rec := range records {
		out = append(out, recordFromAny(rec))
	}
	return out
}

func recordFromAny(rec any) []string {
	switch r := rec.(type) {
	case []string:
		return r
	case []any:
		items := make([]string, 0, len(r))
		for _, v := range r {
			s, ok := v.(string)
			if !ok {
				return []string{}
			}
			items = append(items, s)
		}
		return items
	default:
		return []string{}
	}
}

// ParseItems splits a comma-separated entry line into raw tokens, dropping
// blank ones. Tokens are trimmed but otherwise left as typed.
func ParseItems(line string) []string {
	var items []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
	}
	return items
}
