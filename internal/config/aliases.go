package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/basketprune/internal/basket"
)

// AliasConfig holds item aliases declared by the user. Each key is an
// alternative spelling (normalized) and the value is the item it should be
// counted as, e.g. "kretek=rokok".
type AliasConfig struct {
	Aliases map[string]string
}

// LoadAliases parses {dir}/aliases, one "alias=item" pair per line. A missing
// file yields no aliases. Lines without a usable pair are ignored.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	path := filepath.Join(dir, "aliases")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to open aliases file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		left, right, ok := strings.Cut(line, "=")
		alias := basket.NormalizeItem(left)
		item := strings.TrimSpace(right)
		if !ok || alias == "" || item == "" {
			continue
		}

		cfg.Aliases[alias] = item
	}

	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("failed to read aliases file: %w", err)
	}

	return cfg, nil
}

// Apply rewrites aliased tokens in raw transactions. Tokens are matched on
// their normalized form; anything without an alias is left untouched. The
// input is not modified.
func (c *AliasConfig) Apply(raw [][]string) [][]string {
	if c == nil || len(c.Aliases) == 0 {
		return raw
	}

	out := make([][]string, len(raw))
	for i, tx := range raw {
		rewritten := make([]string, len(tx))
		for j, token := range tx {
			if item, ok := c.Aliases[basket.NormalizeItem(token)]; ok {
				rewritten[j] = item
			} else {
				rewritten[j] = token
			}
		}
		out[i] = rewritten
	}
	return out
}
