package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadAliases_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadAliases(dir)
	if err != nil {
		t.Fatalf("LoadAliases() returned error for missing file: %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadAliases() returned nil config")
	}
	if len(cfg.Aliases) != 0 {
		t.Errorf("expected empty Aliases map, got %v", cfg.Aliases)
	}
}

func TestLoadAliases_CommentsAndInvalidLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `# item aliases
# Format: alias=item

noequalssign
=missingalias
 =
Kretek = rokok
ciki=snack
`
	if err := os.WriteFile(filepath.Join(dir, "aliases"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadAliases(dir)
	if err != nil {
		t.Fatalf("LoadAliases() error: %v", err)
	}
	if len(cfg.Aliases) != 2 {
		t.Errorf("expected 2 aliases, got %d: %v", len(cfg.Aliases), cfg.Aliases)
	}

	// Alias keys are stored normalized.
	if got := cfg.Aliases["kretek"]; got != "rokok" {
		t.Errorf("Aliases[\"kretek\"] = %q, want %q", got, "rokok")
	}
	if got := cfg.Aliases["ciki"]; got != "snack" {
		t.Errorf("Aliases[\"ciki\"] = %q, want %q", got, "snack")
	}
}

func TestAliasConfig_Apply(t *testing.T) {
	cfg := &AliasConfig{Aliases: map[string]string{"kretek": "rokok"}}

	raw := [][]string{{" KRETEK", "kopi"}, {}, {"rokok"}}
	got := cfg.Apply(raw)

	want := [][]string{{"rokok", "kopi"}, {}, {"rokok"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply() = %v, want %v", got, want)
	}
	if raw[0][0] != " KRETEK" {
		t.Error("Apply() modified its input")
	}
}

func TestAliasConfig_ApplyWithoutAliases(t *testing.T) {
	raw := [][]string{{"kopi"}}

	var nilCfg *AliasConfig
	if got := nilCfg.Apply(raw); !reflect.DeepEqual(got, raw) {
		t.Errorf("nil config Apply() = %v", got)
	}
	empty := &AliasConfig{Aliases: map[string]string{}}
	if got := empty.Apply(raw); !reflect.DeepEqual(got, raw) {
		t.Errorf("empty config Apply() = %v", got)
	}
}
