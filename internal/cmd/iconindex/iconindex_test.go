package iconindex

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("icon-index", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "data/icons.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.Locale != "en" || cfg.Query != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ICONDEX_INDEX_DB_PATH", "env.db")

	fs := flag.NewFlagSet("icon-index", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-locale", "fr", "-query", "id > 1"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "env.db" || cfg.Locale != "fr" || cfg.Query != "id > 1" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestBuildThenQuery(t *testing.T) {
	ctx := context.Background()
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "nested", "icons.db"), Locale: "fr"}

	var built bytes.Buffer
	if err := Run(ctx, cfg, &built); err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := built.String(); got != "14 icons indexed\n" {
		t.Fatalf("build output = %q", got)
	}

	cfg.Query = `category = 5 AND key = "voiture"`
	var queried bytes.Buffer
	if err := Run(ctx, cfg, &queried); err != nil {
		t.Fatalf("query: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(queried.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("query output = %q, want header and one row", queried.String())
	}
	if fields := strings.Fields(lines[1]); fields[0] != "50" {
		t.Fatalf("row = %q, want icon 50", lines[1])
	}
}

func TestQueryRejectsInvalidFilter(t *testing.T) {
	ctx := context.Background()
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "icons.db"), Locale: "en"}
	if err := Run(ctx, cfg, &bytes.Buffer{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	cfg.Query = "color = 3"
	if err := Run(ctx, cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown filter field")
	}
}

func TestBuildRejectsInvalidLocale(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "icons.db"), Locale: "??"}
	if err := Run(context.Background(), cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}
