// Package iconindex builds and queries the SQLite icon index.
package iconindex

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	entrypoint "github.com/louisbranch/icondex/internal/platform/cmd"
	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"github.com/louisbranch/icondex/internal/services/icons/storage"
	"github.com/louisbranch/icondex/internal/services/icons/storage/sqlite"
	"golang.org/x/text/language"
)

// Config holds icon-index command configuration.
type Config struct {
	DBPath string `env:"INDEX_DB_PATH" envDefault:"data/icons.db"`
	Pack   string `env:"INDEX_PACK"`
	Extra  string `env:"INDEX_EXTRA"`
	Locale string `env:"INDEX_LOCALE"  envDefault:"en"`
	// Query is an AIP-160 filter. When set the index is queried instead of
	// rebuilt.
	Query  string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "index database path")
	fs.StringVar(&cfg.Pack, "pack", cfg.Pack, "base pack manifest (default builtin)")
	fs.StringVar(&cfg.Extra, "extra", cfg.Extra, "extra pack manifest")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "label locale (BCP 47)")
	fs.StringVar(&cfg.Query, "query", "", `filter to run, e.g. 'category = 5 AND key = "car"'`)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run rebuilds the index from the configured packs, or runs a query
// against an existing index and writes matches to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceIconIndex, func(ctx context.Context) error {
		if strings.TrimSpace(cfg.Query) != "" {
			return query(ctx, cfg, out)
		}
		return build(ctx, cfg, out)
	})
}

func build(ctx context.Context, cfg Config, out io.Writer) error {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}
	base, err := pack.Open(cfg.Pack)
	if err != nil {
		return err
	}
	lib, err := library.Open(ctx, base, library.WithLocale(tag))
	if err != nil {
		return fmt.Errorf("load base pack: %w", err)
	}
	defer lib.Close()
	if cfg.Extra != "" {
		extra, err := pack.Open(cfg.Extra)
		if err != nil {
			return err
		}
		if err := lib.AddExtraPack(ctx, extra); err != nil {
			return fmt.Errorf("load extra pack: %w", err)
		}
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create index dir: %w", err)
		}
	}
	index, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeIndex(index)

	if err := index.Replace(ctx, storage.Capture(lib, base.Name())); err != nil {
		return err
	}
	count, err := index.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("indexed %d icons from %s (%s) into %s", count, base.Name(), tag, cfg.DBPath)
	_, err = fmt.Fprintf(out, "%d icons indexed\n", count)
	return err
}

func query(ctx context.Context, cfg Config, out io.Writer) error {
	index, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeIndex(index)

	packName, locale, err := index.Meta(ctx)
	if err != nil {
		return err
	}
	log.Printf("querying %s index of %s (%s)", cfg.DBPath, packName, locale)

	matches, err := index.Query(ctx, cfg.Query)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tLABEL")
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Category, m.Text)
	}
	return w.Flush()
}

func closeIndex(index *sqlite.Index) {
	if err := index.Close(); err != nil {
		log.Printf("close index: %v", err)
	}
}
