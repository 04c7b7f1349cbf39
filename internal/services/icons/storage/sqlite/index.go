// Package sqlite persists an icon index in SQLite and queries it with
// AIP-160 filters.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	sqlitemigrate "github.com/louisbranch/icondex/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/icondex/internal/services/icons/storage"
	"github.com/louisbranch/icondex/internal/services/icons/storage/filter"
	"github.com/louisbranch/icondex/internal/services/icons/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Index is a SQLite icon index.
type Index struct {
	sqlDB *sql.DB
}

// Match is one icon returned by a query.
type Match struct {
	ID       int
	Category string
	// Text is the first label value of the icon, if any.
	Text string
}

// Open opens the index at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("index path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	applied, err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "")
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Printf("index %s: applied migrations %s", path, strings.Join(applied, ", "))
	}
	return &Index{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (i *Index) Close() error {
	if i == nil || i.sqlDB == nil {
		return nil
	}
	return i.sqlDB.Close()
}

// Replace swaps the whole index content for snap in one transaction.
func (i *Index) Replace(ctx context.Context, snap storage.Snapshot) (err error) {
	tx, err := i.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"icon_labels", "icons", "categories", "index_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	meta := map[string]string{"pack": snap.Pack, "locale": snap.Locale}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO index_meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("insert meta %s: %w", key, err)
		}
	}
	for _, cat := range snap.Categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, cat.ID, cat.Name); err != nil {
			return fmt.Errorf("insert category %d: %w", cat.ID, err)
		}
	}
	for _, ic := range snap.Icons {
		if err := insertIcon(ctx, tx, ic); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func insertIcon(ctx context.Context, tx *sql.Tx, ic storage.IconRow) error {
	var category sql.NullInt64
	if ic.HasCategory {
		category = sql.NullInt64{Int64: int64(ic.CategoryID), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO icons (id, category_id, path) VALUES (?, ?, ?)`,
		ic.ID, category, ic.Path,
	); err != nil {
		return fmt.Errorf("insert icon %d: %w", ic.ID, err)
	}
	for _, row := range ic.Labels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO icon_labels (icon_id, position, alias, label_name, is_group, text, key)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ic.ID, row.Position, row.Alias, row.Name, row.Group, row.Text, row.Key,
		); err != nil {
			return fmt.Errorf("insert icon %d label %s: %w", ic.ID, row.Name, err)
		}
	}
	return nil
}

// Meta returns the pack name and locale the index was written for.
func (i *Index) Meta(ctx context.Context) (packName, locale string, err error) {
	rows, err := i.sqlDB.QueryContext(ctx, `SELECT key, value FROM index_meta`)
	if err != nil {
		return "", "", fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return "", "", fmt.Errorf("scan meta: %w", err)
		}
		switch key {
		case "pack":
			packName = value
		case "locale":
			locale = value
		}
	}
	return packName, locale, rows.Err()
}

// Count returns the number of indexed icons.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM icons`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count icons: %w", err)
	}
	return n, nil
}

// Query returns the icons matching an AIP-160 filter, sorted by id. An
// empty filter matches every icon. Label fields match when any label of the
// icon does.
func (i *Index) Query(ctx context.Context, filterExpr string) ([]Match, error) {
	cond, err := filter.Parse(filterExpr)
	if err != nil {
		return nil, err
	}

	query := `SELECT i.id, COALESCE(c.name, ''),
	   COALESCE((SELECT f.text FROM icon_labels f WHERE f.icon_id = i.id ORDER BY f.position, f.alias LIMIT 1), '')
	 FROM icons i
	 LEFT JOIN categories c ON c.id = i.category_id`
	if !cond.Empty() {
		query += "\n WHERE " + cond.Clause
	}
	query += "\n ORDER BY i.id"

	rows, err := i.sqlDB.QueryContext(ctx, query, cond.Params...)
	if err != nil {
		return nil, fmt.Errorf("query icons: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Category, &m.Text); err != nil {
			return nil, fmt.Errorf("scan icon: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate icons: %w", err)
	}
	return out, nil
}
