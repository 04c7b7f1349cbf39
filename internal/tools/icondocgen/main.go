// Package main writes the markdown icon catalog of a pack.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/icondex/internal/services/icons/icon"
	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"golang.org/x/text/language"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fatal(err)
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) error {
	_ = stdout
	var outPath string
	var rootFlag string
	var packPath string
	var locale string
	flags := flag.NewFlagSet("icondocgen", flag.ContinueOnError)
	flags.StringVar(&outPath, "out", "docs/reference/icon-catalog.md", "output path for the icon catalog")
	flags.StringVar(&rootFlag, "root", "", "repo root (defaults to locating go.mod)")
	flags.StringVar(&packPath, "pack", "", "pack manifest (default builtin)")
	flags.StringVar(&locale, "locale", "en", "label locale")
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		return err
	}

	root, err := resolveRoot(rootFlag)
	if err != nil {
		return err
	}
	output := outPath
	if !filepath.IsAbs(output) {
		output = filepath.Join(root, outPath)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	p, err := pack.Open(packPath)
	if err != nil {
		return err
	}
	lib, err := library.Open(context.Background(), p, library.WithLocale(tag))
	if err != nil {
		return fmt.Errorf("load pack %s: %w", p.Name(), err)
	}
	defer lib.Close()

	content := fmt.Sprintf(`---
title: "Icon Catalog"
parent: "Reference"
nav_order: 30
---

%s`, catalogMarkdown(lib, p.Name()))
	if err := writeOutput(output, content); err != nil {
		return err
	}
	return nil
}

// catalogMarkdown renders one table per category, in category id order,
// followed by the icons without a category.
func catalogMarkdown(lib *library.Library, packName string) string {
	byCategory := map[int][]icon.Icon{}
	var loose []icon.Icon
	for _, ic := range lib.Icons() {
		if ic.Category == nil {
			loose = append(loose, ic)
			continue
		}
		byCategory[ic.Category.ID] = append(byCategory[ic.Category.ID], ic)
	}

	var builder strings.Builder
	builder.WriteString("# Icon Catalog\n\n")
	builder.WriteString("Generated by `go run ./internal/tools/icondocgen`.\n\n")
	fmt.Fprintf(&builder, "Pack `%s`, locale `%s`.\n", packName, lib.Locale())
	for _, cat := range lib.Categories() {
		icons := byCategory[cat.ID]
		if len(icons) == 0 {
			continue
		}
		name, ok := lib.CategoryName(cat.ID)
		if !ok || name == "" {
			name = "Category"
		}
		fmt.Fprintf(&builder, "\n## %s (%d)\n\n", name, cat.ID)
		writeTable(&builder, lib, icons)
	}
	if len(loose) > 0 {
		builder.WriteString("\n## Uncategorized\n\n")
		writeTable(&builder, lib, loose)
	}
	return builder.String()
}

func writeTable(builder *strings.Builder, lib *library.Library, icons []icon.Icon) {
	builder.WriteString("| Icon ID | Labels | Groups |\n")
	builder.WriteString("| --- | --- | --- |\n")
	for _, ic := range icons {
		var labels, groups []string
		for _, ref := range ic.Labels {
			lbl, ok := lib.ResolveLabel(ref)
			if !ok {
				continue
			}
			if ref.Group {
				groups = append(groups, "`"+icon.GroupPrefix+lbl.Name+"`")
				continue
			}
			labels = append(labels, lbl.Text())
		}
		fmt.Fprintf(builder, "| %d | %s | %s |\n", ic.ID, strings.Join(labels, ", "), strings.Join(groups, " "))
	}
}

func writeOutput(output, content string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// resolveRoot chooses the repository root so generated docs land in the right tree.
func resolveRoot(flagRoot string) (string, error) {
	if flagRoot != "" {
		return filepath.Clean(flagRoot), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working dir: %w", err)
	}
	return findModuleRoot(wd)
}

// findModuleRoot walks upward to locate the module root for generation.
func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found above %s", start)
}

// fatal reports a generation error and exits immediately.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
