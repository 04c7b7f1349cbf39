// Package main renders translator-friendly label coverage reports for a pack.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/louisbranch/icondex/internal/services/icons/icon"
	"github.com/louisbranch/icondex/internal/services/icons/library"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"golang.org/x/text/language"
)

type report struct {
	Pack       string         `json:"pack"`
	BaseLocale string         `json:"base_locale"`
	Locales    []localeStatus `json:"locales"`
}

type localeStatus struct {
	Locale      string   `json:"locale"`
	BaseLabels  int      `json:"base_labels"`
	Translated  int      `json:"translated"`
	Missing     int      `json:"missing"`
	Extra       int      `json:"extra"`
	Completion  float64  `json:"completion"`
	MissingKeys []string `json:"missing_labels"`
	ExtraKeys   []string `json:"extra_labels"`
	// Unlabeled lists icons left without any visible label in this locale.
	Unlabeled []int `json:"unlabeled_icons"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) error {
	var packPath string
	var markdownOut string
	var jsonOut string

	flags := flag.NewFlagSet("i18nstatus", flag.ContinueOnError)
	flags.StringVar(&packPath, "pack", "", "pack manifest (default builtin)")
	flags.StringVar(&markdownOut, "out", "docs/reference/label-status.md", "markdown output path")
	flags.StringVar(&jsonOut, "json-out", "docs/reference/label-status.json", "json output path")
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		return err
	}

	p, err := pack.Open(packPath)
	if err != nil {
		return err
	}
	if p.DefaultLabelsDocument() == nil {
		return fmt.Errorf("pack %s has no labels", p.Name())
	}

	rep, err := buildReport(context.Background(), p)
	if err != nil {
		return err
	}
	if err := writeJSON(jsonOut, rep); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	if err := writeMarkdown(markdownOut, rep); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %s and %s\n", markdownOut, jsonOut)
	return nil
}

// localeView is what one locale of a pack resolves to.
type localeView struct {
	labels    map[string]string
	unlabeled []int
}

func loadLocale(ctx context.Context, p *pack.Pack, tag language.Tag) (localeView, error) {
	lib, err := library.Open(ctx, p, library.WithLocale(tag))
	if err != nil {
		return localeView{}, fmt.Errorf("load %s labels: %w", tag, err)
	}
	defer lib.Close()

	view := localeView{labels: map[string]string{}}
	for _, lbl := range lib.Labels() {
		view.labels[lbl.Name] = lbl.Text()
	}
	for _, ic := range lib.Icons() {
		if !hasVisibleLabel(lib, ic) {
			view.unlabeled = append(view.unlabeled, ic.ID)
		}
	}
	return view, nil
}

func hasVisibleLabel(lib *library.Library, ic icon.Icon) bool {
	for _, ref := range ic.Labels {
		if ref.Group {
			continue
		}
		if _, ok := lib.ResolveLabel(ref); ok {
			return true
		}
	}
	return false
}

func buildReport(ctx context.Context, p *pack.Pack) (report, error) {
	tags := p.Languages()
	base, err := loadLocale(ctx, p, tags[0])
	if err != nil {
		return report{}, err
	}

	statuses := make([]localeStatus, 0, len(tags))
	for _, tag := range tags {
		view := base
		if tag != tags[0] {
			if view, err = loadLocale(ctx, p, tag); err != nil {
				return report{}, err
			}
		}
		missing := missingKeys(base.labels, view.labels)
		extra := extraKeys(base.labels, view.labels)
		translated := len(base.labels) - len(missing)
		statuses = append(statuses, localeStatus{
			Locale:      tag.String(),
			BaseLabels:  len(base.labels),
			Translated:  translated,
			Missing:     len(missing),
			Extra:       len(extra),
			Completion:  percent(translated, len(base.labels)),
			MissingKeys: missing,
			ExtraKeys:   extra,
			Unlabeled:   view.unlabeled,
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Locale < statuses[j].Locale
	})
	return report{Pack: p.Name(), BaseLocale: tags[0].String(), Locales: statuses}, nil
}

func writeJSON(path string, rep report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeMarkdown(path string, rep report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: \"Label status\"\n")
	b.WriteString("parent: \"Reference\"\n")
	b.WriteString("nav_order: 20\n")
	b.WriteString("---\n\n")
	b.WriteString("# Label Status\n\n")
	b.WriteString("Generated by `go run ./internal/tools/i18nstatus`.\n\n")
	fmt.Fprintf(&b, "Pack `%s`, base locale `%s`.\n\n", rep.Pack, rep.BaseLocale)

	b.WriteString("## Locale Summary\n\n")
	b.WriteString("| Locale | Base Labels | Translated | Missing | Extra | Completion |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: |\n")
	for _, locale := range rep.Locales {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %d | %d | %.1f%% |\n", locale.Locale, locale.BaseLabels, locale.Translated, locale.Missing, locale.Extra, locale.Completion)
	}

	for _, locale := range rep.Locales {
		if len(locale.MissingKeys) == 0 && len(locale.ExtraKeys) == 0 && len(locale.Unlabeled) == 0 {
			continue
		}
		b.WriteString("\n## Locale: `")
		b.WriteString(locale.Locale)
		b.WriteString("`\n")
		writeList(&b, "Missing Labels", locale.MissingKeys)
		writeList(&b, "Extra Labels", locale.ExtraKeys)
		if len(locale.Unlabeled) > 0 {
			ids := make([]string, 0, len(locale.Unlabeled))
			for _, id := range locale.Unlabeled {
				ids = append(ids, fmt.Sprint(id))
			}
			writeList(&b, "Unlabeled Icons", ids)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n### ")
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, item := range items {
		b.WriteString("- `")
		b.WriteString(item)
		b.WriteString("`\n")
	}
}

func missingKeys(base map[string]string, target map[string]string) []string {
	out := make([]string, 0)
	for key := range base {
		if _, ok := target[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func extraKeys(base map[string]string, target map[string]string) []string {
	out := make([]string, 0)
	for key := range target {
		if _, ok := base[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func percent(numerator int, denominator int) float64 {
	if denominator <= 0 {
		return 100
	}
	value := float64(numerator) * 100 / float64(denominator)
	return math.Round(value*10) / 10
}
