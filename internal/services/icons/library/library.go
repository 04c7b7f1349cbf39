// Package library is the entry point to the icon catalogs.
//
// A Library owns the label catalog, the icon catalog and the drawable cache.
// It loads a base pack generation, at most one extra generation layered on
// top, and reloads labels when the locale changes. Loads are serialized;
// lookups may run concurrently with each other.
package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"github.com/louisbranch/icondex/internal/services/icons/drawable"
	"github.com/louisbranch/icondex/internal/services/icons/icon"
	"github.com/louisbranch/icondex/internal/services/icons/label"
	"github.com/louisbranch/icondex/internal/services/icons/markup"
	"github.com/louisbranch/icondex/internal/services/icons/pack"
	"github.com/louisbranch/icondex/internal/services/icons/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
)

const tracerName = "icondex/library"

// labelsSource picks the labels document of a generation for a locale.
type labelsSource func(tag language.Tag) pack.Document

// Library serves icons, labels and categories from loaded packs.
type Library struct {
	mu     sync.RWMutex
	labels *label.Catalog
	icons  *icon.Catalog
	cache  *drawable.Cache
	locale language.Tag

	baseLabels  labelsSource
	extraLabels labelsSource
	extraLoaded bool

	tracer trace.Tracer
}

// Option configures a Library.
type Option func(*Library)

// WithRenderer sets the drawable renderer. The default rasterizes path data
// with render.NewRasterizer.
func WithRenderer(r drawable.Renderer) Option {
	return func(l *Library) {
		l.cache = drawable.New(r)
	}
}

// WithLocale sets the initial locale. The default is English.
func WithLocale(tag language.Tag) Option {
	return func(l *Library) {
		l.locale = tag
	}
}

// New returns an empty library.
func New(opts ...Option) *Library {
	l := &Library{
		labels: label.New(),
		icons:  icon.New(),
		locale: language.English,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = drawable.New(render.NewRasterizer())
	}
	return l
}

// Open returns a library loaded with the base pack for the configured
// locale.
func Open(ctx context.Context, base *pack.Pack, opts ...Option) (*Library, error) {
	l := New(opts...)
	if err := l.LoadBase(ctx, base); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadBase replaces every catalog with the base pack, using its labels for
// the current locale.
func (l *Library) LoadBase(ctx context.Context, base *pack.Pack) error {
	source := packLabels(base)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.baseLabels = source
	if doc := source(l.locale); doc != nil {
		if err := l.loadLabels(ctx, doc, false); err != nil {
			return err
		}
	}
	if doc := base.IconsDocument(); doc != nil {
		if err := l.loadIcons(ctx, doc, false); err != nil {
			return err
		}
	}
	return nil
}

func packLabels(p *pack.Pack) labelsSource {
	return func(tag language.Tag) pack.Document {
		doc, _ := p.LabelsDocument(tag)
		return doc
	}
}

func fixedLabels(doc pack.Document) labelsSource {
	return func(language.Tag) pack.Document {
		return doc
	}
}

// LoadLabels reads a labels document. When appendMode is false every label
// is dropped first.
func (l *Library) LoadLabels(ctx context.Context, doc pack.Document, appendMode bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLabels(ctx, doc, appendMode)
}

// LoadIcons reads an icons document. When appendMode is false every icon,
// category, group label and cached drawable is dropped first. Otherwise the
// drawables of icons whose path changed are dropped.
func (l *Library) LoadIcons(ctx context.Context, doc pack.Document, appendMode bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadIcons(ctx, doc, appendMode)
}

// ReloadLabels reloads the base labels for the current locale, then the
// extra labels on top of them.
func (l *Library) ReloadLabels(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reloadLabels(ctx)
}

func (l *Library) reloadLabels(ctx context.Context) error {
	if l.baseLabels != nil {
		if doc := l.baseLabels(l.locale); doc != nil {
			if err := l.loadLabels(ctx, doc, false); err != nil {
				return err
			}
		}
	}
	if l.extraLabels != nil {
		if doc := l.extraLabels(l.locale); doc != nil {
			if err := l.loadLabels(ctx, doc, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetLocale switches the active locale and reloads labels. Icons keep their
// label handles and observe the new text.
func (l *Library) SetLocale(ctx context.Context, tag language.Tag) error {
	if tag == language.Und {
		return apperrors.New(apperrors.CodeUnknownLocale, "locale is undetermined")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locale = tag
	return l.reloadLabels(ctx)
}

// Locale returns the active locale.
func (l *Library) Locale() language.Tag {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.locale
}

// AddExtra layers an extra generation on the base one: labels first, then
// icons, both appended. Either document may be nil. It may be called once;
// later calls fail with CodeDuplicateExtraLoad and load nothing.
func (l *Library) AddExtra(ctx context.Context, icons, labels pack.Document) error {
	return l.addExtra(ctx, icons, fixedLabels(labels))
}

// AddExtraPack is AddExtra with the labels document chosen per locale from p.
func (l *Library) AddExtraPack(ctx context.Context, p *pack.Pack) error {
	return l.addExtra(ctx, p.IconsDocument(), packLabels(p))
}

func (l *Library) addExtra(ctx context.Context, icons pack.Document, labels labelsSource) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.extraLoaded {
		return apperrors.New(apperrors.CodeDuplicateExtraLoad, "extra icons can only be added once")
	}
	l.extraLoaded = true
	l.extraLabels = labels

	if doc := labels(l.locale); doc != nil {
		if err := l.loadLabels(ctx, doc, true); err != nil {
			return err
		}
	}
	if icons != nil {
		if err := l.loadIcons(ctx, icons, true); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) loadLabels(ctx context.Context, doc pack.Document, appendMode bool) error {
	_, span := l.startLoad(ctx, "library.LoadLabels", doc, appendMode)
	defer span.End()

	err := readDocument(doc, func(src markup.Source) error {
		return l.labels.Load(src, appendMode)
	})
	if err != nil {
		return recordError(span, err)
	}
	span.SetAttributes(attribute.Int("icondex.labels", l.labels.Len()))
	log.Printf("loaded %d labels from %s (append=%t)", l.labels.Len(), doc.Name(), appendMode)
	return nil
}

func (l *Library) loadIcons(ctx context.Context, doc pack.Document, appendMode bool) error {
	_, span := l.startLoad(ctx, "library.LoadIcons", doc, appendMode)
	defer span.End()

	var prior map[int][]byte
	if appendMode {
		prior = l.iconPaths()
	} else {
		l.cache.Free()
	}
	err := readDocument(doc, func(src markup.Source) error {
		return l.icons.Load(src, l.labels, appendMode)
	})
	l.forgetChanged(prior)
	if err != nil {
		return recordError(span, err)
	}
	span.SetAttributes(
		attribute.Int("icondex.icons", l.icons.Len()),
		attribute.Int("icondex.groups", l.icons.Groups().Len()),
	)
	log.Printf("loaded %d icons from %s (append=%t)", l.icons.Len(), doc.Name(), appendMode)
	return nil
}

func (l *Library) iconPaths() map[int][]byte {
	paths := make(map[int][]byte, l.icons.Len())
	for _, ic := range l.icons.Icons() {
		paths[ic.ID] = ic.Path
	}
	return paths
}

// forgetChanged drops the drawables of icons whose path is no longer the one
// in prior.
func (l *Library) forgetChanged(prior map[int][]byte) {
	var stale []int
	for id, path := range prior {
		ic, ok := l.icons.Icon(id)
		if !ok || !bytes.Equal(ic.Path, path) {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		l.cache.Forget(stale...)
	}
}

func (l *Library) startLoad(ctx context.Context, name string, doc pack.Document, appendMode bool) (context.Context, trace.Span) {
	return l.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("icondex.document", doc.Name()),
		attribute.Bool("icondex.append", appendMode),
	))
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func readDocument(doc pack.Document, load func(markup.Source) error) error {
	rc, err := doc.Open()
	if err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeDocumentUnreadable,
			fmt.Sprintf("open %s", doc.Name()), map[string]string{"document": doc.Name()}, err)
	}
	defer closeQuietly(rc, doc.Name())
	return load(markup.NewXMLReader(rc, doc.Name()))
}

func closeQuietly(c io.Closer, name string) {
	if err := c.Close(); err != nil {
		log.Printf("close %s: %v", name, err)
	}
}
