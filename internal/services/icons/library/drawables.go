package library

import (
	"context"
	"image"
	"strconv"

	apperrors "github.com/louisbranch/icondex/internal/platform/errors"
	"github.com/louisbranch/icondex/internal/services/icons/drawable"
)

// StartDrawableCache renders every uncached icon in the background. It
// returns false when a cache worker is already running.
func (l *Library) StartDrawableCache() bool {
	l.mu.RLock()
	ics := l.icons.Icons()
	l.mu.RUnlock()

	items := make([]drawable.Item, 0, len(ics))
	for _, ic := range ics {
		if len(ic.Path) == 0 {
			continue
		}
		items = append(items, drawable.Item{ID: ic.ID, Path: ic.Path})
	}
	return l.cache.Start(items)
}

// CancelDrawableCache stops the background worker before its next icon.
func (l *Library) CancelDrawableCache() {
	l.cache.Cancel()
}

// FreeDrawableCache drops every cached drawable and cancels the background
// worker.
func (l *Library) FreeDrawableCache() {
	l.cache.Free()
}

// WaitDrawableCache blocks until background workers have exited.
func (l *Library) WaitDrawableCache() {
	l.cache.Wait()
}

// CachedDrawables returns the number of cached drawables.
func (l *Library) CachedDrawables() int {
	return l.cache.Len()
}

// Drawable returns the drawable of an icon, rendering it when not cached.
func (l *Library) Drawable(ctx context.Context, id int) (image.Image, error) {
	ic, ok := l.Icon(id)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "icon not found", map[string]string{"icon": strconv.Itoa(id)})
	}
	if len(ic.Path) == 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "icon has no path", map[string]string{"icon": strconv.Itoa(id)})
	}
	return l.cache.Drawable(ctx, drawable.Item{ID: ic.ID, Path: ic.Path})
}

// Close cancels the drawable cache and waits for its worker.
func (l *Library) Close() {
	l.cache.Cancel()
	l.cache.Wait()
}
