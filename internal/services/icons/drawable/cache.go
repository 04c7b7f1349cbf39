// Package drawable materializes icon drawables in the background.
//
// Each icon moves from uncached to cached when rendered and back when the
// cache is freed. One bulk worker may run at a time; it checks for
// cancellation between icons. Freeing bumps a generation counter so a worker
// still finishing a stale run cannot write into the fresh cache. A drawable
// is only served for the path it was rendered from.
package drawable

import (
	"bytes"
	"context"
	"image"
	"log"
	"sync"
)

// Item is one icon to render.
type Item struct {
	ID   int
	Path []byte
}

// Renderer turns icon path data into a drawable. Render must be safe for
// concurrent use and must not retain path.
type Renderer interface {
	Render(path []byte) (image.Image, error)
}

// Cache holds rendered drawables by icon id.
type Cache struct {
	renderer Renderer

	mu         sync.Mutex
	slots      map[int]slot
	generation uint64
	run        *run

	workers sync.WaitGroup
}

// slot is a drawable with the path it was rendered from.
type slot struct {
	path []byte
	img  image.Image
}

type run struct {
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
	stopped    bool
}

// New returns an empty cache rendering with r.
func New(r Renderer) *Cache {
	return &Cache{renderer: r, slots: map[int]slot{}}
}

// Start launches a worker rendering every item not cached yet. It returns
// false when a worker is already running and has not been cancelled.
func (c *Cache) Start(items []Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != nil && !c.run.stopped {
		select {
		case <-c.run.done:
		default:
			return false
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{generation: c.generation, cancel: cancel, done: make(chan struct{})}
	c.run = r

	work := make([]Item, len(items))
	copy(work, items)

	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		defer close(r.done)
		defer cancel()
		c.fill(ctx, r.generation, work)
	}()
	return true
}

func (c *Cache) fill(ctx context.Context, generation uint64, items []Item) {
	rendered := 0
	for _, item := range items {
		if ctx.Err() != nil {
			log.Printf("drawable cache: generation %d cancelled after %d icons", generation, rendered)
			return
		}
		if _, ok := c.lookup(item); ok {
			continue
		}
		img, err := c.renderer.Render(item.Path)
		if err != nil {
			log.Printf("drawable cache: render icon %d: %v", item.ID, err)
			continue
		}
		if c.store(generation, item, img) {
			rendered++
		}
	}
	log.Printf("drawable cache: generation %d rendered %d icons", generation, rendered)
}

// store keeps img unless the cache was freed since generation was read or
// the slot already holds a drawable for the same path.
func (c *Cache) store(generation uint64, item Item, img image.Image) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	if s, ok := c.slots[item.ID]; ok && bytes.Equal(s.path, item.Path) {
		return false
	}
	c.slots[item.ID] = slot{path: bytes.Clone(item.Path), img: img}
	return true
}

// lookup returns the cached drawable of item when it was rendered from the
// same path.
func (c *Cache) lookup(item Item) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[item.ID]
	if !ok || !bytes.Equal(s.path, item.Path) {
		return nil, false
	}
	return s.img, true
}

// Forget drops the cached drawables of ids. A running worker keeps going.
func (c *Cache) Forget(ids ...int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.slots, id)
	}
}

// Cancel asks the running worker to stop before its next icon. Drawables
// already rendered stay cached.
func (c *Cache) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
}

func (c *Cache) stop() {
	if c.run == nil || c.run.stopped {
		return
	}
	c.run.stopped = true
	c.run.cancel()
}

// Free drops every cached drawable and cancels the running worker without
// waiting for it.
func (c *Cache) Free() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
	c.generation++
	clear(c.slots)
}

// Wait blocks until every started worker has exited.
func (c *Cache) Wait() {
	c.workers.Wait()
}

// Running reports whether a worker is active and not cancelled.
func (c *Cache) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil || c.run.stopped {
		return false
	}
	select {
	case <-c.run.done:
		return false
	default:
		return true
	}
}

// Get returns the cached drawable for id.
func (c *Cache) Get(id int) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[id]
	return s.img, ok
}

// Len returns the number of cached drawables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

// Drawable returns the drawable for item, rendering and caching it when
// nothing is cached for its id and path.
func (c *Cache) Drawable(ctx context.Context, item Item) (image.Image, error) {
	c.mu.Lock()
	s, ok := c.slots[item.ID]
	generation := c.generation
	c.mu.Unlock()
	if ok && bytes.Equal(s.path, item.Path) {
		return s.img, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := c.renderer.Render(item.Path)
	if err != nil {
		return nil, err
	}
	if !c.store(generation, item, img) {
		if cached, ok := c.lookup(item); ok {
			return cached, nil
		}
	}
	return img, nil
}
