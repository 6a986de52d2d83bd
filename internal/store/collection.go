package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chungddong/ChurchFinance/internal/log"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDuplicatePhone  = errors.New("duplicate phone number")
)

// collection is one JSON array document plus its in-memory copy.
// Every mutation rewrites the whole document; the mutex serializes
// writers so a save never observes a half-applied mutation.
type collection[T any] struct {
	name   string
	path   string
	idOf   func(T) int64
	logger *log.Logger

	mu     sync.Mutex
	items  []T
	slots  map[int64]int
	lastID int64
}

func newCollection[T any](name, path string, idOf func(T) int64, logger *log.Logger) *collection[T] {
	return &collection[T]{
		name:   name,
		path:   path,
		idOf:   idOf,
		logger: logger,
		items:  []T{},
		slots:  map[int64]int{},
	}
}

// load reads the document from disk. A missing or unreadable document
// yields an empty collection: the caller keeps working and the next
// save rewrites the file. load is idempotent.
func (c *collection[T]) load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []T{}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("Failed to read document, starting empty", "collection", c.name, "error", err)
		}
		c.reindexLocked()
		return
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("Corrupt document, starting empty", "collection", c.name, "error", err)
		c.reindexLocked()
		return
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.reindexLocked()
}

// reindexLocked rebuilds the id index and the id high-water mark.
func (c *collection[T]) reindexLocked() {
	c.slots = make(map[int64]int, len(c.items))
	for i, item := range c.items {
		id := c.idOf(item)
		c.slots[id] = i
		if id > c.lastID {
			c.lastID = id
		}
	}
}

// persistLocked rewrites the whole document. The 2-space indent keeps
// the files diffable and hand-editable.
func (c *collection[T]) persistLocked() error {
	data, err := json.MarshalIndent(c.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

// nextIDLocked issues a wall-clock millisecond id, bumped past the
// last issued id when the clock has not advanced.
func (c *collection[T]) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// itemsLocked returns the backing slice without copying. Only for
// callers already holding mu, such as mutators run by commitLocked.
func (c *collection[T]) itemsLocked() []T { return c.items }

// snapshot returns a defensive copy of the collection.
func (c *collection[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// byID returns the record with the given id.
func (c *collection[T]) byID(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	i, ok := c.slots[id]
	if !ok {
		return zero, false
	}
	return c.items[i], true
}

// insert appends the record built from a freshly issued id and saves.
// On save failure the in-memory append is retained, so the record
// survives until the next successful save; the error tells the caller
// the document on disk is stale.
func (c *collection[T]) insert(now time.Time, build func(id int64) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := build(c.nextIDLocked(now))
	c.items = append(c.items, item)
	c.slots[c.idOf(item)] = len(c.items) - 1

	if err := c.persistLocked(); err != nil {
		return item, err
	}
	return item, nil
}

// updateAt mutates the record at a position. Positions are only valid
// against the latest snapshot; prefer updateByID.
func (c *collection[T]) updateAt(i int, mutate func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if i < 0 || i >= len(c.items) {
		return zero, ErrIndexOutOfRange
	}
	return c.commitLocked(i, mutate)
}

// updateByID mutates the record with the given id.
func (c *collection[T]) updateByID(id int64, mutate func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	i, ok := c.slots[id]
	if !ok {
		return zero, ErrNotFound
	}
	return c.commitLocked(i, mutate)
}

func (c *collection[T]) commitLocked(i int, mutate func(*T) error) (T, error) {
	var zero T
	updated := c.items[i]
	if err := mutate(&updated); err != nil {
		return zero, err
	}
	c.items[i] = updated
	if err := c.persistLocked(); err != nil {
		return updated, err
	}
	return updated, nil
}

// deleteAt removes the record at a position and shifts the rest left.
func (c *collection[T]) deleteAt(i int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.items) {
		return 0, ErrIndexOutOfRange
	}
	return c.removeLocked(i)
}

// deleteByID removes the record with the given id.
func (c *collection[T]) deleteByID(id int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.slots[id]
	if !ok {
		return 0, ErrNotFound
	}
	return c.removeLocked(i)
}

func (c *collection[T]) removeLocked(i int) (int64, error) {
	id := c.idOf(c.items[i])
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindexLocked()
	if err := c.persistLocked(); err != nil {
		return id, err
	}
	return id, nil
}

// replace swaps the whole collection, as restore does.
func (c *collection[T]) replace(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if items == nil {
		items = []T{}
	}
	c.items = make([]T, len(items))
	copy(c.items, items)
	c.reindexLocked()
	return c.persistLocked()
}
