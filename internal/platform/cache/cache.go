// Package cache provides a short-lived read cache for single task lookups.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/events"
)

// TaskCache holds copies of recently read tasks keyed by ID.
//
// Entries are evicted on any event for their task, so a reader never sees a
// task older than the last committed change emitted through the service.
// Every eviction advances the cache generation; SetIfCurrent refuses a copy
// read before an eviction that has since happened.
type TaskCache struct {
	items  *gocache.Cache
	logger *slog.Logger

	mu         sync.Mutex
	generation uint64
}

var _ events.EventHandler = (*TaskCache)(nil)

// NewTaskCache creates a TaskCache whose entries live for ttl.
// A cleanupInterval <= 0 disables the background sweep of expired entries;
// expired entries are then dropped lazily on read.
func NewTaskCache(ttl, cleanupInterval time.Duration, logger *slog.Logger) *TaskCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskCache{
		items:  gocache.New(ttl, cleanupInterval),
		logger: logger.With(slog.String("component", "task_cache")),
	}
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Get returns a copy of the cached task with the given ID.
func (c *TaskCache) Get(id int64) (*domain.Task, bool) {
	v, ok := c.items.Get(key(id))
	if !ok {
		return nil, false
	}
	t, ok := v.(*domain.Task)
	if !ok {
		c.items.Delete(key(id))
		return nil, false
	}
	return t.Clone(), true
}

// Set stores a copy of task with the default TTL.
func (c *TaskCache) Set(task *domain.Task) {
	if task == nil || task.ID == 0 {
		return
	}
	c.items.SetDefault(key(task.ID), task.Clone())
}

// Generation returns the current eviction generation. Take it before reading
// the task from the store and pass it to SetIfCurrent.
func (c *TaskCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetIfCurrent stores a copy of task unless an eviction happened after gen
// was taken. It reports whether the task was stored.
func (c *TaskCache) SetIfCurrent(task *domain.Task, gen uint64) bool {
	if task == nil || task.ID == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return false
	}
	c.items.SetDefault(key(task.ID), task.Clone())
	return true
}

// Invalidate drops the entry for the given task ID, if any.
func (c *TaskCache) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items.Delete(key(id))
}

// Flush drops every entry.
func (c *TaskCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items.Flush()
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *TaskCache) Len() int {
	return c.items.ItemCount()
}

// HandleEvent implements events.EventHandler by evicting the event's task.
func (c *TaskCache) HandleEvent(ctx context.Context, event *events.TaskEvent) error {
	c.Invalidate(event.TaskID)
	c.logger.Debug("evicted task from cache",
		slog.Int64("task_id", event.TaskID),
		slog.String("event_type", event.Type))
	return nil
}
