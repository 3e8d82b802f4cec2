// Package controller implements the async CRUD contract every resource screen
// shares: load a remote collection, derive a filtered view, mutate single
// items with per-item in-flight tracking, reconcile local state and surface
// transient feedback.
package controller

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/notify"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

// Resource is the constraint for entities managed by a Controller.
type Resource interface {
	ResourceID() int64
	MatchesFilter(filter string) bool
}

// Loader fetches the full collection from the gateway.
type Loader[T Resource] func(ctx context.Context) ([]T, error)

// Controller is a generic state holder for one remote collection. A mutex
// stands in for the UI event loop: state transitions are serialized, while
// gateway calls run outside the lock so mutations for different ids overlap.
type Controller[T Resource] struct {
	name     string
	load     Loader[T]
	notifier *notify.Scheduler
	logger   *zap.Logger

	mu            sync.Mutex
	collection    []T
	visible       []T
	filter        string
	loading       bool
	loadSeq       uint64
	collectionErr error
	inFlight      map[int64]struct{}
	itemErrs      map[int64]error
	closed        bool
}

// New constructs a Controller. name scopes log fields and notification keys.
func New[T Resource](name string, load Loader[T], notifier *notify.Scheduler, logger *zap.Logger) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		name:     name,
		load:     load,
		notifier: notifier,
		logger:   logger.With(zap.String("resource", name)),
		inFlight: make(map[int64]struct{}),
		itemErrs: make(map[int64]error),
	}
}

// Load fetches the collection. Overlapping loads resolve last-initiated-wins:
// a response belonging to a superseded load is discarded, so stale data never
// overwrites fresh data. On failure the prior collection is kept.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.loadSeq++
	seq := c.loadSeq
	c.loading = true
	c.collectionErr = nil
	c.mu.Unlock()

	items, err := c.load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.loadSeq {
		// A newer load was initiated (or the screen unmounted) while this
		// one was in flight; its result owns the state now.
		return nil
	}
	c.loading = false
	if err != nil {
		c.collectionErr = err
		c.logger.Warn("load failed", zap.Error(err))
		return err
	}
	c.collection = items
	c.inFlight = make(map[int64]struct{})
	c.applyFilterLocked()
	return nil
}

// SetFilter recomputes the visible view. Pure over (collection, filter); the
// source collection is never mutated.
func (c *Controller[T]) SetFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = filter
	c.applyFilterLocked()
}

func (c *Controller[T]) applyFilterLocked() {
	visible := make([]T, 0, len(c.collection))
	for _, item := range c.collection {
		if item.MatchesFilter(c.filter) {
			visible = append(visible, item)
		}
	}
	c.visible = visible
}

// Create runs a collection-level mutation that produces a new item and
// appends it on success.
func (c *Controller[T]) Create(ctx context.Context, op func(context.Context) (*T, error)) (*T, error) {
	created, err := op(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("create failed", zap.Error(err))
		return nil, err
	}
	c.collection = append(c.collection, *created)
	c.applyFilterLocked()
	return created, nil
}

// Update runs a single-item mutation and patches the returned entity in
// place. The in-flight marker doubles as a lock: a second mutation for an id
// already in flight is rejected, not queued. The marker is cleared on both
// success and failure. successMsg, when non-empty, becomes a transient
// success notification keyed by the item.
func (c *Controller[T]) Update(ctx context.Context, id int64, op func(context.Context) (*T, error), successMsg string) error {
	if err := c.beginMutation(id); err != nil {
		return err
	}
	defer c.endMutation(id)

	updated, err := op(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if err != nil {
		c.itemErrs[id] = err
		c.notifyLocked(id, notify.KindError, appErrors.FromError(err).Message)
		return err
	}
	if updated != nil {
		c.patchLocked(*updated)
	}
	if successMsg != "" {
		c.notifyLocked(id, notify.KindSuccess, successMsg)
	}
	return nil
}

// Delete removes one item. guard is the client-side precondition check, run
// before the gateway call; del performs the remote delete and is responsible
// for mapping a 400-class rejection to the same precondition error. On
// success the item leaves the collection and its notification is cleared so
// feedback never outlives its subject.
func (c *Controller[T]) Delete(ctx context.Context, id int64, guard func(T) error, del func(context.Context) error) error {
	if err := c.beginMutation(id); err != nil {
		return err
	}
	defer c.endMutation(id)

	if guard != nil {
		if item, ok := c.find(id); ok {
			if err := guard(item); err != nil {
				c.mu.Lock()
				defer c.mu.Unlock()
				c.itemErrs[id] = err
				c.notifyLocked(id, notify.KindError, appErrors.FromError(err).Message)
				return err
			}
		}
	}

	err := del(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if err != nil {
		c.itemErrs[id] = err
		c.notifyLocked(id, notify.KindError, appErrors.FromError(err).Message)
		return err
	}
	c.removeLocked(id)
	delete(c.itemErrs, id)
	if c.notifier != nil {
		c.notifier.Clear(c.Key(id))
	}
	return nil
}

func (c *Controller[T]) beginMutation(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return appErrors.Clone(appErrors.ErrMutationInFlight, "controller closed")
	}
	if _, busy := c.inFlight[id]; busy {
		return appErrors.ErrMutationInFlight
	}
	c.inFlight[id] = struct{}{}
	delete(c.itemErrs, id)
	return nil
}

func (c *Controller[T]) endMutation(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, id)
}

func (c *Controller[T]) patchLocked(updated T) {
	id := updated.ResourceID()
	for i := range c.collection {
		if c.collection[i].ResourceID() == id {
			c.collection[i] = updated
			break
		}
	}
	c.applyFilterLocked()
}

func (c *Controller[T]) removeLocked(id int64) {
	for i := range c.collection {
		if c.collection[i].ResourceID() == id {
			c.collection = append(c.collection[:i], c.collection[i+1:]...)
			break
		}
	}
	c.applyFilterLocked()
}

func (c *Controller[T]) find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.collection {
		if item.ResourceID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T]) notifyLocked(id int64, kind notify.Kind, text string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(c.Key(id), kind, text)
}

// Key returns the notification key for an item of this controller.
func (c *Controller[T]) Key(id int64) string {
	return fmt.Sprintf("%s/%d", c.name, id)
}

// Collection returns a copy of the full collection.
func (c *Controller[T]) Collection() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.collection))
	copy(out, c.collection)
	return out
}

// Visible returns a copy of the filtered view.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.visible))
	copy(out, c.visible)
	return out
}

// Loading reports whether a load is unresolved.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the collection-level error from the last load, if any.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collectionErr
}

// InFlight reports whether a mutation for id is unresolved.
func (c *Controller[T]) InFlight(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[id]
	return ok
}

// ItemErr returns the recorded error for id, if any.
func (c *Controller[T]) ItemErr(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemErrs[id]
}

// Get returns the item with the given id from the collection.
func (c *Controller[T]) Get(id int64) (T, bool) {
	return c.find(id)
}

// Close tears the controller down. Pending loads and mutations resolving
// after Close become no-ops; no state is mutated after teardown.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.loadSeq++
	c.loading = false
}
