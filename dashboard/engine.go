// Package dashboard keeps the local copy of the menu in step with the
// backend and derives the filtered view from it.
//
// The server is authoritative. Create and Update re-read the whole list after
// a successful mutation; Remove drops the item locally. Each Reload takes a
// generation number and a response that arrives after a newer one has been
// applied is discarded.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arthur-debert/menuadmin/internal/validation"
	"github.com/arthur-debert/menuadmin/types"
)

// Client is the slice of the API the engine needs
type Client interface {
	ListMenuItems(ctx context.Context) ([]types.MenuItem, error)
	CreateMenuItem(ctx context.Context, draft types.MenuItemDraft) (types.MenuItem, error)
	ReplaceMenuItem(ctx context.Context, id string, draft types.MenuItemDraft) (types.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// ReloadError is returned when a mutation succeeded upstream but the list
// could not be re-read. Local items still hold the previous read.
type ReloadError struct {
	Op  Op
	Err error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("%s succeeded but reloading the menu failed: %v", e.Op, e.Err)
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Engine owns the menu list and its filtered view. It is safe for
// concurrent use; network calls are made without holding the lock.
type Engine struct {
	client Client
	logger *slog.Logger

	mu      sync.Mutex
	items   []types.MenuItem
	visible []types.MenuItem
	filter  types.FilterState
	issued  uint64 // last generation handed to a Reload
	applied uint64 // reloads at or below this generation are stale
}

// Option modifies Engine configuration
type Option func(*Engine)

// WithLogger sets the engine's logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an empty engine showing every category
func NewEngine(client Client, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		logger:  slog.Default(),
		items:   []types.MenuItem{},
		visible: []types.MenuItem{},
		filter:  types.FilterState{Category: types.AllCategories},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reload replaces the local list with the server's. On failure the list is
// unchanged.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	e.issued++
	gen := e.issued
	e.mu.Unlock()

	items, err := e.client.ListMenuItems(ctx)
	if err != nil {
		e.logger.Warn("failed to load menu items", "generation", gen, "error", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen <= e.applied {
		e.logger.Debug("discarding stale menu read", "generation", gen, "applied", e.applied)
		return nil
	}
	e.applied = gen
	e.items = append([]types.MenuItem{}, items...)
	e.visible = Apply(e.items, e.filter)
	e.logger.Debug("menu reloaded", "generation", gen, "items", len(e.items))
	return nil
}

// SetFilter changes the search query and category facet. It never touches
// the network.
func (e *Engine) SetFilter(query, category string) {
	if category == "" {
		category = types.AllCategories
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = types.FilterState{Query: query, Category: category}
	e.visible = Apply(e.items, e.filter)
}

// Create validates draft, submits it and reloads. Invalid drafts return
// validation.Errors without a network call.
func (e *Engine) Create(ctx context.Context, draft types.MenuItemDraft) (types.MenuItem, error) {
	if err := validation.Validate(draft).Err(); err != nil {
		return types.MenuItem{}, err
	}

	item, err := e.client.CreateMenuItem(ctx, draft)
	if err != nil {
		return types.MenuItem{}, err
	}
	e.logger.Info("menu item created", "id", item.ID, "name", item.Name)

	if err := e.Reload(ctx); err != nil {
		return item, &ReloadError{Op: OpCreate, Err: err}
	}
	return item, nil
}

// Update validates draft, replaces the item with id and reloads
func (e *Engine) Update(ctx context.Context, id string, draft types.MenuItemDraft) (types.MenuItem, error) {
	if err := validation.Validate(draft).Err(); err != nil {
		return types.MenuItem{}, err
	}

	item, err := e.client.ReplaceMenuItem(ctx, id, draft)
	if err != nil {
		return types.MenuItem{}, err
	}
	e.logger.Info("menu item updated", "id", id)

	if err := e.Reload(ctx); err != nil {
		return item, &ReloadError{Op: OpUpdate, Err: err}
	}
	return item, nil
}

// Remove deletes the item with id and drops it locally without a reload.
// Reloads started before the delete completed are treated as stale.
func (e *Engine) Remove(ctx context.Context, id string) error {
	if err := e.client.DeleteMenuItem(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.applied = e.issued
	kept := make([]types.MenuItem, 0, len(e.items))
	for _, item := range e.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	e.items = kept
	e.visible = Apply(e.items, e.filter)
	e.logger.Info("menu item deleted", "id", id)
	return nil
}

// Items returns a copy of every loaded item
func (e *Engine) Items() []types.MenuItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.MenuItem{}, e.items...)
}

// Visible returns a copy of the items passing the current filter
func (e *Engine) Visible() []types.MenuItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.MenuItem{}, e.visible...)
}

// Filter returns the current filter
func (e *Engine) Filter() types.FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Counts returns how many items are visible and how many are loaded
func (e *Engine) Counts() (visible, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.visible), len(e.items)
}

// Find looks up a loaded item by id
func (e *Engine) Find(id string) (types.MenuItem, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range e.items {
		if item.ID == id {
			return item, true
		}
	}
	return types.MenuItem{}, false
}
