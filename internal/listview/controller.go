// Package listview holds the per-view session state of the admin screens:
// the query the list is derived with and the add/edit/delete modal flow.
package listview

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/query"
)

var ErrInvalidTransition = errors.New("invalid transition")

type State string

const (
	Idle             State = "idle"
	Editing          State = "editing"
	ConfirmingDelete State = "confirmingDelete"
)

// Form converts between records and the drafts edited in the modal.
// Snapshot returns a copy of a draft that shares no state with it.
type Form[T any, D any] interface {
	Blank() D
	From(T) D
	Build(D) (T, error)
	Snapshot(D) D
}

type Config[T domain.Entity, D any] struct {
	Name        string
	Store       domain.Store[T]
	Schema      query.Schema[T]
	Form        Form[T, D]
	DefaultDir  query.Dir
	// InitialSort is the order the list starts in.
	InitialSort query.Sort
}

// Page is one derivation of the list.
type Page[T any] struct {
	Items []T `json:"items"`
	Shown int `json:"shown"`
	Total int `json:"total"`
}

// Status is the modal and query state of a controller.
type Status[D any] struct {
	State         State       `json:"state"`
	Query         query.Query `json:"query"`
	EditingID     string      `json:"editingId,omitempty"`
	Draft         *D          `json:"draft,omitempty"`
	PendingDelete string      `json:"pendingDelete,omitempty"`
	Expanded      []string    `json:"expanded,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// Controller is safe for concurrent use; every method runs under one lock so
// each call is a single state transition.
type Controller[T domain.Entity, D any] struct {
	cfg Config[T, D]

	mu        sync.Mutex
	q         query.Query
	state     State
	editingID string
	draft     D
	pending   string
	expanded  map[string]bool
	lastErr   error
}

func New[T domain.Entity, D any](cfg Config[T, D]) *Controller[T, D] {
	if cfg.DefaultDir == "" {
		cfg.DefaultDir = query.Asc
	}
	return &Controller[T, D]{
		cfg:      cfg,
		q:        query.Query{Filters: map[string]string{}, Sort: cfg.InitialSort},
		state:    Idle,
		expanded: map[string]bool{},
	}
}

func (c *Controller[T, D]) Name() string { return c.cfg.Name }

func (c *Controller[T, D]) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.q.Text = text
}

// SetFilter selects a value for one filter; "all" or "" clears it.
func (c *Controller[T, D]) SetFilter(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cfg.Schema.Filters[name]; !ok {
		return fmt.Errorf("%w: %q", query.ErrUnknownFilter, name)
	}
	if value == "" || value == domain.All {
		delete(c.q.Filters, name)
		return nil
	}
	c.q.Filters[name] = value
	return nil
}

// ToggleSort flips the direction when field is already the sort field and
// otherwise switches to field in the view's default direction.
func (c *Controller[T, D]) ToggleSort(field string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cfg.Schema.Sorts[field]; !ok {
		return fmt.Errorf("%w: %q", query.ErrUnknownSortField, field)
	}
	if c.q.Sort.Field == field {
		c.q.Sort.Dir = c.q.Sort.Dir.Flip()
		return nil
	}
	c.q.Sort = query.Sort{Field: field, Dir: c.cfg.DefaultDir}
	return nil
}

// SetSort sets the sort explicitly. An empty field clears sorting and an
// empty direction means the view's default.
func (c *Controller[T, D]) SetSort(field string, dir query.Dir) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if field == "" {
		c.q.Sort = query.Sort{}
		return nil
	}
	if _, ok := c.cfg.Schema.Sorts[field]; !ok {
		return fmt.Errorf("%w: %q", query.ErrUnknownSortField, field)
	}
	if dir == "" {
		dir = c.cfg.DefaultDir
	}
	if dir != query.Asc && dir != query.Desc {
		return fmt.Errorf("%w: %q", query.ErrInvalidDirection, dir)
	}
	c.q.Sort = query.Sort{Field: field, Dir: dir}
	return nil
}

func (c *Controller[T, D]) Query() query.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query()
}

func (c *Controller[T, D]) query() query.Query {
	q := c.q
	q.Filters = maps.Clone(c.q.Filters)
	return q
}

// View derives the list from the current store contents.
func (c *Controller[T, D]) View(ctx context.Context) (Page[T], error) {
	q := c.Query()
	all, err := c.cfg.Store.List(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	items, err := query.Apply(all, c.cfg.Schema, q)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Shown: len(items), Total: len(all)}, nil
}

func (c *Controller[T, D]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T, D]) Status() Status[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status[D]{
		State:         c.state,
		Query:         c.query(),
		EditingID:     c.editingID,
		PendingDelete: c.pending,
		Expanded:      slices.Sorted(maps.Keys(c.expanded)),
	}
	if c.state == Editing {
		d := c.cfg.Form.Snapshot(c.draft)
		st.Draft = &d
	}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	return st
}

// LastError is the error of the most recent failed save or delete.
func (c *Controller[T, D]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// BeginAdd opens the modal on a blank draft and returns a copy of it; the
// open draft changes only through EditDraft.
func (c *Controller[T, D]) BeginAdd() (D, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		var zero D
		return zero, c.illegal("add")
	}
	c.open("", c.cfg.Form.Blank())
	return c.cfg.Form.Snapshot(c.draft), nil
}

// BeginEdit opens the modal on a copy of the record with the given id and
// returns a copy of the draft.
func (c *Controller[T, D]) BeginEdit(ctx context.Context, id string) (D, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero D
	if c.state != Idle {
		return zero, c.illegal("edit")
	}
	rec, err := c.cfg.Store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	c.open(id, c.cfg.Form.From(rec))
	return c.cfg.Form.Snapshot(c.draft), nil
}

func (c *Controller[T, D]) open(id string, draft D) {
	c.state = Editing
	c.editingID = id
	c.draft = draft
	c.lastErr = nil
}

// EditDraft runs fn on the open draft. fn must not keep d.
func (c *Controller[T, D]) EditDraft(fn func(D) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return c.illegal("edit draft")
	}
	return fn(c.draft)
}

// Save builds the draft and commits it: appended when adding, replaced by
// id when editing. On failure the modal stays open with the draft intact.
func (c *Controller[T, D]) Save(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if c.state != Editing {
		return zero, c.illegal("save")
	}
	rec, err := c.cfg.Form.Build(c.draft)
	if err != nil {
		c.lastErr = err
		return zero, err
	}
	var saved T
	if c.editingID == "" {
		saved, err = c.cfg.Store.Create(ctx, rec)
	} else {
		saved, err = c.cfg.Store.Update(ctx, rec)
	}
	if err != nil {
		c.lastErr = err
		return zero, err
	}
	log.Debug().Str("view", c.cfg.Name).Str("id", saved.Key()).Bool("added", c.editingID == "").Msg("saved")
	c.close()
	return saved, nil
}

func (c *Controller[T, D]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Editing {
		return c.illegal("cancel")
	}
	c.close()
	return nil
}

func (c *Controller[T, D]) close() {
	var zero D
	c.state = Idle
	c.editingID = ""
	c.draft = zero
	c.pending = ""
	c.lastErr = nil
}

// RequestDelete asks for confirmation before removing id.
func (c *Controller[T, D]) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return c.illegal("delete")
	}
	c.state = ConfirmingDelete
	c.pending = id
	c.lastErr = nil
	return nil
}

// ConfirmDelete removes the pending record and returns to Idle even when
// the store refuses.
func (c *Controller[T, D]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmingDelete {
		return c.illegal("confirm delete")
	}
	id := c.pending
	err := c.cfg.Store.Delete(ctx, id)
	c.close()
	if err != nil {
		c.lastErr = err
		return err
	}
	delete(c.expanded, id)
	log.Debug().Str("view", c.cfg.Name).Str("id", id).Msg("deleted")
	return nil
}

func (c *Controller[T, D]) DeclineDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmingDelete {
		return c.illegal("decline delete")
	}
	c.close()
	return nil
}

// ToggleExpanded opens or closes the detail panel of a row and reports
// whether it is now open.
func (c *Controller[T, D]) ToggleExpanded(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expanded[id] {
		delete(c.expanded, id)
		return false
	}
	c.expanded[id] = true
	return true
}

func (c *Controller[T, D]) illegal(action string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, c.state)
}
