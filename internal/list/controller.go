// Package list implements the paginated collection controller shared by the
// item and user views. A controller owns one collection page, the single
// banner slot, and the create/update/delete operations that re-fetch the
// page after every successful mutation.
package list

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/model"
)

// State is the controller's fetch lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Errored
)

// Banner kinds.
const (
	BannerSuccess = "success"
	BannerError   = "error"
)

// Banner is the single-slot action feedback message. Success and error are
// mutually exclusive; a new action replaces whatever was shown before.
type Banner struct {
	Kind    string
	Message string
}

// Source is the collection a controller drives, implemented per resource by
// thin adapters over the backend client.
type Source[T, P any] interface {
	ListPage(ctx context.Context, page, limit int) ([]T, model.Pagination, error)
	Create(ctx context.Context, payload P) error
	Update(ctx context.Context, id string, payload P) error
	Delete(ctx context.Context, id string) error
}

// Controller holds one resource collection's view state. All methods are
// safe for concurrent use; a fetch that loses the race to a newer fetch is
// discarded so the page always reflects the latest request.
type Controller[T, P any] struct {
	mu    sync.Mutex
	src   Source[T, P]
	noun  string
	limit int

	state  State
	items  []T
	pg     model.Pagination
	banner Banner
	seq    uint64
}

// New creates a controller. noun names the resource in banner messages
// ("Item", "User"); limit is the fixed page size.
func New[T, P any](src Source[T, P], noun string, limit int) *Controller[T, P] {
	return &Controller[T, P]{
		src:   src,
		noun:  noun,
		limit: limit,
		pg:    model.Pagination{Page: 1, Limit: limit},
	}
}

// FetchPage loads the given page, replacing the collection wholesale.
// Requests outside [1, totalPages] are no-ops. On failure the previous page
// stays visible and only the banner changes.
func (c *Controller[T, P]) FetchPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if !c.pageInRange(page) {
		c.mu.Unlock()
		return nil
	}
	c.banner = Banner{}
	c.mu.Unlock()

	return c.fetch(ctx, page)
}

// fetch runs one page load without touching the banner slot on success, so
// post-mutation re-fetches keep the mutation's banner visible.
func (c *Controller[T, P]) fetch(ctx context.Context, page int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = Loading
	c.mu.Unlock()

	items, pg, err := c.src.ListPage(ctx, page, c.limit)

	c.mu.Lock()
	if seq != c.seq {
		// A newer fetch was issued while this one was in flight; its result
		// wins regardless of arrival order.
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		c.state = Errored
		if !errors.Is(err, backend.ErrUnauthenticated) {
			c.banner = Banner{Kind: BannerError, Message: backend.Message(err)}
		}
		c.mu.Unlock()
		return err
	}

	c.state = Loaded
	c.items = items
	c.pg = pg
	c.mu.Unlock()

	// Deleting the last row of a trailing page leaves it empty; fall back one
	// page instead of showing a blank table.
	if len(items) == 0 && page > 1 {
		return c.fetch(ctx, page-1)
	}
	return nil
}

// Create submits a new resource and, on success, re-fetches the current page
// so server-side ordering decides where it appears. On failure the caller's
// draft survives for correction.
func (c *Controller[T, P]) Create(ctx context.Context, payload P) error {
	return c.mutate(ctx, fmt.Sprintf("%s created successfully.", c.noun), func(ctx context.Context) error {
		return c.src.Create(ctx, payload)
	})
}

// Update patches an existing resource. Callers leave edit mode only when
// this returns nil.
func (c *Controller[T, P]) Update(ctx context.Context, id string, payload P) error {
	return c.mutate(ctx, fmt.Sprintf("%s updated successfully.", c.noun), func(ctx context.Context) error {
		return c.src.Update(ctx, id, payload)
	})
}

// Delete removes a resource. The destructive-action confirmation lives in
// the view; by the time this runs the user has already confirmed.
func (c *Controller[T, P]) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, fmt.Sprintf("%s deleted successfully.", c.noun), func(ctx context.Context) error {
		return c.src.Delete(ctx, id)
	})
}

func (c *Controller[T, P]) mutate(ctx context.Context, successMsg string, op func(context.Context) error) error {
	c.mu.Lock()
	c.banner = Banner{}
	page := c.currentPageLocked()
	c.mu.Unlock()

	if err := op(ctx); err != nil {
		c.mu.Lock()
		if !errors.Is(err, backend.ErrUnauthenticated) {
			c.banner = Banner{Kind: BannerError, Message: backend.Message(err)}
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.banner = Banner{Kind: BannerSuccess, Message: successMsg}
	c.mu.Unlock()

	// Full re-fetch after every mutation; a failure here replaces the
	// success banner with the fetch error.
	return c.fetch(ctx, page)
}

// pageInRange reports whether a page request should be issued at all.
// Before the first successful fetch TotalPages is unknown and only page 1
// is allowed.
func (c *Controller[T, P]) pageInRange(page int) bool {
	if page < 1 {
		return false
	}
	if c.state == Idle || c.pg.TotalPages == 0 {
		return page == 1
	}
	return page <= c.pg.TotalPages
}

func (c *Controller[T, P]) currentPageLocked() int {
	if c.pg.Page < 1 {
		return 1
	}
	return c.pg.Page
}

// State returns the fetch lifecycle state.
func (c *Controller[T, P]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the current collection page contents.
func (c *Controller[T, P]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Pagination returns the current pagination metadata.
func (c *Controller[T, P]) Pagination() model.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pg
}

// Banner returns the current banner; the zero value means no banner.
func (c *Controller[T, P]) Banner() Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

// String renders a state for logs.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return strings.ToLower(fmt.Sprintf("state(%d)", int(s)))
	}
}
