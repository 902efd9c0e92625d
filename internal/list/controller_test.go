package list

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/model"
)

// stubSource is a scriptable in-memory Source for items.
type stubSource struct {
	mu     sync.Mutex
	all    []model.Item
	limit  int
	errs   map[string]error // op name -> forced error
	lists  int
	gate    chan struct{} // when non-nil, the next ListPage blocks on it
	entered chan struct{} // signalled when that ListPage has started
	gateMu  sync.Mutex
}

func newStubSource(total, limit int) *stubSource {
	s := &stubSource{limit: limit, errs: map[string]error{}}
	for i := 1; i <= total; i++ {
		s.all = append(s.all, model.Item{
			ID:       fmt.Sprintf("i%d", i),
			Name:     fmt.Sprintf("Item %d", i),
			Price:    float64(i),
			Category: "misc",
		})
	}
	return s
}

func (s *stubSource) ListPage(ctx context.Context, page, limit int) ([]model.Item, model.Pagination, error) {
	s.gateMu.Lock()
	gate, entered := s.gate, s.entered
	s.gate, s.entered = nil, nil
	s.gateMu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if err := s.errs["list"]; err != nil {
		return nil, model.Pagination{}, err
	}

	total := len(s.all)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	end := min(start+limit, total)
	var items []model.Item
	if start < total {
		items = append(items, s.all[start:end]...)
	}
	return items, model.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (s *stubSource) Create(ctx context.Context, payload model.ItemPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["create"]; err != nil {
		return err
	}
	s.all = append(s.all, model.Item{
		ID:       fmt.Sprintf("i%d", len(s.all)+1),
		Name:     payload.Name,
		Price:    payload.Price,
		Category: payload.Category,
	})
	return nil
}

func (s *stubSource) Update(ctx context.Context, id string, payload model.ItemPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["update"]; err != nil {
		return err
	}
	for i := range s.all {
		if s.all[i].ID == id {
			s.all[i].Name = payload.Name
			s.all[i].Price = payload.Price
			s.all[i].Category = payload.Category
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "item not found"}
}

func (s *stubSource) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errs["delete"]; err != nil {
		return err
	}
	for i := range s.all {
		if s.all[i].ID == id {
			s.all = append(s.all[:i], s.all[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "item not found"}
}

func (s *stubSource) setErr(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
	} else {
		s.errs[op] = err
	}
}

func TestFetchPageBasic(t *testing.T) {
	src := newStubSource(12, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)

	require.Equal(t, Idle, c.State())
	require.NoError(t, c.FetchPage(context.Background(), 1))

	require.Equal(t, Loaded, c.State())
	require.Len(t, c.Items(), 5)
	require.Equal(t, 3, c.Pagination().TotalPages)
	require.Equal(t, 12, c.Pagination().Total)
}

func TestFetchPageNeverExceedsLimit(t *testing.T) {
	src := newStubSource(12, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	for p := 1; p <= 3; p++ {
		require.NoError(t, c.FetchPage(ctx, p))
		require.LessOrEqual(t, len(c.Items()), 5, "page %d", p)
	}
	// Last page holds the remainder.
	require.Len(t, c.Items(), 2)
}

func TestFetchPageClampsOutOfRange(t *testing.T) {
	src := newStubSource(12, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	before := src.lists

	// limit=5, total=12 -> totalPages=3; page 4 must not be requested.
	require.NoError(t, c.FetchPage(ctx, 4))
	require.NoError(t, c.FetchPage(ctx, 0))
	require.Equal(t, before, src.lists, "out-of-range pages must not issue requests")

	require.NoError(t, c.FetchPage(ctx, 3))
	require.LessOrEqual(t, len(c.Items()), 5)
}

func TestFetchPageOnlyFirstPageBeforeInitialLoad(t *testing.T) {
	src := newStubSource(12, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)

	require.NoError(t, c.FetchPage(context.Background(), 2))
	require.Zero(t, src.lists, "totalPages unknown: only page 1 may be requested")
}

func TestFetchErrorKeepsPreviousItems(t *testing.T) {
	src := newStubSource(12, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	shown := c.Items()

	src.setErr("list", &backend.APIError{StatusCode: 500, Message: "db down"})
	require.Error(t, c.FetchPage(ctx, 2))

	require.Equal(t, Errored, c.State())
	require.Equal(t, shown, c.Items(), "stale-but-valid page must stay visible")
	require.Equal(t, Banner{Kind: BannerError, Message: "db down"}, c.Banner())
}

func TestCreateRefetchesAndBanners(t *testing.T) {
	src := newStubSource(4, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	require.NoError(t, c.Create(ctx, model.ItemPayload{Name: "Keyboard", Price: 49.5, Category: "peripherals"}))

	require.Equal(t, Banner{Kind: BannerSuccess, Message: "Item created successfully."}, c.Banner())
	require.Len(t, c.Items(), 5, "current page must be re-fetched after create")

	// Round-trip: the created resource carries the submitted fields.
	var found *model.Item
	for _, it := range c.Items() {
		if it.Name == "Keyboard" {
			found = &it
			break
		}
	}
	require.NotNil(t, found)
	require.Equal(t, 49.5, found.Price)
	require.Equal(t, "peripherals", found.Category)
}

func TestCreateFailureSetsErrorBannerOnly(t *testing.T) {
	src := newStubSource(4, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	src.setErr("create", &backend.APIError{StatusCode: 400, Message: "name required"})

	err := c.Create(ctx, model.ItemPayload{})
	require.Error(t, err)
	require.Equal(t, Banner{Kind: BannerError, Message: "name required"}, c.Banner())
	require.Len(t, c.Items(), 4, "failed create must not change the list")
}

func TestDeleteAlreadyDeleted(t *testing.T) {
	src := newStubSource(4, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	require.NoError(t, c.Delete(ctx, "i4"))
	require.Len(t, c.Items(), 3)

	// Second delete of the same id: error banner, list untouched.
	require.Error(t, c.Delete(ctx, "i4"))
	require.Equal(t, BannerError, c.Banner().Kind)
	require.Equal(t, "item not found", c.Banner().Message)
	require.Len(t, c.Items(), 3)
}

func TestDeleteLastRowFallsBackOnePage(t *testing.T) {
	src := newStubSource(6, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	require.NoError(t, c.FetchPage(ctx, 2))
	require.Len(t, c.Items(), 1)

	// Deleting the only row on page 2 re-fetches page 2 (now empty) and then
	// falls back to page 1.
	require.NoError(t, c.Delete(ctx, "i6"))
	require.Equal(t, 1, c.Pagination().Page)
	require.Len(t, c.Items(), 5)
	require.Equal(t, BannerSuccess, c.Banner().Kind)
}

func TestStaleFetchDiscarded(t *testing.T) {
	src := newStubSource(12, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))

	// Issue a fetch for page 2 that stalls in flight, then complete a fetch
	// for page 3. Releasing the stalled fetch must not roll the view back.
	gate := make(chan struct{})
	entered := make(chan struct{})
	src.gateMu.Lock()
	src.gate, src.entered = gate, entered
	src.gateMu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.FetchPage(ctx, 2) }()

	// Wait until the page-2 fetch is in flight and blocked on the gate.
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("page-2 fetch never started")
	}

	require.NoError(t, c.FetchPage(ctx, 3))
	require.Equal(t, 3, c.Pagination().Page)

	close(gate)
	require.NoError(t, <-done)

	require.Equal(t, 3, c.Pagination().Page, "stale page-2 response must be discarded")
	require.Equal(t, "i11", c.Items()[0].ID)
}

func TestUnauthenticatedDoesNotBanner(t *testing.T) {
	src := newStubSource(4, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	src.setErr("list", fmt.Errorf("GET /api/item: %w", backend.ErrUnauthenticated))

	err := c.FetchPage(ctx, 1)
	require.True(t, errors.Is(err, backend.ErrUnauthenticated))
	require.Equal(t, Banner{}, c.Banner(), "auth failures redirect instead of bannering")
}

func TestBannerSingleSlot(t *testing.T) {
	src := newStubSource(4, 5)
	c := New[model.Item, model.ItemPayload](src, "Item", 5)
	ctx := context.Background()

	require.NoError(t, c.FetchPage(ctx, 1))
	require.NoError(t, c.Create(ctx, model.ItemPayload{Name: "A", Price: 1, Category: "c"}))
	require.Equal(t, BannerSuccess, c.Banner().Kind)

	src.setErr("update", &backend.APIError{StatusCode: 400, Message: "bad"})
	require.Error(t, c.Update(ctx, "i1", model.ItemPayload{}))
	require.Equal(t, BannerError, c.Banner().Kind, "new action replaces the prior banner")

	// An explicit page fetch clears the banner.
	require.NoError(t, c.FetchPage(ctx, 1))
	require.Equal(t, Banner{}, c.Banner())
}
