package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/form"
	"github.com/erazemk/nadzor/internal/list"
	"github.com/erazemk/nadzor/internal/model"
)

// itemsData is the items page's template data.
type itemsData struct {
	PageData
	Items   []model.Item
	Pg      model.Pagination
	Pages   []int
	Loading bool

	CreateDraft form.ItemDraft
	CreateErr   string
	EditingID   string
	EditDraft   form.ItemDraft
	EditErr     string
}

// sessionState returns the per-login view state for the current request.
func (s *Server) sessionState(r *http.Request) *viewState {
	sess := CurrentSession(r.Context())
	return s.states.get(s.Backend, sess.ID, BackendCookie(r.Context()), s.PageLimit)
}

// ItemsPage handles GET /items. Query parameters drive the controller:
// page=N fetches a page, edit=ID enters edit mode, cancel leaves it.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)
	q := r.URL.Query()

	st.mu.Lock()
	if q.Has("cancel") {
		st.itemEditing = ""
		st.itemEdit = form.ItemDraft{}
	}
	st.mu.Unlock()

	var err error
	if pageStr := q.Get("page"); pageStr != "" {
		if p, convErr := strconv.Atoi(pageStr); convErr == nil {
			err = st.items.FetchPage(r.Context(), p)
		}
	} else if st.items.State() == list.Idle {
		err = st.items.FetchPage(r.Context(), 1)
	}
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}

	if id := q.Get("edit"); id != "" {
		for _, it := range st.items.Items() {
			if it.ID == id {
				st.mu.Lock()
				st.itemEditing = id
				st.itemEdit = form.SeedItemDraft(it)
				st.mu.Unlock()
				break
			}
		}
	}

	s.renderItems(w, r, st, "", "")
}

func (s *Server) renderItems(w http.ResponseWriter, r *http.Request, st *viewState, createErr, editErr string) {
	sess := CurrentSession(r.Context())
	banner := st.items.Banner()
	pg := st.items.Pagination()

	pages := make([]int, 0, pg.TotalPages)
	for p := 1; p <= pg.TotalPages; p++ {
		pages = append(pages, p)
	}

	st.mu.Lock()
	data := &itemsData{
		PageData: PageData{
			Title:   "Items",
			User:    sess.User,
			Error:   bannerMessage(banner, list.BannerError),
			Success: bannerMessage(banner, list.BannerSuccess),
		},
		Items:       st.items.Items(),
		Pg:          pg,
		Pages:       pages,
		Loading:     st.items.State() == list.Loading,
		CreateDraft: st.itemCreate,
		CreateErr:   createErr,
		EditingID:   st.itemEditing,
		EditDraft:   st.itemEdit,
		EditErr:     editErr,
	}
	st.mu.Unlock()

	s.Templates.Render(w, "items.html", data)
}

// ItemCreateSubmit handles POST /items.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)

	draft := form.ItemDraft{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Category: r.FormValue("category"),
	}
	st.mu.Lock()
	st.itemCreate = draft
	st.mu.Unlock()

	payload, err := draft.Payload()
	if err != nil {
		// Validation failures block submission; the draft stays put.
		s.renderItems(w, r, st, err.Error(), "")
		return
	}

	err = st.items.Create(r.Context(), payload)
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}
	if err == nil {
		st.mu.Lock()
		st.itemCreate = form.ItemDraft{}
		st.mu.Unlock()
	}

	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemUpdateSubmit handles POST /items/{id}.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)
	id := r.PathValue("id")

	draft := form.ItemDraft{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Category: r.FormValue("category"),
	}
	st.mu.Lock()
	st.itemEditing = id
	st.itemEdit = draft
	st.mu.Unlock()

	payload, err := draft.Payload()
	if err != nil {
		s.renderItems(w, r, st, "", err.Error())
		return
	}

	err = st.items.Update(r.Context(), id, payload)
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}
	if err == nil {
		// Edit mode ends on success only.
		st.mu.Lock()
		st.itemEditing = ""
		st.itemEdit = form.ItemDraft{}
		st.mu.Unlock()
	}

	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete. The destructive-action
// confirmation happens in the browser before this request is made.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)

	err := st.items.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}

	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// bannerMessage returns the banner text when its kind matches, else "".
func bannerMessage(b list.Banner, kind string) string {
	if b.Kind == kind {
		return b.Message
	}
	return ""
}
