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

// usersData is the users page's template data.
type usersData struct {
	PageData
	Users   []model.User
	Pg      model.Pagination
	Pages   []int
	Loading bool

	CreateDraft form.UserDraft
	CreateErr   string
	EditingID   string
	EditDraft   form.UserDraft
	EditErr     string
}

// UsersPage handles GET /users.
func (s *Server) UsersPage(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)
	q := r.URL.Query()

	st.mu.Lock()
	if q.Has("cancel") {
		st.userEditing = ""
		st.userEdit = form.UserDraft{}
	}
	st.mu.Unlock()

	var err error
	if pageStr := q.Get("page"); pageStr != "" {
		if p, convErr := strconv.Atoi(pageStr); convErr == nil {
			err = st.users.FetchPage(r.Context(), p)
		}
	} else if st.users.State() == list.Idle {
		err = st.users.FetchPage(r.Context(), 1)
	}
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}

	if id := q.Get("edit"); id != "" {
		for _, u := range st.users.Items() {
			if u.ID == id {
				st.mu.Lock()
				st.userEditing = id
				st.userEdit = form.SeedUserDraft(u)
				st.mu.Unlock()
				break
			}
		}
	}

	s.renderUsers(w, r, st, "", "")
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, st *viewState, createErr, editErr string) {
	sess := CurrentSession(r.Context())
	banner := st.users.Banner()
	pg := st.users.Pagination()

	pages := make([]int, 0, pg.TotalPages)
	for p := 1; p <= pg.TotalPages; p++ {
		pages = append(pages, p)
	}

	st.mu.Lock()
	data := &usersData{
		PageData: PageData{
			Title:   "Users",
			User:    sess.User,
			Error:   bannerMessage(banner, list.BannerError),
			Success: bannerMessage(banner, list.BannerSuccess),
		},
		Users:       st.users.Items(),
		Pg:          pg,
		Pages:       pages,
		Loading:     st.users.State() == list.Loading,
		CreateDraft: st.userCreate,
		CreateErr:   createErr,
		EditingID:   st.userEditing,
		EditDraft:   st.userEdit,
		EditErr:     editErr,
	}
	st.mu.Unlock()

	s.Templates.Render(w, "users.html", data)
}

// UserCreateSubmit handles POST /users.
func (s *Server) UserCreateSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)

	draft := form.UserDraft{
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		Firstname: r.FormValue("firstname"),
		Lastname:  r.FormValue("lastname"),
	}
	st.mu.Lock()
	st.userCreate = draft
	st.mu.Unlock()

	payload, err := draft.CreatePayload()
	if err != nil {
		s.renderUsers(w, r, st, err.Error(), "")
		return
	}

	err = st.users.Create(r.Context(), payload)
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}
	if err == nil {
		st.mu.Lock()
		st.userCreate = form.UserDraft{Status: model.UserStatusActive}
		st.mu.Unlock()
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserUpdateSubmit handles POST /users/{id}. A blank password field leaves
// the stored password unchanged.
func (s *Server) UserUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)
	id := r.PathValue("id")

	draft := form.UserDraft{
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		Firstname: r.FormValue("firstname"),
		Lastname:  r.FormValue("lastname"),
		Status:    r.FormValue("status"),
	}
	st.mu.Lock()
	st.userEditing = id
	st.userEdit = draft
	st.mu.Unlock()

	payload, err := draft.UpdatePayload()
	if err != nil {
		s.renderUsers(w, r, st, "", err.Error())
		return
	}

	err = st.users.Update(r.Context(), id, payload)
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}
	if err == nil {
		st.mu.Lock()
		st.userEditing = ""
		st.userEdit = form.UserDraft{}
		st.mu.Unlock()
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// UserDeleteSubmit handles POST /users/{id}/delete.
func (s *Server) UserDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	st := s.sessionState(r)

	err := st.users.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
