package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/nadzor/internal/backend"
)

// loginData is the login page's template data.
type loginData struct {
	PageData
	From     string
	Username string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	if user := s.optionalUser(r); user != nil {
		http.Redirect(w, r, "/items", http.StatusSeeOther)
		return
	}

	s.Templates.Render(w, "login.html", &loginData{
		PageData: PageData{Title: "Login"},
		From:     safeReturnPath(r.URL.Query().Get("from")),
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	from := safeReturnPath(r.FormValue("from"))

	renderError := func(msg string) {
		s.Templates.Render(w, "login.html", &loginData{
			PageData: PageData{Title: "Login", Error: msg},
			From:     from,
			Username: username,
		})
	}

	if username == "" || password == "" {
		renderError("Enter a username and password.")
		return
	}

	_, token, err := s.Sessions.Login(r.Context(), username, password)
	switch {
	case errors.Is(err, backend.ErrUnauthenticated):
		renderError("Invalid username or password.")
		return
	case err != nil:
		renderError(backend.Message(err))
		return
	}

	setAuthCookie(w, token)

	if from == "" {
		from = "/items"
	}
	http.Redirect(w, r, from, http.StatusSeeOther)
}

// Logout handles GET and POST /logout: backend logout is best-effort, the
// local session and its view state always go away.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess := CurrentSession(r.Context())

	if err := s.Sessions.Logout(r.Context(), sess.ID); err != nil {
		// Local deletion failing is unexpected but the cookie still dies.
		clearAuthCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s.states.drop(sess.ID)

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// invalidateAndRedirect handles a 401 discovered mid-request: the backend
// session is dead, so the local one is cleared and the user sent to login.
func (s *Server) invalidateAndRedirect(w http.ResponseWriter, r *http.Request) {
	if sess := CurrentSession(r.Context()); sess != nil {
		s.Sessions.Invalidate(r.Context(), sess.ID)
		s.states.drop(sess.ID)
	}
	clearAuthCookie(w)
	redirectToLogin(w, r)
}
