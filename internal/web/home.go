package web

import (
	"net/http"

	"github.com/erazemk/nadzor/internal/model"
)

// HomePage handles GET /. It is public and shows the backend's hello
// message as a connectivity probe.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	data := &struct {
		PageData
		Message string
	}{
		PageData: PageData{Title: "Test API", User: s.optionalUser(r)},
	}

	msg, err := s.Backend.Hello(r.Context())
	if err != nil {
		data.Error = "Backend unreachable: " + err.Error()
	} else {
		data.Message = msg
	}

	s.Templates.Render(w, "home.html", data)
}

// optionalUser resolves the session outside the guard, so public pages can
// still show the right navigation actions.
func (s *Server) optionalUser(r *http.Request) *model.User {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, _, err := s.Sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return sess.User
}
