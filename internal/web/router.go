package web

import (
	"net/http"

	webembed "github.com/erazemk/nadzor/web"

	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/session"
)

// NewRouter creates the page router with all routes registered.
func NewRouter(sessions *session.Store, client *backend.Client, pageLimit int) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Sessions:  sessions,
		Backend:   client,
		Templates: templates,
		PageLimit: pageLimit,
		states:    newStateRegistry(),
	}

	mux := http.NewServeMux()
	guard := s.requireSession

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /{$}", s.HomePage)
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)

	// Authenticated routes.
	mux.Handle("GET /logout", guard(http.HandlerFunc(s.Logout)))
	mux.Handle("POST /logout", guard(http.HandlerFunc(s.Logout)))

	mux.Handle("GET /items", guard(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("POST /items", guard(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("POST /items/{id}", guard(http.HandlerFunc(s.ItemUpdateSubmit)))
	mux.Handle("POST /items/{id}/delete", guard(http.HandlerFunc(s.ItemDeleteSubmit)))

	mux.Handle("GET /users", guard(http.HandlerFunc(s.UsersPage)))
	mux.Handle("POST /users", guard(http.HandlerFunc(s.UserCreateSubmit)))
	mux.Handle("POST /users/{id}", guard(http.HandlerFunc(s.UserUpdateSubmit)))
	mux.Handle("POST /users/{id}/delete", guard(http.HandlerFunc(s.UserDeleteSubmit)))

	mux.Handle("GET /profile", guard(http.HandlerFunc(s.ProfilePage)))
	mux.Handle("POST /profile/image", guard(http.HandlerFunc(s.ProfileImageSubmit)))

	return mux, nil
}
