package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/imaging"
	"github.com/erazemk/nadzor/internal/model"
)

// profileData is the profile page's template data.
type profileData struct {
	PageData
	Profile  *model.User
	ImageURL string
}

// ProfilePage handles GET /profile. The profile is re-fetched on every
// visit; a 401 here means the backend session died and forces a logout.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	sess := CurrentSession(r.Context())

	user, err := s.Sessions.RefreshProfile(r.Context(), sess.ID)
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.states.drop(sess.ID)
		clearAuthCookie(w)
		redirectToLogin(w, r)
		return
	}

	data := &profileData{
		PageData: PageData{Title: "Profile", User: sess.User},
	}
	if err != nil {
		data.Error = backend.Message(err)
		data.Profile = sess.User // cached copy stays visible
	} else {
		data.Profile = user
		data.User = user
	}
	if data.Profile.ProfileImage != "" {
		data.ImageURL = s.Backend.BaseURL() + data.Profile.ProfileImage
	}

	s.Templates.Render(w, "profile.html", data)
}

// ProfileImageSubmit handles POST /profile/image: validate and downscale the
// picture locally, then forward it to the backend.
func (s *Server) ProfileImageSubmit(w http.ResponseWriter, r *http.Request) {
	sess := CurrentSession(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		s.renderProfileError(w, r, "File too large.")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.renderProfileError(w, r, "Please select a file.")
		return
	}
	defer file.Close()

	prepared, err := imaging.Prepare(file)
	if err != nil {
		s.renderProfileError(w, r, err.Error())
		return
	}

	err = s.Backend.UploadProfileImage(r.Context(), BackendCookie(r.Context()), "avatar.jpg", prepared)
	if errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}
	if err != nil {
		s.renderProfileError(w, r, backend.Message(err))
		return
	}

	// Refresh so the new image path lands in the session cache.
	if _, err := s.Sessions.RefreshProfile(r.Context(), sess.ID); errors.Is(err, backend.ErrUnauthenticated) {
		s.invalidateAndRedirect(w, r)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) renderProfileError(w http.ResponseWriter, r *http.Request, msg string) {
	sess := CurrentSession(r.Context())

	data := &profileData{
		PageData: PageData{Title: "Profile", User: sess.User, Error: msg},
		Profile:  sess.User,
	}
	if sess.User.ProfileImage != "" {
		data.ImageURL = s.Backend.BaseURL() + sess.User.ProfileImage
	}
	s.Templates.Render(w, "profile.html", data)
}
