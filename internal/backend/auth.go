package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/nadzor/internal/model"
)

// Login authenticates against the backend. On success it returns the user
// profile from the response body and the session cookie to replay on every
// authenticated call. Invalid credentials surface as ErrUnauthenticated.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, "", fmt.Errorf("encoding login request: %w", err)
	}

	u := *c.base
	u.Path = "/api/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, "", &RequestError{Op: "POST /api/auth/login", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "POST /api/auth/login"); err != nil {
		return nil, "", err
	}

	user := &model.User{}
	if err := json.NewDecoder(resp.Body).Decode(user); err != nil {
		return nil, "", fmt.Errorf("decoding login response: %w", err)
	}

	cookie := captureCookies(resp)
	if cookie == "" {
		return nil, "", fmt.Errorf("login response carried no session cookie")
	}

	return user, cookie, nil
}

// Logout invalidates the backend session. Callers treat failures as
// best-effort: the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context, cookie string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, cookie, nil, nil)
}

// Profile fetches the current user's profile for the given session cookie.
func (c *Client) Profile(ctx context.Context, cookie string) (*model.User, error) {
	user := &model.User{}
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, cookie, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadProfileImage forwards a prepared image to the backend as a multipart
// form with field name "file".
func (c *Client) UploadProfileImage(ctx context.Context, cookie, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart form: %w", err)
	}

	u := *c.base
	u.Path = "/api/user/profile/image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &RequestError{Op: "POST /api/user/profile/image", Err: err}
	}
	defer resp.Body.Close()

	return checkStatus(resp, "POST /api/user/profile/image")
}

// Hello calls the backend's connectivity probe and returns its message.
func (c *Client) Hello(ctx context.Context) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/hello", nil, "", nil, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}
