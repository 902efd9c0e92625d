// Package backend is the typed HTTP client for the remote REST API the
// console administers. All domain data lives behind this boundary; the
// console itself stores nothing but login sessions.
//
// Authenticated calls replay the session cookie captured at login (the
// browser equivalent of fetch's credentials: include). A 401 from any call
// maps to ErrUnauthenticated, other non-2xx responses to *APIError with the
// server's message field, and transport failures to *RequestError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// requestTimeout bounds every backend call so a hung backend cannot leave a
// view loading forever.
const requestTimeout = 30 * time.Second

// Client talks to the backend REST API.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// New creates a client for the given base API URL (scheme://host[:port],
// without the /api prefix).
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}

	return &Client{
		base: u,
		hc:   &http.Client{Timeout: requestTimeout},
	}, nil
}

// BaseURL returns the configured base URL, used by views to link to
// backend-served assets such as profile images.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// errorBody is the backend's error response shape.
type errorBody struct {
	Message string `json:"message"`
}

// do issues a request and decodes a 2xx JSON body into out (if non-nil).
// cookie, when non-empty, is sent as the upstream session cookie.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, cookie string, body, out any) error {
	u := *c.base
	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &RequestError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, method+" "+path); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// checkStatus converts non-2xx responses into the error taxonomy, consuming
// the body for the server message.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &eb)
	if eb.Message == "" {
		eb.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: eb.Message}
}

// pageQuery builds the page/limit query parameters shared by list endpoints.
func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// captureCookies joins all Set-Cookie name=value pairs into a single Cookie
// header value for replay on later calls.
func captureCookies(resp *http.Response) string {
	var pairs []string
	for _, c := range resp.Cookies() {
		if c.Name != "" {
			pairs = append(pairs, c.Name+"="+c.Value)
		}
	}
	return strings.Join(pairs, "; ")
}
