package backend

import (
	"context"
	"net/http"

	"github.com/erazemk/nadzor/internal/model"
)

// ListUsers fetches one page of the user collection.
func (c *Client) ListUsers(ctx context.Context, cookie string, page, limit int) ([]model.User, model.Pagination, error) {
	var body struct {
		Users      []model.User     `json:"users"`
		Pagination model.Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/user", pageQuery(page, limit), cookie, nil, &body); err != nil {
		return nil, model.Pagination{}, err
	}
	return body.Users, body.Pagination.Normalize(limit), nil
}

// CreateUser creates a user. The payload must carry a password and no status;
// form.UserDraft produces it that way.
func (c *Client) CreateUser(ctx context.Context, cookie string, payload model.UserPayload) error {
	return c.do(ctx, http.MethodPost, "/api/user", nil, cookie, payload, nil)
}

// UpdateUser patches a user. An empty Password in the payload is omitted from
// the body entirely, leaving the stored password unchanged.
func (c *Client) UpdateUser(ctx context.Context, cookie, id string, payload model.UserPayload) error {
	return c.do(ctx, http.MethodPatch, "/api/user/"+id, nil, cookie, payload, nil)
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/user/"+id, nil, cookie, nil, nil)
}
