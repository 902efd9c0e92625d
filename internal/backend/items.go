package backend

import (
	"context"
	"net/http"

	"github.com/erazemk/nadzor/internal/model"
)

// ListItems fetches one page of the item collection. Pagination defaults are
// applied here so callers never see a missing or zero-valued pagination
// object.
func (c *Client) ListItems(ctx context.Context, cookie string, page, limit int) ([]model.Item, model.Pagination, error) {
	var body struct {
		Items      []model.Item     `json:"items"`
		Pagination model.Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/item", pageQuery(page, limit), cookie, nil, &body); err != nil {
		return nil, model.Pagination{}, err
	}
	return body.Items, body.Pagination.Normalize(limit), nil
}

// CreateItem creates an item.
func (c *Client) CreateItem(ctx context.Context, cookie string, payload model.ItemPayload) error {
	return c.do(ctx, http.MethodPost, "/api/item", nil, cookie, payload, nil)
}

// UpdateItem patches an item.
func (c *Client) UpdateItem(ctx context.Context, cookie, id string, payload model.ItemPayload) error {
	return c.do(ctx, http.MethodPatch, "/api/item/"+id, nil, cookie, payload, nil)
}

// DeleteItem deletes an item.
func (c *Client) DeleteItem(ctx context.Context, cookie, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/item/"+id, nil, cookie, nil, nil)
}
