package backend

import (
	"context"

	"github.com/erazemk/nadzor/internal/model"
)

// ItemSource adapts the client to the list controller's collection interface
// for one login session's cookie.
type ItemSource struct {
	Client *Client
	Cookie string
}

func (s ItemSource) ListPage(ctx context.Context, page, limit int) ([]model.Item, model.Pagination, error) {
	return s.Client.ListItems(ctx, s.Cookie, page, limit)
}

func (s ItemSource) Create(ctx context.Context, payload model.ItemPayload) error {
	return s.Client.CreateItem(ctx, s.Cookie, payload)
}

func (s ItemSource) Update(ctx context.Context, id string, payload model.ItemPayload) error {
	return s.Client.UpdateItem(ctx, s.Cookie, id, payload)
}

func (s ItemSource) Delete(ctx context.Context, id string) error {
	return s.Client.DeleteItem(ctx, s.Cookie, id)
}

// UserSource is the user-collection counterpart of ItemSource.
type UserSource struct {
	Client *Client
	Cookie string
}

func (s UserSource) ListPage(ctx context.Context, page, limit int) ([]model.User, model.Pagination, error) {
	return s.Client.ListUsers(ctx, s.Cookie, page, limit)
}

func (s UserSource) Create(ctx context.Context, payload model.UserPayload) error {
	return s.Client.CreateUser(ctx, s.Cookie, payload)
}

func (s UserSource) Update(ctx context.Context, id string, payload model.UserPayload) error {
	return s.Client.UpdateUser(ctx, s.Cookie, id, payload)
}

func (s UserSource) Delete(ctx context.Context, id string) error {
	return s.Client.DeleteUser(ctx, s.Cookie, id)
}
