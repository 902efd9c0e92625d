package web

import (
	"sync"

	"github.com/erazemk/nadzor/internal/backend"
	"github.com/erazemk/nadzor/internal/form"
	"github.com/erazemk/nadzor/internal/list"
	"github.com/erazemk/nadzor/internal/model"
)

// viewState is the transient per-login view state: the two list controllers
// plus the drafts behind the create and edit forms. It lives in memory only;
// a restart or re-login starts from a fresh fetch.
type viewState struct {
	mu sync.Mutex

	items *list.Controller[model.Item, model.ItemPayload]
	users *list.Controller[model.User, model.UserPayload]

	itemCreate  form.ItemDraft
	itemEdit    form.ItemDraft
	itemEditing string // item id currently in edit mode, "" when none

	userCreate  form.UserDraft
	userEdit    form.UserDraft
	userEditing string
}

// stateRegistry maps session IDs to their view state.
type stateRegistry struct {
	mu sync.Mutex
	m  map[string]*viewState
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{m: make(map[string]*viewState)}
}

// get returns the view state for a session, creating it on first use with
// controllers bound to the session's backend cookie.
func (r *stateRegistry) get(client *backend.Client, sid, cookie string, limit int) *viewState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.m[sid]; ok {
		return st
	}

	st := &viewState{
		items: list.New[model.Item, model.ItemPayload](
			backend.ItemSource{Client: client, Cookie: cookie}, "Item", limit),
		users: list.New[model.User, model.UserPayload](
			backend.UserSource{Client: client, Cookie: cookie}, "User", limit),
		userCreate: form.UserDraft{Status: model.UserStatusActive},
	}
	r.m[sid] = st
	return st
}

// drop discards a session's view state, on logout or invalidation.
func (r *stateRegistry) drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, sid)
}
