package form

import (
	"fmt"
	"strings"

	"github.com/erazemk/nadzor/internal/model"
)

// UserDraft is the editable field set of a user. The same draft shape backs
// both the create and edit forms; which payload method applies decides the
// password and status semantics.
type UserDraft struct {
	Username  string
	Email     string
	Password  string
	Firstname string
	Lastname  string
	Status    string
}

// SeedUserDraft builds an edit draft from an existing user. The password
// field starts blank: leaving it blank on submit keeps the stored password.
func SeedUserDraft(u model.User) UserDraft {
	status := u.Status
	if status == "" {
		status = model.UserStatusActive
	}
	return UserDraft{
		Username:  u.Username,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Status:    status,
	}
}

// CreatePayload validates a create draft. Username, email and password are
// required; status is server-assigned and therefore omitted.
func (d UserDraft) CreatePayload() (model.UserPayload, error) {
	username := strings.TrimSpace(d.Username)
	email := strings.TrimSpace(d.Email)

	if username == "" {
		return model.UserPayload{}, fmt.Errorf("username is required")
	}
	if email == "" {
		return model.UserPayload{}, fmt.Errorf("email is required")
	}
	if d.Password == "" {
		return model.UserPayload{}, fmt.Errorf("password is required")
	}

	return model.UserPayload{
		Username:  username,
		Email:     email,
		Password:  d.Password,
		Firstname: strings.TrimSpace(d.Firstname),
		Lastname:  strings.TrimSpace(d.Lastname),
	}, nil
}

// UpdatePayload validates an edit draft. The password key is omitted from
// the payload entirely when the field was left blank.
func (d UserDraft) UpdatePayload() (model.UserPayload, error) {
	username := strings.TrimSpace(d.Username)
	email := strings.TrimSpace(d.Email)

	if username == "" {
		return model.UserPayload{}, fmt.Errorf("username is required")
	}
	if email == "" {
		return model.UserPayload{}, fmt.Errorf("email is required")
	}

	status := d.Status
	if status != model.UserStatusActive && status != model.UserStatusInactive {
		return model.UserPayload{}, fmt.Errorf("status %q is not valid", status)
	}

	return model.UserPayload{
		Username:  username,
		Email:     email,
		Password:  strings.TrimSpace(d.Password),
		Firstname: strings.TrimSpace(d.Firstname),
		Lastname:  strings.TrimSpace(d.Lastname),
		Status:    status,
	}, nil
}
