package model

// User is a backend user account. Passwords are write-only: they appear in
// payloads but are never present in fetched representations.
type User struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Status       string `json:"status,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// User statuses.
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
)

// UserPayload is the write-side representation of a user. Password and
// Status are conditional: create sends the password and no status, update
// sends the status and includes the password only when it is being changed.
type UserPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Status    string `json:"status,omitempty"`
}
