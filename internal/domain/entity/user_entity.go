package entity

import (
	"time"
)

// User is the aggregate root for accounts.
// Password holds a bcrypt hash and is never serialized.
// Status false means the account is blocked.
type User struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Status    bool      `json:"status"`
	IsGoogle  bool      `json:"isGoogle"`
	Profile   string    `json:"profile,omitempty"`
	Following []string  `json:"following"`
	Followers []string  `json:"followers"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the public view used when a user is embedded in another record.
type UserSummary struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Profile  string `json:"profile,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Profile: u.Profile}
}

// Profile is a user with the social graph resolved to summaries.
type Profile struct {
	ID        string        `json:"_id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Role      Role          `json:"role"`
	Status    bool          `json:"status"`
	IsGoogle  bool          `json:"isGoogle"`
	Profile   string        `json:"profile,omitempty"`
	Following []UserSummary `json:"following"`
	Followers []UserSummary `json:"followers"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AdminIdentity is the reduced record returned to admins on login.
type AdminIdentity struct {
	ID      string `json:"_id"`
	Role    Role   `json:"role"`
	Status  bool   `json:"status"`
	Profile string `json:"profile,omitempty"`
}

// Active reports whether the account may sign in.
func (u *User) Active() bool { return u.Status }
