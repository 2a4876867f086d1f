package entity

// Role is the account type carried in every token.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// CookieName is the refresh cookie scoped to the role, e.g. "tutorJWT".
func (r Role) CookieName() string {
	return string(r) + "JWT"
}
