package model

// User is the account the session belongs to. The backend may omit ID.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// CacheKey identifies the user in per-user client storage: ID when the
// backend supplied one, else the email.
func (u User) CacheKey() string {
	if u.ID != "" {
		return u.ID
	}
	return u.Email
}

// DisplayName prefers the name and falls back to the email.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Session is the authenticated user and bearer token pair.
type Session struct {
	User  User
	Token string
}
