package state

// UserSession identifies the signed-in user. A blank ID means anonymous.
type UserSession struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// IsAnonymous reports whether no identity is attached.
func (u UserSession) IsAnonymous() bool {
	return u.ID == ""
}
