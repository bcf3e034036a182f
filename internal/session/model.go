package session

import "slices"

// Storage slot keys.
const (
	// KeyCurrentUser holds the JSON-encoded current user.
	KeyCurrentUser = "currentUser"
	// KeyToken holds the access token.
	KeyToken = "token"
	// KeyRefreshToken holds the refresh token.
	KeyRefreshToken = "refreshToken"
)

// RoleAdmin is the role value granting administrator rights.
const RoleAdmin = "admin"

// User is the identity record returned by the backend.
type User struct {
	// ID is the backend identifier of the user.
	ID string `json:"_id"`
	// Username is the login name.
	Username string `json:"username"`
	// Email is the user's e-mail address.
	Email string `json:"gmail"`
	// Birthday is an optional date as sent by the backend.
	Birthday string `json:"birthday,omitempty"`
	// Events lists identifiers of events the user is subscribed to.
	Events []string `json:"eventos"`
	// Role is an optional role name such as "admin".
	Role string `json:"rol,omitempty"`
}

// Clone returns a deep copy of the user. A nil user yields nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.Events = slices.Clone(u.Events)

	return &clone
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is a snapshot of the authenticated session.
type Session struct {
	// User is the current user, nil when nobody is known.
	User *User
	// AccessToken is the short-lived credential attached to requests.
	AccessToken string
	// RefreshToken is the long-lived credential used to mint access tokens.
	RefreshToken string
}

// IsLoggedIn reports whether both a user and an access token are present.
func (s *Session) IsLoggedIn() bool {
	return s != nil && s.User != nil && s.AccessToken != ""
}
