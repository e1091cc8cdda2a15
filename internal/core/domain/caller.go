package domain

// Caller is the identity a request runs on behalf of. The zero value is an
// anonymous caller.
type Caller struct {
	UserID string
	Role   string
}

// Anonymous is the caller for requests without credentials.
var Anonymous = Caller{}

func (c Caller) Authenticated() bool {
	return c.UserID != ""
}

func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}
