package user

// Role is the coarse role carried by an authenticated principal. Fine-grained
// club assignments are resolved by the external authorization service.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleCoach Role = "coach"
	RoleScout Role = "scout"
)

// Principal is the authenticated caller as reported by token introspection.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
