package domain

// Role names a permission group assigned to users.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// RoleNames converts roles to their string form.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}
