package entity

// Role represents an authorization role carried by an Identity and its tokens
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWriter
}
