package model

// Role names stored in users.role and carried in the token "role" claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account record as stored in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name, immutable once created.
//  PasswordHash – PBKDF2 derived hash, never the plaintext.
//  Role         – one of RoleUser or RoleAdmin.
//
// PasswordHash is excluded from JSON so handlers can return the struct
// directly without leaking credentials.
type User struct {
	ID           uint64 `json:"id"`       // users.id
	Username     string `json:"username"` // users.username
	PasswordHash string `json:"-"`        // users.password
	Role         string `json:"role"`     // users.role
}
