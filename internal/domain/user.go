package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to the admin-only management endpoints.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleMember }

// User is a staff account that can log trips and report mileage.
// PINHash holds the bcrypt hash of the user's 4-digit PIN and is never
// serialized to JSON.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	PINHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
