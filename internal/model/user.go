package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole enum constants. Every other component resolves roles against
// these; no package may redefine role strings independently.
const (
	RoleEmployee = "EMPLOYEE"
	RoleHOD      = "HOD"
	RoleFinance  = "FINANCE"
	RoleMOD      = "MOD"
	RoleSecurity = "SECURITY"
	RoleAdmin    = "ADMIN"
)

// AllRoles lists every valid role value.
var AllRoles = []string{RoleEmployee, RoleHOD, RoleFinance, RoleMOD, RoleSecurity, RoleAdmin}

// ValidRole reports whether role is one of the fixed role values.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an authenticated actor. Users are reference data in this
// system: seeded at startup and immutable afterwards.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Department string    `gorm:"type:varchar(100);not null" json:"department"`
	Role       string    `gorm:"type:varchar(20);not null;index" json:"role"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
