// Package user defines user accounts and the role/capability model shared by
// the rest of the application.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

// Role classifies a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleDelivery Role = "delivery"
)

// Capability is a coarse-grained permission derived from a role. Handlers
// check capabilities instead of comparing role strings inline, so the role
// policy lives in one place.
type Capability string

const (
	// CapabilityDeliver allows being assigned to a delivery.
	CapabilityDeliver Capability = "deliver"
	// CapabilityManage allows administrative mutations.
	CapabilityManage Capability = "manage"
)

// Can reports whether the role grants the given capability. Admins can do
// everything a delivery person can.
func (r Role) Can(c Capability) bool {
	switch c {
	case CapabilityDeliver:
		return r == RoleDelivery || r == RoleAdmin
	case CapabilityManage:
		return r == RoleAdmin
	default:
		return false
	}
}

// IsValid reports whether the role is one of the known role values.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleDelivery:
		return true
	}
	return false
}

// User is a registered account: a customer placing orders, an admin, or a
// delivery person fulfilling them.
type User struct {
	ID             int64
	Email          string
	Name           string
	Role           Role
	HashedPassword *string
	CreatedAt      time.Time
}

// Sentinel errors for user lookups and creation.
var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
)

// InvalidRoleError indicates an unknown role value in a create request.
type InvalidRoleError struct {
	Role string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid role %q", e.Role)
}

// Repository defines persistence operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
