package ports

import (
	"context"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleBuyer   = "buyer"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleBuyer:
		return true
	default:
		return false
	}
}

const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusSuspend = "suspend"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusSuspend:
		return true
	default:
		return false
	}
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Identity is an account as stored. Accounts are never hard-deleted;
// an admin moves them between statuses instead.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	PhotoURL  string
	Role      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	PhotoURL string
	Role     string
}

type UserFilter struct {
	Search string
	Role   string
	Skip   int64
	Limit  int64
}

type Repository interface {
	CreateUser(ctx context.Context, userID string, input RegisterInput, now time.Time) (Identity, error)
	FindByID(ctx context.Context, userID string) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]Identity, int64, error)
	UpdateRole(ctx context.Context, userID string, role string, now time.Time) (Identity, error)
	UpdateStatus(ctx context.Context, userID string, status string, now time.Time) (Identity, error)
}
