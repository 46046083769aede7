package types

import (
	"fmt"
	"strings"
	"time"
)

// Role is the kind of account a credential belongs to. Buyers and sellers
// live in separate tables and carry separate tokens.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole converts a raw role claim into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Title returns the capitalized role name used in user-facing messages.
func (r Role) Title() string {
	switch r {
	case RoleBuyer:
		return "Buyer"
	case RoleSeller:
		return "Seller"
	default:
		return string(r)
	}
}

// Account represents a buyer or seller credential.
// Both kinds share the same shape and differ only by table.
type Account struct {
	// ID is the unique identifier of the account within its kind.
	ID int `json:"id" db:"id"`

	// Name is the display name shown next to products and orders.
	Name string `json:"name" db:"name"`

	// Username is the login name, unique within its kind.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the bcrypt hash of the account password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile is the public view of an account returned on login.
type Profile struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Identity is the authenticated subject carried by a token.
type Identity struct {
	UserID   int
	Username string
	Role     Role
}
