package services

import (
	"errors"
	"fmt"

	"github.com/foodorder/apiserver/internal/store"
)

var (
	// ErrUsernameTaken is returned when registering a username that already
	// exists for the same account kind.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProductNotFound    = fmt.Errorf("product: %w", store.ErrNotFound)
	// ErrOrderNotFound is returned when the order does not exist or belongs
	// to another seller's product.
	ErrOrderNotFound = fmt.Errorf("order: %w", store.ErrNotFound)
)
