package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodorder/apiserver/internal/store"
	"github.com/foodorder/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of a password and rejects longer input.
const maxPasswordBytes = 72

// AccountRepository defines persistence operations for buyer and seller accounts.
type AccountRepository interface {
	GetByUsername(ctx context.Context, kind types.Role, username string) (types.Account, error)
	Create(ctx context.Context, kind types.Role, account types.Account) (types.Account, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(identity types.Identity) (string, error)
}

// Registration holds the fields accepted when creating an account.
type Registration struct {
	Name     string
	Username string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  types.Profile
}

// AccountService encapsulates registration and login for both account kinds.
type AccountService struct {
	repo   AccountRepository
	tokens TokenIssuer
}

func NewAccountService(repo AccountRepository, tokens TokenIssuer) *AccountService {
	return &AccountService{repo: repo, tokens: tokens}
}

func (s *AccountService) Register(ctx context.Context, kind types.Role, reg Registration) (types.Account, error) {
	_, err := s.repo.GetByUsername(ctx, kind, reg.Username)
	switch {
	case err == nil:
		return types.Account{}, ErrUsernameTaken
	case !errors.Is(err, store.ErrNotFound):
		return types.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.Account{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, kind, types.Account{
		Name:         reg.Name,
		Username:     reg.Username,
		PasswordHash: string(hash),
	})
}

func (s *AccountService) Login(ctx context.Context, kind types.Role, username, password string) (LoginResult, error) {
	account, err := s.repo.GetByUsername(ctx, kind, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), passwordBytes(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(types.Identity{
		UserID:   account.ID,
		Username: account.Username,
		Role:     kind,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{
		Token: token,
		User: types.Profile{
			ID:       account.ID,
			Name:     account.Name,
			Username: account.Username,
			Role:     kind,
		},
	}, nil
}

// passwordBytes truncates to the bcrypt input limit so long passwords hash
// the same way on register and login.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
