package ports

import "context"

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	// ValidateToken returns the authenticated user id.
	ValidateToken(ctx context.Context, token string) (int, error)
}
