package domain

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

type authService struct {
	users  ports.UserRepository
	secret string
}

func NewAuthService(users ports.UserRepository, secret string) ports.AuthService {
	return &authService{
		users:  users,
		secret: secret,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || user.Password != password {
		return "", errors.New("invalid credentials")
	}

	uid := strconv.Itoa(user.ID)
	return uid + ":" + s.sign(uid), nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (int, error) {
	uid, sig, ok := strings.Cut(token, ":")
	if !ok {
		return 0, ErrUnauthenticated
	}

	if !hmac.Equal([]byte(sig), []byte(s.sign(uid))) {
		return 0, ErrUnauthenticated
	}

	id, err := strconv.Atoi(uid)
	if err != nil {
		return 0, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("%w: unknown user %d", ErrUnauthenticated, id)
	}

	return id, nil
}

func (s *authService) sign(msg string) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
