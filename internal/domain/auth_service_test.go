package domain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/benmill23/Image-Uploader/internal/models"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.users[email], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestAuth_LoginAndValidateRoundTrip(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"a@example.com": {ID: 42, Email: "a@example.com", Password: "hunter2"},
	}}
	svc := NewAuthService(repo, "test-secret")

	token, err := svc.Login(context.Background(), "a@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !strings.HasPrefix(token, "42:") {
		t.Errorf("token %q does not start with the user id", token)
	}

	userID, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("ValidateToken() = %d, want 42", userID)
	}
}

func TestAuth_LoginRejections(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"a@example.com": {ID: 42, Email: "a@example.com", Password: "hunter2"},
	}}
	svc := NewAuthService(repo, "test-secret")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "a@example.com", "nope"},
		{"unknown user", "b@example.com", "hunter2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.email, tt.password); err == nil {
				t.Fatal("Login() succeeded, want error")
			}
		})
	}
}

func TestAuth_ValidateTokenRejections(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"a@example.com": {ID: 42, Email: "a@example.com", Password: "hunter2"},
	}}
	svc := NewAuthService(repo, "test-secret")

	good, err := svc.Login(context.Background(), "a@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	otherSecret := NewAuthService(repo, "other-secret")
	foreign, err := otherSecret.Login(context.Background(), "a@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "42abcdef"},
		{"tampered uid", "43:" + strings.SplitN(good, ":", 2)[1]},
		{"signed with different secret", foreign},
		{"garbage signature", "42:deadbeef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(context.Background(), tt.token); !errors.Is(err, ErrUnauthenticated) {
				t.Fatalf("ValidateToken() error = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestAuth_ValidateTokenDeletedUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*models.User{
		"a@example.com": {ID: 42, Email: "a@example.com", Password: "hunter2"},
	}}
	svc := NewAuthService(repo, "test-secret")

	token, err := svc.Login(context.Background(), "a@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	delete(repo.users, "a@example.com")

	if _, err := svc.ValidateToken(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("ValidateToken() error = %v, want ErrUnauthenticated", err)
	}
}
