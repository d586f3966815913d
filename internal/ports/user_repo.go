package ports

import (
	"context"

	"github.com/benmill23/Image-Uploader/internal/models"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}
