package ports

import (
	"context"

	"github.com/benmill23/Image-Uploader/internal/models"
	"github.com/google/uuid"
)

type ImageRepository interface {
	Insert(ctx context.Context, img *models.Image) (*models.Image, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error)
	ListByUser(ctx context.Context, userID int) ([]models.Image, error)
	CountByUser(ctx context.Context, userID int) (int, error)

	// SaveAnalysis stores the full classification result and sets is_analyzed.
	SaveAnalysis(ctx context.Context, id uuid.UUID, a *models.Analysis) error
	// MarkAnalyzed sets is_analyzed without touching the analysis fields.
	MarkAnalyzed(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}
