package ports

import (
	"context"

	"github.com/benmill23/Image-Uploader/internal/models"
)

// PendingFile is one selected file waiting to be uploaded.
type PendingFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadEvent is pushed to the notification channel as a batch moves
// through its stages.
type UploadEvent struct {
	UserID    int    `json:"-"`
	Stage     string `json:"stage"` // "uploading", "classifying", "done", "warning"
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	ImageID   string `json:"imageId,omitempty"`
	Message   string `json:"message,omitempty"`
}

type Uploader interface {
	Upload(ctx context.Context, userID int, files []PendingFile) ([]models.Image, error)
	Delete(ctx context.Context, userID int, imageID string) error
	Events() <-chan UploadEvent
}

type Gallery interface {
	List(ctx context.Context, userID int) ([]models.Image, error)
	Count(ctx context.Context, userID int) (int, error)
	// DisplayURL resolves a fresh signed viewing URL for one image.
	DisplayURL(ctx context.Context, userID int, imageID string) (string, error)
	Limit() int
}
