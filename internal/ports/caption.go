package ports

import "context"

// CaptionService turns raw image bytes into a natural-language description.
type CaptionService interface {
	Caption(ctx context.Context, image []byte) (string, error)
}
