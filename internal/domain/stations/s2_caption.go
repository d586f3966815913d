package stations

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/benmill23/Image-Uploader/internal/ports"
)

type S2Caption struct {
	svc ports.CaptionService
}

func NewS2Caption(svc ports.CaptionService) *S2Caption {
	return &S2Caption{svc: svc}
}

func (s *S2Caption) Run(ctx context.Context, image []byte) (string, error) {
	log.Printf("[S2][START] image_bytes=%d", len(image))

	text, err := s.svc.Caption(ctx, image)
	if err == nil && text != "" {
		log.Printf("[S2][OK]")
		return text, nil
	}

	log.Printf("[S2][ERR][FIRST] err=%v", err)

	// one retry on a fresh context, the first may have expired
	retryCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	text, err2 := s.svc.Caption(retryCtx, image)
	if err2 == nil && text != "" {
		log.Printf("[S2][OK][RETRY]")
		return text, nil
	}
	if err2 == nil {
		err2 = fmt.Errorf("empty caption")
	}

	log.Printf("[S2][ERR][RETRY] err=%v", err2)
	return "", err2
}
