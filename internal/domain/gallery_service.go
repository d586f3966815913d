package domain

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/benmill23/Image-Uploader/internal/models"
	"github.com/benmill23/Image-Uploader/internal/ports"
)

// GalleryService reads the user's image set for display and exposes
// the live count against the quota.
type GalleryService struct {
	repo     ports.ImageRepository
	urls     *SignedURLCache
	maxItems int
	log      *zap.Logger
}

func NewGalleryService(repo ports.ImageRepository, urls *SignedURLCache, maxItems int, log *zap.Logger) *GalleryService {
	return &GalleryService{
		repo:     repo,
		urls:     urls,
		maxItems: maxItems,
		log:      log,
	}
}

func (g *GalleryService) Limit() int { return g.maxItems }

// List returns the user's images ordered for stable display, each
// carrying a fresh signed display URL. A presign failure leaves that
// one image without a URL and does not fail the listing.
func (g *GalleryService) List(ctx context.Context, userID int) ([]models.Image, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	images, err := g.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// the store already filters and orders; re-apply both here rather
	// than trusting it blindly
	images = OwnedAndOrdered(images, userID)

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range images {
		eg.Go(func() error {
			url, err := g.urls.DisplayURL(egCtx, images[i].StoragePath)
			if err != nil {
				g.log.Warn("display url unavailable",
					zap.String("key", images[i].StoragePath),
					zap.Error(err))
				return nil
			}
			images[i].DisplayURL = url
			return nil
		})
	}
	_ = eg.Wait()

	return images, nil
}

func (g *GalleryService) Count(ctx context.Context, userID int) (int, error) {
	if userID <= 0 {
		return 0, ErrUnauthenticated
	}
	return g.repo.CountByUser(ctx, userID)
}

func (g *GalleryService) DisplayURL(ctx context.Context, userID int, imageID string) (string, error) {
	id, err := uuid.Parse(imageID)
	if err != nil {
		return "", ErrNotFound
	}

	img, err := g.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if img.UserID != userID {
		return "", ErrNotFound
	}

	return g.urls.DisplayURL(ctx, img.StoragePath)
}

// OwnedAndOrdered filters to the owner's records and sorts by
// display_order ascending with absent orders last, ties broken by
// created_at descending.
func OwnedAndOrdered(images []models.Image, userID int) []models.Image {
	owned := images[:0]
	for _, img := range images {
		if img.UserID == userID {
			owned = append(owned, img)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		a, b := owned[i], owned[j]
		switch {
		case a.DisplayOrder != nil && b.DisplayOrder != nil:
			if *a.DisplayOrder != *b.DisplayOrder {
				return *a.DisplayOrder < *b.DisplayOrder
			}
		case a.DisplayOrder != nil:
			return true
		case b.DisplayOrder != nil:
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return owned
}
