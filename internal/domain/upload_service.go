package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benmill23/Image-Uploader/internal/domain/stations"
	"github.com/benmill23/Image-Uploader/internal/models"
	"github.com/benmill23/Image-Uploader/internal/ports"
)

// UploadService sequences the upload transaction for a batch of
// selected files: resize, object-store write, record insert, then a
// best-effort classification pass. Files are processed one at a time
// so quota checks, key uniqueness and progress stay deterministic.
type UploadService struct {
	repo    ports.ImageRepository
	storage ports.ObjectStorage

	s1 *stations.S1Resize
	s2 *stations.S2Caption
	s3 *stations.S3Classify

	log         *zap.Logger
	maxImages   int
	callTimeout time.Duration

	events chan ports.UploadEvent
	now    func() time.Time
}

func NewUploadService(
	repo ports.ImageRepository,
	storage ports.ObjectStorage,
	s1 *stations.S1Resize,
	s2 *stations.S2Caption,
	s3 *stations.S3Classify,
	maxImages int,
	callTimeout time.Duration,
	log *zap.Logger,
) *UploadService {
	return &UploadService{
		repo:        repo,
		storage:     storage,
		s1:          s1,
		s2:          s2,
		s3:          s3,
		log:         log,
		maxImages:   maxImages,
		callTimeout: callTimeout,
		events:      make(chan ports.UploadEvent, 256),
		now:         time.Now,
	}
}

func (s *UploadService) Events() <-chan ports.UploadEvent { return s.events }

// Upload validates the batch, runs the per-file pipeline sequentially
// and then classifies the inserted records. Records committed before a
// mid-batch failure stay committed; the caller keeps its remaining
// selection for retry.
func (s *UploadService) Upload(ctx context.Context, userID int, files []ports.PendingFile) ([]models.Image, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if len(files) == 0 {
		return nil, nil
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}
	if count >= s.maxImages {
		return nil, fmt.Errorf("%w: you have reached the %d image limit", ErrQuotaExceeded, s.maxImages)
	}
	if remaining := s.maxImages - count; len(files) > remaining {
		return nil, fmt.Errorf("%w: you can only upload %d more image(s)", ErrQuotaExceeded, remaining)
	}

	var uploaded []models.Image
	total := len(files)

	for i, file := range files {
		img, err := s.uploadOne(ctx, userID, file)
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, *img)

		s.emit(ports.UploadEvent{
			UserID:    userID,
			Stage:     "uploading",
			Completed: i + 1,
			Total:     total,
			ImageID:   img.ID.String(),
		})
	}

	s.classifyBatch(ctx, userID, uploaded)

	s.emit(ports.UploadEvent{
		UserID:    userID,
		Stage:     "done",
		Completed: total,
		Total:     total,
	})

	return uploaded, nil
}

func (s *UploadService) uploadOne(ctx context.Context, userID int, file ports.PendingFile) (*models.Image, error) {
	res, err := s.s1.Run(file)
	if err != nil {
		return nil, fmt.Errorf("resize %q: %w", file.Name, err)
	}

	// millisecond timestamp keeps same-named files in one batch apart
	key := fmt.Sprintf("%d/%d_%s", userID, s.now().UnixMilli(), res.File.Name)

	if err := s.storage.Put(ctx, key, res.File.Data, res.File.ContentType); err != nil {
		return nil, fmt.Errorf("%w: file %q: %v", ErrStorageWrite, file.Name, err)
	}

	img := &models.Image{
		ID:               uuid.New(),
		UserID:           userID,
		OriginalFilename: file.Name,
		StoragePath:      key,
		ImageURL:         s.storage.ObjectURL(key),
	}

	if _, err := s.repo.Insert(ctx, img); err != nil {
		// the object is already durable, so undo it before reporting
		cleanupCtx := context.WithoutCancel(ctx)
		if delErr := s.storage.Delete(cleanupCtx, key); delErr != nil {
			s.log.Error("compensation delete failed, object orphaned",
				zap.String("key", key),
				zap.Error(delErr))
		}
		if errors.Is(err, ErrQuotaExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: file %q: %v", ErrRecordInsert, file.Name, err)
	}

	s.log.Info("image uploaded",
		zap.String("id", img.ID.String()),
		zap.String("key", key),
		zap.Int("original_bytes", res.OriginalSize),
		zap.Int("stored_bytes", res.NewSize),
		zap.Bool("compressed", res.WasCompressed))

	return img, nil
}

// classifyBatch runs the best-effort analysis pass. One record's
// failure degrades that record to analyzed-without-results and never
// touches the rest of the batch or the committed uploads.
func (s *UploadService) classifyBatch(ctx context.Context, userID int, images []models.Image) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("classification pass panicked", zap.Any("panic", r))
			s.emit(ports.UploadEvent{
				UserID:  userID,
				Stage:   "warning",
				Message: "image analysis was interrupted, your uploads are safe",
			})
		}
	}()

	total := len(images)
	for i, img := range images {
		s.emit(ports.UploadEvent{
			UserID:    userID,
			Stage:     "classifying",
			Completed: i,
			Total:     total,
			ImageID:   img.ID.String(),
		})

		if err := s.classifyOne(ctx, &img); err != nil {
			s.log.Warn("classification failed",
				zap.String("id", img.ID.String()),
				zap.Error(err))

			if markErr := s.repo.MarkAnalyzed(ctx, img.ID); markErr != nil {
				s.log.Error("failed to mark image analyzed",
					zap.String("id", img.ID.String()),
					zap.Error(markErr))
			}

			s.emit(ports.UploadEvent{
				UserID:  userID,
				Stage:   "warning",
				ImageID: img.ID.String(),
				Message: fmt.Sprintf("analysis of %q did not complete", img.OriginalFilename),
			})
		}
	}
}

func (s *UploadService) classifyOne(ctx context.Context, img *models.Image) error {
	data, err := s.storage.Fetch(ctx, img.StoragePath)
	if err != nil {
		return fmt.Errorf("%w: fetch stored bytes: %v", ErrClassification, err)
	}

	captionCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	caption, err := s.s2.Run(captionCtx, data)
	if err != nil {
		return fmt.Errorf("%w: caption: %v", ErrClassification, err)
	}

	classifyCtx, cancel2 := context.WithTimeout(ctx, s.callTimeout)
	defer cancel2()
	analysis, err := s.s3.Run(classifyCtx, caption)
	if err != nil {
		return fmt.Errorf("%w: classify: %v", ErrClassification, err)
	}

	if !analysis.Relevant {
		return s.repo.MarkAnalyzed(ctx, img.ID)
	}
	return s.repo.SaveAnalysis(ctx, img.ID, analysis)
}

// Delete removes the stored object first, then the record.
func (s *UploadService) Delete(ctx context.Context, userID int, imageID string) error {
	id, err := uuid.Parse(imageID)
	if err != nil {
		return ErrNotFound
	}

	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if img.UserID != userID {
		return ErrNotFound
	}

	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		return fmt.Errorf("%w: object %q: %v", ErrDelete, img.StoragePath, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: record %s: %v", ErrDelete, imageID, err)
	}

	s.log.Info("image deleted",
		zap.String("id", imageID),
		zap.String("key", img.StoragePath))
	return nil
}

func (s *UploadService) emit(ev ports.UploadEvent) {
	select {
	case s.events <- ev:
	default:
		s.log.Warn("event channel full, dropping event", zap.String("stage", ev.Stage))
	}
}
