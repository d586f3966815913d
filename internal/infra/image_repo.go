package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benmill23/Image-Uploader/internal/domain"
	"github.com/benmill23/Image-Uploader/internal/models"
	"github.com/benmill23/Image-Uploader/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresImageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresImageRepo(pool *pgxpool.Pool) ports.ImageRepository {
	return &PostgresImageRepo{pool: pool}
}

func (r *PostgresImageRepo) Insert(ctx context.Context, img *models.Image) (*models.Image, error) {
	query := `
		INSERT INTO images (id, user_id, original_filename, storage_path, image_url, display_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	row := r.pool.QueryRow(ctx, query,
		img.ID,
		img.UserID,
		img.OriginalFilename,
		img.StoragePath,
		img.ImageURL,
		img.DisplayOrder,
	)
	if err := row.Scan(&img.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return nil, domain.ErrQuotaExceeded
		}
		return nil, fmt.Errorf("insert image: %w", err)
	}
	return img, nil
}

func (r *PostgresImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	query := `
		SELECT id, user_id, original_filename, storage_path, image_url,
		       display_order, bristol_score, size_bucket, indicators,
		       warnings, notes, is_analyzed, created_at
		FROM images
		WHERE id = $1
	`
	img, err := scanImage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get image by id: %w", err)
	}
	return img, nil
}

func (r *PostgresImageRepo) ListByUser(ctx context.Context, userID int) ([]models.Image, error) {
	query := `
		SELECT id, user_id, original_filename, storage_path, image_url,
		       display_order, bristol_score, size_bucket, indicators,
		       warnings, notes, is_analyzed, created_at
		FROM images
		WHERE user_id = $1
		ORDER BY display_order ASC NULLS LAST, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		images = append(images, *img)
	}
	return images, rows.Err()
}

func (r *PostgresImageRepo) CountByUser(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM images WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (r *PostgresImageRepo) SaveAnalysis(ctx context.Context, id uuid.UUID, a *models.Analysis) error {
	indicators, err := json.Marshal(a.Indicators)
	if err != nil {
		return fmt.Errorf("marshal indicators: %w", err)
	}
	warnings, err := json.Marshal(a.Warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	query := `
		UPDATE images
		SET bristol_score = $1,
		    size_bucket = $2,
		    indicators = $3,
		    warnings = $4,
		    notes = $5,
		    is_analyzed = TRUE
		WHERE id = $6
	`
	_, err = r.pool.Exec(ctx, query,
		a.BristolScore, a.SizeBucket, indicators, warnings, a.Notes, id)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

func (r *PostgresImageRepo) MarkAnalyzed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE images SET is_analyzed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark analyzed: %w", err)
	}
	return nil
}

func (r *PostgresImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanImage(row pgx.Row) (*models.Image, error) {
	var (
		img        models.Image
		indicators []byte
		warnings   []byte
	)
	err := row.Scan(
		&img.ID,
		&img.UserID,
		&img.OriginalFilename,
		&img.StoragePath,
		&img.ImageURL,
		&img.DisplayOrder,
		&img.BristolScore,
		&img.SizeBucket,
		&indicators,
		&warnings,
		&img.Notes,
		&img.IsAnalyzed,
		&img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(indicators) > 0 {
		if err := json.Unmarshal(indicators, &img.Indicators); err != nil {
			return nil, fmt.Errorf("decode indicators: %w", err)
		}
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &img.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
	}
	return &img, nil
}
