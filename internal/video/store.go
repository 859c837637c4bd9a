package video

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record mirrors a row in the videos table.
type Record struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Price        float64
	DurationSecs int
	ViewCount    int64
	ThumbnailURL string
	CreatedAt    time.Time
}

// Store executes video queries against Postgres.
type Store struct {
	Pool *pgxpool.Pool
}

func (s *Store) ListVideos(ctx context.Context, limit, offset int) ([]Record, error) {
	const q = `
SELECT id, title, description, price, duration_secs, view_count, thumbnail_url, created_at
FROM videos
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := s.Pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Price, &rec.DurationSecs, &rec.ViewCount, &rec.ThumbnailURL, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) CountVideos(ctx context.Context) (int64, error) {
	var total int64
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos`).Scan(&total)
	return total, err
}

func (s *Store) GetVideo(ctx context.Context, id uuid.UUID) (Record, error) {
	const q = `
SELECT id, title, description, price, duration_secs, view_count, thumbnail_url, created_at
FROM videos
WHERE id = $1`
	var rec Record
	err := s.Pool.QueryRow(ctx, q, id).Scan(&rec.ID, &rec.Title, &rec.Description, &rec.Price, &rec.DurationSecs, &rec.ViewCount, &rec.ThumbnailURL, &rec.CreatedAt)
	return rec, err
}

func (s *Store) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	const q = `
UPDATE videos
SET view_count = view_count + 1, updated_at = now()
WHERE id = $1
RETURNING view_count`
	var count int64
	err := s.Pool.QueryRow(ctx, q, id).Scan(&count)
	return count, err
}
