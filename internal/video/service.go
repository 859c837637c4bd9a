package video

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videosplus/backend-videos/internal/common"
)

type queryProvider interface {
	ListVideos(ctx context.Context, limit, offset int) ([]Record, error)
	CountVideos(ctx context.Context) (int64, error)
	GetVideo(ctx context.Context, id uuid.UUID) (Record, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

// Video is the public catalog payload.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	DurationSecs int       `json:"durationSecs"`
	ViewCount    int64     `json:"viewCount"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListParams captures pagination for the catalog listing.
type ListParams struct {
	Page  int
	Limit int
}

// ListResult contains list data and pagination metadata.
type ListResult struct {
	Items []Video `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// Service orchestrates video queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultLimit int
	MaxLimit     int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("video: queries provider is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into pagination parameters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{Page: 1, Limit: s.defaultLimit}
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, common.ErrInvalidPayload("page must be a positive integer")
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return params, common.ErrInvalidPayload("limit must be a positive integer")
		}
		params.Limit = limit
	}
	if params.Limit > s.maxLimit {
		params.Limit = s.maxLimit
	}
	return params, nil
}

// List returns a page of the catalog, served from cache when possible.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	key := fmt.Sprintf("videos:list:%d:%d", params.Page, params.Limit)
	var cached ListResult
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	total, err := s.queries.CountVideos(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count videos: %w", err)
	}
	offset := (params.Page - 1) * params.Limit
	rows, err := s.queries.ListVideos(ctx, params.Limit, offset)
	if err != nil {
		return ListResult{}, fmt.Errorf("list videos: %w", err)
	}
	items := make([]Video, 0, len(rows))
	for _, row := range rows {
		items = append(items, toVideo(row))
	}
	result := ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	_ = s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// Get returns a single video by id.
func (s *Service) Get(ctx context.Context, id string) (Video, error) {
	vid, err := parseID(id)
	if err != nil {
		return Video{}, err
	}
	key := "videos:detail:" + vid.String()
	var cached Video
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	rec, err := s.queries.GetVideo(ctx, vid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Video{}, common.ErrNotFound("video not found")
		}
		return Video{}, fmt.Errorf("get video: %w", err)
	}
	v := toVideo(rec)
	_ = s.cache.SetJSON(ctx, key, v)
	return v, nil
}

// IncrementViews bumps the view counter and invalidates the cached detail.
func (s *Service) IncrementViews(ctx context.Context, id string) (int64, error) {
	vid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	count, err := s.queries.IncrementViews(ctx, vid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrNotFound("video not found")
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	_ = s.cache.Delete(ctx, "videos:detail:"+vid.String())
	return count, nil
}

func parseID(id string) (uuid.UUID, error) {
	vid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, common.ErrInvalidPayload("invalid video id")
	}
	return vid, nil
}

func toVideo(rec Record) Video {
	return Video{
		ID:           rec.ID.String(),
		Title:        rec.Title,
		Description:  rec.Description,
		Price:        rec.Price,
		DurationSecs: rec.DurationSecs,
		ViewCount:    rec.ViewCount,
		ThumbnailURL: rec.ThumbnailURL,
		CreatedAt:    rec.CreatedAt,
	}
}
