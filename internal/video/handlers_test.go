package video

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeQueries struct {
	records []Record
	views   map[uuid.UUID]int64
}

func (f *fakeQueries) ListVideos(_ context.Context, limit, offset int) ([]Record, error) {
	if offset >= len(f.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[offset:end], nil
}

func (f *fakeQueries) CountVideos(context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeQueries) GetVideo(_ context.Context, id uuid.UUID) (Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, pgx.ErrNoRows
}

func (f *fakeQueries) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			if f.views == nil {
				f.views = map[uuid.UUID]int64{}
			}
			f.views[id] = rec.ViewCount + 1
			return f.views[id], nil
		}
	}
	return 0, pgx.ErrNoRows
}

func newTestHandler(t *testing.T, records []Record) (*Handler, *fakeQueries) {
	t.Helper()
	queries := &fakeQueries{records: records}
	service, err := NewService(ServiceConfig{Queries: queries, Cache: NewCache(nil, time.Minute)})
	require.NoError(t, err)
	return NewHandler(service), queries
}

func requestWithID(method, target, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestListVideos(t *testing.T) {
	handler, _ := newTestHandler(t, []Record{
		{ID: uuid.New(), Title: "Sunrise Yoga", Price: 12.5, CreatedAt: time.Now()},
		{ID: uuid.New(), Title: "Deep Focus", Price: 8, CreatedAt: time.Now()},
	})

	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, int64(2), body.Data.Total)
	require.Len(t, body.Data.Items, 2)
}

func TestListVideosRejectsBadPage(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	rr := httptest.NewRecorder()
	handler.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=zero", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDetailNotFound(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	rr := httptest.NewRecorder()
	handler.Detail(rr, requestWithID(http.MethodGet, "/api/v1/videos/x", uuid.NewString()))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDetailReturnsVideo(t *testing.T) {
	id := uuid.New()
	handler, _ := newTestHandler(t, []Record{{ID: id, Title: "Sunrise Yoga", Price: 12.5}})
	rr := httptest.NewRecorder()
	handler.Detail(rr, requestWithID(http.MethodGet, "/api/v1/videos/x", id.String()))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data Video `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "Sunrise Yoga", body.Data.Title)
	require.Equal(t, 12.5, body.Data.Price)
}

func TestIncrementViews(t *testing.T) {
	id := uuid.New()
	handler, queries := newTestHandler(t, []Record{{ID: id, Title: "Sunrise Yoga", ViewCount: 4}})
	rr := httptest.NewRecorder()
	handler.IncrementViews(rr, requestWithID(http.MethodPost, "/api/v1/videos/x/views", id.String()))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(5), queries.views[id])
}
