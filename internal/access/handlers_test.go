package access

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/videosplus/backend-videos/internal/common"
)

func newHandlerWithStore(t *testing.T, store *fakeStore) *Handler {
	t.Helper()
	svc, err := NewService(store, nil, zerolog.Nop())
	require.NoError(t, err)
	return NewHandler(svc)
}

func TestPaymentSuccessGrantsAccess(t *testing.T) {
	store := &fakeStore{}
	h := newHandlerWithStore(t, store)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/payment-success?video_id=vid-1&session_id=cs_123&payment_method=stripe", nil)
	req = req.WithContext(common.WithBuyerID(req.Context(), "buyer-1"))
	rec := httptest.NewRecorder()
	h.PaymentSuccess(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data Outcome `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "buyer-1", body.Data.BuyerID)
	require.Equal(t, "hosted_checkout", body.Data.Channel)
	require.Len(t, store.upserts, 1)
}

func TestPaymentSuccessWithoutSessionFails(t *testing.T) {
	h := newHandlerWithStore(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-success?video_id=vid-1&payment_method=paypal", nil)
	rec := httptest.NewRecorder()
	h.PaymentSuccess(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body common.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, common.CodeMissingSession, body.Error.Code)
}

func gateRequest(buyerID, contentID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+contentID+"/access", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", contentID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if buyerID != "" {
		ctx = common.WithBuyerID(ctx, buyerID)
	}
	return req.WithContext(ctx)
}

func TestGateWithoutBuyerIsLocked(t *testing.T) {
	h := newHandlerWithStore(t, &fakeStore{})

	rec := httptest.NewRecorder()
	h.Gate(rec, gateRequest("", "vid-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data gateView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Data.Unlocked)
}

func TestGateUnlockedWithPendingReview(t *testing.T) {
	store := &fakeStore{existing: map[string]Entitlement{
		key("buyer-1", "vid-1"): {BuyerID: "buyer-1", ContentID: "vid-1", PendingReview: true},
	}}
	h := newHandlerWithStore(t, store)

	rec := httptest.NewRecorder()
	h.Gate(rec, gateRequest("buyer-1", "vid-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data gateView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Data.Unlocked)
	require.True(t, body.Data.PendingReview)
}

func TestApproveEndpoint(t *testing.T) {
	store := &fakeStore{approved: map[string]bool{key("buyer-1", "vid-1"): true}}
	h := newHandlerWithStore(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/entitlements/buyer-1/vid-1/approve", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("buyerId", "buyer-1")
	rctx.URLParams.Add("contentId", "vid-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h.Approve(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
