package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/videosplus/backend-videos/internal/common"
)

// Handler exposes the success-resolution and access-gate endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PaymentSuccess handles GET /api/v1/payment-success. The query string is the
// contract shared with the provider redirect URLs.
func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buyerID, _ := common.BuyerID(r.Context())
	outcome, err := h.service.Resolve(r.Context(), ResolveParams{
		PaymentMethod: q.Get("payment_method"),
		SessionID:     q.Get("session_id"),
		ContentID:     q.Get("video_id"),
		BuyerID:       buyerID,
		BuyerEmail:    q.Get("buyer_email"),
		BuyerName:     q.Get("buyer_name"),
	})
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": outcome})
}

// Gate handles GET /api/v1/videos/{id}/access.
func (h *Handler) Gate(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := common.BuyerID(r.Context())
	if !ok {
		common.JSON(w, http.StatusOK, map[string]any{"data": gateView{}})
		return
	}
	unlocked, ent, err := h.service.Check(r.Context(), buyerID, chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": gateView{
		Unlocked:      unlocked,
		PendingReview: ent.PendingReview,
	}})
}

// Approve handles POST /api/v1/entitlements/{buyerId}/{contentId}/approve,
// the human confirmation of a manual-channel payment.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	err := h.service.ApproveReview(r.Context(), chi.URLParam(r, "buyerId"), chi.URLParam(r, "contentId"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"approved": true}})
}

type gateView struct {
	Unlocked      bool `json:"unlocked"`
	PendingReview bool `json:"pendingReview"`
}
