package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/videosplus/backend-videos/internal/common"
)

// Handler exposes the checkout attempt endpoints.
type Handler struct {
	orchestrator *Orchestrator
	validate     *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(orchestrator *Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator, validate: validator.New()}
}

type startRequest struct {
	VideoID    string `json:"videoId" validate:"required"`
	Channel    string `json:"channel" validate:"required"`
	WalletCode string `json:"walletCode" validate:"omitempty,max=16"`
}

// Start handles POST /api/v1/checkout/attempts.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	buyerID := buyerFromContext(r)
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, common.ErrInvalidPayload("invalid json body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.JSONError(w, common.ErrInvalidPayload("videoId and channel are required"))
		return
	}
	view, err := h.orchestrator.Start(r.Context(), buyerID, req.VideoID, req.Channel, req.WalletCode)
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": view, "buyerId": buyerID})
}

// Get handles GET /api/v1/checkout/attempts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.orchestrator.Get(buyerFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Cancel handles POST /api/v1/checkout/attempts/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	view, err := h.orchestrator.Cancel(r.Context(), buyerFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Approve handles POST /api/v1/checkout/attempts/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	view, capture, err := h.orchestrator.Approve(r.Context(), buyerFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       view,
		"successUrl": capture.SuccessURL,
	})
}

func buyerFromContext(r *http.Request) string {
	if id, ok := common.BuyerID(r.Context()); ok {
		return id
	}
	return common.NewGuestID()
}
