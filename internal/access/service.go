package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/videosplus/backend-videos/internal/common"
	"github.com/videosplus/backend-videos/internal/events"
	"github.com/videosplus/backend-videos/internal/obs"
)

type entitlementStore interface {
	UpsertEntitlement(ctx context.Context, e Entitlement) error
	GetEntitlement(ctx context.Context, buyerID, contentID string) (Entitlement, error)
	ApproveEntitlement(ctx context.Context, buyerID, contentID string) (bool, error)
}

// ResolveParams are the values read off the success-URL query string.
type ResolveParams struct {
	PaymentMethod string
	SessionID     string
	ContentID     string
	BuyerID       string
	BuyerEmail    string
	BuyerName     string
}

// Outcome reports the result of resolving a returned session.
type Outcome struct {
	BuyerID       string    `json:"buyerId"`
	ContentID     string    `json:"contentId"`
	Channel       string    `json:"channel"`
	SessionID     string    `json:"sessionId"`
	PendingReview bool      `json:"pendingReview"`
	GrantedAt     time.Time `json:"grantedAt"`
}

// Service normalizes returned sessions into entitlement grants. It decides
// nothing about access itself; the store owns that.
type Service struct {
	store  entitlementStore
	bus    *events.Bus
	logger zerolog.Logger
}

// NewService constructs a Service.
func NewService(store entitlementStore, bus *events.Bus, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("access: entitlement store is required")
	}
	return &Service{store: store, bus: bus, logger: logger}, nil
}

// Resolve consumes the success-URL contract. The returned session is treated
// as verified by the provider redirect; a missing content or session id is a
// hard failure surfaced with a generic message.
func (s *Service) Resolve(ctx context.Context, p ResolveParams) (Outcome, error) {
	if strings.TrimSpace(p.ContentID) == "" {
		incResolve(p.PaymentMethod, "missing_content")
		return Outcome{}, common.ErrMissingContent()
	}
	if strings.TrimSpace(p.SessionID) == "" {
		incResolve(p.PaymentMethod, "missing_session")
		return Outcome{}, common.ErrMissingSession()
	}

	buyerID := strings.TrimSpace(p.BuyerID)
	if buyerID == "" {
		buyerID = common.NewGuestID()
	}

	channel := channelForMethod(p.PaymentMethod)
	ent := Entitlement{
		BuyerID:       buyerID,
		ContentID:     p.ContentID,
		Channel:       channel,
		SessionID:     p.SessionID,
		PendingReview: false,
		GrantedAt:     time.Now(),
	}
	if err := s.store.UpsertEntitlement(ctx, ent); err != nil {
		incResolve(p.PaymentMethod, "error")
		return Outcome{}, fmt.Errorf("grant entitlement: %w", err)
	}
	incResolve(p.PaymentMethod, "ok")

	payload := map[string]any{
		"buyerId":   buyerID,
		"contentId": p.ContentID,
		"channel":   channel,
		"sessionId": p.SessionID,
	}
	if p.BuyerEmail != "" {
		payload["buyerEmail"] = p.BuyerEmail
	}
	if p.BuyerName != "" {
		payload["buyerName"] = p.BuyerName
	}
	s.emit(ctx, events.TopicPurchaseSettled, payload)

	return Outcome{
		BuyerID:       buyerID,
		ContentID:     p.ContentID,
		Channel:       channel,
		SessionID:     p.SessionID,
		PendingReview: false,
		GrantedAt:     ent.GrantedAt,
	}, nil
}

// Grant records an entitlement directly. The checkout orchestrator uses it
// for manual-channel grants, which stay flagged for human review.
func (s *Service) Grant(ctx context.Context, buyerID, contentID, channel, sessionID string, pendingReview bool) error {
	if strings.TrimSpace(buyerID) == "" {
		buyerID = common.NewGuestID()
	}
	return s.store.UpsertEntitlement(ctx, Entitlement{
		BuyerID:       buyerID,
		ContentID:     contentID,
		Channel:       channel,
		SessionID:     sessionID,
		PendingReview: pendingReview,
		GrantedAt:     time.Now(),
	})
}

// Check reports whether the buyer may watch the content item.
func (s *Service) Check(ctx context.Context, buyerID, contentID string) (bool, Entitlement, error) {
	ent, err := s.store.GetEntitlement(ctx, buyerID, contentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, Entitlement{}, nil
		}
		return false, Entitlement{}, fmt.Errorf("check entitlement: %w", err)
	}
	return true, ent, nil
}

// ApproveReview clears the pending-review flag once a human has confirmed a
// manual payment.
func (s *Service) ApproveReview(ctx context.Context, buyerID, contentID string) error {
	updated, err := s.store.ApproveEntitlement(ctx, buyerID, contentID)
	if err != nil {
		return fmt.Errorf("approve entitlement: %w", err)
	}
	if !updated {
		return common.ErrNotFound("no pending entitlement")
	}
	s.emit(ctx, events.TopicPurchaseSettled, map[string]any{
		"buyerId":   buyerID,
		"contentId": contentID,
		"channel":   "manual_channel",
		"reviewed":  true,
	})
	return nil
}

func (s *Service) emit(ctx context.Context, topic string, payload map[string]any) {
	if s.bus == nil {
		return
	}
	if _, err := s.bus.Emit(ctx, topic, payload); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Msg("event emit failed")
	}
}

func channelForMethod(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "stripe":
		return "hosted_checkout"
	case "paypal":
		return "redirect_wallet"
	default:
		return "manual_channel"
	}
}

func incResolve(method, result string) {
	if obs.AccessResolveTotal != nil {
		obs.AccessResolveTotal.WithLabelValues(channelForMethod(method), result).Inc()
	}
}
