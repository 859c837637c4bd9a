package access

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entitlement is one (buyer, content) access grant.
type Entitlement struct {
	BuyerID       string    `json:"buyerId"`
	ContentID     string    `json:"contentId"`
	Channel       string    `json:"channel"`
	SessionID     string    `json:"sessionId"`
	PendingReview bool      `json:"pendingReview"`
	GrantedAt     time.Time `json:"grantedAt"`
}

// PGStore persists entitlements in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// UpsertEntitlement records a grant. A verified grant clears an earlier
// pending-review flag; a pending grant never downgrades a verified one.
func (s *PGStore) UpsertEntitlement(ctx context.Context, e Entitlement) error {
	const q = `
INSERT INTO entitlements (buyer_id, content_id, channel, session_id, pending_review)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (buyer_id, content_id) DO UPDATE
SET channel        = EXCLUDED.channel,
    session_id     = EXCLUDED.session_id,
    pending_review = entitlements.pending_review AND EXCLUDED.pending_review`
	_, err := s.Pool.Exec(ctx, q, e.BuyerID, e.ContentID, e.Channel, e.SessionID, e.PendingReview)
	return err
}

// GetEntitlement looks up the grant for a buyer and content item.
func (s *PGStore) GetEntitlement(ctx context.Context, buyerID, contentID string) (Entitlement, error) {
	const q = `
SELECT buyer_id, content_id, channel, session_id, pending_review, granted_at
FROM entitlements
WHERE buyer_id = $1 AND content_id = $2`
	var e Entitlement
	err := s.Pool.QueryRow(ctx, q, buyerID, contentID).Scan(
		&e.BuyerID, &e.ContentID, &e.Channel, &e.SessionID, &e.PendingReview, &e.GrantedAt,
	)
	return e, err
}

// ApproveEntitlement clears the pending-review flag after a human confirms a
// manual-channel payment.
func (s *PGStore) ApproveEntitlement(ctx context.Context, buyerID, contentID string) (bool, error) {
	const q = `
UPDATE entitlements
SET pending_review = FALSE
WHERE buyer_id = $1 AND content_id = $2 AND pending_review`
	tag, err := s.Pool.Exec(ctx, q, buyerID, contentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
