package access

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/videosplus/backend-videos/internal/common"
)

type fakeStore struct {
	upserts  []Entitlement
	existing map[string]Entitlement
	approved map[string]bool
	err      error
}

func key(buyerID, contentID string) string { return buyerID + "/" + contentID }

func (f *fakeStore) UpsertEntitlement(_ context.Context, e Entitlement) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, e)
	return nil
}

func (f *fakeStore) GetEntitlement(_ context.Context, buyerID, contentID string) (Entitlement, error) {
	if f.err != nil {
		return Entitlement{}, f.err
	}
	ent, ok := f.existing[key(buyerID, contentID)]
	if !ok {
		return Entitlement{}, pgx.ErrNoRows
	}
	return ent, nil
}

func (f *fakeStore) ApproveEntitlement(_ context.Context, buyerID, contentID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.approved[key(buyerID, contentID)], nil
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	svc, err := NewService(store, nil, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestResolveMissingContent(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	_, err := svc.Resolve(context.Background(), ResolveParams{PaymentMethod: "stripe", SessionID: "cs_1"})
	require.Error(t, err)
	appErr, ok := common.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeMissingContent, appErr.Code)
}

func TestResolveMissingSession(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	_, err := svc.Resolve(context.Background(), ResolveParams{PaymentMethod: "stripe", ContentID: "vid-1"})
	require.Error(t, err)
	appErr, ok := common.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeMissingSession, appErr.Code)
}

func TestResolveMintsGuestIdentity(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	outcome, err := svc.Resolve(context.Background(), ResolveParams{
		PaymentMethod: "stripe",
		SessionID:     "cs_1",
		ContentID:     "vid-1",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(outcome.BuyerID, "guest-"), outcome.BuyerID)
	require.Len(t, store.upserts, 1)
	require.Equal(t, outcome.BuyerID, store.upserts[0].BuyerID)
	require.False(t, store.upserts[0].PendingReview)
}

func TestResolveChannelMapping(t *testing.T) {
	cases := map[string]string{
		"stripe": "hosted_checkout",
		"PayPal": "redirect_wallet",
		"crypto": "manual_channel",
		"":       "manual_channel",
	}
	for method, channel := range cases {
		store := &fakeStore{}
		svc := newTestService(t, store)
		outcome, err := svc.Resolve(context.Background(), ResolveParams{
			PaymentMethod: method,
			SessionID:     "s-1",
			ContentID:     "vid-1",
			BuyerID:       "buyer-1",
		})
		require.NoError(t, err)
		require.Equal(t, channel, outcome.Channel, "method %q", method)
		require.Equal(t, "buyer-1", outcome.BuyerID)
	}
}

func TestGrantKeepsPendingReview(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	require.NoError(t, svc.Grant(context.Background(), "buyer-1", "vid-1", "manual_channel", "manual-abc", true))
	require.Len(t, store.upserts, 1)
	require.True(t, store.upserts[0].PendingReview)
	require.Equal(t, "manual_channel", store.upserts[0].Channel)
}

func TestCheckNoEntitlement(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	unlocked, _, err := svc.Check(context.Background(), "buyer-1", "vid-1")
	require.NoError(t, err)
	require.False(t, unlocked)
}

func TestCheckExistingEntitlement(t *testing.T) {
	store := &fakeStore{existing: map[string]Entitlement{
		key("buyer-1", "vid-1"): {BuyerID: "buyer-1", ContentID: "vid-1", PendingReview: true},
	}}
	svc := newTestService(t, store)

	unlocked, ent, err := svc.Check(context.Background(), "buyer-1", "vid-1")
	require.NoError(t, err)
	require.True(t, unlocked)
	require.True(t, ent.PendingReview)
}

func TestApproveReviewNotFound(t *testing.T) {
	svc := newTestService(t, &fakeStore{approved: map[string]bool{}})
	err := svc.ApproveReview(context.Background(), "buyer-1", "vid-1")
	require.Error(t, err)
	appErr, ok := common.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestApproveReviewUpdates(t *testing.T) {
	store := &fakeStore{approved: map[string]bool{key("buyer-1", "vid-1"): true}}
	svc := newTestService(t, store)
	require.NoError(t, svc.ApproveReview(context.Background(), "buyer-1", "vid-1"))
}
