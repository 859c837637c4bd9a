package checkout

import (
	"context"
	"time"

	"github.com/videosplus/backend-videos/internal/siteconfig"
)

// BeginParams bundles the inputs for a provider begin call. The snapshot is
// read per attempt so admin configuration changes apply without a restart.
type BeginParams struct {
	Intent   PurchaseIntent
	Snapshot siteconfig.Snapshot
	// Wallet selects the crypto wallet for the manual channel. Nil means the
	// PayPal-by-request variant.
	Wallet *siteconfig.CryptoWallet
	Now    time.Time
}

// BeginResult is the provider's answer to a begin call.
type BeginResult struct {
	SessionID   string
	RedirectURL string
	Status      Status
}

// Adapter is the per-channel provider protocol. Implementations translate the
// masked intent into a provider round trip and never see the real title,
// except on the manual channel where settlement is human-mediated.
type Adapter interface {
	Channel() Channel
	Begin(ctx context.Context, params BeginParams) (BeginResult, error)
}

// CaptureResult is the outcome of a redirect-wallet approval.
type CaptureResult struct {
	SuccessURL string
	BuyerEmail string
	BuyerName  string
}
