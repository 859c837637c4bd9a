package checkout

// Channel identifies a payment channel.
type Channel string

const (
	// ChannelHostedCheckout redirects the buyer to a provider-hosted payment page.
	ChannelHostedCheckout Channel = "hosted_checkout"
	// ChannelRedirectWallet runs an in-page wallet approval with a synchronous capture.
	ChannelRedirectWallet Channel = "redirect_wallet"
	// ChannelManual hands settlement to a human over a messaging deep link.
	// It covers PayPal-by-request and every crypto wallet.
	ChannelManual Channel = "manual_channel"
)

// ParseChannel validates a client-supplied channel name.
func ParseChannel(raw string) (Channel, bool) {
	switch Channel(raw) {
	case ChannelHostedCheckout, ChannelRedirectWallet, ChannelManual:
		return Channel(raw), true
	default:
		return "", false
	}
}

// Status is the lifecycle state of a checkout session.
type Status string

const (
	StatusPending                Status = "pending"
	StatusSucceeded              Status = "succeeded"
	StatusSucceededPendingReview Status = "succeeded_pending_review"
	StatusCanceled               Status = "canceled"
	StatusFailed                 Status = "failed"
)

// Session is one provider round trip. A session is never reused across
// content items; a new purchase always creates a new one.
type Session struct {
	Channel   Channel `json:"channel"`
	SessionID string  `json:"sessionId"`
	ContentID string  `json:"contentId"`
	Status    Status  `json:"status"`
}
