package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/videosplus/backend-videos/internal/common"
)

// TelegramAdapter implements the manual channel. No payment network is
// involved; the adapter composes a structured message and yields a t.me deep
// link. Settlement is human-mediated, so the real title and price appear in
// the message by design of the channel, not as a leak.
type TelegramAdapter struct{}

func (a *TelegramAdapter) Channel() Channel { return ChannelManual }

// Begin produces the deep link and completes optimistically: the session is
// succeeded-pending-review the moment the link exists.
func (a *TelegramAdapter) Begin(_ context.Context, params BeginParams) (BeginResult, error) {
	handle := strings.TrimPrefix(strings.TrimSpace(params.Snapshot.MerchantHandle), "@")
	if handle == "" {
		return BeginResult{}, common.ErrConfiguration(errors.New("merchant handle not configured"))
	}
	if params.Intent.ContentID == "" {
		return BeginResult{}, common.ErrIntentUnavailable(errors.New("no content loaded"))
	}

	var message string
	if params.Wallet != nil {
		message = cryptoMessage(params)
	} else {
		message = payPalRequestMessage(params)
	}

	deepLink := fmt.Sprintf("https://t.me/%s?text=%s", handle, escapeComponent(message))
	return BeginResult{
		SessionID:   "manual-" + uuid.NewString(),
		RedirectURL: deepLink,
		Status:      StatusSucceededPendingReview,
	}, nil
}

func payPalRequestMessage(params BeginParams) string {
	return fmt.Sprintf(`💳 **PayPal Payment Request**

📹 **Video:** %s
💰 **Amount:** $%s
📅 **Date:** %s

I would like to pay via PayPal for this content. Please provide me with the payment details and steps to complete the purchase.`,
		params.Intent.RealTitle,
		formatAmount(params.Intent.AmountMinorUnits),
		params.Now.Format("1/2/2006, 3:04:05 PM"),
	)
}

func cryptoMessage(params BeginParams) string {
	return fmt.Sprintf(`₿ **Crypto Payment Request**

📹 **Video:** %s
💰 **Amount:** $%s
🪙 **Cryptocurrency:** %s
💼 **My Wallet:** %s
📅 **Date:** %s

I'm sending the payment from my wallet. Please confirm the transaction and provide access to the content.`,
		params.Intent.RealTitle,
		formatAmount(params.Intent.AmountMinorUnits),
		strings.ToUpper(params.Wallet.CurrencyCode),
		params.Wallet.Address,
		params.Now.Format("1/2/2006, 3:04:05 PM"),
	)
}

// ContactURL is the generic share link used when no structured message applies.
func ContactURL(handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return ""
	}
	return "https://t.me/" + handle
}
