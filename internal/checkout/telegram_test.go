package checkout

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/videosplus/backend-videos/internal/common"
	"github.com/videosplus/backend-videos/internal/siteconfig"
)

func manualParams(handle string, wallet *siteconfig.CryptoWallet) BeginParams {
	return BeginParams{
		Intent: PurchaseIntent{
			ContentID:        "vid-1",
			RealTitle:        "Sunset Over The Bay (4K)",
			AmountMinorUnits: 1250,
			Currency:         "USD",
			MaskedLabel:      "Productivity Masterclass",
		},
		Snapshot: siteconfig.Snapshot{MerchantHandle: handle},
		Wallet:   wallet,
		Now:      time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}
}

func TestTelegramBeginWithoutHandleFails(t *testing.T) {
	adapter := &TelegramAdapter{}
	_, err := adapter.Begin(context.Background(), manualParams("", nil))
	require.Error(t, err)
	appErr, ok := common.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, common.CodeConfigurationError, appErr.Code)
}

func TestTelegramBeginPayPalRequest(t *testing.T) {
	adapter := &TelegramAdapter{}
	result, err := adapter.Begin(context.Background(), manualParams("@merchant", nil))
	require.NoError(t, err)
	require.Equal(t, StatusSucceededPendingReview, result.Status)
	require.True(t, strings.HasPrefix(result.RedirectURL, "https://t.me/merchant?text="), result.RedirectURL)

	decoded, err := url.QueryUnescape(strings.TrimPrefix(result.RedirectURL, "https://t.me/merchant?text="))
	require.NoError(t, err)
	require.Contains(t, decoded, "PayPal Payment Request")
	require.Contains(t, decoded, "Sunset Over The Bay (4K)")
	require.Contains(t, decoded, "$12.50")
}

func TestTelegramBeginCryptoIncludesWallet(t *testing.T) {
	adapter := &TelegramAdapter{}
	wallet := &siteconfig.CryptoWallet{CurrencyCode: "btc", Address: "bc1qxyz"}
	result, err := adapter.Begin(context.Background(), manualParams("merchant", wallet))
	require.NoError(t, err)

	decoded, err := url.QueryUnescape(strings.TrimPrefix(result.RedirectURL, "https://t.me/merchant?text="))
	require.NoError(t, err)
	require.Contains(t, decoded, "Crypto Payment Request")
	require.Contains(t, decoded, "BTC")
	require.Contains(t, decoded, "bc1qxyz")
}

func TestTelegramDeepLinkEncodesSpacesAsPercent20(t *testing.T) {
	adapter := &TelegramAdapter{}
	result, err := adapter.Begin(context.Background(), manualParams("merchant", nil))
	require.NoError(t, err)
	require.NotContains(t, result.RedirectURL, "+")
}
