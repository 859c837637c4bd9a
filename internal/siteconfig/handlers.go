package siteconfig

import (
	"net/http"

	"github.com/videosplus/backend-videos/internal/common"
)

// Handler exposes the public site configuration endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PublicConfig is the client-facing projection of the snapshot. Secret keys
// never appear here.
type PublicConfig struct {
	SiteName             string         `json:"siteName"`
	VideoListTitle       string         `json:"videoListTitle,omitempty"`
	StripePublishableKey string         `json:"stripePublishableKey,omitempty"`
	PayPalClientID       string         `json:"paypalClientId,omitempty"`
	TelegramUsername     string         `json:"telegramUsername,omitempty"`
	Wallets              []CryptoWallet `json:"wallets"`
	Channels             ChannelFlags   `json:"channels"`
}

// ChannelFlags reports which payment channels are currently offered.
type ChannelFlags struct {
	HostedCheckout bool `json:"hostedCheckout"`
	RedirectWallet bool `json:"redirectWallet"`
	ManualChannel  bool `json:"manualChannel"`
}

// Get handles GET /api/v1/site-config.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot(r.Context())
	wallets := snap.Wallets
	if wallets == nil {
		wallets = []CryptoWallet{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": PublicConfig{
		SiteName:             snap.SiteName,
		VideoListTitle:       snap.VideoListTitle,
		StripePublishableKey: snap.HostedCheckoutPublicKey,
		PayPalClientID:       snap.PayPalClientID,
		TelegramUsername:     snap.MerchantHandle,
		Wallets:              wallets,
		Channels: ChannelFlags{
			HostedCheckout: snap.HostedCheckoutAvailable(),
			RedirectWallet: snap.RedirectWalletAvailable(),
			ManualChannel:  snap.ManualChannelAvailable(),
		},
	}})
}
