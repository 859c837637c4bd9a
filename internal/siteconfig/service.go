package siteconfig

import (
	"context"
	"strings"

	"github.com/videosplus/backend-videos/internal/config"
)

type rowProvider interface {
	GetSiteConfig(ctx context.Context) (Row, error)
}

// Service assembles the configuration snapshot. Database values take
// precedence; environment configuration acts as the fallback so a fresh
// deployment works before an admin has saved anything.
type Service struct {
	store    rowProvider
	fallback Snapshot
}

// NewService constructs a Service from the environment config and an optional store.
func NewService(cfg *config.Config, store rowProvider) *Service {
	return &Service{
		store: store,
		fallback: Snapshot{
			SiteName:                cfg.SiteName,
			VideoListTitle:          cfg.VideoListTitle,
			HostedCheckoutPublicKey: cfg.StripePublishableKey,
			HostedCheckoutSecretKey: cfg.StripeSecretKey,
			PayPalClientID:          cfg.PayPalClientID,
			PayPalSecret:            cfg.PayPalSecret,
			MerchantHandle:          cfg.TelegramUsername,
			Wallets:                 ParseWallets(cfg.CryptoWallets),
		},
	}
}

// Snapshot returns the current configuration view. A missing row or a store
// error falls back to the environment values so checkout keeps working
// through a transient database outage.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	snap := s.fallback
	if s.store == nil {
		return snap
	}
	row, err := s.store.GetSiteConfig(ctx)
	if err != nil {
		return snap
	}
	if v := strings.TrimSpace(row.SiteName); v != "" {
		snap.SiteName = v
	}
	if v := strings.TrimSpace(row.VideoListTitle); v != "" {
		snap.VideoListTitle = v
	}
	if v := strings.TrimSpace(row.StripePublishableKey); v != "" {
		snap.HostedCheckoutPublicKey = v
	}
	if v := strings.TrimSpace(row.StripeSecretKey); v != "" {
		snap.HostedCheckoutSecretKey = v
	}
	if v := strings.TrimSpace(row.PayPalClientID); v != "" {
		snap.PayPalClientID = v
	}
	if v := strings.TrimSpace(row.PayPalSecret); v != "" {
		snap.PayPalSecret = v
	}
	if v := strings.TrimSpace(row.TelegramUsername); v != "" {
		snap.MerchantHandle = v
	}
	if len(row.CryptoWallets) > 0 {
		snap.Wallets = ParseWallets(row.CryptoWallets)
	}
	return snap
}
