package siteconfig

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Row mirrors the singleton site_config table row.
type Row struct {
	SiteName             string
	VideoListTitle       string
	StripePublishableKey string
	StripeSecretKey      string
	PayPalClientID       string
	PayPalSecret         string
	TelegramUsername     string
	CryptoWallets        []string
}

// PGStore reads the site configuration row from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

func (s *PGStore) GetSiteConfig(ctx context.Context) (Row, error) {
	const q = `
SELECT site_name, video_list_title, stripe_publishable_key, stripe_secret_key,
       paypal_client_id, paypal_secret, telegram_username, crypto_wallets
FROM site_config
WHERE id = 1`
	var row Row
	err := s.Pool.QueryRow(ctx, q).Scan(
		&row.SiteName,
		&row.VideoListTitle,
		&row.StripePublishableKey,
		&row.StripeSecretKey,
		&row.PayPalClientID,
		&row.PayPalSecret,
		&row.TelegramUsername,
		&row.CryptoWallets,
	)
	return row, err
}
