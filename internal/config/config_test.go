package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/videosplus",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "VideosPlus", cfg.SiteName)
	require.Equal(t, "USD", cfg.CurrencyCode)
	require.Equal(t, 7, cfg.CountdownTicks)
	require.Equal(t, time.Second, cfg.CountdownTick)
	require.Equal(t, time.Minute, cfg.AttemptRetention)
}

func TestLoadTrimsPublicBaseURL(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":    "postgres://localhost/videosplus",
		"REDIS_URL":       "redis://localhost:6379/0",
		"PUBLIC_BASE_URL": "https://videos.example.com/",
	})
	require.NoError(t, err)
	require.Equal(t, "https://videos.example.com", cfg.PublicBaseURL)
}

func TestLoadSplitsWallets(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":   "postgres://localhost/videosplus",
		"REDIS_URL":      "redis://localhost:6379/0",
		"CRYPTO_WALLETS": "BTC:bc1qabc | ETH:0xdef",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"BTC:bc1qabc", "ETH:0xdef"}, cfg.CryptoWallets)
}
