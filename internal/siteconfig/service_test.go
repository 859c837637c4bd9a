package siteconfig

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/videosplus/backend-videos/internal/config"
)

type fakeRowStore struct {
	row Row
	err error
}

func (s *fakeRowStore) GetSiteConfig(context.Context) (Row, error) {
	return s.row, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		SiteName:             "VideosPlus",
		VideoListTitle:       "Latest Videos",
		StripePublishableKey: "pk_env",
		StripeSecretKey:      "sk_env",
		TelegramUsername:     "@envmerchant",
	}
}

func TestSnapshotFallsBackToEnvironment(t *testing.T) {
	svc := NewService(testConfig(), &fakeRowStore{err: errors.New("connection refused")})

	snap := svc.Snapshot(context.Background())
	require.Equal(t, "VideosPlus", snap.SiteName)
	require.Equal(t, "Latest Videos", snap.VideoListTitle)
	require.Equal(t, "pk_env", snap.HostedCheckoutPublicKey)
}

func TestSnapshotOverlaysStoredRow(t *testing.T) {
	svc := NewService(testConfig(), &fakeRowStore{row: Row{
		SiteName:       "Video Vault",
		VideoListTitle: "Fresh Drops",
	}})

	snap := svc.Snapshot(context.Background())
	require.Equal(t, "Video Vault", snap.SiteName)
	require.Equal(t, "Fresh Drops", snap.VideoListTitle)
	// blank row fields keep the environment values
	require.Equal(t, "pk_env", snap.HostedCheckoutPublicKey)
	require.Equal(t, "@envmerchant", snap.MerchantHandle)
}

func TestPublicConfigExposesListTitleAndHidesSecrets(t *testing.T) {
	svc := NewService(testConfig(), &fakeRowStore{row: Row{VideoListTitle: "Fresh Drops"}})
	handler := NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/site-config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data PublicConfig `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Fresh Drops", resp.Data.VideoListTitle)
	require.Equal(t, "pk_env", resp.Data.StripePublishableKey)
	require.NotContains(t, rec.Body.String(), "sk_env")
	require.True(t, resp.Data.Channels.HostedCheckout)
	require.True(t, resp.Data.Channels.ManualChannel)
}
