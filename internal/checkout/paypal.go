package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pay/gopay"
	"github.com/go-pay/gopay/paypal"

	"github.com/videosplus/backend-videos/internal/common"
	"github.com/videosplus/backend-videos/internal/siteconfig"
)

// PayPalAdapter implements the redirect wallet channel. Begin creates the
// provider order; Approve captures it synchronously once the buyer has
// approved in the wallet UI.
type PayPalAdapter struct {
	BaseURL string
	Live    bool
}

func (a *PayPalAdapter) Channel() Channel { return ChannelRedirectWallet }

func (a *PayPalAdapter) client(ctx context.Context, snap siteconfig.Snapshot) (*paypal.Client, error) {
	if snap.PayPalClientID == "" || snap.PayPalSecret == "" {
		return nil, common.ErrConfiguration(errors.New("paypal credentials not configured"))
	}
	client, err := paypal.NewClient(snap.PayPalClientID, snap.PayPalSecret, a.Live)
	if err != nil {
		return nil, common.ErrConfiguration(fmt.Errorf("paypal client: %w", err))
	}
	return client, nil
}

// Begin creates a provider order from the masked intent.
func (a *PayPalAdapter) Begin(ctx context.Context, params BeginParams) (BeginResult, error) {
	if params.Intent.ContentID == "" {
		return BeginResult{}, common.ErrIntentUnavailable(errors.New("no content loaded"))
	}
	client, err := a.client(ctx, params.Snapshot)
	if err != nil {
		return BeginResult{}, err
	}

	bm := make(gopay.BodyMap)
	bm.Set("intent", "CAPTURE").
		Set("purchase_units", []map[string]any{
			{
				"description": params.Intent.MaskedLabel,
				"amount": map[string]string{
					"currency_code": params.Intent.Currency,
					"value":         formatAmount(params.Intent.AmountMinorUnits),
				},
			},
		})

	rsp, err := client.CreateOrder(ctx, bm)
	if err != nil {
		return BeginResult{}, common.ErrSessionCreateFailed(err)
	}
	if rsp.Code != paypal.Success || rsp.Response == nil {
		return BeginResult{}, common.ErrSessionCreateFailed(fmt.Errorf("paypal create order: code %d", rsp.Code))
	}

	result := BeginResult{SessionID: rsp.Response.Id, Status: StatusPending}
	for _, link := range rsp.Response.Links {
		if link.Rel == "approve" {
			result.RedirectURL = link.Href
			break
		}
	}
	return result, nil
}

// Approve captures the approved order and builds the success redirect. Buyer
// email and name appear in the URL only when the capture payload carries them.
func (a *PayPalAdapter) Approve(ctx context.Context, snap siteconfig.Snapshot, orderID, contentID string) (CaptureResult, error) {
	if orderID == "" {
		return CaptureResult{}, common.ErrMissingSession()
	}
	client, err := a.client(ctx, snap)
	if err != nil {
		return CaptureResult{}, err
	}

	rsp, err := client.OrderCapture(ctx, orderID, nil)
	if err != nil {
		return CaptureResult{}, common.ErrCaptureFailed(err)
	}
	if rsp.Code != paypal.Success || rsp.Response == nil {
		return CaptureResult{}, common.ErrCaptureFailed(fmt.Errorf("paypal capture: code %d", rsp.Code))
	}

	result := CaptureResult{}
	if payer := rsp.Response.Payer; payer != nil {
		result.BuyerEmail = payer.EmailAddress
		if payer.Name != nil {
			result.BuyerName = payer.Name.GivenName
		}
	}
	result.SuccessURL = walletSuccessURL(a.BaseURL, contentID, orderID, result.BuyerEmail, result.BuyerName)
	return result, nil
}

func formatAmount(minorUnits int64) string {
	return fmt.Sprintf("%.2f", float64(minorUnits)/100)
}
