package checkout

import (
	"fmt"
	"net/url"
	"strings"
)

// The storefront is a hash-routed SPA, so redirect targets embed the route
// after "#/" and carry state in the query string.

func hostedSuccessURL(base, contentID string) string {
	// {CHECKOUT_SESSION_ID} is substituted by the provider on redirect and
	// must stay unescaped.
	return fmt.Sprintf("%s/#/payment-success?video_id=%s&session_id={CHECKOUT_SESSION_ID}&payment_method=stripe", base, url.QueryEscape(contentID))
}

func cancelURL(base, contentID string) string {
	return fmt.Sprintf("%s/#/video/%s?payment_canceled=true", base, url.PathEscape(contentID))
}

func walletSuccessURL(base, contentID, orderID, buyerEmail, buyerName string) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("/#/payment-success?video_id=")
	sb.WriteString(url.QueryEscape(contentID))
	sb.WriteString("&session_id=")
	sb.WriteString(url.QueryEscape(orderID))
	sb.WriteString("&payment_method=paypal")
	if buyerEmail != "" {
		sb.WriteString("&buyer_email=")
		sb.WriteString(url.QueryEscape(buyerEmail))
	}
	if buyerName != "" {
		sb.WriteString("&buyer_name=")
		sb.WriteString(url.QueryEscape(buyerName))
	}
	return sb.String()
}

// encodeURIComponent-style escaping: spaces become %20, not '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
