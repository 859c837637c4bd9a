package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey string

const buyerIDKey ctxKey = "checkout/buyer-id"

// WithBuyerID stores the buyer identifier on the provided context.
func WithBuyerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, buyerIDKey, id)
}

// BuyerID extracts the buyer identifier from the context if present.
func BuyerID(ctx context.Context) (string, bool) {
	v := ctx.Value(buyerIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// NewGuestID mints a buyer identifier for anonymous purchasers.
func NewGuestID() string {
	return "guest-" + uuid.NewString()
}

// BuyerIdentity resolves the buyer from the X-Buyer-ID header, minting a guest
// identifier when the header is absent. Authentication is an external concern;
// the checkout flow only needs a stable key to scope attempts and grants.
// The resolved id is echoed back on the response so an anonymous client can
// replay it and keep polling the attempt it created.
func BuyerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Buyer-ID"))
		if id == "" {
			id = NewGuestID()
		}
		w.Header().Set("X-Buyer-ID", id)
		next.ServeHTTP(w, r.WithContext(WithBuyerID(r.Context(), id)))
	})
}
