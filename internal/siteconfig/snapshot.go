package siteconfig

// Snapshot is the read-only configuration view the checkout flow consumes.
// Secrets stay server-side; the public handler exposes a filtered subset.
type Snapshot struct {
	SiteName                string
	VideoListTitle          string
	HostedCheckoutPublicKey string
	HostedCheckoutSecretKey string
	PayPalClientID          string
	PayPalSecret            string
	MerchantHandle          string
	Wallets                 []CryptoWallet
}

// HostedCheckoutAvailable reports whether the hosted checkout channel can run.
func (s Snapshot) HostedCheckoutAvailable() bool {
	return s.HostedCheckoutPublicKey != ""
}

// RedirectWalletAvailable reports whether the redirect wallet channel can run.
func (s Snapshot) RedirectWalletAvailable() bool {
	return s.PayPalClientID != ""
}

// ManualChannelAvailable reports whether the manual channel can run. The
// channel needs a merchant handle to produce a contact link.
func (s Snapshot) ManualChannelAvailable() bool {
	return s.MerchantHandle != ""
}
