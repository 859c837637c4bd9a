package siteconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWalletColonFormat(t *testing.T) {
	w, ok := ParseWallet("BTC:bc1qxyz123")
	require.True(t, ok)
	require.Equal(t, "BTC", w.CurrencyCode)
	require.Equal(t, "bc1qxyz123", w.Address)
	require.Equal(t, "BTC", w.Name)
}

func TestParseWalletLegacyTwoLineFormat(t *testing.T) {
	w, ok := ParseWallet("ETH - Ethereum\n0xabc456")
	require.True(t, ok)
	require.Equal(t, "ETH", w.CurrencyCode)
	require.Equal(t, "Ethereum", w.Name)
	require.Equal(t, "0xabc456", w.Address)
}

func TestParseWalletTwoLineWithoutDash(t *testing.T) {
	w, ok := ParseWallet("USDT Tether\nTabcdef")
	require.True(t, ok)
	require.Equal(t, "USDT", w.CurrencyCode)
	require.Equal(t, "USDT Tether", w.Name)
	require.Equal(t, "Tabcdef", w.Address)
}

func TestParseWalletBareAddressFallback(t *testing.T) {
	// Degenerate encoding: the whole string is the address and the first
	// token stands in as the currency code.
	w, ok := ParseWallet("bc1qonlyaddress")
	require.True(t, ok)
	require.Equal(t, "bc1qonlyaddress", w.CurrencyCode)
	require.Equal(t, "bc1qonlyaddress", w.Address)
	require.Equal(t, "Crypto Wallet", w.Name)
}

func TestParseWalletEmptyAddressDiscarded(t *testing.T) {
	_, ok := ParseWallet("BTC:")
	require.False(t, ok)

	_, ok = ParseWallet("   ")
	require.False(t, ok)
}

func TestParseWalletsDropsInvalidEntries(t *testing.T) {
	wallets := ParseWallets([]string{"BTC:bc1q1", "ETH:", "SOL:sol123"})
	require.Len(t, wallets, 2)
	require.Equal(t, "BTC", wallets[0].CurrencyCode)
	require.Equal(t, "SOL", wallets[1].CurrencyCode)
}
