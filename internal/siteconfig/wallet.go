package siteconfig

import "strings"

// CryptoWallet is one settlement wallet offered on the manual channel.
type CryptoWallet struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name"`
	Address      string `json:"address"`
}

// ParseWallet decodes one admin-entered wallet string. Three encodings are in
// circulation: "CODE:address", the legacy "CODE - Name\naddress", and a bare
// address. A wallet without an address is discarded.
func ParseWallet(raw string) (CryptoWallet, bool) {
	var w CryptoWallet
	switch {
	case strings.Contains(raw, ":"):
		parts := strings.SplitN(raw, ":", 2)
		w.CurrencyCode = strings.TrimSpace(parts[0])
		w.Address = strings.TrimSpace(parts[1])
		w.Name = w.CurrencyCode
	case strings.Contains(raw, "\n"):
		lines := strings.SplitN(raw, "\n", 2)
		header := lines[0]
		w.Address = strings.TrimSpace(lines[1])
		if strings.Contains(header, " - ") {
			parts := strings.SplitN(header, " - ", 2)
			w.CurrencyCode = strings.TrimSpace(parts[0])
			w.Name = strings.TrimSpace(parts[1])
		} else {
			w.Name = strings.TrimSpace(header)
			w.CurrencyCode = firstToken(header)
		}
	default:
		// Bare address. The first token doubles as the currency code, which
		// is wrong for multi-word entries; kept for compatibility with
		// existing admin data.
		w.Address = strings.TrimSpace(raw)
		w.CurrencyCode = firstToken(raw)
		w.Name = "Crypto Wallet"
	}
	if w.Address == "" {
		return CryptoWallet{}, false
	}
	return w, true
}

// ParseWallets decodes a list of raw wallet strings, dropping invalid entries.
func ParseWallets(raw []string) []CryptoWallet {
	out := make([]CryptoWallet, 0, len(raw))
	for _, entry := range raw {
		if w, ok := ParseWallet(entry); ok {
			out = append(out, w)
		}
	}
	return out
}

func firstToken(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
