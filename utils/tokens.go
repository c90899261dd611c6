package utils

import "crypto/rand"

// GenerateTransactionID returns an opaque payment transaction token of the
// form "tx_" followed by 32 hex characters.
func GenerateTransactionID() string {
	return "tx_" + generateShortToken(16)
}

// generateShortToken returns a URL-safe random string of n*2 hex characters.
func generateShortToken(n int) string {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	const hex = "0123456789abcdef"
	out := make([]byte, n*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0x0f]
	}
	return string(out)
}
