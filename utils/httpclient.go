package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the outbound HTTP client used for third-party
// calls (currently the JWKS fetch). The timeout is explicit and carried
// on the client itself rather than mutated into any global default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
