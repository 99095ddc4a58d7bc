package recognizer

import (
	"net/http"
	"time"
)

// newPooledHTTPClient creates an http.Client with connection pooling and a
// tuned transport, for the HTTP-backed recognizer variants.
func newPooledHTTPClient(poolSize int, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          poolSize,
			MaxIdleConnsPerHost:   poolSize,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}
}
