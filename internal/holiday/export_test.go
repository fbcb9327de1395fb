package holiday

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewTestClient builds a cache-less client pointed at a test server.
func NewTestClient(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 2 * time.Second},
		baseURL: baseURL,
		country: defaultCountry,
		logger:  zap.NewNop(),
	}
}
