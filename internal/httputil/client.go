package httputil

import (
	"net/http"
	"time"
)

// DownloadTimeout bounds a whole dataset download, body included.
const DownloadTimeout = 2 * time.Minute

const UserAgent = "bikeshare-dashboard/1.0"

type userAgentTransport struct {
	next http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}
	return t.next.RoundTrip(req)
}

// NewClient returns an HTTP client for remote dataset sources.
func NewClient() *http.Client {
	return &http.Client{
		Timeout:   DownloadTimeout,
		Transport: userAgentTransport{next: http.DefaultTransport},
	}
}
