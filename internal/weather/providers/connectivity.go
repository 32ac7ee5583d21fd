package providers

import (
	"context"
	"net/http"
)

// ConnectivityProbe reports whether the primary upstream is reachable.
type ConnectivityProbe struct {
	client *http.Client
	url    string
}

func NewConnectivityProbe(client *http.Client, url string) *ConnectivityProbe {
	if url == "" {
		url = "https://api.openweathermap.org"
	}
	return &ConnectivityProbe{client: client, url: url}
}

// Online issues a HEAD request; any HTTP answer counts as connected.
func (p *ConnectivityProbe) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
