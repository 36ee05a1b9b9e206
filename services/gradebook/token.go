package gradebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vvladislovv/GreMiuv/core"
)

// tokenGate acquires and caches the bearer credential for the remote
// service. At most one credential fetch is in flight at any time; concurrent
// callers share the pending fetch.
type tokenGate struct {
	client *http.Client
	url    string

	mu     sync.Mutex
	token  string
	flight singleflight.Group
}

func newTokenGate(client *http.Client, baseURL string) *tokenGate {
	return &tokenGate{client: client, url: baseURL + "/token"}
}

func (g *tokenGate) Token(ctx context.Context) (string, error) {
	g.mu.Lock()
	token := g.token
	g.mu.Unlock()
	if token != "" {
		return token, nil
	}

	v, err, _ := g.flight.Do("token", func() (interface{}, error) {
		g.mu.Lock()
		if g.token != "" {
			token := g.token
			g.mu.Unlock()
			return token, nil
		}
		g.mu.Unlock()
		return g.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (g *tokenGate) fetch(ctx context.Context) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, core.NewAuthError("building credential request", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, core.NewAuthError("credential endpoint unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewAuthError(fmt.Sprintf("credential endpoint returned %d", resp.StatusCode))
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, core.NewAuthError("decoding credential response", err)
	}
	if body.Token == "" {
		return nil, core.NewAuthError("credential endpoint returned an empty token")
	}

	g.mu.Lock()
	g.token = body.Token
	g.mu.Unlock()
	return body.Token, nil
}

// Invalidate discards the cached credential if it is still the one that was
// rejected; a concurrent refresh is left alone.
func (g *tokenGate) Invalidate(rejected string) {
	g.mu.Lock()
	if g.token == rejected {
		g.token = ""
	}
	g.mu.Unlock()
}
