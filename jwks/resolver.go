package jwks

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const wellKnownPath = "/.well-known/jwks.json"

var (
	// ErrKeyNotFound means the endpoint answered but the token's kid is not
	// in the served set.
	ErrKeyNotFound = errors.New("jwks: key not found")
	// ErrRefreshRateLimited means a cache miss could not be served because
	// the endpoint was fetched too recently.
	ErrRefreshRateLimited = errors.New("jwks: refresh rate limited")
	errMalformedToken     = errors.New("jwks: malformed token")
)

// Config tunes a [Resolver].
type Config struct {
	// AuthServerURL is the base URL; the resolver appends
	// /.well-known/jwks.json.
	AuthServerURL string
	// AllowHTTP permits a plain-HTTP endpoint for local development. It
	// must never be set in a genuine production environment; pair it with
	// the caller's production flag so misconfiguration fails at startup.
	AllowHTTP bool
	// CacheTTL bounds how long fetched keys are served without a refresh.
	// Defaults to 10h.
	CacheTTL time.Duration
	// MinRefreshInterval is the floor between two endpoint fetches.
	// Defaults to 6s (ten fetches per minute).
	MinRefreshInterval time.Duration
	// FetchTimeout bounds a single HTTP request. Defaults to 5s. Without a
	// bound a dead endpoint would hang verifications indefinitely.
	FetchTimeout time.Duration
	// HTTPClient overrides the default client; the timeout above is applied
	// when the override carries none.
	HTTPClient *http.Client
}

// Resolver retrieves RSA verification keys from a remote JWKS endpoint,
// caching them per kid. Safe for concurrent use: reads share an RWMutex and
// refreshes are serialized with a re-check so simultaneous cold-cache
// verifications produce a single fetch.
type Resolver struct {
	jwksURI            string
	client             *http.Client
	cacheTTL           time.Duration
	minRefreshInterval time.Duration

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	attemptedAt time.Time
}

// NewResolver validates cfg and builds a resolver. A non-HTTPS endpoint is
// rejected unless AllowHTTP is set.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.AuthServerURL == "" {
		return nil, errors.New("jwks: auth server URL required")
	}
	if !strings.HasPrefix(cfg.AuthServerURL, "https://") {
		if !cfg.AllowHTTP {
			return nil, errors.New("jwks: auth server URL must use https (set AllowHTTP for local development only)")
		}
		if !strings.HasPrefix(cfg.AuthServerURL, "http://") {
			return nil, errors.New("jwks: auth server URL must be http(s)")
		}
	}

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Hour
	}
	if cfg.MinRefreshInterval <= 0 {
		cfg.MinRefreshInterval = 6 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 5 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	} else if client.Timeout == 0 {
		copied := *client
		copied.Timeout = cfg.FetchTimeout
		client = &copied
	}

	return &Resolver{
		jwksURI:            strings.TrimSuffix(cfg.AuthServerURL, "/") + wellKnownPath,
		client:             client,
		cacheTTL:           cfg.CacheTTL,
		minRefreshInterval: cfg.MinRefreshInterval,
	}, nil
}

// PublicKey resolves the verification key for a raw JWT: it decodes the
// unverified header for the kid and looks the key up, fetching the endpoint
// on a cache miss. Callers treat every failure as an unauthorized token,
// never as a distinct client-visible error.
func (r *Resolver) PublicKey(ctx context.Context, rawToken string) (*rsa.PublicKey, error) {
	kid, err := kidFromToken(rawToken)
	if err != nil {
		return nil, err
	}
	return r.Key(ctx, kid)
}

// Key resolves a verification key by kid.
func (r *Resolver) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := r.cached(kid, false); ok {
		return key, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have refreshed while this one waited.
	if key, ok := r.keys[kid]; ok && time.Since(r.fetchedAt) <= r.cacheTTL {
		return key, nil
	}

	if time.Since(r.attemptedAt) < r.minRefreshInterval {
		// Serve a stale key rather than hammer the endpoint; an unknown kid
		// inside the rate-limit window stays unresolved.
		if key, ok := r.keys[kid]; ok {
			return key, nil
		}
		return nil, ErrRefreshRateLimited
	}
	r.attemptedAt = time.Now()

	keys, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.keys = keys
	r.fetchedAt = time.Now()

	key, ok := r.keys[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

func (r *Resolver) cached(kid string, allowStale bool) (*rsa.PublicKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.keys == nil {
		return nil, false
	}
	if !allowStale && time.Since(r.fetchedAt) > r.cacheTTL {
		return nil, false
	}
	key, ok := r.keys[kid]
	return key, ok
}

func (r *Resolver) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.jwksURI, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("jwks: create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("jwks: endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("jwks: decode document: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for i := range doc.Keys {
		k := doc.Keys[i]
		if k.Kty != "RSA" {
			continue
		}
		if k.Use != "" && k.Use != "sig" {
			continue
		}
		key, err := k.rsaPublicKey()
		if err != nil {
			continue
		}
		keys[k.Kid] = key
	}
	return keys, nil
}

// kidFromToken decodes the unverified JWT header segment and extracts the
// kid. Signature validation happens afterwards with the resolved key.
func kidFromToken(rawToken string) (string, error) {
	header, rest, ok := strings.Cut(rawToken, ".")
	if !ok || !strings.Contains(rest, ".") {
		return "", errMalformedToken
	}

	data, err := base64.RawURLEncoding.DecodeString(header)
	if err != nil {
		return "", errMalformedToken
	}

	var decoded struct {
		Kid string `json:"kid"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", errMalformedToken
	}
	if decoded.Kid == "" {
		return "", errMalformedToken
	}
	return decoded.Kid, nil
}
