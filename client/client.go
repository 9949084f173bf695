// Package client is the Go SDK for applications that embed a license check.
// It serves a fresh cached entitlement without contacting the server,
// revalidates over the network once the cache goes stale, and falls back to
// the cached copy when the server is unreachable so a network blip does not
// take the application down.
package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"licenseserver/models"
	"licenseserver/signing"
	"licenseserver/utils"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 7 * 24 * time.Hour

	validatePath = "/api/v1/validate"
)

var (
	// ErrServerUnreachable is returned when the server cannot be reached and
	// no usable cached entitlement exists.
	ErrServerUnreachable = errors.New("license server unreachable and no cached entitlement available")
	// ErrBadSignature is returned when a response fails signature
	// verification against the configured secrets.
	ErrBadSignature = errors.New("entitlement signature verification failed")
)

// Result is the outcome of a validation call. Cached is set when the verdict
// came from the on-disk cache rather than the server; Warning is set only
// when the cache served because the server gave no decided answer.
type Result struct {
	Valid       bool
	Message     string
	Entitlement *models.EntitlementResponse
	Cached      bool
	Warning     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCachePath overrides where the entitlement cache file lives.
func WithCachePath(path string) Option {
	return func(c *Client) { c.cachePath = path }
}

// WithCacheTTL overrides how long a cached entitlement stays usable as a
// fallback.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithVerification enables offline signature verification. Secrets are
// ordered the same way as on the server; any of them may verify.
func WithVerification(secrets ...string) Option {
	return func(c *Client) { c.verifySecrets = secrets }
}

// Client validates one license for one domain and product.
type Client struct {
	apiURL      string
	licenseKey  string
	domain      string
	productSlug string

	httpClient    *http.Client
	cachePath     string
	cacheTTL      time.Duration
	verifySecrets []string
	verifier      *signing.Signer

	mu sync.Mutex
}

// New creates a Client. apiURL is the server base URL without a trailing
// path.
func New(apiURL, licenseKey, domain, productSlug string, opts ...Option) (*Client, error) {
	if apiURL == "" || licenseKey == "" || domain == "" || productSlug == "" {
		return nil, fmt.Errorf("apiURL, licenseKey, domain and productSlug are all required")
	}

	c := &Client{
		apiURL:      apiURL,
		licenseKey:  licenseKey,
		domain:      domain,
		productSlug: productSlug,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		cacheTTL:    defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if len(c.verifySecrets) > 0 {
		verifier, err := signing.New(c.verifySecrets)
		if err != nil {
			return nil, err
		}
		c.verifier = verifier
	}

	if c.cachePath == "" {
		c.cachePath = defaultCachePath(licenseKey, domain, productSlug)
	}

	return c, nil
}

// cachedEntitlement is the on-disk cache format.
type cachedEntitlement struct {
	Entitlement models.EntitlementResponse `json:"entitlement"`
	CachedAt    time.Time                  `json:"cached_at"`
}

// Validate checks the license, cache first.
//
// A fresh cached entitlement answers immediately with no network round trip;
// the server is consulted only once the cache is stale or absent. A decided
// server answer then wins: a valid answer refreshes the cache, an invalid one
// deletes it so the next outage cannot resurrect a dead license. When the
// server gives no decided answer, a still-usable cache serves as a degraded
// fallback.
func (c *Client) Validate(ctx context.Context) (*Result, error) {
	if cached, ok := c.loadCache(); ok && time.Since(cached.CachedAt) <= c.cacheTTL {
		if c.verifier != nil && !c.verifier.VerifyEntitlement(cached.Entitlement) {
			c.deleteCache()
			return nil, ErrBadSignature
		}
		return &Result{Valid: true, Entitlement: &cached.Entitlement, Cached: true}, nil
	}

	body, err := json.Marshal(models.ValidateRequest{
		LicenseKey:  c.licenseKey,
		Domain:      c.domain,
		ProductSlug: c.productSlug,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+validatePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fallback(fmt.Sprintf("license server unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.fallback(fmt.Sprintf("license server returned status %d", resp.StatusCode))
	}

	// Success and failure bodies share the valid flag; only one carries a
	// message, only the other carries entitlement fields.
	var payload struct {
		models.EntitlementResponse
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return c.fallback(fmt.Sprintf("failed to decode server response: %v", err))
	}

	if !payload.Valid {
		// A definitive rejection invalidates whatever was cached; the next
		// outage must not resurrect a dead license.
		c.deleteCache()

		return &Result{Valid: false, Message: payload.Message}, nil
	}
	entitlement := payload.EntitlementResponse

	if c.verifier != nil && !c.verifier.VerifyEntitlement(entitlement) {
		c.deleteCache()
		return nil, ErrBadSignature
	}

	c.saveCache(&entitlement)

	return &Result{Valid: true, Entitlement: &entitlement}, nil
}

// IsValid reports whether the license currently validates, via server or
// fallback.
func (c *Client) IsValid(ctx context.Context) (bool, error) {
	result, err := c.Validate(ctx)
	if err != nil {
		return false, err
	}
	return result.Valid, nil
}

// HasFeature reports whether the entitled feature set contains name.
func (c *Client) HasFeature(ctx context.Context, name string) (bool, error) {
	result, err := c.Validate(ctx)
	if err != nil {
		return false, err
	}
	if !result.Valid || result.Entitlement == nil {
		return false, nil
	}
	for _, f := range result.Entitlement.Features {
		if f == name {
			return true, nil
		}
	}
	return false, nil
}

// ExpiryDate returns the entitlement end date, or nil for unlimited licenses.
func (c *Client) ExpiryDate(ctx context.Context) (*time.Time, error) {
	result, err := c.Validate(ctx)
	if err != nil {
		return nil, err
	}
	if !result.Valid || result.Entitlement == nil || result.Entitlement.ExpiresAt == nil {
		return nil, nil
	}

	ts, err := utils.ParseDBDate(*result.Entitlement.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("malformed expiry date in entitlement: %w", err)
	}
	return &ts, nil
}

// IsExpired reports whether the entitlement end date has passed. Unlimited
// licenses never expire.
func (c *Client) IsExpired(ctx context.Context) (bool, error) {
	expiry, err := c.ExpiryDate(ctx)
	if err != nil {
		return false, err
	}
	if expiry == nil {
		return false, nil
	}
	return expiry.Before(time.Now()), nil
}

// ClearCache removes the on-disk entitlement cache.
func (c *Client) ClearCache() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.cachePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// fallback serves the cached entitlement when the server gave no decided
// answer. A missing or stale cache is a hard error: the caller cannot tell a
// valid license from an invalid one.
func (c *Client) fallback(reason string) (*Result, error) {
	cached, ok := c.loadCache()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrServerUnreachable, reason)
	}

	if time.Since(cached.CachedAt) > c.cacheTTL {
		return nil, fmt.Errorf("%w: cached entitlement expired (%s)", ErrServerUnreachable, reason)
	}

	if c.verifier != nil && !c.verifier.VerifyEntitlement(cached.Entitlement) {
		c.deleteCache()
		return nil, ErrBadSignature
	}

	return &Result{
		Valid:       true,
		Entitlement: &cached.Entitlement,
		Cached:      true,
		Warning:     reason,
	}, nil
}

func (c *Client) loadCache() (*cachedEntitlement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return nil, false
	}

	var cached cachedEntitlement
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	return &cached, true
}

func (c *Client) saveCache(entitlement *models.EntitlementResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(cachedEntitlement{
		Entitlement: *entitlement,
		CachedAt:    time.Now().UTC(),
	})
	if err != nil {
		return
	}

	// Cache write failures are non-fatal; the next successful validation
	// retries.
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0755); err != nil {
		return
	}
	os.WriteFile(c.cachePath, data, 0600)
}

func (c *Client) deleteCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	os.Remove(c.cachePath)
}

// defaultCachePath derives a stable per-license cache location under the user
// cache directory, falling back to the system temp dir.
func defaultCachePath(licenseKey, domain, productSlug string) string {
	sum := sha256.Sum256([]byte(licenseKey + "|" + domain + "|" + productSlug))
	name := hex.EncodeToString(sum[:8]) + ".json"

	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "licenseclient", name)
}
