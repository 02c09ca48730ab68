// Package npm implements the registry port against npm-compatible registries
// (registry.npmjs.org, Verdaccio, GitHub Packages, Artifactory).
package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
	"github.com/rios0rios0/rangebump/internal/domain/repositories"
)

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = 500 * time.Millisecond
	breakerThreshold     = 5
	userAgent            = "rangebump"
	acceptFullDocument   = "application/json"
	maxErrorBodyBytes    = 1024
)

var (
	// ErrRegistryUnavailable is returned while the circuit breaker of a registry host is open.
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrMalformedDocument is returned when the registry answers with an undecodable body.
	ErrMalformedDocument = errors.New("malformed registry document")
)

// RegistryRepository fetches full package documents over HTTP with retries and
// a circuit breaker per registry host.
type RegistryRepository struct {
	baseURL       string
	token         string
	client        *http.Client
	maxRetries    uint64
	retryInterval time.Duration

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

var _ repositories.RegistryRepository = (*RegistryRepository)(nil)

// Option configures a RegistryRepository.
type Option func(*RegistryRepository)

// WithHTTPClient replaces the DNS-caching default client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *RegistryRepository) {
		r.client = client
	}
}

// WithToken sends the token as a bearer credential.
func WithToken(token string) Option {
	return func(r *RegistryRepository) {
		r.token = token
	}
}

// WithMaxRetries bounds retries of 429/5xx and transport failures.
func WithMaxRetries(n uint64) Option {
	return func(r *RegistryRepository) {
		r.maxRetries = n
	}
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(r *RegistryRepository) {
		r.retryInterval = d
	}
}

// NewRegistryRepository creates a client for the registry at baseURL.
func NewRegistryRepository(baseURL string, opts ...Option) *RegistryRepository {
	if baseURL == "" {
		baseURL = entities.DefaultRegistryURL
	}
	r := &RegistryRepository{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
		breakers:      make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = NewHTTPClient()
	}
	return r
}

// FetchMetadata downloads and parses the document of one package.
func (it *RegistryRepository) FetchMetadata(ctx context.Context, name string) (*entities.PackageMetadata, error) {
	docURL := it.packageURL(name)
	breaker := it.breakerFor(docURL)
	if !breaker.Ready() {
		return nil, &entities.FetchError{
			Name: name,
			Err:  fmt.Errorf("%w: circuit open for %s", ErrRegistryUnavailable, hostOf(docURL)),
		}
	}

	var doc packument
	var clientErr error
	err := breaker.Call(func() error {
		fetchErr := it.fetchWithRetry(ctx, docURL, &doc)
		var httpErr *entities.HTTPError
		if errors.As(fetchErr, &httpErr) && !httpErr.Retryable() {
			// the registry answered; only outages count against the breaker
			clientErr = fetchErr
			return nil
		}
		return fetchErr
	}, 0)
	if err == nil {
		err = clientErr
	}
	if err != nil {
		return nil, &entities.FetchError{Name: name, Err: err}
	}

	logger.Debugf("[npm] fetched %s (%d versions)", name, len(doc.Versions))
	return doc.toMetadata(name), nil
}

func (it *RegistryRepository) fetchWithRetry(ctx context.Context, docURL string, doc *packument) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = it.retryInterval
	policy.MaxElapsedTime = 0
	retrying := backoff.WithContext(backoff.WithMaxRetries(policy, it.maxRetries), ctx)

	return backoff.Retry(func() error {
		err := it.fetchOnce(ctx, docURL, doc)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		var httpErr *entities.HTTPError
		if errors.As(err, &httpErr) && !httpErr.Retryable() {
			return backoff.Permanent(err)
		}
		if errors.Is(err, ErrMalformedDocument) {
			return backoff.Permanent(err)
		}
		logger.Debugf("[npm] retrying %s: %v", docURL, err)
		return err
	}, retrying)
}

func (it *RegistryRepository) fetchOnce(ctx context.Context, docURL string, doc *packument) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptFullDocument)
	req.Header.Set("User-Agent", userAgent)
	if it.token != "" {
		req.Header.Set("Authorization", "Bearer "+it.token)
	}

	resp, err := it.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &entities.HTTPError{StatusCode: resp.StatusCode, URL: docURL}
	}

	*doc = packument{}
	if err = json.NewDecoder(resp.Body).Decode(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return nil
}

// packageURL escapes the slash of scoped names as the registry expects (@scope%2Fname).
func (it *RegistryRepository) packageURL(name string) string {
	return it.baseURL + "/" + url.PathEscape(name)
}

func (it *RegistryRepository) breakerFor(rawURL string) *circuit.Breaker {
	host := hostOf(rawURL)

	it.mu.Lock()
	defer it.mu.Unlock()

	if breaker, ok := it.breakers[host]; ok {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Reset()

	breaker := circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(breakerThreshold),
	})
	it.breakers[host] = breaker
	return breaker
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
