// Package tychttp performs the authenticated HTTP round trip against the
// Tianyancha open API. It owns transport concerns only: URL construction,
// credential injection, timeout classification, and the bounded retry budget.
// Envelope interpretation happens upstream in the usecase package.
package tychttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
)

// DefaultBaseURL is the provider's public endpoint root.
const DefaultBaseURL = "http://open.api.tianyancha.com"

const (
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond

	// 5xx responses get a single retry; the provider almost never recovers
	// a server error within one backoff window, so a longer budget only
	// burns the caller's time.
	serverErrorRetryBudget = 1

	errorBodyLimit = 4 << 10
)

// Config tunes the dispatcher. Zero values fall back to defaults.
type Config struct {
	BaseURL    string
	MaxRetries int
	Backoff    time.Duration
}

// Dispatcher implements usecase.Dispatcher using standard net/http.
// The HTTP client is shared across concurrent invocations; net/http clients
// are safe for concurrent use, so no per-call client is needed.
type Dispatcher struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// New creates a Dispatcher. A nil client falls back to http.DefaultClient;
// the caller is expected to pass a client with a bounded timeout.
func New(client *http.Client, cfg Config, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Backoff == 0 {
		cfg.Backoff = defaultBackoff
	}
	return &Dispatcher{
		client:     client,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		logger:     logger.With("component", "tychttp_dispatcher"),
	}
}

// Dispatch executes one GET against the endpoint with the resolved query and
// the credential in the Authorization header (the provider takes the raw
// token, no scheme prefix). Network-level failures are retried up to the
// budget with a fixed short backoff; these are idempotent side-effect-free
// GETs, so retries carry no correctness risk. A successfully received
// response that encodes a business error is never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, endpoint domain.EndpointDescriptor, query url.Values, credential string) ([]byte, error) {
	requestURL := d.baseURL + endpoint.Path
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}
	log := d.logger.With(slog.String("endpoint", endpoint.Name), slog.String("path", endpoint.Path))

	var netRetries, serverRetries int
	for {
		body, failure := d.attempt(ctx, requestURL, credential, log)
		if failure == nil {
			return body, nil
		}

		switch failure.Kind {
		case domain.FailureUpstreamServerError:
			if serverRetries >= serverErrorRetryBudget {
				return nil, failure
			}
			serverRetries++
		case domain.FailureTimeout, domain.FailureNetworkError:
			if netRetries >= d.maxRetries {
				return nil, failure
			}
			netRetries++
		default:
			return nil, failure
		}

		log.Warn("Retrying after transient failure",
			slog.String("kind", string(failure.Kind)),
			slog.Int("net_retries", netRetries),
			slog.Int("server_retries", serverRetries))

		select {
		case <-ctx.Done():
			return nil, classifyContextErr(ctx.Err())
		case <-time.After(d.backoff):
		}
	}
}

func (d *Dispatcher) attempt(ctx context.Context, requestURL, credential string, log *slog.Logger) ([]byte, *domain.Failure) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureNetworkError, "failed to build request: %v", err)
	}
	req.Header.Set("Authorization", credential)

	resp, err := d.client.Do(req)
	if err != nil {
		failure := classifyTransportErr(ctx, err)
		log.Debug("Transport attempt failed", slog.String("kind", string(failure.Kind)), slog.Any("error", err))
		return nil, failure
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFailure(domain.FailureNetworkError, "failed to read response body: %v", err)
	}

	log.Debug("Received HTTP response", slog.Int("status_code", resp.StatusCode), slog.Int("body_bytes", len(body)))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewFailure(domain.FailureAuthenticationFailed,
			"the provider rejected the API token (HTTP %d); check that the configured token is valid", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.NewFailure(domain.FailureRateLimited,
			"the provider is throttling requests (HTTP %d); slow down and retry later", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, domain.NewFailure(domain.FailureUpstreamServerError,
			"the provider returned HTTP %d: %s", resp.StatusCode, truncate(body))
	default:
		return nil, domain.NewFailure(domain.FailureProtocolError,
			"unexpected HTTP %d from provider: %s", resp.StatusCode, truncate(body))
	}
}

func classifyTransportErr(ctx context.Context, err error) *domain.Failure {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return domain.NewFailure(domain.FailureCancelled, "request cancelled by caller")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewFailure(domain.FailureTimeout, "request to provider timed out")
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return domain.NewFailure(domain.FailureTimeout, "request to provider timed out")
	}
	return domain.NewFailure(domain.FailureNetworkError, "request to provider failed: %v", err)
}

func classifyContextErr(err error) *domain.Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewFailure(domain.FailureTimeout, "request to provider timed out")
	}
	return domain.NewFailure(domain.FailureCancelled, "request cancelled by caller")
}

func truncate(body []byte) string {
	if len(body) > errorBodyLimit {
		return fmt.Sprintf("%s... (%d bytes)", body[:errorBodyLimit], len(body))
	}
	return string(body)
}
