// Package jhora is the client for the external JHora calculation provider.
package jhora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/astrovault/natalcore/internal/domain"
	"github.com/astrovault/natalcore/internal/observability/metrics"
	"github.com/astrovault/natalcore/internal/reliability/circuitbreaker"
)

// Client calls the provider's /calculate endpoint. One request, one
// bounded timeout, at most one JSON repair attempt; never retries.
type Client struct {
	httpClient *http.Client
	defaultURL string
	breaker    *circuitbreaker.Breaker
	logger     *slog.Logger
}

// NewClient builds a provider client. defaultURL is used when a workspace
// config does not carry its own endpoint.
func NewClient(defaultURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 3 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		defaultURL: defaultURL,
		breaker:    circuitbreaker.New(5, 2, 30*time.Second),
		logger:     logger,
	}
}

// Fetch posts the birth parameters and returns the parsed raw artifact.
func (c *Client) Fetch(ctx context.Context, details domain.BirthDetails, cfg *domain.ProviderConfig) (*domain.RawArtifact, error) {
	apiURL := c.defaultURL
	if cfg != nil && cfg.APIURL != "" {
		apiURL = cfg.APIURL
	}
	if apiURL == "" {
		return nil, domain.ErrNotConfigured
	}

	if !c.breaker.Allow() {
		return nil, fmt.Errorf("%w: circuit open", domain.ErrProviderUnavailable)
	}

	start := time.Now()
	artifact, err := c.fetch(ctx, apiURL, details)
	if err != nil {
		c.breaker.RecordFailure()
		metrics.ObserveProviderCall("error", time.Since(start))
		return nil, err
	}
	c.breaker.RecordSuccess()
	metrics.ObserveProviderCall("ok", time.Since(start))
	return artifact, nil
}

func (c *Client) fetch(ctx context.Context, apiURL string, details domain.BirthDetails) (*domain.RawArtifact, error) {
	body, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode birth details: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/calculate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("calling calculation provider",
		slog.String("url", apiURL),
		slog.String("date", details.Date),
		slog.String("time", details.Time),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrMalformedResponse)
	}

	return parseArtifact(payload, c.logger)
}

// parseArtifact decodes the payload, falling back to one brace-matched
// repair pass when the body is not valid JSON.
func parseArtifact(payload []byte, logger *slog.Logger) (*domain.RawArtifact, error) {
	var artifact domain.RawArtifact
	if err := json.Unmarshal(payload, &artifact); err == nil {
		return &artifact, nil
	}

	logger.Warn("provider payload unparsable, attempting repair")
	repaired, err := repairJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(repaired, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &artifact, nil
}
