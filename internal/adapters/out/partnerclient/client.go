// Package partnerclient fetches raw delivery lists from partner HTTP endpoints.
//
// Every partner exposes a POST endpoint answering with a JSON array of delivery
// objects. The client sends one request per Fetch and never retries.
package partnerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/model/partner"
	"deliveryingest/internal/core/ports"
)

const (
	// DefaultTimeout applies when Config.Timeout is not positive.
	DefaultTimeout = 5 * time.Second

	// DefaultUserAgent identifies the service to partners.
	DefaultUserAgent = "deliveryingest/1.0"

	maxBodyBytes = 32 << 20
)

// Config describes the partner endpoints, fixed for the process lifetime.
type Config struct {
	// Endpoints maps each partner source to its absolute http(s) URL
	Endpoints map[kernel.SourceID]string
	Timeout   time.Duration
	UserAgent string

	// Transport overrides the HTTP transport; nil clones http.DefaultTransport per call
	Transport http.RoundTripper
}

// Client implements ports.PartnerDeliveryFetcher over HTTP.
type Client struct {
	endpoints map[kernel.SourceID]string
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
	logger    *slog.Logger
}

var _ ports.PartnerDeliveryFetcher = (*Client)(nil)

// NewClient validates every endpoint URL and builds the client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	endpoints := make(map[kernel.SourceID]string, len(cfg.Endpoints))
	var errs []error
	for source, raw := range cfg.Endpoints {
		if err := source.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		endpoint, err := parseEndpoint(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("endpoint of %s: %w", source, err))
			continue
		}
		endpoints[source] = endpoint
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		endpoints: endpoints,
		timeout:   timeout,
		userAgent: userAgent,
		transport: cfg.Transport,
		logger:    logger.With("component", "partner_client"),
	}, nil
}

func parseEndpoint(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%q has no host", raw)
	}
	return u.String(), nil
}

// Fetch posts to the endpoint of source and decodes the returned JSON array.
//
// Failures are *partner.FetchError:
//   - "unknown source" when source has no endpoint
//   - "transport error" for timeouts, refused connections and cancellation (the cause is wrapped)
//   - "HTTP <code> <text>" for non-2xx responses
//   - "decode error" when the body is not a JSON array of objects
func (c *Client) Fetch(ctx context.Context, source kernel.SourceID) (partner.RawBatch, error) {
	endpoint, ok := c.endpoints[source]
	if !ok {
		return partner.RawBatch{}, partner.NewFetchError(source, "unknown source")
	}

	client := c.newHTTPClient()
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return partner.RawBatch{}, partner.NewFetchErrorWithCause(source, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return partner.RawBatch{}, partner.NewFetchErrorWithCause(source, "transport error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return partner.RawBatch{}, partner.NewFetchError(
			source,
			fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return partner.RawBatch{}, partner.NewFetchErrorWithCause(source, "transport error", err)
	}
	if len(body) > maxBodyBytes {
		return partner.RawBatch{}, partner.NewFetchError(source, "decode error: body too large")
	}

	records, err := decodeRecords(body)
	if err != nil {
		return partner.RawBatch{}, partner.NewFetchErrorWithCause(source, "decode error", err)
	}

	c.logger.InfoContext(ctx, "Partner responded",
		"source", source.String(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"records", len(records))

	return partner.NewRawBatch(source, records), nil
}

func (c *Client) newHTTPClient() *http.Client {
	transport := c.transport
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &http.Client{Timeout: c.timeout, Transport: transport}
}

func decodeRecords(body []byte) ([]partner.RawRecord, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		return nil, errors.New("expected a JSON array")
	}
	var records []partner.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	return records, nil
}
