package torn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"tornflow/config"
	"tornflow/logger"

	"github.com/google/uuid"
)

// Client is the rate-limited Torn API client. One instance is shared by all
// concurrent commands; the quota state and the session handle are owned here
// and live for the process lifetime.
type Client struct {
	cfg     *config.Config
	limiter *Limiter
	log     *logger.Log

	mu   sync.Mutex
	http *http.Client
}

// New creates a client from the loaded configuration. The network session is
// created lazily on the first request.
func New(cfg *config.Config) *Client {
	log := logger.GetLogger()

	client := &Client{
		cfg:     cfg,
		limiter: NewLimiter(cfg.API.RateLimit, cfg.API.RateWindow),
		log:     log,
	}

	log.WithComponent("torn_client").WithFields(logger.Fields{
		"base_url":    cfg.API.BaseURL,
		"rate_limit":  cfg.API.RateLimit,
		"rate_window": cfg.API.RateWindow.String(),
		"timeout":     cfg.API.Timeout.String(),
		"has_key":     cfg.API.Key != "",
	}).Info("torn client initialized")

	return client
}

// session returns the shared HTTP handle, creating it when none exists or
// the previous one was closed. Concurrent callers converge on one handle.
func (c *Client) session() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http == nil {
		c.http = &http.Client{
			Transport: userAgentTransport{
				agent: c.cfg.API.UserAgent,
				base:  newTransport(c.cfg.API.ConnectionPool),
			},
			Timeout: c.cfg.API.Timeout,
		}
		c.log.WithComponent("torn_client").Debug("created API session")
	}
	return c.http
}

// Close releases the session handle. Calling it again is a no-op; a later
// request creates a fresh handle. Callers must not close while requests are
// in flight.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.http == nil {
		return
	}
	c.http.CloseIdleConnections()
	c.http = nil
	c.log.WithComponent("torn_client").Info("closed API session")
}

// request performs one rate-limited API call and classifies the outcome.
// Every failure is logged exactly once here and returned as a typed error;
// nothing panics across this boundary. The API key is injected exactly once
// and never appears in logs or error text.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values) (map[string]any, error) {
	log := c.log.WithComponent("torn_client").WithFields(logger.Fields{
		"endpoint":   endpoint,
		"request_id": uuid.NewString(),
	})

	if c.cfg.API.Key == "" {
		logger.RecordFailure()
		log.WithError(ErrNoAPIKey).Error("request rejected")
		return nil, ErrNoAPIKey
	}

	waitStart := time.Now()
	if err := c.limiter.Acquire(ctx); err != nil {
		logger.RecordFailure()
		log.WithError(err).Error("abandoned while waiting for rate limit")
		return nil, &TransportError{Endpoint: endpoint, Timeout: errors.Is(err, context.DeadlineExceeded), Err: err}
	}
	if wait := time.Since(waitStart); wait > 100*time.Millisecond {
		logger.RecordRateLimitWait(wait)
		log.WithFields(logger.Fields{"wait_ms": wait.Milliseconds()}).Debug("throttled by rate limit")
	}

	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("key", c.cfg.API.Key)

	requestURL := fmt.Sprintf("%s/%s?%s", c.cfg.API.BaseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		logger.RecordFailure()
		terr := &TransportError{Endpoint: endpoint, Err: unwrapDial(err)}
		log.WithError(terr.Err).Error("failed to build request")
		return nil, terr
	}

	start := time.Now()
	resp, err := c.session().Do(req)
	if err != nil {
		logger.RecordFailure()
		terr := &TransportError{Endpoint: endpoint, Timeout: isTimeout(err), Err: unwrapDial(err)}
		if terr.Timeout {
			log.Error("timeout for API request")
		} else {
			log.WithError(terr.Err).Error("error making API request")
		}
		return nil, terr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		logger.RecordFailure()
		perr := &ProtocolError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		log.WithFields(logger.Fields{"status": resp.StatusCode}).Error("HTTP error")
		return nil, perr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.RecordFailure()
		log.WithError(err).Error("failed to read response body")
		return nil, &TransportError{Endpoint: endpoint, Timeout: isTimeout(err), Err: err}
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.RecordFailure()
		log.WithError(err).Error("malformed API response")
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	// The provider reports failures inside a 200 response.
	if detail, ok := payload["error"]; ok {
		logger.RecordFailure()
		lerr := parseLogicalError(endpoint, detail)
		log.WithFields(logger.Fields{"code": lerr.Code, "detail": lerr.Message}).Error("API error")
		return nil, lerr
	}

	logger.RecordRequest()
	log.WithFields(logger.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"body_bytes":  len(body),
	}).Debug("API request completed")

	return payload, nil
}

// isTimeout reports whether a dispatch error was caused by the per-request
// timeout (client timeout or context deadline).
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// unwrapDial strips the *url.Error wrapper, whose message embeds the full
// request URL including the key.
func unwrapDial(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err
	}
	return err
}

// parseLogicalError extracts the provider error code and message from the
// "error" object of a payload. The shape is {"error": {"code": n, "error": s}}.
func parseLogicalError(endpoint string, detail any) *LogicalError {
	lerr := &LogicalError{Endpoint: endpoint}
	m, ok := detail.(map[string]any)
	if !ok {
		lerr.Message = fmt.Sprintf("%v", detail)
		return lerr
	}
	if code, ok := m["code"].(float64); ok {
		lerr.Code = int(code)
	}
	if msg, ok := m["error"].(string); ok {
		lerr.Message = msg
	}
	return lerr
}
