package wiki

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kapu/copichat-persona-go/internal/constants"
	"github.com/kapu/copichat-persona-go/pkg/errors"
	"go.uber.org/zap"
)

// Requester abstracts the MediaWiki Action API transport so services can be
// tested against canned payloads.
type Requester interface {
	DoRequest(ctx context.Context, params url.Values) ([]byte, error)
}

// APIClient is a keyless MediaWiki Action API client with retry, backoff and
// a failure-count circuit breaker.
type APIClient struct {
	httpClient       *http.Client
	baseURL          string
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewAPIClient(httpClient *http.Client, baseURL string, logger *zap.Logger) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.WikiConfig.Timeout}
	}
	return &APIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// DoRequest performs a GET against the Action API. format/formatversion are
// forced so every caller decodes the same JSON shape.
func (c *APIClient) DoRequest(ctx context.Context, params url.Values) ([]byte, error) {
	if c.IsCircuitOpen() {
		c.circuitMu.RLock()
		var remainingMs int64
		if c.circuitOpenUntil != nil {
			remainingMs = time.Until(*c.circuitOpenUntil).Milliseconds()
		}
		c.circuitMu.RUnlock()

		c.logger.Warn("Wiki circuit breaker is open", zap.Int64("retry_after_ms", remainingMs))
		return nil, errors.NewAPIError("Circuit breaker open", 503, map[string]any{
			"retry_after_ms": remainingMs,
		})
	}

	params.Set("format", "json")
	params.Set("formatversion", "2")
	reqURL := c.baseURL + "?" + params.Encode()

	var lastErr error

	for attempt := 0; attempt < constants.RetryConfig.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("User-Agent", constants.WikiConfig.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			count := c.incrementFailureCount()

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				c.openCircuit()
				break
			}

			if attempt < constants.RetryConfig.MaxAttempts-1 {
				delay := c.computeDelay(attempt)
				c.logger.Warn("Wiki request failed, retrying",
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 || resp.StatusCode == 429 {
			count := c.incrementFailureCount()
			c.logger.Warn("Wiki server error",
				zap.Int("status", resp.StatusCode),
				zap.Int("failure_count", count),
			)

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				c.openCircuit()
				break
			}

			if attempt < constants.RetryConfig.MaxAttempts-1 {
				time.Sleep(c.computeDelay(attempt))
				continue
			}

			return nil, errors.NewAPIError(fmt.Sprintf("Server error: %d", resp.StatusCode), resp.StatusCode, nil)
		}

		if resp.StatusCode >= 400 {
			return nil, errors.NewAPIError(fmt.Sprintf("Client error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"url": reqURL,
			})
		}

		c.resetCircuit()
		return body, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return nil, fmt.Errorf("wiki request failed")
}

func (c *APIClient) IsCircuitOpen() bool {
	c.circuitMu.RLock()
	defer c.circuitMu.RUnlock()

	if c.circuitOpenUntil == nil {
		return false
	}

	return time.Now().Before(*c.circuitOpenUntil)
}

func (c *APIClient) openCircuit() {
	c.circuitMu.Lock()
	defer c.circuitMu.Unlock()

	resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
	c.circuitOpenUntil = &resetTime
	c.failureCount = 0

	c.logger.Error("Wiki circuit breaker opened",
		zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
	)
}

func (c *APIClient) resetCircuit() {
	c.circuitMu.Lock()
	defer c.circuitMu.Unlock()

	c.failureCount = 0
	c.circuitOpenUntil = nil
}

func (c *APIClient) incrementFailureCount() int {
	c.failureMu.Lock()
	defer c.failureMu.Unlock()

	c.failureCount++
	return c.failureCount
}

func (c *APIClient) computeDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	return base + jitter
}
