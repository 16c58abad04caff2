// Package oddsfeed backfills bookmaker quotes for games whose stats sources
// carried no market data. It is a best-effort enrichment source; the merge
// layer treats its failures as a missing contribution, never as fatal.
package oddsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/team"
	"github.com/statloom/statloom/internal/platform/logging"
	"github.com/statloom/statloom/internal/platform/resilience"
)

var errTransient = crerr.New("odds feed transient failure")

type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	HTTPClient     *http.Client
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	baseURL        string
	apiKey         string
	maxRetries     int
	retryBackoff   time.Duration
	httpClient     *http.Client
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     max(cfg.MaxRetries, 0),
		retryBackoff:   backoff,
		httpClient:     httpClient,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type quoteDTO struct {
	Bookmaker string   `json:"bookmaker"`
	Price     *float64 `json:"price,omitempty"`
	Line      *float64 `json:"line,omitempty"`
	FetchedAt string   `json:"fetched_at"`
}

type quotesEnvelope struct {
	Quotes []quoteDTO `json:"quotes"`
}

// FetchOdds returns every quote the book exposes for one team on one event
// date. An empty slice with a nil error means the market simply was not
// offered.
func (c *Client) FetchOdds(ctx context.Context, date time.Time, teamID string) ([]team.OddsQuote, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return nil, fmt.Errorf("odds feed temporarily unavailable: %w", err)
		}
	}

	values := url.Values{}
	values.Set("date", date.Format("2006-01-02"))
	values.Set("team", teamID)
	if c.apiKey != "" {
		values.Set("apikey", c.apiKey)
	}
	fullURL := c.baseURL + "/v2/quotes?" + values.Encode()

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var envelope quotesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode odds payload: %w", err)
	}

	quotes := make([]team.OddsQuote, 0, len(envelope.Quotes))
	for _, dto := range envelope.Quotes {
		if dto.Bookmaker == "" {
			c.logger.WarnContext(ctx, "dropping odds quote without bookmaker", "team", teamID)
			continue
		}
		fetchedAt, parseErr := time.Parse(time.RFC3339, dto.FetchedAt)
		if parseErr != nil {
			fetchedAt = time.Time{}
		}
		quotes = append(quotes, team.OddsQuote{
			Bookmaker: dto.Bookmaker,
			Price:     opt.FloatPtr(dto.Price),
			Line:      opt.FloatPtr(dto.Line),
			FetchedAt: fetchedAt,
		})
	}
	return quotes, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				// No market for this team/date.
				return []byte(`{"quotes":[]}`), nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: odds status=%d", errTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("odds status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.retryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("odds feed request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
