// Package wikivenue resolves venue names against an encyclopedia mirror and
// extracts ground facts from the article infobox. Lookups are memoized per
// run; most leagues reuse a dozen grounds across a whole season.
package wikivenue

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/fasthttp"

	"github.com/statloom/statloom/internal/domain/address"
	"github.com/statloom/statloom/internal/domain/opt"
	"github.com/statloom/statloom/internal/domain/venue"
	"github.com/statloom/statloom/internal/platform/cache"
	"github.com/statloom/statloom/internal/platform/logging"
	"github.com/statloom/statloom/internal/platform/resilience"
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	baseURL        string
	timeout        time.Duration
	store          *cache.Store
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	httpClient     *fasthttp.Client
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		timeout:        timeout,
		store:          cache.NewStore(ttl),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

// Lookup fetches the article for a venue name and parses its infobox into a
// candidate record. A missing article returns (nil, nil); the venue merger
// treats that as the encyclopedia having nothing to add.
func (c *Client) Lookup(ctx context.Context, name string) (*venue.Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	out, err := c.store.GetOrLoad(ctx, strings.ToLower(name), func(ctx context.Context) (any, error) {
		return c.fetch(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	found, ok := out.(*venue.Venue)
	if !ok {
		return nil, nil
	}
	return found, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*venue.Venue, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return nil, fmt.Errorf("venue encyclopedia temporarily unavailable: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slug := strings.ReplaceAll(name, " ", "_")
	fullURL := c.baseURL + "/wiki/" + slug

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "text/html")

	err := c.httpClient.DoTimeout(req, resp, c.timeout)
	if c.circuitEnabled {
		if err != nil || resp.StatusCode() >= 500 {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("fetch venue article: %w", err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		c.logger.InfoContext(ctx, "no encyclopedia article for venue", "venue", name)
		return nil, nil
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("venue article status=%d", status)
	}

	parsed, err := parseArticle(name, resp.Body())
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

// parseArticle pulls the infobox rows out of article HTML. Row labels vary
// across articles, so matching is case-insensitive on a few known aliases.
func parseArticle(name string, body []byte) (*venue.Venue, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse venue article: %w", err)
	}

	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return nil, nil
	}

	found := &venue.Venue{
		ID:   strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_")),
		Name: opt.String(strings.TrimSpace(name)),
	}
	addr := &address.Address{}

	infobox.Find("tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(row.Find("th").First().Text()))
		value := strings.TrimSpace(row.Find("td").First().Text())
		if label == "" || value == "" {
			return
		}
		switch {
		case label == "surface":
			lowered := strings.ToLower(value)
			found.IsGrass = opt.Of(strings.Contains(lowered, "grass") || strings.Contains(lowered, "turf"))
		case label == "roof" || label == "roof type":
			lowered := strings.ToLower(value)
			found.IsIndoor = opt.Of(!strings.Contains(lowered, "open") && !strings.Contains(lowered, "none"))
		case label == "city" || label == "location":
			city, state := splitLocality(value)
			addr.City = city
			addr.State = state
		case label == "coordinates":
			lat, lon, ok := parseCoordinates(value)
			if ok {
				addr.Latitude = opt.Float(lat)
				addr.Longitude = opt.Float(lon)
			}
		case label == "elevation":
			if metres, ok := parseLeadingNumber(value); ok {
				addr.Altitude = opt.Float(metres)
			}
		}
	})

	if addr.City != "" || !addr.Latitude.Null() || !addr.Altitude.Null() {
		found.Address = addr
	}
	return found, nil
}

func splitLocality(value string) (city, state string) {
	parts := strings.Split(value, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}

// parseCoordinates handles the decimal "-37.820; 144.983" geo span most
// mirror articles carry. DMS-only articles are skipped.
func parseCoordinates(value string) (lat, lon float64, ok bool) {
	for _, sep := range []string{";", ","} {
		parts := strings.Split(value, sep)
		if len(parts) != 2 {
			continue
		}
		latParsed, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lonParsed, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat == nil && errLon == nil {
			return latParsed, lonParsed, true
		}
	}
	return 0, 0, false
}

func parseLeadingNumber(value string) (float64, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
