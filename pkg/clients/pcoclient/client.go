package pcoclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.planningcenteronline.com"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "church-check-in"
)

var tracer = otel.Tracer("clients/pcoclient")

// Options configures a Client. Either AccessToken (OAuth) or AppID and Secret
// (personal access token) must be set.
type Options struct {
	BaseURL           string
	AppID             string
	Secret            string
	AccessToken       string
	RequestsPerSecond float64 // 0 disables client side limiting
	Timeout           time.Duration
	UserAgent         string
}

// Client wraps the Planning Center JSON:API (Services and Check-Ins products)
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// APIError is returned when the API responds with a non-2xx status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// NewClient creates an API client. With an access token requests are authorised through an
// oauth2 token source, otherwise with HTTP basic auth.
func NewClient(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	var httpClient *resty.Client
	switch {
	case opts.AccessToken != "":
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.AccessToken,
			TokenType:   "Bearer",
		})
		httpClient = resty.NewWithClient(oauth2.NewClient(ctx, tokenSource))
	case opts.AppID != "" && opts.Secret != "":
		httpClient = resty.New()
		httpClient.SetBasicAuth(opts.AppID, opts.Secret)
	default:
		return nil, errors.New("no planning center credentials: set an access token or app id and secret")
	}

	httpClient.SetBaseURL(opts.BaseURL)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("accept", "application/json")

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	httpClient.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.Debug("Planning Center response",
			zap.String("method", res.Request.Method),
			zap.String("url", res.Request.URL),
			zap.Int("status", res.StatusCode()),
			zap.Duration("duration", res.Time()))
		return nil
	})

	return &Client{http: httpClient, logger: logger}, nil
}

// getDocument fetches a single JSON:API document
func (c *Client) getDocument(ctx context.Context, path string, query map[string]string) (*document, error) {
	ctx, span := tracer.Start(ctx, "pco:get")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if res.IsError() {
		apiErr := &APIError{
			Method:     "GET",
			Path:       path,
			StatusCode: res.StatusCode(),
			Body:       truncate(res.String(), 200),
		}
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, res.Status())
		return nil, apiErr
	}

	var doc document
	if err := json.Unmarshal(res.Body(), &doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode response")
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return &doc, nil
}

// listAll fetches every page of a collection by following the next links
func (c *Client) listAll(ctx context.Context, path string, query map[string]string) ([]resource, error) {
	var all []resource

	next := path
	for page := 1; next != ""; page++ {
		doc, err := c.getDocument(ctx, next, query)
		if err != nil {
			return nil, err
		}
		all = append(all, doc.Data...)

		c.logger.Debug("Fetched page",
			zap.String("path", path),
			zap.Int("page", page),
			zap.Int("count", len(doc.Data)))

		// the next link carries the full query
		next = doc.Links.Next
		query = nil
	}

	return all, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
