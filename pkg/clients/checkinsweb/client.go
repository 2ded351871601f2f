package checkinsweb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	DefaultLoginURL = "https://accounts.planningcenteronline.com/login"
	DefaultBaseURL  = "https://check-ins.planningcenteronline.com"
	// The check-ins web app rejects requests without a browser user agent
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/67.0.3396.99 Safari/537.36"
	defaultTimeout = 30 * time.Second
)

var tracer = otel.Tracer("clients/checkinsweb")

// ErrCSRFTokenNotFound is returned when the login page has no csrf-token meta tag
var ErrCSRFTokenNotFound = errors.New("csrf token not found on login page")

// Options configures a Client
type Options struct {
	LoginURL  string
	BaseURL   string
	Email     string
	Password  string
	UserAgent string
	Timeout   time.Duration
}

// Client logs in to the Check-Ins web app. The public API has no endpoint for creating
// check-ins, so they are posted through the same form the web app uses.
type Client struct {
	opts   Options
	logger *zap.Logger
}

// StatusError is returned when the web app responds with an unexpected status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// NewClient creates a Client for the given account
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if opts.Email == "" || opts.Password == "" {
		return nil, errors.New("check-ins login requires an email and password")
	}
	if opts.LoginURL == "" {
		opts.LoginURL = DefaultLoginURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Client{opts: opts, logger: logger}, nil
}

// Login opens a new web session: it loads the login page for a csrf token, then posts the
// account credentials with it. The returned Session carries its own cookies and token.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "checkinsweb:Login")
	defer span.End()

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	httpClient.SetCookieJar(jar)
	httpClient.SetHeader("user-agent", c.opts.UserAgent)
	httpClient.SetTimeout(c.opts.Timeout)

	c.logger.Debug("Fetching login page", zap.String("url", c.opts.LoginURL))

	res, err := httpClient.R().
		SetContext(ctx).
		Get(c.opts.LoginURL)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return nil, fmt.Errorf("failed to fetch login page: %w", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return nil, &StatusError{URL: c.opts.LoginURL, StatusCode: res.StatusCode()}
	}

	csrfToken, err := scrapeCSRFToken(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to find csrf token")
		return nil, err
	}

	res, err = httpClient.R().
		SetContext(ctx).
		SetHeader("x-csrf-token", csrfToken).
		SetFormData(map[string]string{
			"email":    c.opts.Email,
			"password": c.opts.Password,
		}).
		Post(c.opts.LoginURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return nil, fmt.Errorf("failed to submit login form: %w", err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return nil, &StatusError{URL: c.opts.LoginURL, StatusCode: res.StatusCode()}
	}

	c.logger.Info("Logged in to check-ins", zap.String("email", c.opts.Email))

	return &Session{
		http:      httpClient,
		csrfToken: csrfToken,
		baseURL:   c.opts.BaseURL,
		logger:    c.logger,
	}, nil
}

// scrapeCSRFToken reads the content of the csrf-token meta tag from an html page
func scrapeCSRFToken(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse login page: %w", err)
	}

	token := doc.Find(`meta[name="csrf-token"]`).AttrOr("content", "")
	if token == "" {
		return "", ErrCSRFTokenNotFound
	}
	return token, nil
}
