package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/varoOP/reelshelf/internal/domain"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Client issues authenticated GET requests against the TMDB v3 API.
type Client struct {
	log        zerolog.Logger
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	maxBody    int64
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client. The bearer token is
// still attached to every request.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
}

type bearerTransport struct {
	Transport http.RoundTripper
	Token     string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.Token)
	return transport.RoundTrip(req)
}

func NewClient(log zerolog.Logger, cfg *domain.Config, opts ...ClientOption) *Client {
	c := &Client{
		log:        log.With().Str("module", "tmdb").Logger(),
		baseURL:    strings.TrimRight(cfg.TMDBBaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		maxBody:    maxResponseBytes,
	}
	if c.baseURL == "" {
		c.baseURL = domain.DefaultTMDBBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = domain.DefaultTimeout
	}

	WithRateLimit(cfg.RateLimit)(c)
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	hc.Transport = &bearerTransport{Transport: hc.Transport, Token: cfg.TMDBToken}
	c.httpClient = &hc

	return c
}

type requestOptions struct {
	timeout time.Duration
}

type RequestOption func(*requestOptions)

// WithTimeout overrides the client's default per-request timeout.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		o.timeout = d
	}
}

// Get performs a GET on path with the given query and decodes the JSON body
// into a T.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values, opts ...RequestOption) (*T, error) {
	body, err := c.do(ctx, path, query, opts...)
	if err != nil {
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return out, nil
}

func (c *Client) buildURL(path string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidURL, err.Error())
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "missing scheme or host in %q", u.String())
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values, opts ...RequestOption) ([]byte, error) {
	o := requestOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&o)
	}

	u, err := c.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidURL, err.Error())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &TransportError{Err: errors.Errorf("response body exceeds %d bytes", c.maxBody)}
	}

	c.log.Debug().
		Str("path", u.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("tmdb request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: body}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyData
	}

	return body, nil
}
