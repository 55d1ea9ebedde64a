package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Response is what a Transport hands back for one GET
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs a single GET. Failures below HTTP (DNS, TLS,
// connection reset) are returned wrapped in ErrTransport; any HTTP status
// is a successful round trip.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) (*Response, error)
}

// HTTPTransport is the net/http backed Transport. No retries.
type HTTPTransport struct {
	http    *http.Client
	limiter *rate.Limiter // optional; nil means unlimited
	timeout time.Duration // applied on top of whichever client is set
}

type TransportOption func(*HTTPTransport)

func WithHTTPClient(h *http.Client) TransportOption {
	return func(t *HTTPTransport) { t.http = h }
}

// WithLimiter spaces requests out client-side, waiting on ctx
func WithLimiter(l *rate.Limiter) TransportOption {
	return func(t *HTTPTransport) { t.limiter = l }
}

// WithRateLimit allows perSecond requests per second with a burst of one.
// perSecond <= 0 leaves the transport unlimited.
func WithRateLimit(perSecond float64) TransportOption {
	return func(t *HTTPTransport) {
		if perSecond > 0 {
			t.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithTimeout sets the overall per-request timeout. It applies to the
// client given with WithHTTPClient regardless of option order; the caller's
// client is copied, not modified.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) { t.timeout = d }
}

func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{http: http.DefaultClient}
	for _, o := range opts {
		o(t)
	}
	if t.timeout > 0 {
		c := *t.http
		c.Timeout = t.timeout
		t.http = &c
	}
	return t
}

func (t *HTTPTransport) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit: %v", ErrTransport, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

var _ Transport = (*HTTPTransport)(nil)
