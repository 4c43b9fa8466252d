package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/host-uk/coolifyctl/debugctx"
	"github.com/host-uk/coolifyctl/faults"
	"github.com/host-uk/coolifyctl/openapi"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxAttempts    = 3
	defaultBackoffBase    = time.Second
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL            string
	Token              string
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxAttempts        int
	BackoffBase        time.Duration
	RequestsPerSecond  float64

	// AuthQuery parameters, when set, lead the query string and any
	// form-encoded body of every resolved request.
	AuthQuery url.Values
}

// Client resolves operation identifiers against a specification index and
// executes the resulting requests with bounded retries. The index is
// read-only after construction, so a single Client is safe to share.
type Client struct {
	index      *openapi.Index
	opts       Options
	httpClient *http.Client
	baseURL    *url.URL
	limiter    *rate.Limiter

	sleep func(context.Context, time.Duration) error
}

func New(index *openapi.Index, opts Options) (*Client, error) {
	if index == nil {
		return nil, faults.NewTypedError(faults.InternalError, "operation index is required", nil)
	}

	rawBase := strings.TrimSpace(opts.BaseURL)
	if rawBase == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "api base url is required", nil)
	}
	parsed, err := url.Parse(rawBase)
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "invalid api base url "+rawBase, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "api base url "+rawBase+" must include scheme and host", nil)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	tlsCfg := &tls.Config{}
	if opts.InsecureSkipVerify {
		tlsCfg.InsecureSkipVerify = true
	}

	return &Client{
		index: index,
		opts:  opts,
		httpClient: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		},
		baseURL: parsed,
		limiter: rate.NewLimiter(limit, 1),
		sleep:   sleepContext,
	}, nil
}

// Index returns the specification index backing this client.
func (c *Client) Index() *openapi.Index {
	if c == nil {
		return nil
	}
	return c.index
}

// CallOperation resolves id with params, executes the request, and decodes
// the response body as JSON. Bodies that do not decode come back wrapped as
// {"raw": <text>}. Transport failures are retried with doubling backoff;
// non-2xx responses are returned as HTTP errors without retrying.
func (c *Client) CallOperation(ctx context.Context, id string, params map[string]any) (any, error) {
	if c == nil {
		return nil, faults.NewTypedError(faults.InternalError, "client is nil", nil)
	}

	op, err := c.index.Lookup(id)
	if err != nil {
		return nil, err
	}
	req, err := openapi.BuildRequest(c.index.Document(), op, params, c.opts.AuthQuery)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.opts.BackoffBase << (attempt - 1)
			debugctx.Printf(ctx, "retrying %s after %s (attempt %d/%d)", id, delay, attempt+1, c.opts.MaxAttempts)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, faults.NewTypedError(faults.TimeoutError, "wait for retry", err)
			}
		}

		body, err := c.execute(ctx, req)
		if err != nil {
			if faults.IsRetryable(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return decodeBody(body), nil
	}
	return nil, lastErr
}

func (c *Client) execute(ctx context.Context, req *openapi.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, faults.NewTypedError(faults.TimeoutError, "wait for rate limiter", err)
	}

	fullURL := c.buildURL(req.Path, req.RawQuery)

	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, faults.NewTypedError(faults.InternalError, "create request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if token := strings.TrimSpace(c.opts.Token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	debugctx.PrintRequest(ctx, req.Method, fullURL, req.Body)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err, req.Method, fullURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err, req.Method, fullURL)
	}

	debugctx.PrintResponse(ctx, resp.StatusCode, body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	httpErr := &HTTPError{
		Method:     req.Method,
		URL:        fullURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
	return nil, faults.NewTypedError(faults.HTTPError, "", httpErr)
}

func (c *Client) buildURL(path, rawQuery string) string {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		rel = &url.URL{Path: strings.TrimPrefix(path, "/")}
	}
	base := *c.baseURL
	if base.Path != "" && !strings.HasSuffix(base.Path, "/") {
		base.Path = base.Path + "/"
	}
	resolved := base.ResolveReference(rel)
	if rawQuery != "" {
		resolved.RawQuery = rawQuery
	}
	return resolved.String()
}

// classifyTransportError maps a failed exchange onto the retryable
// categories: timeout, TLS failure, or connection failure.
func classifyTransportError(err error, method, fullURL string) error {
	message := method + " " + fullURL

	if errors.Is(err, context.DeadlineExceeded) {
		return faults.NewTypedError(faults.TimeoutError, message, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return faults.NewTypedError(faults.TimeoutError, message, err)
	}

	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certErr) || errors.As(err, &recordErr) ||
		errors.As(err, &unknownAuthority) || errors.As(err, &hostnameErr) {
		return faults.NewTypedError(faults.TLSError, message, err)
	}
	if strings.Contains(err.Error(), "tls:") || strings.Contains(err.Error(), "x509:") {
		return faults.NewTypedError(faults.TLSError, message, err)
	}

	return faults.NewTypedError(faults.ConnectionError, message, err)
}

func decodeBody(body []byte) any {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return map[string]any{"raw": string(body)}
	}
	return value
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
