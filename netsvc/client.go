package netsvc

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Client is a thin HTTP transport wrapper: timeouts, redirect policy, and
// transparent gzip decoding. It carries no cookie jar of its own —
// NetworkSession owns cookie application so Set-Cookie parsing can
// follow this engine's own cookie semantics exactly instead of
// net/http/cookiejar's RFC 6265 behavior.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	maxRedirects   int
	userAgent      string
	followRedirect bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) { c.maxRedirects = n }
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

func WithFollowRedirect(follow bool) ClientOption {
	return func(c *Client) { c.followRedirect = follow }
}

// NewClient creates an HTTP client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        30 * time.Second,
		maxRedirects:   10,
		userAgent:      "Enginecore/1.0",
		followRedirect: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}

	if c.followRedirect {
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.maxRedirects {
				return fmt.Errorf("netsvc: stopped after %d redirects", c.maxRedirects)
			}
			return nil
		}
	} else {
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return c
}

// Request is a single outbound HTTP request, already carrying every header
// NetworkSession decided to send (browser defaults, merged user headers,
// Cookie, Referer).
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
}

// Response is a completed HTTP exchange, gzip-decoded if needed.
type Response struct {
	StatusCode    int
	Status        string
	Headers       http.Header
	Body          []byte
	ContentType   string
	ContentLength int64
	URL           *url.URL
}

// Do executes req, following (or not) redirects per the client's
// configuration, and transparently ungzips a gzip-encoded body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, fmt.Errorf("netsvc: failed to create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("netsvc: request failed: %w", err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("netsvc: failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("netsvc: failed to read response body: %w", err)
	}

	return &Response{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Headers:       resp.Header,
		Body:          body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		URL:           resp.Request.URL,
	}, nil
}

// Get is a Do shorthand for a bare GET.
func (c *Client) Get(ctx context.Context, urlStr string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: urlStr, Headers: headers})
}
