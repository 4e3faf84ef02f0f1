// Package fetch retrieves page bytes over HTTP/1.1 for the parser.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrNoAddresses is the cause of the NetworkError returned when a host
// resolves to no addresses at all.
var ErrNoAddresses = errors.New("no addresses")

// NetworkError reports a failure to reach or talk to a host.
type NetworkError struct {
	Msg string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error: " + e.Msg
	}
	return "network error: " + e.Msg + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Cause() error { return e.Err }

func networkError(err error, format string, args ...interface{}) *NetworkError {
	return &NetworkError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// Resolver looks up the addresses of a host name.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type Header struct {
	Name, Value string
}

type HTTPResponse struct {
	Version    string
	StatusCode int
	Reason     string
	// Headers are sorted by name; repeated headers keep their order.
	Headers []Header
	Body    string
}

// HeaderValue returns the first value of the named header, compared
// case-insensitively.
func (r *HTTPResponse) HeaderValue(name string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

const DefaultUserAgent = "saba/0.1"

type HTTPClient struct {
	resolver  Resolver
	dialer    *net.Dialer
	timeout   time.Duration
	userAgent string
	log       *logrus.Entry
}

type ClientOption func(*HTTPClient)

func WithResolver(r Resolver) ClientOption {
	return func(c *HTTPClient) { c.resolver = r }
}

// WithTimeout bounds a whole request, lookup included. Zero means no limit.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithUserAgent(ua string) ClientOption {
	return func(c *HTTPClient) { c.userAgent = ua }
}

func WithLogger(l *logrus.Entry) ClientOption {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		resolver:  net.DefaultResolver,
		dialer:    &net.Dialer{},
		userAgent: DefaultUserAgent,
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.WithField("component", "fetch")
	return c
}

// Get requests path from host:port. Every failure to resolve, connect or read
// is returned as a *NetworkError.
func (c *HTTPClient) Get(ctx context.Context, host string, port uint16, path string) (*HTTPResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ips, err := c.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, networkError(err, "failed to find IP address for %s", host)
	}
	if len(ips) < 1 {
		return nil, networkError(ErrNoAddresses, "failed to find IP addresses for %s", host)
	}

	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	portStr := strconv.Itoa(int(port))
	target := "http://" + net.JoinHostPort(host, portStr) + path
	log := c.log.WithFields(logrus.Fields{"host": host, "port": port, "path": path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, networkError(err, "invalid request %s", target)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Close = true

	client := &http.Client{
		Transport: &http.Transport{
			Proxy: nil,
			DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
				return c.dialAny(ctx, network, ips, portStr)
			},
			DisableKeepAlives: true,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	log.Debug("sending request")
	resp, err := client.Do(req)
	if err != nil {
		return nil, networkError(err, "failed to send request to %s", target)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err, "failed to read response from %s", target)
	}

	log.WithField("status", resp.StatusCode).Debug("received response")
	return newHTTPResponse(resp, body), nil
}

// dialAny connects to the first of ips that accepts a connection.
func (c *HTTPClient) dialAny(ctx context.Context, network string, ips []string, port string) (net.Conn, error) {
	var lastErr error
	for _, ip := range ips {
		conn, err := c.dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
		if err == nil {
			return conn, nil
		}
		c.log.WithError(err).WithField("addr", ip).Debug("dial failed")
		lastErr = err
	}
	return nil, networkError(lastErr, "failed to connect to any of %v", ips)
}

func newHTTPResponse(resp *http.Response, body []byte) *HTTPResponse {
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	var headers []Header
	for _, name := range names {
		for _, v := range resp.Header[name] {
			headers = append(headers, Header{Name: name, Value: v})
		}
	}

	return &HTTPResponse{
		Version:    resp.Proto,
		StatusCode: resp.StatusCode,
		Reason:     strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
		Headers:    headers,
		Body:       string(body),
	}
}
