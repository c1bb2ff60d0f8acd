// Package httpclient provides a hardened HTTP client for talking to the
// graph backend: scheme allowlist, bounded redirects, and sane transport
// timeouts.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tbrumbaugh5396/graph-canvas/errors"
)

// Client wraps http.Client with request-target validation.
type Client struct {
	*http.Client
	allowedSchemes []string
	maxRedirects   int
}

// New creates a client with the given overall request timeout.
func New(timeout time.Duration) *Client {
	c := &Client{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		allowedSchemes: []string{"http", "https"},
		maxRedirects:   10,
	}

	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return errors.Newf("stopped after %d redirects", c.maxRedirects)
		}
		if err := c.ValidateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	return c
}

// ValidateURL checks that a URL uses an allowed scheme and has a host.
func (c *Client) ValidateURL(u *url.URL) error {
	if u == nil {
		return errors.New("nil URL")
	}
	ok := false
	for _, scheme := range c.allowedSchemes {
		if u.Scheme == scheme {
			ok = true
			break
		}
	}
	if !ok {
		return errors.Newf("scheme %q not allowed", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}
