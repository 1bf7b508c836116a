// Package upstream holds helpers shared by the external API clients
package upstream

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// Error describes a failed call to an external API: transport failure,
// timeout, non-2xx status or an undecodable body.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CheckStatus returns an *Error for any non-2xx response
func CheckStatus(op string, resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, StatusCode: resp.StatusCode}
	}
	return nil
}

// NewHTTPClient builds a client with a bounded connect phase and an overall request timeout
func NewHTTPClient(connectTimeout, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: connectTimeout,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
