package erpshell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// HTTPPermissionChecker asks a remote service whether a route may be opened.
//
// It issues GET <Endpoint>?route=<route>. 2xx allows, 401 and 403 deny, and
// any other status or a transport failure is an InfrastructureError, which the
// permission interceptor turns into a denial.
type HTTPPermissionChecker struct {
	Endpoint string
	Client   *http.Client // nil uses http.DefaultClient
	Token    func() string // bearer token, optional
}

// NewHTTPPermissionChecker creates a checker with its own client. A zero timeout
// uses constants.DefaultPermissionTimeout.
func NewHTTPPermissionChecker(endpoint string, timeout time.Duration) *HTTPPermissionChecker {
	if timeout <= 0 {
		timeout = constants.DefaultPermissionTimeout
	}
	return &HTTPPermissionChecker{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPPermissionChecker) Allowed(ctx context.Context, route string) (bool, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return false, NewInfrastructureError("permission_check", err)
	}
	q := u.Query()
	q.Set("route", route)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, NewInfrastructureError("permission_check", err)
	}
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, NewInfrastructureError("permission_check", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, NewInfrastructureError("permission_check", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}
