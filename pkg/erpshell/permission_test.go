package erpshell

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

func TestHTTPPermissionChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "mobile", r.URL.Query().Get("app"), "endpoint query is kept")
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("route") {
		case "dashboard", "employees/emp-42":
			w.WriteHeader(http.StatusNoContent)
		case "payroll":
			w.WriteHeader(http.StatusForbidden)
		case "settings":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := NewHTTPPermissionChecker(srv.URL+"/permissions?app=mobile", time.Second)
	c.Token = func() string { return "secret" }
	ctx := context.Background()

	tests := []struct {
		route   string
		allowed bool
		infra   bool
	}{
		{"dashboard", true, false},
		{"employees/emp-42", true, false},
		{"payroll", false, false},
		{"settings", false, false},
		{"reports", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			allowed, err := c.Allowed(ctx, tt.route)
			assert.Equal(t, tt.allowed, allowed)
			if tt.infra {
				require.Error(t, err)
				assert.True(t, IsInfrastructureError(err))
				assert.Contains(t, err.Error(), "permission_check")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHTTPPermissionCheckerTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewHTTPPermissionChecker(srv.URL, 0)
	assert.Equal(t, constants.DefaultPermissionTimeout, c.Client.Timeout)

	allowed, err := c.Allowed(context.Background(), "dashboard")
	assert.False(t, allowed)
	assert.True(t, IsInfrastructureError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Allowed(ctx, "dashboard")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestHTTPPermissionCheckerWithoutClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("route") == "payroll" {
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	c := &HTTPPermissionChecker{Endpoint: srv.URL}
	ctx := context.Background()

	allowed, err := c.Allowed(ctx, "dashboard")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = c.Allowed(ctx, "payroll")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestInfrastructureError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInfrastructureError("load_config", cause)

	assert.EqualError(t, err, "erpshell: load_config: disk full")
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInfrastructureError(err))
	assert.False(t, IsInfrastructureError(cause))
	assert.EqualError(t, NewInfrastructureError("back_button", nil), "erpshell: back_button")

	assert.False(t, IsExit(err))
	assert.True(t, IsExit(ErrExit))
}
