package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/router"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "login", cfg.Navigation.InitialRoute)
	assert.Equal(t, "login", cfg.Navigation.LoginRoute)
	assert.Equal(t, "dashboard", cfg.Navigation.HomeRoute)
	assert.Equal(t, "dashboard", cfg.Navigation.FallbackRoute)
	assert.Equal(t, 10, cfg.Navigation.EventBuffer)
	assert.Equal(t, router.DropOldest, cfg.OverflowPolicy())
	assert.Equal(t, 3*time.Second, cfg.PermissionTimeout())
	assert.Equal(t, 150*time.Millisecond, cfg.BackDebounce())
	assert.Equal(t, router.DefaultTransitions(), cfg.TransitionTable())
	assert.False(t, cfg.BackButton.Enabled)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(`
[navigation]
initial_route = "dashboard"
home_route = "employees"
event_buffer = 32
overflow = "drop-newest"
language = "es"

[transitions]
dashboard = ["employees"]

[permissions]
endpoint = "http://localhost:8080/permissions"
timeout = "500ms"

[back_button]
enabled = true
device = "/dev/input/event3"
code = 1
debounce = "0s"
`)
	require.NoError(t, err)

	assert.Equal(t, "dashboard", cfg.Navigation.InitialRoute)
	assert.Equal(t, "login", cfg.Navigation.LoginRoute, "unset keys keep their defaults")
	assert.Equal(t, "employees", cfg.Navigation.HomeRoute)
	assert.Equal(t, 32, cfg.Navigation.EventBuffer)
	assert.Equal(t, router.DropNewest, cfg.OverflowPolicy())
	assert.Equal(t, "es", cfg.Navigation.Language)
	assert.Equal(t, map[string][]string{"dashboard": {"employees"}}, cfg.TransitionTable())
	assert.Equal(t, 500*time.Millisecond, cfg.PermissionTimeout())
	assert.Equal(t, "http://localhost:8080/permissions", cfg.Permissions.Endpoint)
	assert.True(t, cfg.BackButton.Enabled)
	assert.Equal(t, "/dev/input/event3", cfg.BackButton.Device)
	assert.Equal(t, 1, cfg.BackButton.Code)
	assert.Equal(t, time.Duration(0), cfg.BackDebounce())
}

func TestParseConfigRejects(t *testing.T) {
	tests := map[string]string{
		"syntax":         `[navigation`,
		"unknown key":    "[navigation]\ninitial = \"x\"",
		"event buffer":   "[navigation]\nevent_buffer = 0",
		"overflow":       "[navigation]\noverflow = \"block\"",
		"empty login":    "[navigation]\nlogin_route = \"\"",
		"empty home":     "[navigation]\nhome_route = \"\"",
		"timeout":        "[permissions]\ntimeout = \"soon\"",
		"negative delay": "[back_button]\ndebounce = \"-1s\"",
		"wrong type":     "[navigation]\nevent_buffer = \"ten\"",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig(data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("[navigation]\nlanguage = \"es\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "es", cfg.Navigation.Language)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
