package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
	"github.com/BrandonKowalski/erpshell/pkg/erpshell/router"
)

// ErrInvalidConfig wraps every problem found in a session file.
var ErrInvalidConfig = errors.New("invalid session config")

// Config mirrors the TOML session file.
//
//	[navigation]
//	initial_route = "login"
//	home_route    = "dashboard"
//	event_buffer  = 10
//	overflow      = "drop-oldest"
//	language      = "es"
//
//	[transitions]
//	login = ["dashboard"]
//
//	[permissions]
//	endpoint = "https://erp.example.com/api/permissions"
//	timeout  = "2s"
//
//	[back_button]
//	enabled = true
//	device  = "/dev/input/event1"
type Config struct {
	Navigation  NavigationConfig    `toml:"navigation"`
	Transitions map[string][]string `toml:"transitions"` // nil means the built-in table
	Permissions PermissionsConfig   `toml:"permissions"`
	BackButton  BackButtonConfig    `toml:"back_button"`
}

type NavigationConfig struct {
	InitialRoute           string `toml:"initial_route"`
	LoginRoute             string `toml:"login_route"`
	HomeRoute              string `toml:"home_route"` // where Login lands
	FallbackRoute          string `toml:"fallback_route"`
	EventBuffer            int    `toml:"event_buffer"`
	Overflow               string `toml:"overflow"` // "drop-oldest" or "drop-newest"
	Language               string `toml:"language"`
	LogLevel               string `toml:"log_level"`
	DisableTransitionRules bool   `toml:"disable_transition_rules"`
}

type PermissionsConfig struct {
	Endpoint string `toml:"endpoint"` // empty disables the remote check
	Timeout  string `toml:"timeout"`
}

type BackButtonConfig struct {
	Enabled  bool   `toml:"enabled"`
	Device   string `toml:"device"`
	Code     int    `toml:"code"`
	Debounce string `toml:"debounce"`
}

// DefaultConfig returns the configuration used when no session file is given.
func DefaultConfig() Config {
	return Config{
		Navigation: NavigationConfig{
			InitialRoute:  constants.RouteLogin,
			LoginRoute:    constants.RouteLogin,
			HomeRoute:     constants.RouteDashboard,
			FallbackRoute: constants.RouteDashboard,
			EventBuffer:   constants.DefaultEventBuffer,
			Overflow:      router.DropOldest.String(),
			Language:      "en",
			LogLevel:      "info",
		},
		Permissions: PermissionsConfig{
			Timeout: constants.DefaultPermissionTimeout.String(),
		},
		BackButton: BackButtonConfig{
			Device:   constants.DefaultBackDevice,
			Code:     constants.DefaultBackKeyCode,
			Debounce: constants.DefaultBackDebounce.String(),
		},
	}
}

// LoadConfig reads a TOML session file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, finish(cfg, md)
}

// ParseConfig is LoadConfig for in-memory TOML.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, finish(cfg, md)
}

func finish(cfg Config, md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks values that TOML typing cannot.
func (c Config) Validate() error {
	if c.Navigation.EventBuffer < 1 {
		return fmt.Errorf("%w: event_buffer must be at least 1, got %d", ErrInvalidConfig, c.Navigation.EventBuffer)
	}
	if _, ok := router.ParseOverflowPolicy(c.Navigation.Overflow); !ok {
		return fmt.Errorf("%w: overflow %q", ErrInvalidConfig, c.Navigation.Overflow)
	}
	if c.Navigation.InitialRoute == "" || c.Navigation.LoginRoute == "" || c.Navigation.HomeRoute == "" {
		return fmt.Errorf("%w: initial_route, login_route and home_route are required", ErrInvalidConfig)
	}
	if _, err := parseDuration("permissions.timeout", c.Permissions.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("back_button.debounce", c.BackButton.Debounce); err != nil {
		return err
	}
	return nil
}

// OverflowPolicy returns the parsed overflow policy.
func (c Config) OverflowPolicy() router.OverflowPolicy {
	p, _ := router.ParseOverflowPolicy(c.Navigation.Overflow)
	return p
}

// PermissionTimeout returns the parsed permission timeout.
func (c Config) PermissionTimeout() time.Duration {
	d, err := parseDuration("permissions.timeout", c.Permissions.Timeout)
	if err != nil || d == 0 {
		return constants.DefaultPermissionTimeout
	}
	return d
}

// BackDebounce returns the parsed back-key debounce interval.
func (c Config) BackDebounce() time.Duration {
	d, err := parseDuration("back_button.debounce", c.BackButton.Debounce)
	if err != nil {
		return constants.DefaultBackDebounce
	}
	return d
}

// TransitionTable returns the configured table or the built-in one.
func (c Config) TransitionTable() map[string][]string {
	if c.Transitions == nil {
		return router.DefaultTransitions()
	}
	return c.Transitions
}

func parseDuration(key, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, key)
	}
	return d, nil
}
