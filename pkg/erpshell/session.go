package erpshell

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
	"github.com/BrandonKowalski/erpshell/pkg/erpshell/internal"
	"github.com/BrandonKowalski/erpshell/pkg/erpshell/router"
)

// Session is one navigation session: created at app launch, reset on logout,
// never torn down mid-run.
type Session struct {
	ID        uuid.UUID
	Navigator *router.Navigator
	Registry  *router.Registry
	Analytics *router.Analytics

	config        internal.Config
	messages      *internal.Messages
	authenticated atomic.Bool
	onExit        func()
	logger        *slog.Logger
}

// NewSession loads the session file and builds a navigator with the interceptor
// chain analytics, auth, transitions and, when configured, permissions.
func NewSession(options Options) (*Session, error) {
	cfg, err := loadConfig(options.ConfigFile)
	if err != nil {
		return nil, err
	}

	if options.LogLevel == "" && os.Getenv(constants.LogLevelEnvVar) == "" {
		internal.SetRawLogLevel(cfg.Navigation.LogLevel)
	}

	messages, err := internal.NewMessages(language(options.Language, cfg.Navigation.Language))
	if err != nil {
		return nil, NewInfrastructureError("load_messages", err)
	}

	registry := options.Registry
	if registry == nil {
		registry = router.DefaultRegistry()
	}
	if cfg.Navigation.FallbackRoute != "" {
		if err := registry.SetFallback(cfg.Navigation.FallbackRoute); err != nil {
			return nil, NewInfrastructureError("load_config", err)
		}
	}

	id := uuid.New()
	s := &Session{
		ID:       id,
		Registry: registry,
		config:   cfg,
		messages: messages,
		onExit:   options.OnExit,
		logger:   internal.GetLogger().With("session", id.String()),
	}

	s.Navigator = router.NewNavigator(cfg.Navigation.InitialRoute,
		router.WithLogger(internal.GetInternalLogger().With("session", id.String())),
		router.WithEventBuffer(cfg.Navigation.EventBuffer, cfg.OverflowPolicy()),
		router.WithHolderOptions(router.WithLoginRoute(cfg.Navigation.LoginRoute)),
	)

	s.Analytics, err = router.NewAnalytics(s.logger, registry, options.Metrics)
	if err != nil {
		return nil, NewInfrastructureError("register_metrics", err)
	}
	s.Navigator.AddInterceptor(s.Analytics)

	isAuthenticated := options.IsAuthenticated
	if isAuthenticated == nil {
		isAuthenticated = s.IsAuthenticated
	}
	gate := router.NewAuthGate(isAuthenticated)
	gate.LoginRoute = cfg.Navigation.LoginRoute
	gate.Reason = func(route string) string {
		return messages.DenyUnauthenticated(s.Title(route))
	}
	s.Navigator.AddInterceptor(gate)

	if !cfg.Navigation.DisableTransitionRules {
		rules := router.NewTransitionRules(registry, s.Navigator.CurrentRoute, cfg.TransitionTable())
		rules.Reason = func(from, to string) string {
			return messages.DenyTransition(messages.Title(from), messages.Title(to))
		}
		s.Navigator.AddInterceptor(rules)
	}

	checker := options.PermissionChecker
	if checker == nil && cfg.Permissions.Endpoint != "" {
		checker = NewHTTPPermissionChecker(cfg.Permissions.Endpoint, cfg.PermissionTimeout())
	}
	if checker != nil {
		perms := router.NewPermissionCheck(checker)
		perms.Skip = map[string]bool{cfg.Navigation.LoginRoute: true}
		perms.Reason = func(route string, err error) string {
			if err != nil {
				s.logger.Warn("permission check failed", "route", route, "error", err)
			}
			return messages.DenyPermission(s.Title(route), err)
		}
		s.Navigator.AddInterceptor(perms)
	}

	s.logger.Info("navigation session started",
		"initial_route", cfg.Navigation.InitialRoute,
		"language", messages.Language().String(),
		"interceptors", s.Navigator.Pipeline().Len(),
	)

	return s, nil
}

func loadConfig(path string) (internal.Config, error) {
	if path == "" {
		path = os.Getenv(constants.ConfigPathEnvVar)
	}
	if path == "" {
		return internal.DefaultConfig(), nil
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return internal.Config{}, NewInfrastructureError("load_config", err)
	}
	return cfg, nil
}

func language(fromOptions, fromConfig string) string {
	if env := os.Getenv(constants.LanguageEnvVar); env != "" {
		return env
	}
	if fromOptions != "" {
		return fromOptions
	}
	return fromConfig
}

// IsAuthenticated reports the session's own sign-in flag.
func (s *Session) IsAuthenticated() bool {
	return s.authenticated.Load()
}

// Title returns the localized title of the screen a route shows.
func (s *Session) Title(route string) string {
	if name := s.Registry.NameOf(route); name != "" {
		return s.messages.Title(name)
	}
	if fallback, ok := s.Registry.Fallback(); ok {
		return s.messages.Title(fallback.Name)
	}
	return route
}

// Login marks the session authenticated and replaces the history with the
// configured home route. The flag is restored when the navigation is denied or
// fails.
func (s *Session) Login(ctx context.Context) (router.Result, error) {
	return s.withAuthenticated(true, func() (router.Result, error) {
		return s.Navigator.ClearAndNavigateWithInterceptor(ctx, s.config.Navigation.HomeRoute)
	})
}

// Logout clears authentication and returns to the login screen. A denied or
// failed reset leaves the session signed in.
func (s *Session) Logout(ctx context.Context) (router.Result, error) {
	return s.withAuthenticated(false, func() (router.Result, error) {
		return s.Navigator.ResetToLoginWithInterceptor(ctx)
	})
}

// withAuthenticated sets the flag for the duration of navigate, since the auth
// gate reads it, and keeps it only when the navigation was applied.
func (s *Session) withAuthenticated(value bool, navigate func() (router.Result, error)) (router.Result, error) {
	previous := s.authenticated.Swap(value)
	res, err := navigate()
	if err != nil || res.Outcome != router.Applied {
		s.authenticated.Store(previous)
	}
	return res, err
}

// Open navigates forward to route.
func (s *Session) Open(ctx context.Context, route string, opts ...router.NavOption) (router.Result, error) {
	return s.Navigator.NavigateWithInterceptor(ctx, route, opts...)
}

// OpenEmployee navigates to the detail screen of one employee.
func (s *Session) OpenEmployee(ctx context.Context, employeeID string) (router.Result, error) {
	route, err := s.Registry.Build(constants.RouteEmployeeDetail, router.Params{constants.EmployeeIDParam: employeeID})
	if err != nil {
		return router.Result{}, fmt.Errorf("employee route: %w", err)
	}
	return s.Open(ctx, route)
}

// Back handles a back press. It returns ErrExit when there is nothing to go back
// to, after calling Options.OnExit.
func (s *Session) Back(ctx context.Context) (router.BackAction, error) {
	action, err := router.HandleBack(ctx, s.Navigator)
	if err != nil {
		return action, err
	}
	if action == router.BackExit {
		if s.onExit != nil {
			s.onExit()
		}
		return action, ErrExit
	}
	return action, nil
}

// ListenBackButton turns hardware back presses into Back calls until ctx is done.
// The device comes from ERPSHELL_BACK_DEVICE or the [back_button] section.
func (s *Session) ListenBackButton(ctx context.Context) error {
	bb := s.config.BackButton
	device := os.Getenv(constants.BackDeviceEnvVar)
	if device == "" {
		if !bb.Enabled {
			return ErrBackButtonDisabled
		}
		device = bb.Device
	}

	cfg := internal.BackKeyConfig{
		DevicePath: device,
		Code:       bb.Code,
		Debounce:   s.config.BackDebounce(),
	}

	err := internal.ListenBackKey(ctx, cfg, func() {
		action, err := s.Back(ctx)
		if err != nil && !IsExit(err) {
			s.logger.Warn("back press failed", "error", err)
			return
		}
		s.logger.Debug("back press", "action", action.String(), "route", s.Navigator.CurrentRoute())
	})
	if err != nil {
		return NewInfrastructureError("back_button", err)
	}
	return nil
}
