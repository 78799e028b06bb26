package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// AuthGate denies forward navigation to anything but the login route while the
// session is not authenticated. Back and pop-to navigation always pass.
type AuthGate struct {
	IsAuthenticated func() bool
	LoginRoute      string
	Reason          func(route string) string // builds the denial reason
}

// NewAuthGate creates a gate using the default login route.
func NewAuthGate(isAuthenticated func() bool) *AuthGate {
	return &AuthGate{
		IsAuthenticated: isAuthenticated,
		LoginRoute:      constants.RouteLogin,
	}
}

func (g *AuthGate) Name() string { return "auth" }

func (g *AuthGate) BeforeNavigate(_ context.Context, event Event) Decision {
	nav, ok := event.(NavigateTo)
	if !ok || nav.Route == g.LoginRoute {
		return Allow()
	}
	if g.IsAuthenticated != nil && g.IsAuthenticated() {
		return Allow()
	}
	if g.Reason != nil {
		return Deny(g.Reason(nav.Route))
	}
	return Deny(fmt.Sprintf("authentication required for %s", nav.Route))
}

func (g *AuthGate) AfterNavigate(context.Context, Event) error { return nil }

// Analytics records every navigation attempt, including ones a later interceptor
// denies, and every completed navigation. It never denies.
type Analytics struct {
	logger    *slog.Logger
	registry  *Registry
	attempts  *prometheus.CounterVec
	completed *prometheus.CounterVec
}

// NewAnalytics creates the analytics observer. Counters are registered with reg
// when it is non-nil; an already registered collector is reused. registry turns
// concrete paths into route names for the metric labels and defaults to
// DefaultRegistry. Paths it does not match are labelled "unknown".
func NewAnalytics(logger *slog.Logger, registry *Registry, reg prometheus.Registerer) (*Analytics, error) {
	if logger == nil {
		logger = discardLogger()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}

	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erpshell_navigation_attempts_total",
		Help: "Navigation attempts seen by the interceptor pipeline",
	}, []string{"kind", "route"})
	completed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erpshell_navigation_completed_total",
		Help: "Navigations that passed every interceptor and were applied",
	}, []string{"kind", "route"})

	if reg != nil {
		var err error
		if attempts, err = registerCounterVec(reg, attempts); err != nil {
			return nil, err
		}
		if completed, err = registerCounterVec(reg, completed); err != nil {
			return nil, err
		}
	}

	return &Analytics{
		logger:    logger,
		registry:  registry,
		attempts:  attempts,
		completed: completed,
	}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register analytics counter: %w", err)
	}
	return c, nil
}

func (a *Analytics) Name() string { return "analytics" }

func (a *Analytics) BeforeNavigate(ctx context.Context, event Event) Decision {
	route := a.routeLabel(event)
	a.attempts.WithLabelValues(string(event.Kind()), route).Inc()
	a.logger.InfoContext(ctx, "navigation attempt", "kind", event.Kind(), "route", route, "event", event.String())
	return Allow()
}

func (a *Analytics) AfterNavigate(_ context.Context, event Event) error {
	a.completed.WithLabelValues(string(event.Kind()), a.routeLabel(event)).Inc()
	return nil
}

// Attempts returns the attempt counter for kind and route label.
func (a *Analytics) Attempts(kind EventKind, route string) prometheus.Counter {
	return a.attempts.WithLabelValues(string(kind), route)
}

// Completed returns the completion counter for kind and route label.
func (a *Analytics) Completed(kind EventKind, route string) prometheus.Counter {
	return a.completed.WithLabelValues(string(kind), route)
}

func (a *Analytics) routeLabel(event Event) string {
	target := event.Target()
	if target == "" {
		return ""
	}
	if name := a.registry.NameOf(target); name != "" {
		return name
	}
	return "unknown"
}

// TransitionRules restricts which route may follow which. Routes are compared by
// registered name, so "employees/emp-42" counts as the employee detail route.
// A source route absent from the table is unrestricted, staying on the same
// route is always allowed, and stack resets (ClearStack) are not transitions.
type TransitionRules struct {
	registry *Registry
	current  func() string
	allowed  map[string]map[string]bool
	Reason   func(from, to string) string
}

// NewTransitionRules creates the rule set. current reports the route being left.
func NewTransitionRules(registry *Registry, current func() string, table map[string][]string) *TransitionRules {
	allowed := make(map[string]map[string]bool, len(table))
	for from, tos := range table {
		set := make(map[string]bool, len(tos))
		for _, to := range tos {
			set[to] = true
		}
		allowed[from] = set
	}
	return &TransitionRules{registry: registry, current: current, allowed: allowed}
}

// DefaultTransitions is the ERP transition table.
func DefaultTransitions() map[string][]string {
	return map[string][]string{
		constants.RouteLogin: {constants.RouteDashboard},
		constants.RouteDashboard: {
			constants.RouteEmployees,
			constants.RouteAttendance,
			constants.RouteLeave,
			constants.RoutePayroll,
			constants.RouteSettings,
			constants.RouteLogin,
		},
		constants.RouteEmployees: {constants.RouteEmployeeDetail, constants.RouteDashboard},
	}
}

func (t *TransitionRules) Name() string { return "transitions" }

func (t *TransitionRules) BeforeNavigate(_ context.Context, event Event) Decision {
	nav, ok := event.(NavigateTo)
	if !ok || nav.ClearStack {
		return Allow()
	}

	from, to := t.nameOf(t.current()), t.nameOf(nav.Route)
	if from == to {
		return Allow()
	}
	set, restricted := t.allowed[from]
	if !restricted || set[to] {
		return Allow()
	}
	if t.Reason != nil {
		return Deny(t.Reason(from, to))
	}
	return Deny(fmt.Sprintf("transition %s -> %s is not allowed", from, to))
}

func (t *TransitionRules) AfterNavigate(context.Context, Event) error { return nil }

func (t *TransitionRules) nameOf(path string) string {
	if t.registry != nil {
		if name := t.registry.NameOf(path); name != "" {
			return name
		}
	}
	return path
}

// PermissionChecker answers whether the current user may open route. It may block
// on I/O and should honour ctx.
type PermissionChecker interface {
	Allowed(ctx context.Context, route string) (bool, error)
}

// PermissionCheckerFunc adapts a function to PermissionChecker.
type PermissionCheckerFunc func(ctx context.Context, route string) (bool, error)

func (f PermissionCheckerFunc) Allowed(ctx context.Context, route string) (bool, error) {
	return f(ctx, route)
}

// PermissionCheck consults a PermissionChecker before forward navigation. A
// checker error denies the navigation. Routes in Skip are never checked.
type PermissionCheck struct {
	Checker PermissionChecker
	Skip    map[string]bool
	Reason  func(route string, err error) string
}

// NewPermissionCheck creates the gate, skipping the login route.
func NewPermissionCheck(checker PermissionChecker) *PermissionCheck {
	return &PermissionCheck{
		Checker: checker,
		Skip:    map[string]bool{constants.RouteLogin: true},
	}
}

func (p *PermissionCheck) Name() string { return "permissions" }

func (p *PermissionCheck) BeforeNavigate(ctx context.Context, event Event) Decision {
	nav, ok := event.(NavigateTo)
	if !ok || p.Skip[nav.Route] {
		return Allow()
	}

	allowed, err := p.Checker.Allowed(ctx, nav.Route)
	if err == nil && allowed {
		return Allow()
	}
	if p.Reason != nil {
		return Deny(p.Reason(nav.Route, err))
	}
	if err != nil {
		return Deny(fmt.Sprintf("permission check for %s failed: %v", nav.Route, err))
	}
	return Deny(fmt.Sprintf("no permission for %s", nav.Route))
}

func (p *PermissionCheck) AfterNavigate(context.Context, Event) error { return nil }
