package router

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// Params holds the named values extracted from a concrete path.
type Params map[string]string

type segment struct {
	literal string
	param   string // set for {param} segments
}

// Route is a parsed route template such as "employees/{employeeId}".
// Routes are immutable once parsed.
type Route struct {
	Name     string
	Template string
	segments []segment
}

// ParseRoute parses a template made of "/"-separated literal segments and
// {param} placeholders. Any number of placeholders is supported, but each one must
// occupy a whole segment and appear only once.
func ParseRoute(name, template string) (Route, error) {
	if name == "" {
		return Route{}, fmt.Errorf("%w: empty name for %q", ErrInvalidTemplate, template)
	}

	path := strings.Trim(template, "/")
	if path == "" {
		return Route{}, fmt.Errorf("%w: empty template for %q", ErrInvalidTemplate, name)
	}
	if strings.Contains(path, "?") {
		return Route{}, fmt.Errorf("%w: %q carries a query", ErrInvalidTemplate, template)
	}

	parts := strings.Split(path, "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]bool)

	for _, part := range parts {
		switch {
		case part == "":
			return Route{}, fmt.Errorf("%w: %q has an empty segment", ErrInvalidTemplate, template)
		case strings.HasPrefix(part, "{"):
			if !strings.HasSuffix(part, "}") || len(part) < 3 {
				return Route{}, fmt.Errorf("%w: %q has a malformed placeholder", ErrInvalidTemplate, template)
			}
			param := part[1 : len(part)-1]
			if strings.ContainsAny(param, "{}") {
				return Route{}, fmt.Errorf("%w: %q has a nested placeholder", ErrInvalidTemplate, template)
			}
			if seen[param] {
				return Route{}, fmt.Errorf("%w: %q repeats parameter %q", ErrInvalidTemplate, template, param)
			}
			seen[param] = true
			segments = append(segments, segment{param: param})
		case strings.ContainsAny(part, "{}"):
			return Route{}, fmt.Errorf("%w: %q mixes literal text and a placeholder", ErrInvalidTemplate, template)
		default:
			segments = append(segments, segment{literal: part})
		}
	}

	return Route{Name: name, Template: path, segments: segments}, nil
}

// MustParseRoute is like ParseRoute but panics on error.
func MustParseRoute(name, template string) Route {
	r, err := ParseRoute(name, template)
	if err != nil {
		panic(err)
	}
	return r
}

// Params returns the parameter names of the template in path order.
func (r Route) Params() []string {
	var names []string
	for _, s := range r.segments {
		if s.param != "" {
			names = append(names, s.param)
		}
	}
	return names
}

// IsStatic reports whether the template has no parameters.
func (r Route) IsStatic() bool {
	return len(r.Params()) == 0
}

// Prefix returns the literal part of the template before the first placeholder.
func (r Route) Prefix() string {
	return literalPrefix(r.Template)
}

// Match reports whether path is an instance of the template and returns the
// extracted parameters. A "?query" suffix is ignored for matching; its values are
// merged into the result without overriding path parameters.
func (r Route) Match(path string) (Params, bool) {
	p, query, _ := strings.Cut(path, "?")
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) != len(r.segments) {
		return nil, false
	}

	params := make(Params)
	for i, s := range r.segments {
		if s.param == "" {
			if parts[i] != s.literal {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		params[s.param] = parts[i]
	}

	if query != "" {
		if values, err := url.ParseQuery(query); err == nil {
			for k, v := range values {
				if _, taken := params[k]; !taken && len(v) > 0 {
					params[k] = v[0]
				}
			}
		}
	}

	return params, true
}

// Build instantiates the template with params,
// e.g. "employees/{employeeId}" with employeeId=emp-42 becomes "employees/emp-42".
func (r Route) Build(params Params) (string, error) {
	parts := make([]string, len(r.segments))
	for i, s := range r.segments {
		if s.param == "" {
			parts[i] = s.literal
			continue
		}
		v, ok := params[s.param]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %q in %q", ErrMissingParam, s.param, r.Template)
		}
		if strings.ContainsAny(v, "/?") {
			return "", fmt.Errorf("%w: %q=%q in %q", ErrInvalidParam, s.param, v, r.Template)
		}
		parts[i] = v
	}
	return strings.Join(parts, "/"), nil
}

// shape is the template with parameter names erased. Two templates with the same
// shape match exactly the same paths.
func (r Route) shape() string {
	parts := make([]string, len(r.segments))
	for i, s := range r.segments {
		if s.param != "" {
			parts[i] = "{}"
		} else {
			parts[i] = s.literal
		}
	}
	return strings.Join(parts, "/")
}

func literalPrefix(s string) string {
	if i := strings.IndexAny(s, "{?"); i >= 0 {
		return s[:i]
	}
	return s
}

// MatchesPrefix is the legacy matcher: path matches template when it starts with
// the template's literal prefix (everything before the first "{" or "?").
// It over-matches ("employees" matches "employees/emp-42"); prefer Registry.Resolve.
func MatchesPrefix(path, template string) bool {
	return strings.HasPrefix(path, literalPrefix(template))
}

// TrailingParam is the legacy argument extractor. It returns the last path
// segment under the key "id", or an empty map when path has no separator.
func TrailingParam(path string) Params {
	params := make(Params)
	p, _, _ := strings.Cut(path, "?")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		params["id"] = p[i+1:]
	}
	return params
}

// Match is the result of resolving a concrete path.
type Match struct {
	Route  Route
	Path   string
	Params Params
}

// Registry is the catalog of navigable destinations.
type Registry struct {
	mu       sync.RWMutex
	routes   []Route
	byName   map[string]int
	fallback string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// DefaultRegistry returns a registry holding the ERP destinations with the
// dashboard as fallback screen.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(constants.RouteLogin, constants.RouteLogin).
		MustRegister(constants.RouteDashboard, constants.RouteDashboard).
		MustRegister(constants.RouteEmployees, constants.RouteEmployees).
		MustRegister(constants.RouteEmployeeDetail, constants.EmployeeDetailTemplate).
		MustRegister(constants.RouteAttendance, constants.RouteAttendance).
		MustRegister(constants.RouteLeave, constants.RouteLeave).
		MustRegister(constants.RoutePayroll, constants.RoutePayroll).
		MustRegister(constants.RouteSettings, constants.RouteSettings)
	r.fallback = constants.RouteDashboard
	return r
}

// Register parses and adds a template under name.
// Registering the same name twice, or two templates that match exactly the same
// paths, returns ErrDuplicateRoute.
func (r *Registry) Register(name, template string) error {
	route, err := ParseRoute(name, template)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: name %q", ErrDuplicateRoute, name)
	}
	for _, existing := range r.routes {
		if existing.shape() == route.shape() {
			return fmt.Errorf("%w: %q has the same shape as %q", ErrDuplicateRoute, template, existing.Template)
		}
	}

	r.byName[name] = len(r.routes)
	r.routes = append(r.routes, route)
	return nil
}

// MustRegister is like Register but panics on error. It returns the registry so
// calls can be chained.
func (r *Registry) MustRegister(name, template string) *Registry {
	if err := r.Register(name, template); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the route registered under name.
func (r *Registry) Lookup(name string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Route{}, false
	}
	return r.routes[i], true
}

// Routes returns the registered routes in registration order.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Resolve finds the template a concrete path belongs to. When several templates
// match, the first registered one wins. An unknown path is not an error; the
// caller applies its fallback policy.
func (r *Registry) Resolve(path string) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.routes {
		if params, ok := route.Match(path); ok {
			return Match{Route: route, Path: path, Params: params}, true
		}
	}
	return Match{Path: path}, false
}

// NameOf returns the name of the route path resolves to, or "" when unknown.
func (r *Registry) NameOf(path string) string {
	m, ok := r.Resolve(path)
	if !ok {
		return ""
	}
	return m.Route.Name
}

// Build instantiates the route registered under name.
func (r *Registry) Build(name string, params Params) (string, error) {
	route, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return route.Build(params)
}

// SetFallback selects the route shown for paths that resolve to nothing.
func (r *Registry) SetFallback(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	r.fallback = name
	return nil
}

// Fallback returns the fallback route, if one is set.
func (r *Registry) Fallback() (Route, bool) {
	r.mu.RLock()
	name := r.fallback
	r.mu.RUnlock()

	if name == "" {
		return Route{}, false
	}
	return r.Lookup(name)
}
