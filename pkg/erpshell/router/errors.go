package router

import "errors"

// Sentinel errors returned by the navigation core.
var (
	// ErrNavigationInFlight is returned when a navigation is started while another
	// one is still running against the same Navigator.
	ErrNavigationInFlight = errors.New("router: navigation already in flight")

	// ErrInvalidTemplate indicates a route template that cannot be parsed.
	ErrInvalidTemplate = errors.New("router: invalid route template")

	// ErrDuplicateRoute indicates a route name or template shape registered twice.
	ErrDuplicateRoute = errors.New("router: duplicate route")

	// ErrMissingParam is returned by Build when a template parameter has no value.
	ErrMissingParam = errors.New("router: missing route parameter")

	// ErrInvalidParam is returned by Build when a parameter value would change the
	// shape of the path (for example it contains a separator).
	ErrInvalidParam = errors.New("router: invalid route parameter")

	// ErrUnknownRoute indicates a route name that was never registered.
	ErrUnknownRoute = errors.New("router: unknown route")
)
