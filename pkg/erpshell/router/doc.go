// Package router provides route-based stack navigation for the ERP shell.
//
// A Holder owns one navigation session: the current route, its arguments and
// the back stack. A Navigator wraps a Holder with an ordered interceptor
// pipeline and an event broadcaster. There is no package-level state; every
// consumer is handed the Holder or Navigator it works with.
//
// # Basic Usage
//
//	nav := router.NewNavigator(constants.RouteLogin)
//
//	// Interceptors run in registration order.
//	nav.AddInterceptor(analytics)
//	nav.AddInterceptor(router.NewAuthGate(session.IsAuthenticated))
//
//	res, err := nav.NavigateWithInterceptor(ctx, constants.RouteDashboard)
//	if err != nil {
//	    return err // ErrNavigationInFlight or a done context
//	}
//	if res.Denied() {
//	    log.Info("blocked", "by", res.DeniedBy, "reason", res.Reason)
//	}
//
// # Back Stack
//
// Navigating forward pushes the route being left, with its arguments, unless the
// destination equals the current route or NoBackStack is given. GoBack pops the
// most recent entry. PopTo truncates to the most recent entry for a route; the new
// top becomes current, and when nothing is left the current route stays put.
// CanGoBack is always len(BackStack) > 0.
//
// # Interceptors
//
// For each *WithInterceptor call the pipeline runs every BeforeNavigate hook in
// order. The first Deny stops the call: nothing changes and nothing is broadcast,
// and the Result carries the reason. Otherwise the state changes, every
// AfterNavigate hook runs, and the event is published once.
//
// # Events
//
// Listeners registered with AddListener are called synchronously. Subscriptions
// from Subscribe are bounded channels; when one is full the broadcaster drops
// according to its OverflowPolicy instead of blocking navigation.
//
// # Routes
//
// Registry parses templates such as "employees/{employeeId}" into typed matchers.
// Unknown paths are not errors; Container shows the registry's fallback screen.
package router
