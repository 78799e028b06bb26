package router

import (
	"context"
	"fmt"
	"sync"
)

// ScreenInput is what a screen receives when it is shown.
type ScreenInput struct {
	Route    string // concrete path, e.g. "employees/emp-42"
	Name     string // registered route name
	Params   Params
	Args     map[string]string
	Fallback bool // the path resolved to nothing and the fallback screen is shown
}

// ScreenFunc renders one screen.
type ScreenFunc func(input ScreenInput) error

// Container selects the screen for a route. Paths that resolve to no registered
// route are shown with the registry's fallback screen.
type Container struct {
	mu       sync.RWMutex
	registry *Registry
	screens  map[string]ScreenFunc
}

// NewContainer creates a container resolving routes through registry.
func NewContainer(registry *Registry) *Container {
	return &Container{
		registry: registry,
		screens:  make(map[string]ScreenFunc),
	}
}

// Register adds the screen shown for the route registered under name.
func (c *Container) Register(name string, fn ScreenFunc) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screens[name] = fn
	return c
}

// Resolve builds the input for route without showing anything.
func (c *Container) Resolve(route string, args map[string]string) (ScreenInput, error) {
	input := ScreenInput{Route: route, Args: cloneArgs(args)}

	if m, ok := c.registry.Resolve(route); ok {
		input.Name = m.Route.Name
		input.Params = m.Params
		return input, nil
	}

	fallback, ok := c.registry.Fallback()
	if !ok {
		return ScreenInput{}, fmt.Errorf("%w: %q and no fallback screen", ErrUnknownRoute, route)
	}
	input.Name = fallback.Name
	input.Params = Params{}
	input.Fallback = true
	return input, nil
}

// Show resolves route and runs its screen.
func (c *Container) Show(route string, args map[string]string) error {
	input, err := c.Resolve(route, args)
	if err != nil {
		return err
	}

	c.mu.RLock()
	fn, ok := c.screens[input.Name]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("router: screen %q not registered", input.Name)
	}

	if err := fn(input); err != nil {
		return fmt.Errorf("router: screen %q error: %w", input.Name, err)
	}
	return nil
}

// Bind shows the holder's current screen and then every screen it moves to.
// Errors from Show are passed to onError when it is non-nil.
func (c *Container) Bind(h *Holder, onError func(error)) (cancel func()) {
	show := func(s State) {
		if err := c.Show(s.CurrentRoute, s.CurrentArgs); err != nil && onError != nil {
			onError(err)
		}
	}
	cancel = h.Observe(show)
	show(h.State())
	return cancel
}

// BackAction is what a back press resulted in.
type BackAction int

const (
	BackPopped BackAction = iota // the previous screen is current again
	BackExit                     // nothing to go back to; the app should exit
	BackDenied                   // an interceptor vetoed going back
)

func (a BackAction) String() string {
	switch a {
	case BackPopped:
		return "popped"
	case BackExit:
		return "exit"
	case BackDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// HandleBack is the back-button contract: pop when there is history, otherwise
// tell the caller to exit.
func HandleBack(ctx context.Context, n *Navigator) (BackAction, error) {
	if !n.CanGoBack() {
		return BackExit, nil
	}
	res, err := n.GoBackWithInterceptor(ctx)
	if err != nil {
		return BackDenied, err
	}
	if res.Denied() {
		return BackDenied, nil
	}
	return BackPopped, nil
}
