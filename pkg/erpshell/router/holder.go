package router

import (
	"slices"
	"sync"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// State is an immutable snapshot of a navigation session.
type State struct {
	CurrentRoute string
	CurrentArgs  map[string]string
	BackStack    []Entry // bottom first
	CanGoBack    bool    // len(BackStack) > 0
}

func (s State) clone() State {
	out := State{
		CurrentRoute: s.CurrentRoute,
		CurrentArgs:  cloneArgs(s.CurrentArgs),
		BackStack:    make([]Entry, len(s.BackStack)),
		CanGoBack:    s.CanGoBack,
	}
	for i, e := range s.BackStack {
		out.BackStack[i] = e.clone()
	}
	return out
}

// Routes returns the back-stack routes, bottom first.
func (s State) Routes() []string {
	out := make([]string, len(s.BackStack))
	for i, e := range s.BackStack {
		out[i] = e.Route
	}
	return out
}

type navOptions struct {
	addToBackStack bool
	args           map[string]string
}

// NavOption tweaks a single forward navigation.
type NavOption func(*navOptions)

// NoBackStack navigates without recording the screen being left.
func NoBackStack() NavOption {
	return func(o *navOptions) { o.addToBackStack = false }
}

// AddToBackStack sets whether the screen being left is recorded (default true).
func AddToBackStack(add bool) NavOption {
	return func(o *navOptions) { o.addToBackStack = add }
}

// WithArgs attaches arguments to the navigation: the pushed back-stack entry
// and the destination both carry them.
func WithArgs(args map[string]string) NavOption {
	return func(o *navOptions) { o.args = args }
}

func applyNavOptions(opts []NavOption) navOptions {
	o := navOptions{addToBackStack: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithLoginRoute sets the route ResetToLogin navigates to.
func WithLoginRoute(route string) HolderOption {
	return func(h *Holder) { h.loginRoute = route }
}

type observer struct {
	id uint64
	fn func(State)
}

// Holder owns the current route and the back stack of one navigation session.
// Every operation is synchronous; observers are notified after the mutation has
// fully applied, in registration order, each with its own snapshot.
type Holder struct {
	mu         sync.Mutex
	current    string
	args       map[string]string
	stack      *Stack
	loginRoute string
	observers  []observer
	nextID     uint64
}

// NewHolder creates a session positioned at initialRoute with an empty stack.
// An empty initialRoute means the login route.
func NewHolder(initialRoute string, opts ...HolderOption) *Holder {
	h := &Holder{
		stack:      NewStack(),
		loginRoute: constants.RouteLogin,
	}
	for _, opt := range opts {
		opt(h)
	}
	if initialRoute == "" {
		initialRoute = h.loginRoute
	}
	h.current = initialRoute
	return h
}

// NavigateTo moves to route, pushing the screen being left unless the route is
// unchanged or NoBackStack is given.
func (h *Holder) NavigateTo(route string, opts ...NavOption) {
	o := applyNavOptions(opts)
	h.mutate(func() bool {
		h.navigateLocked(route, o)
		return true
	})
}

// NavigateWithArgs is NavigateTo where the back-stack entry recorded for the
// screen being left carries args. The destination is shown with args as well.
func (h *Holder) NavigateWithArgs(route string, args map[string]string, opts ...NavOption) {
	h.NavigateTo(route, append(slices.Clip(opts), WithArgs(args))...)
}

func (h *Holder) navigateLocked(route string, o navOptions) {
	if o.addToBackStack && h.current != route {
		h.stack.Push(h.current, o.args)
	}
	h.current = route
	h.args = cloneArgs(o.args)
}

// GoBack pops the most recent entry and makes it current.
// It reports false, leaving the state untouched, when the stack is empty.
func (h *Holder) GoBack() bool {
	return h.mutate(h.goBackLocked)
}

func (h *Holder) goBackLocked() bool {
	entry, ok := h.stack.Pop()
	if !ok {
		return false
	}
	h.current = entry.Route
	h.args = entry.Args
	return true
}

// PopTo truncates the stack down to the most recent entry for route. The entry
// itself is kept unless inclusive is set. When entries remain, the new top becomes
// the current route; when none remain the current route is left as it was.
// It reports false when route is not on the stack.
func (h *Holder) PopTo(route string, inclusive bool) bool {
	return h.mutate(func() bool {
		return h.popToLocked(route, inclusive)
	})
}

func (h *Holder) popToLocked(route string, inclusive bool) bool {
	i := h.stack.LastIndex(route)
	if i < 0 {
		return false
	}
	keep := i + 1
	if inclusive {
		keep = i
	}
	h.stack.Truncate(keep)
	if top, ok := h.stack.Peek(); ok {
		h.current = top.Route
		h.args = top.Args
	}
	return true
}

// ClearAndNavigateTo empties the stack and makes route current.
func (h *Holder) ClearAndNavigateTo(route string) {
	h.mutate(func() bool {
		h.stack.Clear()
		h.current = route
		h.args = nil
		return true
	})
}

// ResetToLogin is ClearAndNavigateTo(login route).
func (h *Holder) ResetToLogin() {
	h.ClearAndNavigateTo(h.loginRoute)
}

// LoginRoute returns the route ResetToLogin navigates to.
func (h *Holder) LoginRoute() string {
	return h.loginRoute
}

// State returns a snapshot of the session.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

// CurrentRoute returns the route being shown.
func (h *Holder) CurrentRoute() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// CanGoBack reports whether the back stack is non-empty.
func (h *Holder) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stack.IsEmpty()
}

// BackStack returns a copy of the back stack, bottom first.
func (h *Holder) BackStack() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack.Entries()
}

// Observe registers fn to receive a snapshot after every state change.
// The returned function unregisters it.
func (h *Holder) Observe(fn func(State)) (cancel func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.observers = append(h.observers, observer{id: id, fn: fn})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.observers = slices.DeleteFunc(h.observers, func(o observer) bool { return o.id == id })
	}
}

func (h *Holder) snapshotLocked() State {
	return State{
		CurrentRoute: h.current,
		CurrentArgs:  cloneArgs(h.args),
		BackStack:    h.stack.Entries(),
		CanGoBack:    !h.stack.IsEmpty(),
	}
}

// mutate runs fn under the lock and, if it reports a change, notifies observers
// once the lock is released.
func (h *Holder) mutate(fn func() bool) bool {
	h.mu.Lock()
	changed := fn()
	if !changed {
		h.mu.Unlock()
		return false
	}
	state := h.snapshotLocked()
	observers := slices.Clone(h.observers)
	h.mu.Unlock()

	for _, o := range observers {
		o.fn(state.clone())
	}
	return true
}
