package router

import (
	"context"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
)

// Outcome classifies a navigation attempt.
type Outcome int

const (
	Applied Outcome = iota // state changed
	Denied                 // an interceptor vetoed; state untouched, nothing broadcast
	NoOp                   // approved, but GoBack/PopTo found nothing to do
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Denied:
		return "denied"
	case NoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// Result describes what a navigation attempt did.
type Result struct {
	Outcome  Outcome
	Event    Event
	Reason   string // set when Denied
	DeniedBy string // name of the denying interceptor
	State    State  // state after the attempt
}

// Denied reports whether an interceptor vetoed the navigation.
func (r Result) Denied() bool {
	return r.Outcome == Denied
}

type navigatorConfig struct {
	logger      *slog.Logger
	broadcaster *Broadcaster
	capacity    int
	policy      OverflowPolicy
	holderOpts  []HolderOption
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*navigatorConfig)

// WithLogger sets the logger used by the navigator and its pipeline.
func WithLogger(logger *slog.Logger) NavigatorOption {
	return func(c *navigatorConfig) { c.logger = logger }
}

// WithEventBuffer sets the subscription buffer size and overflow policy.
func WithEventBuffer(capacity int, policy OverflowPolicy) NavigatorOption {
	return func(c *navigatorConfig) {
		c.capacity = capacity
		c.policy = policy
	}
}

// WithBroadcaster shares an existing broadcaster instead of creating one.
func WithBroadcaster(b *Broadcaster) NavigatorOption {
	return func(c *navigatorConfig) { c.broadcaster = b }
}

// WithHolderOptions forwards options to the embedded Holder.
func WithHolderOptions(opts ...HolderOption) NavigatorOption {
	return func(c *navigatorConfig) { c.holderOpts = append(c.holderOpts, opts...) }
}

// Navigator is a Holder with an interceptor pipeline and an event broadcaster.
//
// The *WithInterceptor methods run: before hooks in registration order, then the
// Holder mutation, then after hooks, then one broadcast. Only one of them may run
// at a time; a concurrent or re-entrant call gets ErrNavigationInFlight.
// The embedded Holder methods bypass the pipeline.
type Navigator struct {
	*Holder
	pipeline *Pipeline
	events   *Broadcaster
	inFlight atomic.Bool
	logger   *slog.Logger
}

// NewNavigator creates a navigator positioned at initialRoute.
func NewNavigator(initialRoute string, opts ...NavigatorOption) *Navigator {
	cfg := navigatorConfig{
		capacity: constants.DefaultEventBuffer,
		policy:   DropOldest,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	if cfg.broadcaster == nil {
		cfg.broadcaster = NewBroadcaster(cfg.capacity, cfg.policy)
	}

	return &Navigator{
		Holder:   NewHolder(initialRoute, cfg.holderOpts...),
		pipeline: NewPipeline(cfg.logger),
		events:   cfg.broadcaster,
		logger:   cfg.logger,
	}
}

// NavigateWithInterceptor is NavigateTo through the pipeline.
func (n *Navigator) NavigateWithInterceptor(ctx context.Context, route string, opts ...NavOption) (Result, error) {
	o := applyNavOptions(opts)
	ev := NavigateTo{Route: route, args: cloneArgs(o.args), AddToBackStack: o.addToBackStack}
	return n.run(ctx, ev, func() bool {
		n.Holder.NavigateTo(route, opts...)
		return true
	})
}

// ClearAndNavigateWithInterceptor is ClearAndNavigateTo through the pipeline.
func (n *Navigator) ClearAndNavigateWithInterceptor(ctx context.Context, route string) (Result, error) {
	ev := NavigateTo{Route: route, ClearStack: true}
	return n.run(ctx, ev, func() bool {
		n.Holder.ClearAndNavigateTo(route)
		return true
	})
}

// ResetToLoginWithInterceptor clears the stack and returns to the login route.
func (n *Navigator) ResetToLoginWithInterceptor(ctx context.Context) (Result, error) {
	return n.ClearAndNavigateWithInterceptor(ctx, n.LoginRoute())
}

// GoBackWithInterceptor is GoBack through the pipeline.
func (n *Navigator) GoBackWithInterceptor(ctx context.Context) (Result, error) {
	return n.run(ctx, GoBack{}, n.Holder.GoBack)
}

// PopToWithInterceptor is PopTo through the pipeline.
func (n *Navigator) PopToWithInterceptor(ctx context.Context, route string, inclusive bool) (Result, error) {
	ev := PopTo{Route: route, Inclusive: inclusive}
	return n.run(ctx, ev, func() bool {
		return n.Holder.PopTo(route, inclusive)
	})
}

func (n *Navigator) run(ctx context.Context, ev Event, apply func() bool) (Result, error) {
	if !n.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrNavigationInFlight
	}
	defer n.inFlight.Store(false)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// Registration changes made by hooks below apply from the next call.
	chain := n.pipeline.Snapshot()

	verdict := n.pipeline.Before(ctx, chain, ev)
	if !verdict.Allowed() {
		return Result{
			Outcome:  Denied,
			Event:    ev,
			Reason:   verdict.Reason,
			DeniedBy: verdict.DeniedBy,
			State:    n.State(),
		}, nil
	}

	outcome := Applied
	if !apply() {
		outcome = NoOp
	}

	n.pipeline.After(ctx, chain, ev)
	n.events.Publish(ev)

	state := n.State()
	n.logger.Debug("navigation complete",
		"event", ev.String(),
		"outcome", outcome.String(),
		"route", state.CurrentRoute,
		"depth", len(state.BackStack),
	)

	return Result{Outcome: outcome, Event: ev, State: state}, nil
}

// InFlight reports whether a pipeline navigation is running.
func (n *Navigator) InFlight() bool {
	return n.inFlight.Load()
}

// AddInterceptor appends i to the pipeline and returns a function removing it.
func (n *Navigator) AddInterceptor(i Interceptor) (remove func()) {
	return n.pipeline.Add(i)
}

// RemoveInterceptor removes the first registration of i.
func (n *Navigator) RemoveInterceptor(i Interceptor) bool {
	return n.pipeline.Remove(i)
}

// AddListener registers a synchronous event listener.
func (n *Navigator) AddListener(fn func(Event)) (remove func()) {
	return n.events.Listen(fn)
}

// Subscribe opens a buffered event subscription.
func (n *Navigator) Subscribe() *Subscription {
	return n.events.Subscribe()
}

// Pipeline returns the interceptor pipeline.
func (n *Navigator) Pipeline() *Pipeline {
	return n.pipeline
}

// Events returns the event broadcaster.
func (n *Navigator) Events() *Broadcaster {
	return n.events
}
