package router

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// Decision is the outcome of an interceptor's before hook.
type Decision struct {
	allowed bool
	Reason  string
}

// Allow lets the navigation continue to the next interceptor.
func Allow() Decision {
	return Decision{allowed: true}
}

// Deny vetoes the navigation. The reason is reported back to the caller.
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Allowed reports whether the decision lets the navigation through.
func (d Decision) Allowed() bool {
	return d.allowed
}

// Interceptor gates and observes navigation.
//
// BeforeNavigate runs before any state change; the first Deny aborts the
// navigation. AfterNavigate runs once the state change applied and is
// notification only: its error is logged and nothing is rolled back.
type Interceptor interface {
	BeforeNavigate(ctx context.Context, event Event) Decision
	AfterNavigate(ctx context.Context, event Event) error
}

// Named is implemented by interceptors that want a stable name in results and logs.
type Named interface {
	Name() string
}

// InterceptorFuncs adapts plain functions to Interceptor. Nil hooks allow and do
// nothing. Register it by pointer so it can be removed again.
type InterceptorFuncs struct {
	Label  string
	Before func(ctx context.Context, event Event) Decision
	After  func(ctx context.Context, event Event) error
}

func (f *InterceptorFuncs) BeforeNavigate(ctx context.Context, event Event) Decision {
	if f.Before == nil {
		return Allow()
	}
	return f.Before(ctx, event)
}

func (f *InterceptorFuncs) AfterNavigate(ctx context.Context, event Event) error {
	if f.After == nil {
		return nil
	}
	return f.After(ctx, event)
}

func (f *InterceptorFuncs) Name() string {
	if f.Label != "" {
		return f.Label
	}
	return "funcs"
}

// InterceptorName returns the name used for i in results and logs.
func InterceptorName(i Interceptor) string {
	if n, ok := i.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", i)
}

type registration struct {
	id          uint64
	interceptor Interceptor
}

// Pipeline is an ordered chain of interceptors. Registration order is evaluation
// order. Changes apply to navigations that start after them.
type Pipeline struct {
	mu      sync.Mutex
	entries []registration
	nextID  uint64
	logger  *slog.Logger
}

// NewPipeline creates an empty pipeline logging through logger (nil discards).
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = discardLogger()
	}
	return &Pipeline{logger: logger}
}

// Add appends i to the chain and returns a function removing this registration.
func (p *Pipeline) Add(i Interceptor) (remove func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.entries = append(p.entries, registration{id: id, interceptor: i})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.entries = slices.DeleteFunc(p.entries, func(r registration) bool { return r.id == id })
	}
}

// Remove drops the first registration of i. Interceptors with non-comparable
// dynamic types can only be removed through the function returned by Add.
func (p *Pipeline) Remove(i Interceptor) bool {
	if i == nil || !reflect.TypeOf(i).Comparable() {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for idx, r := range p.entries {
		if r.interceptor == i {
			p.entries = slices.Delete(p.entries, idx, idx+1)
			return true
		}
	}
	return false
}

// Len returns the number of registered interceptors.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Snapshot returns the interceptors in evaluation order.
func (p *Pipeline) Snapshot() []Interceptor {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Interceptor, len(p.entries))
	for i, r := range p.entries {
		out[i] = r.interceptor
	}
	return out
}

// Verdict is the combined result of the before hooks.
type Verdict struct {
	Decision
	DeniedBy string
}

// Before runs the before hooks of chain in order and stops at the first denial.
func (p *Pipeline) Before(ctx context.Context, chain []Interceptor, event Event) Verdict {
	for _, i := range chain {
		d := i.BeforeNavigate(ctx, event)
		if !d.Allowed() {
			name := InterceptorName(i)
			p.logger.Debug("navigation denied",
				"event", event.String(),
				"interceptor", name,
				"reason", d.Reason,
			)
			return Verdict{Decision: d, DeniedBy: name}
		}
	}
	return Verdict{Decision: Allow()}
}

// After runs every after hook of chain in order. Errors are logged, not returned.
func (p *Pipeline) After(ctx context.Context, chain []Interceptor, event Event) {
	for _, i := range chain {
		if err := i.AfterNavigate(ctx, event); err != nil {
			p.logger.Warn("after-navigate hook failed",
				"event", event.String(),
				"interceptor", InterceptorName(i),
				"error", err,
			)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
