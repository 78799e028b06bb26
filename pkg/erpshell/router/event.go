package router

import "fmt"

// EventKind names the variant of an Event.
type EventKind string

const (
	KindNavigateTo EventKind = "navigate_to"
	KindGoBack     EventKind = "go_back"
	KindPopTo      EventKind = "pop_to"
)

// Event is an immutable record of one navigation attempt. The concrete types are
// NavigateTo, GoBack and PopTo.
type Event interface {
	Kind() EventKind
	// Target is the route the event names, empty for GoBack.
	Target() string
	fmt.Stringer

	event()
}

// NavigateTo is a forward navigation to Route.
type NavigateTo struct {
	Route          string
	AddToBackStack bool
	ClearStack     bool // the stack is emptied first (login, logout)

	args map[string]string
}

// Args returns a copy of the arguments the navigation was made with, nil when
// there were none. Every interceptor and listener sees the same values.
func (e NavigateTo) Args() map[string]string { return cloneArgs(e.args) }

// GoBack returns to the previous back-stack entry.
type GoBack struct{}

// PopTo truncates the back stack down to Route.
type PopTo struct {
	Route     string
	Inclusive bool
}

func (NavigateTo) Kind() EventKind { return KindNavigateTo }
func (GoBack) Kind() EventKind     { return KindGoBack }
func (PopTo) Kind() EventKind      { return KindPopTo }

func (e NavigateTo) Target() string { return e.Route }
func (GoBack) Target() string       { return "" }
func (e PopTo) Target() string      { return e.Route }

func (e NavigateTo) String() string {
	if e.ClearStack {
		return fmt.Sprintf("NavigateTo(%s, clear)", e.Route)
	}
	return fmt.Sprintf("NavigateTo(%s)", e.Route)
}

func (GoBack) String() string { return "GoBack" }

func (e PopTo) String() string {
	return fmt.Sprintf("PopTo(%s, inclusive=%t)", e.Route, e.Inclusive)
}

func (NavigateTo) event() {}
func (GoBack) event()     {}
func (PopTo) event()      {}
