package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHolder(t *testing.T) {
	h := NewHolder("")
	assert.Equal(t, "login", h.CurrentRoute())
	assert.False(t, h.CanGoBack())
	assert.Empty(t, h.BackStack())

	h = NewHolder("", WithLoginRoute("signin"))
	assert.Equal(t, "signin", h.CurrentRoute())
	assert.Equal(t, "signin", h.LoginRoute())

	h = NewHolder("dashboard")
	assert.Equal(t, "dashboard", h.CurrentRoute())
}

func TestHolderNavigateTo(t *testing.T) {
	h := NewHolder("dashboard")

	h.NavigateTo("employees")
	h.NavigateTo("employees/emp-42")

	s := h.State()
	assert.Equal(t, "employees/emp-42", s.CurrentRoute)
	assert.Equal(t, []string{"dashboard", "employees"}, s.Routes())
	assert.True(t, s.CanGoBack)
}

func TestHolderNavigateToSameRouteDoesNotPush(t *testing.T) {
	h := NewHolder("dashboard")
	h.NavigateTo("dashboard")

	assert.Equal(t, "dashboard", h.CurrentRoute())
	assert.False(t, h.CanGoBack())
}

func TestHolderNoBackStack(t *testing.T) {
	h := NewHolder("dashboard")
	h.NavigateTo("employees", NoBackStack())
	assert.Equal(t, "employees", h.CurrentRoute())
	assert.False(t, h.CanGoBack())

	h.NavigateTo("leave", AddToBackStack(true))
	assert.Equal(t, []string{"employees"}, h.State().Routes())
}

func TestHolderGoBackIsLIFO(t *testing.T) {
	h := NewHolder("dashboard")
	h.NavigateTo("employees")
	h.NavigateTo("employees/emp-42")
	h.NavigateTo("leave")

	for _, want := range []string{"employees/emp-42", "employees", "dashboard"} {
		require.True(t, h.GoBack())
		assert.Equal(t, want, h.CurrentRoute())
	}

	assert.False(t, h.GoBack())
	assert.Equal(t, "dashboard", h.CurrentRoute())
	assert.False(t, h.CanGoBack())
}

func TestHolderNavigateWithArgsRecordsArgsOnEntry(t *testing.T) {
	h := NewHolder("employees")
	h.NavigateWithArgs("employees/emp-42", map[string]string{"id": "emp-42"})

	s := h.State()
	assert.Equal(t, []Entry{{Route: "employees", Args: map[string]string{"id": "emp-42"}}}, s.BackStack)
	assert.Equal(t, map[string]string{"id": "emp-42"}, s.CurrentArgs)

	h.NavigateTo("leave")
	assert.Equal(t, Entry{Route: "employees/emp-42"}, h.BackStack()[1], "plain navigation records no args")

	require.True(t, h.GoBack())
	assert.Nil(t, h.State().CurrentArgs)

	require.True(t, h.GoBack())
	assert.Equal(t, "employees", h.CurrentRoute())
	assert.Equal(t, map[string]string{"id": "emp-42"}, h.State().CurrentArgs)
}

func TestHolderNavigateWithArgsCopiesArgs(t *testing.T) {
	args := map[string]string{"id": "emp-42"}
	h := NewHolder("employees")
	h.NavigateWithArgs("employees/emp-42", args)
	args["id"] = "changed"

	s := h.State()
	assert.Equal(t, "emp-42", s.BackStack[0].Args["id"])
	assert.Equal(t, "emp-42", s.CurrentArgs["id"])
}

func TestHolderNavigateWithArgsKeepsCallerOptions(t *testing.T) {
	opts := make([]NavOption, 1, 4)
	opts[0] = NoBackStack()

	h := NewHolder("dashboard")
	h.NavigateWithArgs("employees", map[string]string{"a": "1"}, opts...)
	h.NavigateWithArgs("leave", map[string]string{"b": "2"}, opts...)

	assert.Equal(t, "leave", h.CurrentRoute())
	assert.Equal(t, map[string]string{"b": "2"}, h.State().CurrentArgs)
	assert.False(t, h.CanGoBack())
}

func TestHolderClearAndNavigateTo(t *testing.T) {
	h := NewHolder("login")
	h.NavigateTo("dashboard")
	h.NavigateTo("employees")

	h.ClearAndNavigateTo("dashboard")

	s := h.State()
	assert.Equal(t, "dashboard", s.CurrentRoute)
	assert.Empty(t, s.BackStack)
	assert.False(t, s.CanGoBack)
}

func TestHolderResetToLogin(t *testing.T) {
	h := NewHolder("dashboard")
	h.NavigateWithArgs("employees", map[string]string{"filter": "active"})

	h.ResetToLogin()

	s := h.State()
	assert.Equal(t, "login", s.CurrentRoute)
	assert.Nil(t, s.CurrentArgs)
	assert.False(t, s.CanGoBack)
}

func TestHolderPopTo(t *testing.T) {
	newHolder := func() *Holder {
		h := NewHolder("dashboard")
		h.NavigateTo("employees")
		h.NavigateTo("employees/emp-42")
		h.NavigateTo("leave")
		return h
	}

	t.Run("exclusive", func(t *testing.T) {
		h := newHolder()
		require.True(t, h.PopTo("employees", false))

		s := h.State()
		assert.Equal(t, "employees", s.CurrentRoute)
		assert.Equal(t, []string{"dashboard", "employees"}, s.Routes())
	})

	t.Run("inclusive", func(t *testing.T) {
		h := newHolder()
		require.True(t, h.PopTo("employees", true))

		s := h.State()
		assert.Equal(t, "dashboard", s.CurrentRoute)
		assert.Equal(t, []string{"dashboard"}, s.Routes())
	})

	t.Run("inclusive to bottom leaves current", func(t *testing.T) {
		h := newHolder()
		require.True(t, h.PopTo("dashboard", true))

		s := h.State()
		assert.Equal(t, "leave", s.CurrentRoute)
		assert.Empty(t, s.BackStack)
		assert.False(t, s.CanGoBack)
	})

	t.Run("missing route", func(t *testing.T) {
		h := newHolder()
		before := h.State()
		assert.False(t, h.PopTo("payroll", false))
		assert.Equal(t, before, h.State())
	})

	t.Run("most recent occurrence", func(t *testing.T) {
		h := NewHolder("dashboard")
		h.NavigateTo("employees")
		h.NavigateTo("dashboard")
		h.NavigateTo("leave")

		require.True(t, h.PopTo("dashboard", false))
		assert.Equal(t, []string{"dashboard", "employees", "dashboard"}, h.State().Routes())
	})

	t.Run("restores args", func(t *testing.T) {
		h := NewHolder("dashboard")
		h.NavigateWithArgs("employees", map[string]string{"page": "3"})
		h.NavigateTo("employees/emp-1")
		h.NavigateTo("leave")

		require.True(t, h.PopTo("dashboard", false))
		assert.Equal(t, "dashboard", h.CurrentRoute())
		assert.Equal(t, map[string]string{"page": "3"}, h.State().CurrentArgs)
	})
}

func TestHolderObserve(t *testing.T) {
	h := NewHolder("dashboard")

	var seen []State
	cancel := h.Observe(func(s State) { seen = append(seen, s) })

	h.NavigateTo("employees")
	h.GoBack()
	h.GoBack() // empty stack, no change
	h.PopTo("payroll", false)

	require.Len(t, seen, 2)
	assert.Equal(t, "employees", seen[0].CurrentRoute)
	assert.Equal(t, []string{"dashboard"}, seen[0].Routes())
	assert.Equal(t, "dashboard", seen[1].CurrentRoute)
	assert.False(t, seen[1].CanGoBack)

	cancel()
	h.NavigateTo("leave")
	assert.Len(t, seen, 2)
}

func TestHolderObserverSeesSnapshot(t *testing.T) {
	h := NewHolder("dashboard")

	var first State
	h.Observe(func(s State) {
		if first.CurrentRoute == "" {
			first = s
		}
	})
	h.NavigateTo("employees")
	h.NavigateTo("leave")

	assert.Equal(t, []string{"dashboard"}, first.Routes())

	stack := h.BackStack()
	stack[0].Route = "mutated"
	assert.Equal(t, "dashboard", h.BackStack()[0].Route)
}

func TestHolderObserverMayReadState(t *testing.T) {
	h := NewHolder("dashboard")

	var current string
	h.Observe(func(State) { current = h.CurrentRoute() })

	h.NavigateTo("employees")
	assert.Equal(t, "employees", current)
}
