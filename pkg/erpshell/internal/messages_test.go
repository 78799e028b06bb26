package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMessagesEnglish(t *testing.T) {
	m, err := NewMessages("")
	require.NoError(t, err)
	assert.Equal(t, language.English, m.Language())

	assert.Equal(t, "Sign in", m.Title("login"))
	assert.Equal(t, "reports", m.Title("reports"), "unknown routes fall back to the name")
	assert.Equal(t, "Sign in to open Payroll", m.DenyUnauthenticated(m.Title("payroll")))
}

func TestMessagesSpanish(t *testing.T) {
	m, err := NewMessages("es-MX")
	require.NoError(t, err)
	assert.Equal(t, "es", m.Language().String())

	assert.Equal(t, "Iniciar sesión", m.Title("login"))
	assert.Equal(t, "Nómina", m.Title("payroll"))
	assert.Equal(t, "No puedes ir de Panel a Ajustes", m.DenyTransition(m.Title("dashboard"), m.Title("settings")))
	assert.Equal(t, "No tienes acceso a Nómina", m.DenyPermission("Nómina", nil))
	assert.Equal(t, "No se pudo verificar el acceso a Nómina", m.DenyPermission("Nómina", errors.New("timeout")))
}

func TestMessagesUnsupportedLanguageFallsBack(t *testing.T) {
	m, err := NewMessages("de")
	require.NoError(t, err)
	assert.Equal(t, language.English, m.Language())
	assert.Equal(t, "Dashboard", m.Title("dashboard"))

	_, err = NewMessages("not a tag!")
	assert.Error(t, err)
}
