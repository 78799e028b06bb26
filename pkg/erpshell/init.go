// Package erpshell wires the navigation core of the ERP mobile shell: one
// navigation session per app launch, with the authentication gate, analytics,
// transition rules and optional remote permission checks installed in order.
//
// The package handles logging, the TOML session file, localized titles and
// denial reasons, and the hardware back key. Screens are out of scope; they are
// plugged in through router.Container.
package erpshell

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrandonKowalski/erpshell/pkg/erpshell/constants"
	"github.com/BrandonKowalski/erpshell/pkg/erpshell/internal"
	"github.com/BrandonKowalski/erpshell/pkg/erpshell/router"
)

// Options configures logging and the navigation session.
type Options struct {
	ConfigFile        string                   // TOML session file; ERPSHELL_CONFIG when empty
	LogPath           string                   // Full path for log file including filename (creates parent directories)
	LogLevel          string                   // debug, info, warn, error; ERPSHELL_LOG_LEVEL wins over it
	Language          string                   // BCP 47 tag for titles and denial reasons; ERPSHELL_LANG wins over it
	Registry          *router.Registry         // Route catalog; router.DefaultRegistry() when nil
	Metrics           prometheus.Registerer    // Registry for analytics counters; counters stay unregistered when nil
	PermissionChecker router.PermissionChecker // Overrides the [permissions] endpoint
	IsAuthenticated   func() bool              // Overrides the session's own Login/Logout flag
	OnExit            func()                   // Called when a back press finds an empty stack
}

// Init sets up logging. Call it before NewSession so the log file and level
// apply from the first record.
func Init(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if level := logLevel(options.LogLevel, ""); level != "" {
		internal.SetRawLogLevel(level)
	}

	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}
}

// Close releases the log file.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// logLevel picks the level: environment first, then options, then the session file.
func logLevel(fromOptions, fromConfig string) string {
	if env := os.Getenv(constants.LogLevelEnvVar); env != "" {
		return env
	}
	if fromOptions != "" {
		return fromOptions
	}
	return fromConfig
}
