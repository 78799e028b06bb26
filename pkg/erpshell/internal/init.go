// Package internal contains the infrastructure behind the erpshell facade:
// logging, the TOML session file, message catalogs and the hardware back key.
// Types and functions in this package are not part of the public API.
package internal

import _ "github.com/BrandonKowalski/certifiable" // Add CA certificates to the default trust store
