// Package constants defines shared constants, types, and configuration values
// used throughout the erpshell navigation core.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read during Init.
const (
	ConfigPathEnvVar = "ERPSHELL_CONFIG"    // path to the TOML session file
	LogLevelEnvVar   = "ERPSHELL_LOG_LEVEL" // debug, info, warn, error
	LanguageEnvVar   = "ERPSHELL_LANG"      // BCP 47 tag, e.g. "es"
	BackDeviceEnvVar = "ERPSHELL_BACK_DEVICE"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// Route names of the ERP destinations. For static routes the name is also the path.
const (
	RouteLogin          = "login"
	RouteDashboard      = "dashboard"
	RouteEmployees      = "employees"
	RouteEmployeeDetail = "employee_detail"
	RouteAttendance     = "attendance"
	RouteLeave          = "leave"
	RoutePayroll        = "payroll"
	RouteSettings       = "settings"
)

// EmployeeDetailTemplate is the path template of RouteEmployeeDetail.
const EmployeeDetailTemplate = "employees/{employeeId}"

// EmployeeIDParam is the parameter name in EmployeeDetailTemplate.
const EmployeeIDParam = "employeeId"

// Defaults.
const (
	DefaultEventBuffer       = 10                     // per-subscription event buffer
	DefaultPermissionTimeout = 3 * time.Second        // remote permission check
	DefaultBackDevice        = "/dev/input/event1"    // evdev node carrying the back key
	DefaultBackKeyCode       = 158                    // KEY_BACK
	DefaultBackDebounce      = 150 * time.Millisecond // ignore repeats closer than this
)

// VirtualButton represents an abstract input button, mapped from physical hardware.
// Only the buttons that drive navigation are listed.
type VirtualButton int

const (
	VirtualButtonUnassigned VirtualButton = iota
	VirtualButtonMenu
	VirtualButtonBack
)

func (vb VirtualButton) GetName() string {
	switch vb {
	case VirtualButtonUnassigned:
		return "Unassigned"
	case VirtualButtonMenu:
		return "Menu"
	case VirtualButtonBack:
		return "Back"
	default:
		return "Unknown"
	}
}
