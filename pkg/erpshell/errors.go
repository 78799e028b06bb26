package erpshell

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrExit indicates the back stack is exhausted and the app should close.
	// This is a normal flow control error, not an infrastructure failure.
	ErrExit = errors.New("back stack exhausted")

	// ErrBackButtonDisabled is returned by ListenBackButton when the session
	// file does not enable the hardware back key.
	ErrBackButtonDisabled = errors.New("hardware back button disabled")
)

// InfrastructureError represents a failure outside the navigation core:
// the session file could not be read, the permission service did not answer,
// the input device could not be opened.
//
// Navigation itself never fails this way; denied or empty navigations are
// reported through router.Result.
type InfrastructureError struct {
	Op  string // Operation that failed (e.g., "load_config", "permission_check")
	Err error  // Underlying error
}

func (e *InfrastructureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("erpshell: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("erpshell: %s", e.Op)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError creates a new infrastructure error.
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// IsInfrastructureError checks if an error is an infrastructure error.
func IsInfrastructureError(err error) bool {
	var infraErr *InfrastructureError
	return errors.As(err, &infraErr)
}

// IsExit checks if an error means the app should exit.
func IsExit(err error) bool {
	return errors.Is(err, ErrExit)
}
