package lead

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrLeadNotFound  = errors.New("lead not found")
	ErrStaffNotFound = errors.New("staff not found")
	ErrInvalidRole   = errors.New("staff role cannot own leads")
	ErrTerminalState = errors.New("lead is in a terminal status")
	ErrInvalidState  = errors.New("invalid lead state transition")
)
