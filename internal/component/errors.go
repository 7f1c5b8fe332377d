package component

import (
	"errors"
	"fmt"
)

var (
	ErrParameterIncomplete = errors.New("parameter incomplete")
	ErrUnsupportedParam    = errors.New("unsupported circuit parameter")
	ErrSaturated           = errors.New("inductor saturated")
	ErrUnbound             = errors.New("component not bound to a circuit")
	ErrUnknownLoss         = errors.New("unknown loss name")
)

// ParameterIncompleteError is returned when a loss formula needs a catalog
// parameter the component does not have.
type ParameterIncompleteError struct {
	Component string
	Param     string
}

func (e *ParameterIncompleteError) Error() string {
	return fmt.Sprintf("%s: parameter %q is unset", e.Component, e.Param)
}

func (e *ParameterIncompleteError) Unwrap() error { return ErrParameterIncomplete }

// UnsupportedParamError is returned by a circuit asked for an operating
// condition it does not define. It signals a role/topology mismatch.
type UnsupportedParamError struct {
	Circuit string
	Role    Role
	Param   Param
}

func (e *UnsupportedParamError) Error() string {
	return fmt.Sprintf("%s: no parameter %q for role %d", e.Circuit, e.Param, e.Role)
}

func (e *UnsupportedParamError) Unwrap() error { return ErrUnsupportedParam }

// SaturationError carries the operating point that exceeded the rated current.
type SaturationError struct {
	Component string
	Peak      float64 // dc + ripple/2
	Isat      float64
}

func (e *SaturationError) Error() string {
	return fmt.Sprintf("%s: peak current %.3gA exceeds saturation current %.3gA", e.Component, e.Peak, e.Isat)
}

func (e *SaturationError) Unwrap() error { return ErrSaturated }
