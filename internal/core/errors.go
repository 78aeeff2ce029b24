package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPastTrigger     = errors.New("trigger time is in the past")
	ErrAmbiguousTarget = errors.New("more than one item matches")
)

type GatewayErrorKind string

const (
	GatewayNetwork   GatewayErrorKind = "network"
	GatewayStatus    GatewayErrorKind = "status"
	GatewayMalformed GatewayErrorKind = "malformed"
	GatewayConfig    GatewayErrorKind = "config"
)

// GatewayError describes a failed call to an external lookup service.
type GatewayError struct {
	Gateway string
	Kind    GatewayErrorKind
	Status  int
	// Wait is the delay the service asked for before the next call.
	Wait time.Duration
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Gateway, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Gateway, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// RetryAfter lets retry.Retrier honour the service's requested delay.
func (e *GatewayError) RetryAfter() time.Duration {
	return e.Wait
}

// Transient reports whether retrying the call may succeed.
func (e *GatewayError) Transient() bool {
	switch e.Kind {
	case GatewayNetwork:
		return true
	case GatewayStatus:
		return e.Status >= 500 || e.Status == 429
	}
	return false
}
