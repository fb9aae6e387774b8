package application

import (
	"errors"
	"fmt"

	"rozadaar/internal/ports"
)

// Sentinel errors for common conditions
var (
	ErrNotFound       = ports.ErrNotFound
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrNoTimeSource   = errors.New("no time source reachable")
	ErrOffline        = errors.New("offline")
	ErrEditInProgress = errors.New("edit session in progress")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PayloadError represents a remote or user supplied document that could not be applied
type PayloadError struct {
	Collection string
	Reason     string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.Collection, e.Reason)
}

func (e *PayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

// PushError represents a rejected remote write
type PushError struct {
	Collection string
	Status     int
	Reason     string
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push %s rejected (%d): %s", e.Collection, e.Status, e.Reason)
}

func (e *PushError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 403
}

// RemoteError represents a failed API read or report
type RemoteError struct {
	Op     string
	Status int
	Reason string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, e.Reason)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 403
}
