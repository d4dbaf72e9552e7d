package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrRuleViolation     = errors.New("rule violation")
	ErrConflict          = errors.New("conflict")
	ErrExternalService   = errors.New("external service error")
	ErrStorage           = errors.New("storage error")
)

// InvalidCredentialError is returned when no active operator matches a credential code.
// The message never names the operators that were checked.
type InvalidCredentialError struct {
	Cause error
}

func NewInvalidCredentialError() *InvalidCredentialError {
	return &InvalidCredentialError{}
}

func NewInvalidCredentialErrorWithCause(cause error) *InvalidCredentialError {
	return &InvalidCredentialError{Cause: cause}
}

func (e *InvalidCredentialError) Error() string {
	return ErrInvalidCredential.Error()
}

func (e *InvalidCredentialError) Unwrap() error {
	return ErrInvalidCredential
}

// PermissionDeniedError is returned when an operator's role does not allow a transition.
type PermissionDeniedError struct {
	Role   string
	Reason string
}

func NewPermissionDeniedError(role, reason string) *PermissionDeniedError {
	return &PermissionDeniedError{
		Role:   role,
		Reason: reason,
	}
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: role %s: %s", ErrPermissionDenied, e.Role, e.Reason)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// RuleViolationError lists the prerequisite states an order has not visited yet.
type RuleViolationError struct {
	Target  string
	Missing []string
	Cause   error
}

func NewRuleViolationError(target string, missing []string) *RuleViolationError {
	return &RuleViolationError{
		Target:  target,
		Missing: missing,
	}
}

func NewRuleViolationErrorWithCause(target string, cause error) *RuleViolationError {
	return &RuleViolationError{
		Target: target,
		Cause:  cause,
	}
}

func (e *RuleViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrRuleViolation, e.Target, e.Cause)
	}
	return fmt.Sprintf("%s: %s requires prior states: %s",
		ErrRuleViolation, e.Target, strings.Join(e.Missing, ", "))
}

func (e *RuleViolationError) Unwrap() error {
	return ErrRuleViolation
}

// ConflictError reports a write that clashes with the current stored state.
type ConflictError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewConflictError(paramName string, id any) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewConflictErrorWithCause(paramName string, id any, cause error) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %v)", ErrConflict, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrConflict, e.ParamName, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ExternalServiceError wraps a failure talking to a remote system.
// Transient marks network-level failures that are expected to clear on retry.
type ExternalServiceError struct {
	Service   string
	Transient bool
	Cause     error
}

func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Cause:   cause,
	}
}

func NewTransientExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		Service:   service,
		Transient: true,
		Cause:     cause,
	}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrExternalService, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrExternalService, e.Service)
}

func (e *ExternalServiceError) Unwrap() error {
	return ErrExternalService
}

// StorageError wraps a persistence failure during a named operation.
type StorageError struct {
	Operation string
	Cause     error
}

func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrStorage, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrStorage, e.Operation)
}

func (e *StorageError) Unwrap() error {
	return ErrStorage
}
