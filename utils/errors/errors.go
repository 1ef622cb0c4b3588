// Copyright 2026 OpenBlock, Inc. All Rights Reserved.

package errors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ///////////////////////////////////////////////////////////////////////////
// Wrappers for standard library errors package
// ///////////////////////////////////////////////////////////////////////////

func New(message string) error {
	return errors.New(message)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Append aggregates independent failures, dropping nils.
func Append(left, right error) error {
	return multierr.Append(left, right)
}

// Errors flattens an error aggregated with Append.
func Errors(err error) []error {
	return multierr.Errors(err)
}

func formatMessage(message string, a ...any) string {
	if len(a) == 0 {
		return message
	}
	return fmt.Sprintf(message, a...)
}

func joinMessage(inner error, message string) string {
	if inner == nil || inner.Error() == "" {
		return message
	} else if message == "" {
		return inner.Error()
	}
	return fmt.Sprintf("%v; %v", message, inner.Error())
}

// ///////////////////////////////////////////////////////////////////////////
// notFoundError
// ///////////////////////////////////////////////////////////////////////////

type notFoundError struct {
	message string
}

func (e *notFoundError) Error() string { return e.message }

func NotFoundError(message string, a ...any) error {
	return &notFoundError{message: formatMessage(message, a...)}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *notFoundError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// alreadyExistsError
// ///////////////////////////////////////////////////////////////////////////

type alreadyExistsError struct {
	message string
}

func (e *alreadyExistsError) Error() string { return e.message }

func AlreadyExistsError(message string, a ...any) error {
	return &alreadyExistsError{formatMessage(message, a...)}
}

func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *alreadyExistsError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// bootstrapError
// ///////////////////////////////////////////////////////////////////////////

type bootstrapError struct {
	message string
}

func (e *bootstrapError) Error() string { return e.message }

func BootstrapError(err error) error {
	return &bootstrapError{
		fmt.Sprintf("blockd initialization failed; %s", err.Error()),
	}
}

func IsBootstrapError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *bootstrapError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// notReadyError
// ///////////////////////////////////////////////////////////////////////////

type notReadyError struct {
	message string
}

func (e *notReadyError) Error() string { return e.message }

func NotReadyError() error {
	return &notReadyError{
		"blockd is initializing, please try again later",
	}
}

func IsNotReadyError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *notReadyError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// unsupportedError
// ///////////////////////////////////////////////////////////////////////////

type unsupportedError struct {
	message string
}

func (e *unsupportedError) Error() string { return e.message }

func UnsupportedError(message string, a ...any) error {
	return &unsupportedError{formatMessage(message, a...)}
}

func IsUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *unsupportedError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// invalidInputError
// ///////////////////////////////////////////////////////////////////////////

type invalidInputError struct {
	message string
}

func (e *invalidInputError) Error() string { return e.message }

func InvalidInputError(message string, a ...any) error {
	return &invalidInputError{formatMessage(message, a...)}
}

func IsInvalidInputError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *invalidInputError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// timeoutError
// ///////////////////////////////////////////////////////////////////////////

type timeoutError struct {
	message string
}

func (e *timeoutError) Error() string { return e.message }

func TimeoutError(message string, a ...any) error {
	return &timeoutError{formatMessage(message, a...)}
}

func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *timeoutError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// connectionError
// ///////////////////////////////////////////////////////////////////////////

type connectionError struct {
	inner   error
	message string
}

func (e *connectionError) Error() string { return joinMessage(e.inner, e.message) }

func (e *connectionError) Unwrap() error { return e.inner }

func ConnectionError(message string, a ...any) error {
	return &connectionError{message: formatMessage(message, a...)}
}

func WrapWithConnectionError(err error, message string, a ...any) error {
	return &connectionError{
		inner:   err,
		message: formatMessage(message, a...),
	}
}

func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *connectionError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// unexpectedStatusError
// ///////////////////////////////////////////////////////////////////////////

// unexpectedStatusError is returned when a conditional update loses because the record
// was not in one of the expected states.
type unexpectedStatusError struct {
	message string
}

func (e *unexpectedStatusError) Error() string { return e.message }

func UnexpectedStatusError(message string, a ...any) error {
	return &unexpectedStatusError{formatMessage(message, a...)}
}

func IsUnexpectedStatusError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *unexpectedStatusError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// invalidReplicationTargetError
// ///////////////////////////////////////////////////////////////////////////

type invalidReplicationTargetError struct {
	message string
}

func (e *invalidReplicationTargetError) Error() string { return e.message }

func InvalidReplicationTargetError(message string, a ...any) error {
	return &invalidReplicationTargetError{formatMessage(message, a...)}
}

func IsInvalidReplicationTargetError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *invalidReplicationTargetError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// noValidBackendError
// ///////////////////////////////////////////////////////////////////////////

type noValidBackendError struct {
	reason string
}

func (e *noValidBackendError) Error() string {
	return fmt.Sprintf("no valid backend was found; %s", e.reason)
}

func NoValidBackendError(reason string, a ...any) error {
	return &noValidBackendError{formatMessage(reason, a...)}
}

func IsNoValidBackendError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *noValidBackendError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// serviceNotFoundError
// ///////////////////////////////////////////////////////////////////////////

type serviceNotFoundError struct {
	message string
}

func (e *serviceNotFoundError) Error() string { return e.message }

func ServiceNotFoundError(message string, a ...any) error {
	return &serviceNotFoundError{formatMessage(message, a...)}
}

func IsServiceNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *serviceNotFoundError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// volumeDriverError
// ///////////////////////////////////////////////////////////////////////////

type volumeDriverError struct {
	inner   error
	message string
}

func (e *volumeDriverError) Error() string { return joinMessage(e.inner, e.message) }

func (e *volumeDriverError) Unwrap() error { return e.inner }

func VolumeDriverError(message string, a ...any) error {
	return &volumeDriverError{message: formatMessage(message, a...)}
}

func WrapWithVolumeDriverError(err error, message string, a ...any) error {
	return &volumeDriverError{
		inner:   err,
		message: formatMessage(message, a...),
	}
}

func IsVolumeDriverError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *volumeDriverError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// unavailableDuringUpgradeError
// ///////////////////////////////////////////////////////////////////////////

type unavailableDuringUpgradeError struct {
	action string
}

func (e *unavailableDuringUpgradeError) Error() string {
	return fmt.Sprintf("cannot %s during a rolling upgrade; wait until all services run the same version",
		e.action)
}

func UnavailableDuringUpgradeError(action string) error {
	return &unavailableDuringUpgradeError{action}
}

func IsUnavailableDuringUpgradeError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *unavailableDuringUpgradeError
	return errors.As(err, &errPtr)
}

// ExpectedError reports whether err belongs to the recoverable taxonomy: a bad replication
// target, no room to place a volume, or an unknown service. These are normal control-flow
// outcomes and leave resources in a well-defined state.
func ExpectedError(err error) bool {
	return IsInvalidReplicationTargetError(err) || IsNoValidBackendError(err) || IsServiceNotFoundError(err)
}
