package arbor

import (
	"errors"

	"github.com/danvale/arbor/internal/engine"
)

// Error is the single error type surfaced by the resolver.
type Error = engine.Error

type ErrorCode = engine.ErrorCode

const (
	ErrCodeUnknown            = engine.ErrCodeUnknown
	ErrCodeNoProvider         = engine.ErrCodeNoProvider
	ErrCodeCircularDependency = engine.ErrCodeCircularDependency
	ErrCodeProviderFailed     = engine.ErrCodeProviderFailed
	ErrCodeInvalidProvider    = engine.ErrCodeInvalidProvider
	ErrCodeScopeDestroyed     = engine.ErrCodeScopeDestroyed
	ErrCodeValidationFailed   = engine.ErrCodeValidationFailed
	ErrCodeStartupFailed      = engine.ErrCodeStartupFailed
	ErrCodeShutdownFailed     = engine.ErrCodeShutdownFailed
	ErrCodeAlreadyStarted     = engine.ErrCodeAlreadyStarted
	ErrCodeResolutionFailed   = engine.ErrCodeResolutionFailed
	ErrCodeManifestInvalid    = engine.ErrCodeManifestInvalid
)

// NewError builds a resolver error with the given code. Most callers match
// errors with the Is predicates instead of constructing them.
func NewError(code ErrorCode, message string, cause error) *Error {
	return engine.NewError(code, message, cause)
}

func isErrorCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsNoProvider reports whether err is a failed lookup: no provider for the
// requested token was reachable from the requesting scope.
func IsNoProvider(err error) bool {
	return isErrorCode(err, ErrCodeNoProvider)
}

// IsCircularDependency reports whether err is a circular construction: a
// scope re-entered for a token already under construction.
func IsCircularDependency(err error) bool {
	return isErrorCode(err, ErrCodeCircularDependency)
}

func IsProviderFailed(err error) bool {
	return isErrorCode(err, ErrCodeProviderFailed)
}

func IsInvalidProvider(err error) bool {
	return isErrorCode(err, ErrCodeInvalidProvider)
}

func IsScopeDestroyed(err error) bool {
	return isErrorCode(err, ErrCodeScopeDestroyed)
}

func IsValidationFailed(err error) bool {
	return isErrorCode(err, ErrCodeValidationFailed)
}

func IsStartupFailed(err error) bool {
	return isErrorCode(err, ErrCodeStartupFailed)
}

func IsShutdownFailed(err error) bool {
	return isErrorCode(err, ErrCodeShutdownFailed)
}

func IsResolutionFailed(err error) bool {
	return isErrorCode(err, ErrCodeResolutionFailed)
}

func IsManifestInvalid(err error) bool {
	return isErrorCode(err, ErrCodeManifestInvalid)
}
