package engine

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNoProvider
	ErrCodeCircularDependency
	ErrCodeProviderFailed
	ErrCodeInvalidProvider
	ErrCodeScopeDestroyed
	ErrCodeValidationFailed
	ErrCodeStartupFailed
	ErrCodeShutdownFailed
	ErrCodeAlreadyStarted
	ErrCodeResolutionFailed
	ErrCodeManifestInvalid
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeNoProvider:         "NO_PROVIDER",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeProviderFailed:     "PROVIDER_FAILED",
	ErrCodeInvalidProvider:    "INVALID_PROVIDER",
	ErrCodeScopeDestroyed:     "SCOPE_DESTROYED",
	ErrCodeValidationFailed:   "VALIDATION_FAILED",
	ErrCodeStartupFailed:      "STARTUP_FAILED",
	ErrCodeShutdownFailed:     "SHUTDOWN_FAILED",
	ErrCodeAlreadyStarted:     "ALREADY_STARTED",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeManifestInvalid:    "MANIFEST_INVALID",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the single error type surfaced by the resolver. Token names the
// requested capability, Context names the requesting scope, and Chain carries
// the construction path for circular-dependency failures.
type Error struct {
	Code    ErrorCode
	Message string
	Token   string
	Context string
	Cause   error
	Chain   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Token != "" {
		b.WriteString(fmt.Sprintf(" token=%q:", e.Token))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Context != "" {
		b.WriteString(fmt.Sprintf(" (requested from %s)", e.Context))
	}

	if len(e.Chain) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Chain, " -> "))
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

func (e *Error) WithContext(context string) *Error {
	e.Context = context
	return e
}

func (e *Error) WithChain(chain []string) *Error {
	e.Chain = chain
	return e
}

func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errNoProvider(token *Token, context string) *Error {
	return NewError(
		ErrCodeNoProvider,
		fmt.Sprintf("no provider for %s", token),
		nil,
	).WithToken(token.String()).WithContext(context)
}

func errCircularDependency(token *Token, chain []string) *Error {
	return NewError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency for %s", token),
		nil,
	).WithToken(token.String()).WithChain(chain)
}

func errProviderFailed(token *Token, cause error) *Error {
	return NewError(
		ErrCodeProviderFailed,
		fmt.Sprintf("provider for %s returned error", token),
		cause,
	).WithToken(token.String())
}

func errInvalidProvider(token *Token, reason string) *Error {
	return NewError(
		ErrCodeInvalidProvider,
		reason,
		nil,
	).WithToken(token.String())
}

func errScopeDestroyed(context string) *Error {
	return NewError(
		ErrCodeScopeDestroyed,
		"scope has been destroyed",
		nil,
	).WithContext(context)
}

func errDependencyFailed(token *Token, dep *Token, cause error) *Error {
	return NewError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve dependency %s for %s", dep, token),
		cause,
	).WithToken(token.String())
}
