package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures coming back from the remote collaborators.
type ErrorKind int

const (
	KindRemoteUnknown ErrorKind = iota
	KindNotAuthenticated
	KindIndexMissing
	KindAuthFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindIndexMissing:
		return "index_missing"
	case KindAuthFailure:
		return "auth_failure"
	default:
		return "remote_unknown"
	}
}

// AuthReason refines KindAuthFailure.
type AuthReason int

const (
	ReasonUnknown AuthReason = iota
	ReasonInvalidCredentials
	ReasonWeakPassword
	ReasonEmailInUse
	ReasonInvalidEmail
)

// Message is the text shown to a user for the reason.
func (r AuthReason) Message() string {
	switch r {
	case ReasonInvalidCredentials:
		return "Invalid email or password"
	case ReasonWeakPassword:
		return "Password should be at least 6 characters"
	case ReasonEmailInUse:
		return "Email is already registered"
	case ReasonInvalidEmail:
		return "Invalid email format"
	default:
		return "Authentication failed"
	}
}

// DefaultIndexHint is shown when the server did not send its own remediation.
const DefaultIndexHint = "ask the server operator to create the todos date-range index " +
	"(restart the server with MONGO_SETUP_INDEXES=true)"

// Error is the tagged failure returned by RemoteStore and IdentityProvider
// implementations.
type Error struct {
	Kind    ErrorKind
	Reason  AuthReason
	Message string
	// Hint carries remediation for KindIndexMissing.
	Hint string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind == KindAuthFailure {
		msg = e.Reason.Message()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrNotAuthenticated is returned by writes attempted without a session.
var ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated, Message: "not authenticated"}

func NewIndexMissing(message, hint string) *Error {
	if hint == "" {
		hint = DefaultIndexHint
	}
	return &Error{Kind: KindIndexMissing, Message: message, Hint: hint}
}

func NewAuthFailure(reason AuthReason, message string) *Error {
	return &Error{Kind: KindAuthFailure, Reason: reason, Message: message}
}

func NewRemoteUnknown(message string, err error) *Error {
	return &Error{Kind: KindRemoteUnknown, Message: message, Err: err}
}

// KindOf reports the kind of err; untagged errors are KindRemoteUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRemoteUnknown
}

// AuthMessage is the user-facing text for a login or registration failure.
func AuthMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAuthFailure {
		return e.Reason.Message()
	}
	return ReasonUnknown.Message()
}

// Store error texts.
const (
	msgFetchFailed  = "Failed to fetch todos"
	msgAuthError    = "Authentication error. Please log in again."
	msgAddFailed    = "Failed to add todo"
	msgUpdateFailed = "Failed to update todo"
	msgDeleteFailed = "Failed to delete todo"
)

// fetchErrorMessage turns a range query failure into the text kept in
// State.Error. Any message mentioning "index" counts as a missing index,
// tagged or not, since some stores report it only in prose.
func fetchErrorMessage(err error) string {
	var e *Error
	tagged := errors.As(err, &e)

	if tagged && e.Kind == KindIndexMissing {
		return indexMessage(e.Hint)
	}
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "index") {
		hint := ""
		if tagged {
			hint = e.Hint
		}
		return indexMessage(hint)
	}
	if tagged && (e.Kind == KindNotAuthenticated || e.Kind == KindAuthFailure) {
		return msgAuthError
	}
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "auth") {
		return msgAuthError
	}
	if err != nil && err.Error() != "" {
		return "Error: " + err.Error()
	}
	return msgFetchFailed
}

func indexMessage(hint string) string {
	if hint == "" {
		hint = DefaultIndexHint
	}
	return "The todo database needs an index before this week can be loaded: " + hint
}
