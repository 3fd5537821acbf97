package domain

import "net/http"

// ErrorKind classifies a domain failure. Each kind maps to exactly one HTTP status.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidState
	KindUnauthorized
	KindForbidden
	KindValidation
	KindConflict
)

// Error is the typed error raised by every guard in the core.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}

// Is reports a match when target is an *Error of the same kind and either carries no
// message (a kind sentinel) or the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidState:
		return "invalid state"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation failed"
	case KindConflict:
		return "conflict"
	default:
		return "unknown error"
	}
}

func newError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Constructors for ad-hoc messages of a given kind.
func NotFound(msg string) error     { return newError(KindNotFound, msg) }
func InvalidState(msg string) error { return newError(KindInvalidState, msg) }
func Unauthorized(msg string) error { return newError(KindUnauthorized, msg) }
func Forbidden(msg string) error    { return newError(KindForbidden, msg) }
func Validation(msg string) error   { return newError(KindValidation, msg) }
func Conflict(msg string) error     { return newError(KindConflict, msg) }

// Kind sentinels: errors.Is(err, ErrNotFound) matches any not-found error.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
)

var (
	ErrProjectNotFound    = newError(KindNotFound, "project not found")
	ErrActorNotFound      = newError(KindNotFound, "actor not found")
	ErrTeamMemberNotFound = newError(KindNotFound, "team member not found")
	ErrApproverNotFound   = newError(KindNotFound, "approver not found")

	ErrEstimateRequired   = newError(KindInvalidState, "estimated duration must be set before the project can be attended")
	ErrNotAssignedMember  = newError(KindUnauthorized, "only the assigned team member can change this project")
	ErrMissingIdentity    = newError(KindUnauthorized, "missing actor identity")
	ErrNotApprover        = newError(KindForbidden, "actor is not an active approver")
	ErrNotApproverManager = newError(KindForbidden, "actor cannot manage approvers")
	ErrNotTeamAdmin       = newError(KindForbidden, "actor cannot administer the team")
	ErrPermissionDenied   = newError(KindForbidden, "actor lacks permission for this action")

	ErrVersionConflict    = newError(KindConflict, "project was modified concurrently, reload and retry")
	ErrApproverExists     = newError(KindConflict, "approver already registered")
	ErrTeamMemberExists   = newError(KindConflict, "team member already registered")
	ErrIdempotencyPending = newError(KindConflict, "a request with this idempotency key is still in flight")
)
