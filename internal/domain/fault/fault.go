package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and the HTTP layer.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindConflict          Kind = "CONFLICT"
	KindNotFound          Kind = "NOT_FOUND"
	KindUnauthorized      Kind = "UNAUTHORIZED"
)

// Stable error codes surfaced to API clients.
const (
	CodeSelfTradeNotAllowed      = "SELF_TRADE_NOT_ALLOWED"
	CodeProductNotTradeable      = "PRODUCT_NOT_TRADEABLE"
	CodeProductNotOwned          = "PRODUCT_NOT_OWNED"
	CodeProductNotActive         = "PRODUCT_NOT_ACTIVE"
	CodeParentOfferNotPending    = "PARENT_OFFER_NOT_PENDING"
	CodeInvalidStateTransition   = "INVALID_STATE_TRANSITION"
	CodeOfferAlreadyResolved     = "OFFER_ALREADY_RESOLVED"
	CodeConcurrentUpdate         = "CONCURRENT_UPDATE"
	CodeProductNoLongerAvailable = "PRODUCT_NO_LONGER_AVAILABLE"
	CodeOfferExpired             = "OFFER_EXPIRED"
	CodeChainTooDeep             = "CHAIN_TOO_DEEP"
	CodeNotEligibleForMatching   = "NOT_ELIGIBLE_FOR_MATCHING"
	CodeInvalidParam             = "INVALID_PARAM"
	CodeNotFound                 = "NOT_FOUND"
	CodeNotOfferParty            = "NOT_OFFER_PARTY"
)

// Error is a structured domain error: a kind for dispatch, a stable code,
// and the offending field when one exists.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a structured error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf creates a structured error with a formatted message.
func Newf(kind Kind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithField attaches the offending field name.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// KindOf returns the kind of err, or "" when err is not a fault error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// CodeOf returns the stable code of err, or "" when err is not a fault error.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
