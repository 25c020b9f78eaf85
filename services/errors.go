package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a core failure so handlers can pick a stable HTTP
// status without string-matching messages.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindConflict
	KindAuthorization
	KindNotFound
	KindContention
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Contention(format string, args ...interface{}) error {
	return &Error{Kind: KindContention, Msg: fmt.Sprintf(format, args...)}
}

func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsValidation(err error) bool { k, ok := KindOf(err); return ok && k == KindValidation }

func IsConflict(err error) bool { k, ok := KindOf(err); return ok && k == KindConflict }

func IsAuthorization(err error) bool { k, ok := KindOf(err); return ok && k == KindAuthorization }

func IsNotFound(err error) bool { k, ok := KindOf(err); return ok && k == KindNotFound }

func IsContention(err error) bool { k, ok := KindOf(err); return ok && k == KindContention }

// isRetryableDBError reports whether the database rejected a transaction
// for a reason that a fresh attempt can resolve: deadlocks, serialization
// failures and lock-wait timeouts.
func isRetryableDBError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "lock timeout") ||
		strings.Contains(msg, "sqlstate 40001") ||
		strings.Contains(msg, "sqlstate 40p01")
}
