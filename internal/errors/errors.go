package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors used to classify failures. Every error leaving a package is
// marked with exactly one of them through ErrorBuilder.Mark.
var (
	// ErrConfiguration is fatal at startup: nothing is attempted.
	ErrConfiguration = errors.New("configuration error")
	// ErrRemoteAPI wraps transport, auth, rate limit and validation failures
	// returned by the billing provider.
	ErrRemoteAPI = errors.New("remote api error")
	// ErrNotFound is a business-rule failure: a required related entity does
	// not exist in the target account.
	ErrNotFound = errors.New("not found")
	// ErrValidation covers bad caller input such as an empty id.
	ErrValidation = errors.New("validation error")
	// ErrInternal is a local failure (marshalling, file io).
	ErrInternal = errors.New("internal error")
	// ErrSystem is a failure of a supporting system (report upload, cache).
	ErrSystem = errors.New("system error")
)

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsRemoteAPI(err error) bool {
	return errors.Is(err, ErrRemoteAPI)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsSystem(err error) bool {
	return errors.Is(err, ErrSystem)
}

// Kind returns a short label for the sentinel an error was marked with.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsConfiguration(err):
		return "configuration"
	case IsRemoteAPI(err):
		return "remote_api"
	case IsNotFound(err):
		return "not_found"
	case IsValidation(err):
		return "validation"
	case IsSystem(err):
		return "system"
	default:
		return "internal"
	}
}

// GetHint returns the first user facing hint attached to err.
func GetHint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}

// Is and As are re-exported so callers never need both error packages.
func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
