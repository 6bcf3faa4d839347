package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// ErrorBuilder accumulates hints and details before the error is marked.
type ErrorBuilder struct {
	err     error
	details map[string]interface{}
}

// NewError starts a builder from a fresh message.
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepth(1, msg)}
}

// NewErrorf starts a builder from a formatted message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepthf(1, format, args...)}
}

// WithError starts a builder that wraps an existing error. Details already
// attached to err are carried over.
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.NewWithDepth(1, "unknown error")
	}
	return &ErrorBuilder{
		err:     err,
		details: lo.Assign(map[string]interface{}{}, GetReportableDetails(err)),
	}
}

func (b *ErrorBuilder) WithMessage(msg string) *ErrorBuilder {
	b.err = errors.WrapWithDepth(1, b.err, msg)
	return b
}

func (b *ErrorBuilder) WithMessagef(format string, args ...interface{}) *ErrorBuilder {
	b.err = errors.WrapWithDepthf(1, b.err, format, args...)
	return b
}

func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches operator facing context (entity ids, email,
// product name). Later keys override earlier ones.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	if b.details == nil {
		b.details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		b.details[k] = v
	}
	return b
}

// Mark finalises the builder, classifying the error under reference.
func (b *ErrorBuilder) Mark(reference error) error {
	err := b.err
	if len(b.details) > 0 {
		err = &detailedError{cause: err, details: b.details}
	}
	return errors.Mark(err, reference)
}

type detailedError struct {
	cause   error
	details map[string]interface{}
}

func (e *detailedError) Error() string { return e.cause.Error() }

func (e *detailedError) Unwrap() error { return e.cause }

func (e *detailedError) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// GetReportableDetails merges every detail map found along the chain of err,
// outermost values winning.
func GetReportableDetails(err error) map[string]interface{} {
	result := make(map[string]interface{})
	var chain []*detailedError
	for cur := err; cur != nil; cur = errors.UnwrapOnce(cur) {
		if d, ok := cur.(*detailedError); ok {
			chain = append(chain, d)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].details {
			result[k] = v
		}
	}
	return result
}
