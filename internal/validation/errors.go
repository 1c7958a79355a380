package validation

import "errors"

// Kind identifies why an input was rejected
type Kind string

const (
	MultiWordInput         Kind = "MULTI_WORD_INPUT"
	InputTooLong           Kind = "INPUT_TOO_LONG"
	EmptyAfterSanitization Kind = "EMPTY_AFTER_SANITIZATION"
	SuspiciousContent      Kind = "SUSPICIOUS_CONTENT"
)

// Error represents a rejected input. Message is safe to show to the player.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the rejection kind carried by err, if any
func KindOf(err error) (Kind, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}
