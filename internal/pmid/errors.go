package pmid

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a batch of identifiers was rejected.
type ErrorKind int

const (
	// EmptyInput means no identifiers were supplied.
	EmptyInput ErrorKind = iota + 1
	// InvalidToken means a token could not be read as a positive integer.
	InvalidToken
	// Malformed means an encoded submission is not a single JSON array.
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "empty_input"
	case InvalidToken:
		return "invalid_token"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyInput matches any ParseError of kind EmptyInput via errors.Is.
	ErrEmptyInput = errors.New("pmid: empty input")
	// ErrInvalidToken matches any ParseError of kind InvalidToken via errors.Is.
	ErrInvalidToken = errors.New("pmid: invalid token")
	// ErrMalformed matches any ParseError of kind Malformed via errors.Is.
	ErrMalformed = errors.New("pmid: malformed submission")
)

// ParseError is returned when a batch cannot be accepted. Token carries the first
// offending raw token for InvalidToken failures. Cause holds the decoder error for
// Malformed failures.
type ParseError struct {
	Kind  ErrorKind
	Token string
	Cause error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case InvalidToken:
		return fmt.Sprintf("pmid: %q is not a valid PubMed ID", e.Token)
	case Malformed:
		if e.Cause != nil {
			return "pmid: malformed submission: " + e.Cause.Error()
		}
		return "pmid: malformed submission"
	}
	return "pmid: no PubMed IDs supplied"
}

// Unwrap exposes the decoder error behind a Malformed failure.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is lets callers compare against the ErrEmptyInput and ErrInvalidToken sentinels.
func (e *ParseError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrEmptyInput:
		return e.Kind == EmptyInput
	case ErrInvalidToken:
		return e.Kind == InvalidToken
	case ErrMalformed:
		return e.Kind == Malformed
	}
	return false
}

func emptyInput() error {
	return &ParseError{Kind: EmptyInput}
}

func invalidToken(token string) error {
	return &ParseError{Kind: InvalidToken, Token: token}
}

func malformed(cause error) error {
	return &ParseError{Kind: Malformed, Cause: cause}
}

// AsParseError extracts the ParseError wrapped in err, if any.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
