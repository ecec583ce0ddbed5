package proof

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDocument reports input that could not be parsed at the structural level.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedFormat reports a format tag outside text, json and pdf.
	ErrUnsupportedFormat = errors.New("unsupported proof format")

	// ErrEmptyDocument reports an attempt to share an empty document.
	ErrEmptyDocument = errors.New("document is empty")
)

// MissingFieldError reports a mandatory field whose marker or key was absent,
// or whose extracted value was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ParseError is the single error every extractor returns on failure.
// Reason carries the human readable cause; Err keeps the cause itself so
// errors.Is and errors.As can reach a MissingFieldError or ErrMalformedDocument.
type ParseError struct {
	Format Format
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("failed to parse proof: %s", e.Reason)
	}
	return fmt.Sprintf("failed to parse %s proof: %s", e.Format, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError wraps err into a ParseError for format. An err that already
// is a ParseError is returned untouched.
func newParseError(format Format, err error) error {
	if err == nil {
		return nil
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}

	return &ParseError{Format: format, Reason: err.Error(), Err: err}
}

func missingField(field string) error {
	return &MissingFieldError{Field: field}
}

// IsMissingField reports whether err was caused by the named mandatory field
// being absent. An empty field name matches any missing field.
func IsMissingField(err error, field string) bool {
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		return false
	}

	return field == "" || mf.Field == field
}
