package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction means no text could be obtained from a document.
	// Fatal for that one document; callers must not treat it as "no text".
	ErrExtraction = errors.New("text extraction failed")

	// ErrParse means a pattern matched but its value could not be parsed.
	// Non-fatal; the field is omitted.
	ErrParse = errors.New("value parse failed")

	// ErrDetection means language detection failed; the language is "unknown".
	ErrDetection = errors.New("language detection failed")

	ErrDocumentNotFound = errors.New("document not found")
	ErrProfileNotFound  = errors.New("company profile not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
