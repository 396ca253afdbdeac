package thread

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when the serialized document is empty or blank.
var ErrEmptyInput = errors.New("thread document is empty")

// ParseError reports a document that could not be decoded into the expected
// storeState.messages shape.
type ParseError struct {
	Reason string
	Err    error // underlying decode error, if any
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse thread document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse thread document: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a serialized thread document. It fails with ErrEmptyInput on
// blank input and *ParseError when the JSON is invalid or the
// storeState.messages path is absent. A present-but-empty messages array is
// a valid thread with zero turns.
func Parse(raw string) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Err: err}
	}

	if doc.StoreState == nil {
		return nil, &ParseError{Reason: "missing storeState"}
	}
	if doc.StoreState.Messages == nil {
		return nil, &ParseError{Reason: "missing storeState.messages"}
	}

	return &doc, nil
}
