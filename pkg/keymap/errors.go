// errors.go defines the error taxonomy shared by parsers, the resize engine and the editor.
package keymap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalanced is returned when an opening delimiter never finds its match.
	ErrUnbalanced = errors.New("unbalanced delimiter")

	// ErrEntityNotFound is returned when an edit targets an id or position
	// outside the current entity length.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrNoLayout is returned when keyboard.json declares no usable layout.
	ErrNoLayout = errors.New("no layout information found in keyboard.json")
)

// ParseError reports a structural parse failure for one entity.
type ParseError struct {
	Entity string // "layer", "tap dance", ...
	Offset int    // byte offset of the unmatched opener in the comment-stripped source
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s at offset %d: %v", e.Entity, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func unbalanced(entity string, offset int) error {
	return &ParseError{Entity: entity, Offset: offset, Err: ErrUnbalanced}
}

// TargetError reports an edit aimed at an entity that does not exist.
type TargetError struct {
	Entity string
	Target string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Entity, e.Target, ErrEntityNotFound)
}

func (e *TargetError) Unwrap() error {
	return ErrEntityNotFound
}

func notFound(entity, format string, args ...interface{}) error {
	return &TargetError{Entity: entity, Target: fmt.Sprintf(format, args...)}
}
