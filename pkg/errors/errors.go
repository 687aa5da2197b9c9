// Package errors provides structured error handling for the Weft engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindCycle indicates a dependency cycle among bindings.
	KindCycle
	// KindReadOnly indicates a write to a binding-driven property.
	KindReadOnly
	// KindLinkConflict indicates a two-way link between two bound properties.
	KindLinkConflict
	// KindTypeMismatch indicates incompatible value types at a binding,
	// link, or animation site.
	KindTypeMismatch
	// KindReentrant indicates a write issued from inside binding evaluation.
	KindReentrant
	// KindUnknownRef indicates a reference to an undeclared property,
	// callback, or child.
	KindUnknownRef
	// KindDefinition indicates a malformed component definition.
	KindDefinition
	// KindDropped indicates an input event no handler accepted.
	KindDropped
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindStorage indicates a trace store failure. Recording is
	// best-effort; these never abort a cascade.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindCycle:
		return "cycle"
	case KindReadOnly:
		return "read-only"
	case KindLinkConflict:
		return "link-conflict"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindReentrant:
		return "reentrant"
	case KindUnknownRef:
		return "unknown-ref"
	case KindDefinition:
		return "definition"
	case KindDropped:
		return "dropped"
	case KindPanic:
		return "panic"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// WeftError represents a structured error in the Weft engine.
type WeftError struct {
	// Op is the operation that failed (e.g., "binding.Graph.Seal").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Component is the component path, if applicable.
	Component string
	// Property is the property name, if applicable.
	Property string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *WeftError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]", e.Op, e.Kind)
	if e.Component != "" {
		fmt.Fprintf(&sb, " component=%s", e.Component)
	}
	if e.Property != "" {
		fmt.Fprintf(&sb, " property=%s", e.Property)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *WeftError) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err. It unwraps until a *WeftError is
// found and returns KindUnknown if there is none.
func KindOf(err error) Kind {
	for err != nil {
		if we, ok := err.(*WeftError); ok {
			return we.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind anywhere in its chain.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// CycleError describes a dependency cycle found during construction.
type CycleError struct {
	// Path lists the property names along the cycle. The first entry is
	// repeated at the end to close the loop.
	Path []string
}

func (e *CycleError) Error() string {
	return "binding cycle: " + strings.Join(e.Path, " -> ")
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.Runtime.Drain").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the Weft engine.
//
// Construction-time failures (cycles, link conflicts, type mismatches)
// surface as ordinary error returns and never reach the handler; the
// handler carries the runtime signal for rejections that do not abort
// the cascade, such as a write to a read-only property or an input
// event nothing accepted.
type Handler interface {
	// HandleError is called when a runtime rejection occurs.
	HandleError(err *WeftError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
