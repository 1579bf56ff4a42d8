// Package validation defines the kinds of user error the compiler reports and
// the Report that bundles every violation found in a document into one error.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a validation failure.
type Kind int

const (
	// InputShape is a missing required key, a wrong type or an unknown key.
	InputShape Kind = iota + 1
	// Invariant is a cross-entity rule violation such as a duplicate identifier.
	Invariant
	// EmulationLevelNotSupported is a level the hardware kind cannot run at.
	EmulationLevelNotSupported
	// LocalPathMissing is a local path that does not exist on disk.
	LocalPathMissing
	// RemoteRefInvalid is a remote reference that is not a known ref.
	RemoteRefInvalid
	// PipetteUnknown is a pipette outside the catalog or with a bad model or serial code.
	PipetteUnknown
)

func (k Kind) String() string {
	switch k {
	case InputShape:
		return "input shape"
	case Invariant:
		return "invariant"
	case EmulationLevelNotSupported:
		return "emulation level not supported"
	case LocalPathMissing:
		return "local path missing"
	case RemoteRefInvalid:
		return "remote ref invalid"
	case PipetteUnknown:
		return "pipette unknown"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a single violation. Field is the dotted path of the offending
// input key and may be empty.
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error with a formatted message.
func Errorf(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Err: fmt.Errorf(format, args...)}
}

// Report collects violations in the order they are found.
type Report struct {
	errs []*Error
}

// Add records err. A nil err is ignored, a ReportError is flattened and any
// other error is recorded as an InputShape violation.
func (r *Report) Add(err error) {
	if err == nil {
		return
	}
	var rep *ReportError
	if errors.As(err, &rep) {
		r.errs = append(r.errs, rep.Errors...)
		return
	}
	var verr *Error
	if errors.As(err, &verr) {
		r.errs = append(r.errs, verr)
		return
	}
	r.errs = append(r.errs, &Error{Kind: InputShape, Err: err})
}

// Addf records a formatted violation.
func (r *Report) Addf(kind Kind, field, format string, args ...any) {
	r.errs = append(r.errs, Errorf(kind, field, format, args...))
}

// Len returns the number of recorded violations.
func (r *Report) Len() int { return len(r.errs) }

// Err returns nil when nothing was recorded and a *ReportError otherwise.
func (r *Report) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return &ReportError{Errors: append([]*Error(nil), r.errs...)}
}

// ReportError is the bundled form of a Report.
type ReportError struct {
	Errors []*Error
}

func (e *ReportError) Error() string {
	var b strings.Builder
	if len(e.Errors) == 1 {
		b.WriteString("configuration is invalid: 1 violation")
	} else {
		fmt.Fprintf(&b, "configuration is invalid: %d violations", len(e.Errors))
	}
	for _, err := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ReportError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Kinds lists the kind of every violation in err's tree, in order.
func Kinds(err error) []Kind {
	var kinds []Kind
	var walk func(error)
	walk = func(e error) {
		switch x := e.(type) {
		case nil:
		case *Error:
			kinds = append(kinds, x.Kind)
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return kinds
}

// HasKind reports whether any violation in err's tree is of kind k.
func HasKind(err error, k Kind) bool {
	for _, kind := range Kinds(err) {
		if kind == k {
			return true
		}
	}
	return false
}

// IsValidation reports whether err carries at least one violation.
func IsValidation(err error) bool {
	return len(Kinds(err)) > 0
}
