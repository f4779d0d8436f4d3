package types

import (
	"fmt"
	"strings"
)

// CheckErrorKind tags the kind of a CheckError.
type CheckErrorKind string

const (
	KindMismatch            CheckErrorKind = "mismatch"
	KindParamAmountMismatch CheckErrorKind = "param_amount_mismatch"
	KindConstraintNotMet    CheckErrorKind = "constraint_not_met"
	KindDiscarded           CheckErrorKind = "discarded"
	KindUnimplemented       CheckErrorKind = "unimplemented"
)

// ContenderReason explains why a single impl candidate was rejected during
// resolution.
type ContenderReason string

const (
	ReasonInvalidTraitParams ContenderReason = "invalid_trait_params"
	ReasonInvalidImpltor     ContenderReason = "invalid_impltor"
	ReasonImpltorUnresolved  ContenderReason = "impltor_unresolved"
	ReasonSelfUnsupported    ContenderReason = "self_unsupported"
	ReasonObligationCycle    ContenderReason = "obligation_cycle"
)

// Contender records one rejected impl candidate and why, so a
// ConstraintNotMet error can explain what was tried.
type Contender[CID, GID, TID Ident] struct {
	ImplID int
	Reason ContenderReason
	Detail string
}

// CheckError is the error family produced by Check: mismatch, arity
// mismatch, and unsolved trait obligations.
type CheckError[CID, GID, TID Ident] struct {
	Kind       CheckErrorKind
	Left       *Type[CID, GID, TID]
	Right      *Type[CID, GID, TID]
	Constraint *Constraint[CID, GID, TID]
	Contenders []Contender[CID, GID, TID]
	Message    string
}

func (e *CheckError[CID, GID, TID]) Error() string {
	switch e.Kind {
	case KindMismatch:
		return fmt.Sprintf("cannot unify %s with %s", DisplayType(e.Left), DisplayType(e.Right))
	case KindParamAmountMismatch:
		return fmt.Sprintf("matching heads but differing arity: %s vs %s", DisplayType(e.Left), DisplayType(e.Right))
	case KindConstraintNotMet:
		return fmt.Sprintf("%s does not satisfy %s (%d candidate(s) considered and rejected)",
			DisplayType(e.Left), displayConstraint(e.Constraint), len(e.Contenders))
	case KindDiscarded:
		return "discarded (cheap mode)"
	case KindUnimplemented:
		return e.Message
	default:
		return e.Message
	}
}

func displayConstraint[CID, GID, TID Ident](c *Constraint[CID, GID, TID]) string {
	if c == nil {
		return "<constraint>"
	}
	return DisplayConstraint(*c)
}

// AnnotationError is the error family surfaced at the Mapping annotation
// boundary (AnnotateGID / AnnotateIndex / AnnotateSelf).
type AnnotationError[CID, GID, TID Ident] struct {
	Ref             RefID
	Prior           *Type[CID, GID, TID]
	Constraint      *Constraint[CID, GID, TID]
	Contenders      []Contender[CID, GID, TID]
	alreadyAssigned bool
}

func (e *AnnotationError[CID, GID, TID]) Error() string {
	if e.alreadyAssigned {
		return fmt.Sprintf("cell %d already assigned to %s", e.Ref, DisplayType(e.Prior))
	}
	return fmt.Sprintf("cell %d: %s", e.Ref, displayConstraint(e.Constraint))
}

// IsAlreadyAssigned reports whether err is an AlreadyAssigned annotation
// failure (as opposed to a Constraint failure).
func (e *AnnotationError[CID, GID, TID]) IsAlreadyAssigned() bool {
	return e.alreadyAssigned
}

// CallError is the error family for a scheme instance's Call: wrong arity,
// or one-or-more per-position check failures.
type CallError[CID, GID, TID Ident] struct {
	Got, Expected int
	Positional    []error // nil entries mean "that position succeeded"
}

func (e *CallError[CID, GID, TID]) Error() string {
	if e.Positional == nil {
		return fmt.Sprintf("wrong argument count: got %d, expected %d", e.Got, e.Expected)
	}
	var parts []string
	for i, err := range e.Positional {
		if err != nil {
			parts = append(parts, fmt.Sprintf("argument %d: %s", i, err))
		}
	}
	return strings.Join(parts, "; ")
}

// HasFailures reports whether a CallError built from per-position checks
// actually contains any.
func (e *CallError[CID, GID, TID]) HasFailures() bool {
	if e.Positional == nil {
		return true
	}
	for _, err := range e.Positional {
		if err != nil {
			return true
		}
	}
	return false
}

// ImplHeaderFailureKind tags an ImplHeaderFailure.
type ImplHeaderFailureKind string

const (
	ImplHeaderMismatch           ImplHeaderFailureKind = "mismatch"
	ImplHeaderConflictingGeneric ImplHeaderFailureKind = "conflicting_generic"
)

// ImplHeaderFailure records one divergence found while checking a method's
// signature in an impl block against the trait's declared signature.
type ImplHeaderFailure[CID, GID, TID Ident] struct {
	Kind          ImplHeaderFailureKind
	Got, Expected *Type[CID, GID, TID]
	InMethod      GID
	FromImplBlock GID
}

func (f ImplHeaderFailure[CID, GID, TID]) Error() string {
	switch f.Kind {
	case ImplHeaderConflictingGeneric:
		return fmt.Sprintf("generic %s in method conflicts with %s already fixed by the impl block", DisplayGID(f.InMethod), DisplayGID(f.FromImplBlock))
	default:
		return fmt.Sprintf("mismatch: got %s, expected %s", DisplayType(f.Got), DisplayType(f.Expected))
	}
}

// DisplayGID renders a generic id using its Stringer, for symmetry with
// DisplayType.
func DisplayGID[GID Ident](g GID) string {
	return g.String()
}
