package types

import "fmt"

// ErrorHandlerMode selects how Check reports failures. Represented as a
// small tagged enum rather than subtyping.
type ErrorHandlerMode int

const (
	// HandleExpensive preserves both sides of a failed check for
	// downstream rendering. The default for front-end-facing calls.
	HandleExpensive ErrorHandlerMode = iota
	// HandleCheap discards details and returns a Discarded sentinel.
	// Reserved for the resolver's internal speculative probing — it must
	// never reach a user.
	HandleCheap
	// HandlePanic aborts the process with a rendered type diagram.
	// Debug-only.
	HandlePanic
)

// SelectOutcome is what a successful trait-resolution candidate hands back
// to the checker: the impl that matched, the (possibly further-mutated)
// speculative TEnv clone to commit, and whether committing it still leaves
// associated-type instantiation unresolved.
type SelectOutcome[CID, GID, TID Ident] struct {
	ImplID         int
	Env            *TEnv[CID, GID, TID]
	UnifiedImpltor *Type[CID, GID, TID]
	HasAssociated  bool
}

// Resolver is the trait index's contract as seen by the checker. It is
// declared here (rather than the checker importing the traits package)
// specifically so internal/traits can depend on internal/types without a
// cycle: traits.TraitIndex implements Resolver, and callers hand a
// TraitIndex in wherever a Resolver is expected.
type Resolver[CID, GID, TID Ident] interface {
	Select(env *TEnv[CID, GID, TID], trait TID, traitParams []*Type[CID, GID, TID], impltor *Type[CID, GID, TID]) ([]SelectOutcome[CID, GID, TID], []Contender[CID, GID, TID])
}

// Check structurally consolidates left and right. A nil
// resolver is valid when the caller knows no cell involved carries trait
// constraints; any constraint encountered with a nil resolver is reported
// as ConstraintNotMet with no contenders.
func Check[CID, GID, TID Ident](env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], handler ErrorHandlerMode, left, right *Type[CID, GID, TID]) error {
	return check(env, resolver, handler, left, right)
}

func check[CID, GID, TID Ident](env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], handler ErrorHandlerMode, left, right *Type[CID, GID, TID]) error {
	lref, lIsRef := left.Constr.(RefC[CID, GID, TID])
	rref, rIsRef := right.Constr.(RefC[CID, GID, TID])

	if lIsRef && rIsRef {
		if lref.Cell == rref.Cell {
			return checkParamsPairwise(env, resolver, handler, left, right)
		}
		_, lok := env.GetType(lref.Cell)
		_, rok := env.GetType(rref.Cell)
		switch {
		case lok && rok:
			return check(env, resolver, handler, env.ConcretifyType(left), env.ConcretifyType(right))
		case lok && !rok:
			return check(env, resolver, handler, env.ConcretifyType(left), right)
		case !lok && rok:
			return check(env, resolver, handler, left, env.ConcretifyType(right))
		default:
			return mergeBothUnassigned(env, resolver, handler, lref.Cell, rref.Cell, left, right)
		}
	}

	if lIsRef {
		if _, ok := env.GetType(lref.Cell); ok {
			return check(env, resolver, handler, env.ConcretifyType(left), right)
		}
		return AssignToRef(env, resolver, handler, lref.Cell, left.Params, right)
	}
	if rIsRef {
		if _, ok := env.GetType(rref.Cell); ok {
			return check(env, resolver, handler, left, env.ConcretifyType(right))
		}
		return AssignToRef(env, resolver, handler, rref.Cell, right.Params, left)
	}

	if _, ok := left.Constr.(SelfC[CID, GID, TID]); ok {
		return unimplementedSelf(left, right)
	}
	if _, ok := right.Constr.(SelfC[CID, GID, TID]); ok {
		return unimplementedSelf(left, right)
	}

	switch lc := left.Constr.(type) {
	case ConcreteC[CID, GID, TID]:
		rc, ok := right.Constr.(ConcreteC[CID, GID, TID])
		if !ok || lc.Name != rc.Name {
			return mismatch(handler, left, right)
		}
		return checkParamsPairwise(env, resolver, handler, left, right)
	case GenericC[CID, GID, TID]:
		rc, ok := right.Constr.(GenericC[CID, GID, TID])
		if !ok || lc.Name != rc.Name {
			return mismatch(handler, left, right)
		}
		return checkParamsPairwise(env, resolver, handler, left, right)
	case ObjectC[CID, GID, TID]:
		rc, ok := right.Constr.(ObjectC[CID, GID, TID])
		if !ok || lc.Trait != rc.Trait {
			return mismatch(handler, left, right)
		}
		return checkParamsPairwise(env, resolver, handler, left, right)
	default:
		return mismatch(handler, left, right)
	}
}

// checkParamsPairwise enforces the param arity rule and then unifies
// params left-to-right, aborting on the first error.
func checkParamsPairwise[CID, GID, TID Ident](env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], handler ErrorHandlerMode, left, right *Type[CID, GID, TID]) error {
	if len(left.Params) != len(right.Params) {
		return paramAmountMismatch(handler, left, right)
	}
	for i := range left.Params {
		if err := check(env, resolver, handler, left.Params[i], right.Params[i]); err != nil {
			return err
		}
	}
	return nil
}

// mergeBothUnassigned handles two unassigned cells meeting: spawn a fresh
// cell whose constraints are the union of both sides', point both original
// cells at it, then check the original params pairwise. Unequal param
// counts are rejected rather than partially unified; neither side carries
// enough information to justify guessing.
func mergeBothUnassigned[CID, GID, TID Ident](env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], handler ErrorHandlerMode, lc, rc RefID, left, right *Type[CID, GID, TID]) error {
	merged := append(append([]Constraint[CID, GID, TID]{}, env.Constraints(lc)...), env.Constraints(rc)...)
	m := env.SpawnWithCons(merged)
	refM := NewRef[CID, GID, TID](m, left.Meta)
	if err := env.Assign(lc, refM); err != nil {
		return err
	}
	if err := env.Assign(rc, refM); err != nil {
		return err
	}
	if len(left.Params) != len(right.Params) {
		return paramAmountMismatch(handler, left, right)
	}
	return checkParamsPairwise(env, resolver, handler, left, right)
}

// AssignToRef peels any higher-kinded params declared on the Ref(r)
// occurrence, discharges r's trait obligations against the resulting
// constructor via resolver, and finally assigns it to r. It is also the
// operation the Mapping annotation entry points (AnnotateGID /
// AnnotateIndex / AnnotateSelf) invoke with an empty rp.
func AssignToRef[CID, GID, TID Ident](env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], handler ErrorHandlerMode, r RefID, rp []*Type[CID, GID, TID], given *Type[CID, GID, TID]) error {
	target := given
	if len(rp) > 0 {
		n := len(rp)
		if len(given.Params) < n {
			return paramAmountMismatch(handler, NewRef[CID, GID, TID](r, given.Meta, rp...), given)
		}
		split := len(given.Params) - n
		peeled := given.Params[split:]
		for i := range rp {
			if err := check(env, resolver, handler, peeled[i], rp[i]); err != nil {
				return err
			}
		}
		target = &Type[CID, GID, TID]{Constr: given.Constr, Meta: given.Meta, Params: given.Params[:split]}
	}

	cons := env.Constraints(r)
	if len(cons) > 0 {
		if !env.beginResolve(r) {
			return constraintNotMet(handler, target, cons[0], []Contender[CID, GID, TID]{{
				ImplID: -1, Reason: ReasonObligationCycle,
				Detail: "obligation recursively depends on the cell it constrains",
			}})
		}
		defer env.endResolve(r)
		for _, c := range cons {
			if resolver == nil {
				return constraintNotMet(handler, target, c, nil)
			}
			outcomes, contenders := resolver.Select(env, c.Trait, c.Params, target)
			if len(outcomes) == 0 {
				return constraintNotMet(handler, target, c, contenders)
			}
			// First committed candidate wins. Candidates arrive in bucket
			// order, so a concrete impl always beats a blanket one.
			winner := outcomes[0]
			env.Adopt(winner.Env)
			if winner.HasAssociated {
				return &CheckError[CID, GID, TID]{Kind: KindUnimplemented, Left: target, Message: "associated-type instantiation on selected impls is not implemented"}
			}
		}
	}
	return env.Assign(r, target)
}

func mismatch[CID, GID, TID Ident](handler ErrorHandlerMode, left, right *Type[CID, GID, TID]) error {
	switch handler {
	case HandleCheap:
		return &CheckError[CID, GID, TID]{Kind: KindDiscarded}
	case HandlePanic:
		panic(fmt.Sprintf("type mismatch: %s vs %s", DisplayType(left), DisplayType(right)))
	default:
		return &CheckError[CID, GID, TID]{Kind: KindMismatch, Left: left, Right: right}
	}
}

func paramAmountMismatch[CID, GID, TID Ident](handler ErrorHandlerMode, left, right *Type[CID, GID, TID]) error {
	switch handler {
	case HandleCheap:
		return &CheckError[CID, GID, TID]{Kind: KindDiscarded}
	case HandlePanic:
		panic(fmt.Sprintf("param count mismatch: %s vs %s", DisplayType(left), DisplayType(right)))
	default:
		return &CheckError[CID, GID, TID]{Kind: KindParamAmountMismatch, Left: left, Right: right}
	}
}

func constraintNotMet[CID, GID, TID Ident](handler ErrorHandlerMode, given *Type[CID, GID, TID], c Constraint[CID, GID, TID], contenders []Contender[CID, GID, TID]) error {
	if handler == HandleCheap {
		return &CheckError[CID, GID, TID]{Kind: KindDiscarded}
	}
	cc := c
	if handler == HandlePanic {
		panic(fmt.Sprintf("constraint not met: %s does not satisfy %s", DisplayType(given), DisplayConstraint(c)))
	}
	return &CheckError[CID, GID, TID]{Kind: KindConstraintNotMet, Left: given, Constraint: &cc, Contenders: contenders}
}

func unimplementedSelf[CID, GID, TID Ident](left, right *Type[CID, GID, TID]) error {
	return &CheckError[CID, GID, TID]{Kind: KindUnimplemented, Left: left, Right: right, Message: "Self unification in the general checker is not implemented"}
}
