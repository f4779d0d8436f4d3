// Package traits implements the trait index and resolver: the registry of
// impl blocks a front end has declared, organized into the concrete /
// object / blanket / default buckets, and the Select operation the checker
// (internal/types) discharges constraints through.
//
// This package imports internal/types, never the reverse — internal/types
// only knows about a types.Resolver interface, and TraitIndex satisfies it.
// That keeps the logical two-way relationship (checker asks the resolver to
// select; select's probing asks the checker to unify) from becoming a
// circular package import.
package traits

import (
	"fmt"

	"github.com/luminalang/lyte/internal/types"
)

// Impl is one impl block: `impl<Generics> Trait[TraitParams] for Self`.
type Impl[CID, GID, TID, AID types.Ident] struct {
	ID          int
	Trait       TID
	TraitParams []*types.Type[CID, GID, TID]
	Generics    *types.Generics[CID, GID, TID]
	Self        *types.Type[CID, GID, TID]
	Methods     []types.MethodSig[CID, GID, TID]
	// Associated records associated-type bindings declared by this impl.
	// They are recorded, never elaborated: an impl with any entry here
	// always reports HasAssociated on a successful SelectOutcome.
	Associated map[AID]*types.Type[CID, GID, TID]
	// Default marks this impl as the trait's fallback, tried only when no
	// concrete, object, or blanket impl matches.
	Default bool
	// Super lists additional traits this impl's Self provisionally
	// satisfies too (e.g. an Ord impl also standing in for Eq), consulted
	// by Select as a last resort before ConstraintNotMet.
	Super []TID
}

// TraitIndex is the registry of impls for all traits known to a front end,
// and implements types.Resolver so the checker can discharge constraints
// against it. Per trait, concrete impls are bucketed by the outermost
// concrete-type id of their Self and object impls by the witnessed trait, so
// Select only ever probes candidates whose head could match the query.
type TraitIndex[CID, GID, TID, AID types.Ident] struct {
	all          []*Impl[CID, GID, TID, AID]
	concrete     map[TID]map[CID][]*Impl[CID, GID, TID, AID]
	object       map[TID]map[TID][]*Impl[CID, GID, TID, AID]
	blanket      map[TID][]*Impl[CID, GID, TID, AID]
	deflt        map[TID]*Impl[CID, GID, TID, AID]
	superDerived map[TID][]*Impl[CID, GID, TID, AID]
	defaultType  map[TID]*types.Type[CID, GID, TID]
}

// NewTraitIndex creates an empty trait index.
func NewTraitIndex[CID, GID, TID, AID types.Ident]() *TraitIndex[CID, GID, TID, AID] {
	return &TraitIndex[CID, GID, TID, AID]{
		concrete:     make(map[TID]map[CID][]*Impl[CID, GID, TID, AID]),
		object:       make(map[TID]map[TID][]*Impl[CID, GID, TID, AID]),
		blanket:      make(map[TID][]*Impl[CID, GID, TID, AID]),
		deflt:        make(map[TID]*Impl[CID, GID, TID, AID]),
		superDerived: make(map[TID][]*Impl[CID, GID, TID, AID]),
		defaultType:  make(map[TID]*types.Type[CID, GID, TID]),
	}
}

// SetDefaultType records the type a front end may fall back a cell to when
// it is left unassigned but constrained only by trait (e.g. an unconstrained
// numeric literal defaulting to int). The engine never applies this itself;
// it only stores and exposes the mapping for a front end to consult.
func (idx *TraitIndex[CID, GID, TID, AID]) SetDefaultType(trait TID, concrete *types.Type[CID, GID, TID]) {
	idx.defaultType[trait] = concrete
}

// DefaultType returns the default type registered for trait, if any.
func (idx *TraitIndex[CID, GID, TID, AID]) DefaultType(trait TID) (*types.Type[CID, GID, TID], bool) {
	t, ok := idx.defaultType[trait]
	return t, ok
}

// Implement registers impl, assigning it a stable ID and filing it into the
// bucket its Self shape determines. An impltor headed by an inference cell
// or the Self placeholder is a front-end bug and panics. Registering a
// second default impl for the same trait replaces the first — a front end
// is expected to reject that itself (name-resolution concerns are out of
// scope here).
func (idx *TraitIndex[CID, GID, TID, AID]) Implement(impl *Impl[CID, GID, TID, AID]) {
	switch impl.Self.Constr.(type) {
	case types.RefC[CID, GID, TID], types.SelfC[CID, GID, TID]:
		panic(fmt.Sprintf("impl of %s: impltor head must be a concrete, object, or generic type", impl.Trait))
	}
	impl.ID = len(idx.all)
	idx.all = append(idx.all, impl)
	switch c := impl.Self.Constr.(type) {
	case types.ObjectC[CID, GID, TID]:
		if impl.Default {
			idx.deflt[impl.Trait] = impl
			break
		}
		if idx.object[impl.Trait] == nil {
			idx.object[impl.Trait] = make(map[TID][]*Impl[CID, GID, TID, AID])
		}
		idx.object[impl.Trait][c.Trait] = append(idx.object[impl.Trait][c.Trait], impl)
	case types.GenericC[CID, GID, TID]:
		if impl.Default {
			idx.deflt[impl.Trait] = impl
			break
		}
		idx.blanket[impl.Trait] = append(idx.blanket[impl.Trait], impl)
	case types.ConcreteC[CID, GID, TID]:
		if impl.Default {
			idx.deflt[impl.Trait] = impl
			break
		}
		if idx.concrete[impl.Trait] == nil {
			idx.concrete[impl.Trait] = make(map[CID][]*Impl[CID, GID, TID, AID])
		}
		idx.concrete[impl.Trait][c.Name] = append(idx.concrete[impl.Trait][c.Name], impl)
	}
	for _, s := range impl.Super {
		idx.superDerived[s] = append(idx.superDerived[s], impl)
	}
}

// Get returns the registered impl by ID, for rendering a resolved call site
// back to the front end (e.g. "resolved via impl #3").
func (idx *TraitIndex[CID, GID, TID, AID]) Get(id int) (*Impl[CID, GID, TID, AID], bool) {
	if id < 0 || id >= len(idx.all) {
		return nil, false
	}
	return idx.all[id], true
}

// Select implements types.Resolver. The candidate set is chosen by the
// impltor's head: concrete[c] plus the
// blanket list for a concrete head, object[t] plus blanket for a trait
// object, blanket alone for a generic. Candidates are probed in that order,
// falling through to the default impl and then to superclass-derived impls
// only if nothing earlier produced a success, and every rejected
// candidate's reason is returned alongside the successes.
//
// An assigned Ref impltor is chased first. An impltor that is still an
// unassigned Ref, or the Self placeholder itself, is reported via a
// sentinel Contender rather than attempted: speculatively resolving
// against an as-yet-unknown type is not supported by this engine.
func (idx *TraitIndex[CID, GID, TID, AID]) Select(env *types.TEnv[CID, GID, TID], trait TID, traitParams []*types.Type[CID, GID, TID], impltor *types.Type[CID, GID, TID]) ([]types.SelectOutcome[CID, GID, TID], []types.Contender[CID, GID, TID]) {
	target := impltor
	if rc, ok := target.Constr.(types.RefC[CID, GID, TID]); ok {
		if _, assigned := env.GetType(rc.Cell); assigned {
			target = env.ConcretifyType(target)
		}
	}

	var candidates []*Impl[CID, GID, TID, AID]
	switch c := target.Constr.(type) {
	case types.ConcreteC[CID, GID, TID]:
		candidates = append(candidates, idx.concrete[trait][c.Name]...)
		candidates = append(candidates, idx.blanket[trait]...)
	case types.ObjectC[CID, GID, TID]:
		candidates = append(candidates, idx.object[trait][c.Trait]...)
		candidates = append(candidates, idx.blanket[trait]...)
	case types.GenericC[CID, GID, TID]:
		candidates = idx.blanket[trait]
	case types.RefC[CID, GID, TID]:
		return nil, []types.Contender[CID, GID, TID]{{ImplID: -1, Reason: types.ReasonImpltorUnresolved, Detail: "impltor is an unassigned inference cell"}}
	case types.SelfC[CID, GID, TID]:
		return nil, []types.Contender[CID, GID, TID]{{ImplID: -1, Reason: types.ReasonSelfUnsupported, Detail: "resolving against the Self placeholder is not supported by this resolver"}}
	}

	var outcomes []types.SelectOutcome[CID, GID, TID]
	var contenders []types.Contender[CID, GID, TID]

	try := func(impls []*Impl[CID, GID, TID, AID]) {
		for _, impl := range impls {
			outcome, contender, ok := idx.isSuitable(env, impl, traitParams, target)
			if ok {
				outcomes = append(outcomes, outcome)
			} else {
				contenders = append(contenders, contender)
			}
		}
	}

	try(candidates)
	if len(outcomes) == 0 {
		if d, ok := idx.deflt[trait]; ok {
			try([]*Impl[CID, GID, TID, AID]{d})
		}
	}
	if len(outcomes) == 0 {
		for _, impl := range idx.superDerived[trait] {
			outcome, contender, ok := idx.isSuitableSuper(env, impl, target)
			if ok {
				outcomes = append(outcomes, outcome)
			} else {
				contenders = append(contenders, contender)
			}
		}
	}
	return outcomes, contenders
}

// isSuitableSuper probes a superclass-derived candidate: unlike isSuitable,
// it only requires the impl's Self to unify with impltor — the candidate's
// own trait params belong to a different trait (the one it directly
// implements), so there is nothing to compare them against.
func (idx *TraitIndex[CID, GID, TID, AID]) isSuitableSuper(env *types.TEnv[CID, GID, TID], impl *Impl[CID, GID, TID, AID], impltor *types.Type[CID, GID, TID]) (types.SelectOutcome[CID, GID, TID], types.Contender[CID, GID, TID], bool) {
	clone := env.Clone()
	m := types.ToMapping(impl.Generics, clone, nil)
	implSelf := m.ApplyType(impl.Self)
	if err := types.Check(clone, idx, types.HandleCheap, implSelf, impltor); err != nil {
		return types.SelectOutcome[CID, GID, TID]{}, types.Contender[CID, GID, TID]{
			ImplID: impl.ID, Reason: types.ReasonInvalidImpltor, Detail: err.Error(),
		}, false
	}
	return types.SelectOutcome[CID, GID, TID]{
		ImplID:         impl.ID,
		Env:            clone,
		UnifiedImpltor: clone.ConcretifyType(implSelf),
		HasAssociated:  len(impl.Associated) > 0,
	}, types.Contender[CID, GID, TID]{}, true
}

// isSuitable probes one impl against traitParams/impltor on a cloned TEnv:
// clone, probe, and either discard or let the caller commit. The clone is
// discarded by the caller on failure simply by not adopting it; this
// function itself never mutates env.
func (idx *TraitIndex[CID, GID, TID, AID]) isSuitable(env *types.TEnv[CID, GID, TID], impl *Impl[CID, GID, TID, AID], traitParams []*types.Type[CID, GID, TID], impltor *types.Type[CID, GID, TID]) (types.SelectOutcome[CID, GID, TID], types.Contender[CID, GID, TID], bool) {
	clone := env.Clone()
	m := types.ToMapping(impl.Generics, clone, nil)
	implTraitParams := m.ApplyTypes(impl.TraitParams)
	implSelf := m.ApplyType(impl.Self)

	if len(implTraitParams) != len(traitParams) {
		return types.SelectOutcome[CID, GID, TID]{}, types.Contender[CID, GID, TID]{
			ImplID: impl.ID, Reason: types.ReasonInvalidTraitParams,
			Detail: fmt.Sprintf("trait param arity %d does not match %d", len(implTraitParams), len(traitParams)),
		}, false
	}
	for i := range traitParams {
		if err := types.Check(clone, idx, types.HandleCheap, implTraitParams[i], traitParams[i]); err != nil {
			return types.SelectOutcome[CID, GID, TID]{}, types.Contender[CID, GID, TID]{
				ImplID: impl.ID, Reason: types.ReasonInvalidTraitParams, Detail: err.Error(),
			}, false
		}
	}
	if err := types.Check(clone, idx, types.HandleCheap, implSelf, impltor); err != nil {
		return types.SelectOutcome[CID, GID, TID]{}, types.Contender[CID, GID, TID]{
			ImplID: impl.ID, Reason: types.ReasonInvalidImpltor, Detail: err.Error(),
		}, false
	}

	return types.SelectOutcome[CID, GID, TID]{
		ImplID:         impl.ID,
		Env:            clone,
		UnifiedImpltor: clone.ConcretifyType(implSelf),
		HasAssociated:  len(impl.Associated) > 0,
	}, types.Contender[CID, GID, TID]{}, true
}
