package types

// Lift generalizes a concretified type back into a polymorphic scheme:
// every still-unassigned Ref cell reachable from the type
// becomes a fresh binder in forall, and repeat occurrences of the same cell
// become repeat occurrences of the same generic (memoized by seen).
//
// A Lift value is one-shot per call site: construct it, call LiftType once
// or several times against the same forall/env pair so sharing across
// sibling types (e.g. a function's parameter list and return type) is
// preserved, then discard it.
type Lift[CID, GID, TID Ident] struct {
	seen map[RefID]GID
	next FreshGenericFunc[CID, GID, TID]
}

// NewLift creates a Lift that mints fresh generic ids via next.
func NewLift[CID, GID, TID Ident](next FreshGenericFunc[CID, GID, TID]) *Lift[CID, GID, TID] {
	return &Lift[CID, GID, TID]{seen: make(map[RefID]GID), next: next}
}

// LiftType concretifies t against env, then replaces every unassigned Ref
// cell it still contains with a Generic bound in forall. Cells carrying
// constraints contribute those constraints (translated the same way) to the
// new binder the first time they are seen, in the canonical order
// CanonicalConstraintParams produces so two lifts of the same cell yield
// identical binder constraint lists.
func (l *Lift[CID, GID, TID]) LiftType(env *TEnv[CID, GID, TID], forall *Generics[CID, GID, TID], t *Type[CID, GID, TID]) *Type[CID, GID, TID] {
	concrete := env.ConcretifyType(t)
	return concrete.MapType(func(meta any, constr Constr[CID, GID, TID], params []*Type[CID, GID, TID]) *Type[CID, GID, TID] {
		ref, ok := constr.(RefC[CID, GID, TID])
		if !ok {
			return &Type[CID, GID, TID]{Constr: constr, Meta: meta, Params: params}
		}
		gen, ok := l.seen[ref.Cell]
		if !ok {
			gen = l.next(forall)
			l.seen[ref.Cell] = gen
			forall.Insert(gen)
			cs := env.Constraints(ref.Cell)
			translated := make([]Constraint[CID, GID, TID], len(cs))
			for i, c := range cs {
				translated[i] = Constraint[CID, GID, TID]{Trait: c.Trait, Params: l.liftTypes(env, forall, c.Params)}
			}
			named := CanonicalConstraintParams(translated)
			ordered := make([]Constraint[CID, GID, TID], len(named))
			for i, d := range named {
				ordered[i] = Constraint[CID, GID, TID]{Trait: d.Trait, Params: d.Params}
			}
			forall.UpdateWithCons(gen, ordered)
		}
		return &Type[CID, GID, TID]{Constr: GenericC[CID, GID, TID]{Name: gen}, Meta: meta, Params: params}
	})
}

func (l *Lift[CID, GID, TID]) liftTypes(env *TEnv[CID, GID, TID], forall *Generics[CID, GID, TID], ts []*Type[CID, GID, TID]) []*Type[CID, GID, TID] {
	out := make([]*Type[CID, GID, TID], len(ts))
	for i, t := range ts {
		out[i] = l.LiftType(env, forall, t)
	}
	return out
}
