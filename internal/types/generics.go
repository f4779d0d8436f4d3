package types

// binder is one entry of a Generics scheme: a bound generic id together
// with the trait bounds attached to it.
type binder[CID, GID, TID Ident] struct {
	gen  GID
	cons []Constraint[CID, GID, TID]
}

// Generics is an ordered sequence of (generic id, []Constraint) pairs — the
// binders of a polymorphic scheme with per-binder trait bounds. Order
// matters: it is the calling convention for explicit type arguments.
// Generic ids are unique within a Generics value.
type Generics[CID, GID, TID Ident] struct {
	order   []GID
	byGen   map[GID]int
	binders []binder[CID, GID, TID]
}

// NewGenerics creates an empty Generics scheme.
func NewGenerics[CID, GID, TID Ident]() *Generics[CID, GID, TID] {
	return &Generics[CID, GID, TID]{byGen: make(map[GID]int)}
}

// Insert adds a binder with no constraints. If g is already bound, this is
// a no-op (use UpdateWithCons to merge constraints into an existing
// binder).
func (g *Generics[CID, GID, TID]) Insert(gen GID) {
	if _, ok := g.byGen[gen]; ok {
		return
	}
	g.byGen[gen] = len(g.binders)
	g.order = append(g.order, gen)
	g.binders = append(g.binders, binder[CID, GID, TID]{gen: gen})
}

// InsertWithCons adds a binder with the given constraints, or is a no-op if
// g is already present (use UpdateWithCons to merge into an existing
// binder).
func (g *Generics[CID, GID, TID]) InsertWithCons(gen GID, cs []Constraint[CID, GID, TID]) {
	if _, ok := g.byGen[gen]; ok {
		return
	}
	g.byGen[gen] = len(g.binders)
	g.order = append(g.order, gen)
	g.binders = append(g.binders, binder[CID, GID, TID]{gen: gen, cons: append([]Constraint[CID, GID, TID]{}, cs...)})
}

// UpdateWithCons merges cs into gen's existing constraint list, or inserts
// a fresh binder with those constraints if gen is not yet present.
func (g *Generics[CID, GID, TID]) UpdateWithCons(gen GID, cs []Constraint[CID, GID, TID]) {
	if i, ok := g.byGen[gen]; ok {
		g.binders[i].cons = append(g.binders[i].cons, cs...)
		return
	}
	g.InsertWithCons(gen, cs)
}

// Constraints returns gen's constraint list and whether gen is bound at
// all.
func (g *Generics[CID, GID, TID]) Constraints(gen GID) ([]Constraint[CID, GID, TID], bool) {
	i, ok := g.byGen[gen]
	if !ok {
		return nil, false
	}
	return g.binders[i].cons, true
}

// Position returns gen's zero-based index in binder order (the calling
// convention for explicit type arguments).
func (g *Generics[CID, GID, TID]) Position(gen GID) (int, bool) {
	i, ok := g.byGen[gen]
	return i, ok
}

// Contains reports whether gen is bound in g.
func (g *Generics[CID, GID, TID]) Contains(gen GID) bool {
	_, ok := g.byGen[gen]
	return ok
}

// Extend appends other's binders (in order) that are not already present.
// Binders already present in g are left untouched (their constraints are
// not merged — use UpdateWithCons explicitly if that's desired).
func (g *Generics[CID, GID, TID]) Extend(other *Generics[CID, GID, TID]) {
	for _, gen := range other.order {
		if g.Contains(gen) {
			continue
		}
		cs, _ := other.Constraints(gen)
		g.InsertWithCons(gen, cs)
	}
}

// Iter returns the bound generic ids in binder order.
func (g *Generics[CID, GID, TID]) Iter() []GID {
	return append([]GID{}, g.order...)
}

// Len returns the number of binders.
func (g *Generics[CID, GID, TID]) Len() int {
	return len(g.order)
}

// FreshGenericFunc is a host-supplied source of generic ids not already
// present in forall. Spec calls this first_available; it is consumed by
// Lift when a cell needs to be promoted to a brand-new binder.
type FreshGenericFunc[CID, GID, TID Ident] func(forall *Generics[CID, GID, TID]) GID
