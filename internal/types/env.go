package types

// Cell is one inference variable: an optional assignment (set at most
// once, monotonic) and a growable list of trait constraints it must
// ultimately satisfy.
type Cell[CID, GID, TID Ident] struct {
	assignment  *Type[CID, GID, TID]
	constraints []Constraint[CID, GID, TID]
	// resolving marks the cell as mid-constraint-discharge, so a recursive
	// obligation on the same cell (directly or through a speculative clone)
	// is cut off instead of recursing without bound.
	resolving bool
}

// Assigned reports whether the cell has been assigned a type yet.
func (c *Cell[CID, GID, TID]) Assigned() bool {
	return c.assignment != nil
}

// TEnv is the flat, index-addressed vector of inference cells. Cells are
// never removed; a TEnv only grows by Spawn* or by Clone-and-replace during
// speculative resolution.
type TEnv[CID, GID, TID Ident] struct {
	cells []*Cell[CID, GID, TID]
}

// NewTEnv creates an empty inference environment.
func NewTEnv[CID, GID, TID Ident]() *TEnv[CID, GID, TID] {
	return &TEnv[CID, GID, TID]{}
}

// Spawn allocates a fresh, unconstrained, unassigned cell and returns its
// RefID.
func (e *TEnv[CID, GID, TID]) Spawn() RefID {
	return e.SpawnWithCons(nil)
}

// SpawnWithCons allocates a fresh cell carrying the given constraints.
func (e *TEnv[CID, GID, TID]) SpawnWithCons(cs []Constraint[CID, GID, TID]) RefID {
	r := RefID(len(e.cells))
	e.cells = append(e.cells, &Cell[CID, GID, TID]{constraints: append([]Constraint[CID, GID, TID]{}, cs...)})
	return r
}

// SpawnType allocates a fresh cell and wraps it as a Ref(r) type term
// carrying meta.
func (e *TEnv[CID, GID, TID]) SpawnType(meta any) *Type[CID, GID, TID] {
	r := e.Spawn()
	return NewRef[CID, GID, TID](r, meta)
}

// cell looks up a cell by RefID. Panics on an out-of-range RefID: that can
// only happen if a caller mixes RefIDs from two different TEnvs, which is a
// caller bug, not a recoverable condition.
func (e *TEnv[CID, GID, TID]) cell(r RefID) *Cell[CID, GID, TID] {
	return e.cells[r]
}

// Assign sets r's assignment. It fails if r is already assigned — an
// assignment is write-once.
func (e *TEnv[CID, GID, TID]) Assign(r RefID, t *Type[CID, GID, TID]) error {
	c := e.cell(r)
	if c.assignment != nil {
		return &AnnotationError[CID, GID, TID]{Ref: r, Prior: c.assignment, alreadyAssigned: true}
	}
	c.assignment = t
	return nil
}

// GetType returns r's current assignment, if any.
func (e *TEnv[CID, GID, TID]) GetType(r RefID) (*Type[CID, GID, TID], bool) {
	c := e.cell(r)
	return c.assignment, c.assignment != nil
}

// Constraints returns r's constraint list (not a defensive copy — callers
// must not mutate it; use AddConstraint to grow it).
func (e *TEnv[CID, GID, TID]) Constraints(r RefID) []Constraint[CID, GID, TID] {
	return e.cell(r).constraints
}

// AddConstraint appends c to r's constraint list. Constraint lists only
// grow.
func (e *TEnv[CID, GID, TID]) AddConstraint(r RefID, c Constraint[CID, GID, TID]) {
	cell := e.cell(r)
	cell.constraints = append(cell.constraints, c)
}

// Len returns the number of cells spawned so far.
func (e *TEnv[CID, GID, TID]) Len() int {
	return len(e.cells)
}

// ConcretifyType replaces each Ref(r) in t by r's transitively resolved
// assignment, appending the chased node's params with the original
// occurrence's params (higher-kinded application). A Ref that is still
// unassigned is left in place (with its own params
// concretified). Idempotent: concretifying an already-concretified type
// returns an equal type.
func (e *TEnv[CID, GID, TID]) ConcretifyType(t *Type[CID, GID, TID]) *Type[CID, GID, TID] {
	switch c := t.Constr.(type) {
	case RefC[CID, GID, TID]:
		params := make([]*Type[CID, GID, TID], len(t.Params))
		for i, p := range t.Params {
			params[i] = e.ConcretifyType(p)
		}
		assigned, ok := e.GetType(c.Cell)
		if !ok {
			return &Type[CID, GID, TID]{Constr: c, Meta: t.Meta, Params: params}
		}
		resolved := e.ConcretifyType(assigned)
		merged := append(cloneParams(resolved.Params), params...)
		return &Type[CID, GID, TID]{Constr: resolved.Constr, Meta: resolved.Meta, Params: merged}
	default:
		params := make([]*Type[CID, GID, TID], len(t.Params))
		for i, p := range t.Params {
			params[i] = e.ConcretifyType(p)
		}
		return &Type[CID, GID, TID]{Constr: c, Meta: t.Meta, Params: params}
	}
}

// Clone takes a speculative snapshot of the environment: a new TEnv whose
// cells are independent copies of this TEnv's cells (same assignments and
// constraints, but mutating the clone never perturbs the original). Coarse
// but exact given cells are monotonic and TEnvs are small in practice.
func (e *TEnv[CID, GID, TID]) Clone() *TEnv[CID, GID, TID] {
	out := &TEnv[CID, GID, TID]{cells: make([]*Cell[CID, GID, TID], len(e.cells))}
	for i, c := range e.cells {
		out.cells[i] = &Cell[CID, GID, TID]{
			assignment:  c.assignment,
			constraints: append([]Constraint[CID, GID, TID]{}, c.constraints...),
			resolving:   c.resolving,
		}
	}
	return out
}

// beginResolve marks r as mid-constraint-discharge. Returns false if r is
// already being resolved, which means the obligation under discharge has
// cycled back onto the cell it constrains (e.g. a binder bounded by a trait
// at itself). Clone carries the mark, so the cut-off also holds across the
// resolver's speculative probes.
func (e *TEnv[CID, GID, TID]) beginResolve(r RefID) bool {
	c := e.cell(r)
	if c.resolving {
		return false
	}
	c.resolving = true
	return true
}

func (e *TEnv[CID, GID, TID]) endResolve(r RefID) {
	e.cell(r).resolving = false
}

// Adopt replaces e's cells with other's, committing a previously cloned
// and speculatively-mutated environment into the live one. other is
// expected to have been produced by e.Clone() (possibly with further
// Spawn* calls on top); adopting anything else is a caller bug.
func (e *TEnv[CID, GID, TID]) Adopt(other *TEnv[CID, GID, TID]) {
	e.cells = other.cells
}
