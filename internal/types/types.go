package types

// Constr is the closed set of type-term head constructors: one small
// struct per variant behind a marker interface, rather than a single
// tagged union struct, so each variant carries exactly the payload it
// needs and nothing else.
type Constr[CID, GID, TID Ident] interface {
	isConstr()
}

// ConcreteC is a named, nominal type (e.g. int, option) drawn from the
// front-end's concrete id set.
type ConcreteC[CID, GID, TID Ident] struct {
	Name CID
}

func (ConcreteC[CID, GID, TID]) isConstr() {}

// GenericC is a named, bound type variable inside a scheme.
type GenericC[CID, GID, TID Ident] struct {
	Name GID
}

func (GenericC[CID, GID, TID]) isConstr() {}

// RefC is a handle into a particular TEnv's cell vector. A RefC is only
// meaningful relative to the TEnv that produced its RefID.
type RefC[CID, GID, TID Ident] struct {
	Cell RefID
}

func (RefC[CID, GID, TID]) isConstr() {}

// ObjectC is an existential witness of a trait (a trait object).
type ObjectC[CID, GID, TID Ident] struct {
	Trait TID
}

func (ObjectC[CID, GID, TID]) isConstr() {}

// SelfC is the receiver placeholder inside trait declarations.
type SelfC[CID, GID, TID Ident] struct{}

func (SelfC[CID, GID, TID]) isConstr() {}

// Type is the recursive algebraic type term: a constructor head, an opaque
// front-end-supplied metadata payload, and an ordered list of child types.
// Params carries both applied type arguments (option int) and, when Constr
// is RefC, higher-kinded application of a not-yet-resolved cell.
type Type[CID, GID, TID Ident] struct {
	Constr Constr[CID, GID, TID]
	Meta   any
	Params []*Type[CID, GID, TID]
}

// NewConcrete builds a Concrete(c) type term.
func NewConcrete[CID, GID, TID Ident](c CID, meta any, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return &Type[CID, GID, TID]{Constr: ConcreteC[CID, GID, TID]{Name: c}, Meta: meta, Params: params}
}

// NewGeneric builds a Generic(g) type term.
func NewGeneric[CID, GID, TID Ident](g GID, meta any, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return &Type[CID, GID, TID]{Constr: GenericC[CID, GID, TID]{Name: g}, Meta: meta, Params: params}
}

// NewRef builds a Ref(r) type term, optionally applied to higher-kinded
// params.
func NewRef[CID, GID, TID Ident](r RefID, meta any, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return &Type[CID, GID, TID]{Constr: RefC[CID, GID, TID]{Cell: r}, Meta: meta, Params: params}
}

// NewObject builds an Object(t) trait-object witness type term.
func NewObject[CID, GID, TID Ident](t TID, meta any, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return &Type[CID, GID, TID]{Constr: ObjectC[CID, GID, TID]{Trait: t}, Meta: meta, Params: params}
}

// NewSelf builds a Self receiver-placeholder type term.
func NewSelf[CID, GID, TID Ident](meta any, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return &Type[CID, GID, TID]{Constr: SelfC[CID, GID, TID]{}, Meta: meta, Params: params}
}

// MapType performs a post-order structural fold: children are mapped first,
// then f is called with the (already-mapped) node to produce the
// replacement. f receives the original constructor/meta and the mapped
// params so it can rebuild the node under a (possibly different) head.
func (t *Type[CID, GID, TID]) MapType(f func(meta any, constr Constr[CID, GID, TID], params []*Type[CID, GID, TID]) *Type[CID, GID, TID]) *Type[CID, GID, TID] {
	mapped := make([]*Type[CID, GID, TID], len(t.Params))
	for i, p := range t.Params {
		mapped[i] = p.MapType(f)
	}
	return f(t.Meta, t.Constr, mapped)
}

// MapTypeInto is MapType across a change of the TypeData parameterisation:
// the callback sees the original node's head and meta together with the
// already-mapped children, and rebuilds the node in the output identifier
// sorts. MapType is the fixed-sorts special case.
func MapTypeInto[CID, GID, TID, CID2, GID2, TID2 Ident](
	t *Type[CID, GID, TID],
	f func(meta any, constr Constr[CID, GID, TID], params []*Type[CID2, GID2, TID2]) *Type[CID2, GID2, TID2],
) *Type[CID2, GID2, TID2] {
	mapped := make([]*Type[CID2, GID2, TID2], len(t.Params))
	for i, p := range t.Params {
		mapped[i] = MapTypeInto(p, f)
	}
	return f(t.Meta, t.Constr, mapped)
}

// MapConstr rewrites only the constructor head; params are preserved
// untouched (no recursion into children).
func (t *Type[CID, GID, TID]) MapConstr(f func(meta any, constr Constr[CID, GID, TID]) Constr[CID, GID, TID]) *Type[CID, GID, TID] {
	return &Type[CID, GID, TID]{Constr: f(t.Meta, t.Constr), Meta: t.Meta, Params: t.Params}
}

// DirectEq is structural equality ignoring Meta. It is used only for
// comparison (tests, cache keys) — never for unification, which must
// always go through the checker so Ref cells get followed.
func (t *Type[CID, GID, TID]) DirectEq(o *Type[CID, GID, TID]) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Params) != len(o.Params) {
		return false
	}
	switch tc := t.Constr.(type) {
	case ConcreteC[CID, GID, TID]:
		oc, ok := o.Constr.(ConcreteC[CID, GID, TID])
		if !ok || tc.Name != oc.Name {
			return false
		}
	case GenericC[CID, GID, TID]:
		oc, ok := o.Constr.(GenericC[CID, GID, TID])
		if !ok || tc.Name != oc.Name {
			return false
		}
	case RefC[CID, GID, TID]:
		oc, ok := o.Constr.(RefC[CID, GID, TID])
		if !ok || tc.Cell != oc.Cell {
			return false
		}
	case ObjectC[CID, GID, TID]:
		oc, ok := o.Constr.(ObjectC[CID, GID, TID])
		if !ok || tc.Trait != oc.Trait {
			return false
		}
	case SelfC[CID, GID, TID]:
		if _, ok := o.Constr.(SelfC[CID, GID, TID]); !ok {
			return false
		}
	default:
		return false
	}
	for i := range t.Params {
		if !t.Params[i].DirectEq(o.Params[i]) {
			return false
		}
	}
	return true
}

// cloneParams makes a shallow copy of a param slice, used wherever a new
// Type node is built from an existing one's children to avoid aliasing the
// caller's backing array.
func cloneParams[CID, GID, TID Ident](params []*Type[CID, GID, TID]) []*Type[CID, GID, TID] {
	out := make([]*Type[CID, GID, TID], len(params))
	copy(out, params)
	return out
}

// Constraint is a requirement that some variable satisfies Trait
// instantiated at Params (the self-type is not included — it is the entity
// being constrained).
type Constraint[CID, GID, TID Ident] struct {
	Trait  TID
	Params []*Type[CID, GID, TID]
}
