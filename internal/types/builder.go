package types

// Builder provides a fluent API for constructing type terms and schemes,
// so call sites (and tests) don't need verbose nested struct literals. It
// carries no state of its own — CID/GID/TID only need to be named once at
// the construction site.
type Builder[CID, GID, TID Ident] struct{}

// NewBuilder creates a type-term builder.
func NewBuilder[CID, GID, TID Ident]() *Builder[CID, GID, TID] {
	return &Builder[CID, GID, TID]{}
}

// Con builds a Concrete(c) type term, applied to params if any.
func (b *Builder[CID, GID, TID]) Con(c CID, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return NewConcrete[CID, GID, TID](c, nil, params...)
}

// Var builds a Generic(g) type term.
func (b *Builder[CID, GID, TID]) Var(g GID, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return NewGeneric[CID, GID, TID](g, nil, params...)
}

// Dyn builds an Object(t) trait-object type term.
func (b *Builder[CID, GID, TID]) Dyn(t TID, params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return NewObject[CID, GID, TID](t, nil, params...)
}

// Self builds the Self receiver-placeholder type term.
func (b *Builder[CID, GID, TID]) Self(params ...*Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return NewSelf[CID, GID, TID](nil, params...)
}

// Bound is one (trait, params) bound attached to a binder via the
// GenericsBuilder.
func (b *Builder[CID, GID, TID]) Bound(trait TID, params ...*Type[CID, GID, TID]) Constraint[CID, GID, TID] {
	return Constraint[CID, GID, TID]{Trait: trait, Params: params}
}

// GenericsBuilder provides a fluent interface for building a Generics
// binder list.
type GenericsBuilder[CID, GID, TID Ident] struct {
	g *Generics[CID, GID, TID]
}

// Forall starts building a Generics scheme.
func (b *Builder[CID, GID, TID]) Forall() *GenericsBuilder[CID, GID, TID] {
	return &GenericsBuilder[CID, GID, TID]{g: NewGenerics[CID, GID, TID]()}
}

// Bind adds a binder, optionally bounded by the given constraints, and
// returns the builder for chaining.
//
// Example:
//
//	sch := T.Forall().Bind(a, T.Bound(Eq)).Bind(b).Build()
func (gb *GenericsBuilder[CID, GID, TID]) Bind(g GID, bounds ...Constraint[CID, GID, TID]) *GenericsBuilder[CID, GID, TID] {
	gb.g.InsertWithCons(g, bounds)
	return gb
}

// Build returns the assembled Generics scheme.
func (gb *GenericsBuilder[CID, GID, TID]) Build() *Generics[CID, GID, TID] {
	return gb.g
}

// FuncBuilder provides a fluent interface for building a FunctionSig.
type FuncBuilder[CID, GID, TID Ident] struct {
	forall *Generics[CID, GID, TID]
	params []*Type[CID, GID, TID]
	ret    *Type[CID, GID, TID]
}

// Func starts building a function signature with no binders; chain
// ForAll before Returns to make it polymorphic.
func (b *Builder[CID, GID, TID]) Func(params ...*Type[CID, GID, TID]) *FuncBuilder[CID, GID, TID] {
	return &FuncBuilder[CID, GID, TID]{forall: NewGenerics[CID, GID, TID](), params: params}
}

// ForAll attaches a Generics scheme built via Builder.Forall to this
// function signature.
func (fb *FuncBuilder[CID, GID, TID]) ForAll(g *Generics[CID, GID, TID]) *FuncBuilder[CID, GID, TID] {
	fb.forall = g
	return fb
}

// Returns sets the return type and builds the signature.
func (fb *FuncBuilder[CID, GID, TID]) Returns(ret *Type[CID, GID, TID]) *FunctionSig[CID, GID, TID] {
	fb.ret = ret
	return &FunctionSig[CID, GID, TID]{Forall: fb.forall, Params: fb.params, Ret: fb.ret}
}
