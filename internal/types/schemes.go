package types

import "fmt"

// This file implements the front-end-facing scheme types that wrap a
// Generics binder list around the shapes a front end actually declares
// (functions, products, sums, traits), plus the Foreign* constructors for
// host items that have no binders at all. A foreign item is simply a
// scheme with an empty Generics, not a distinct representation.

// FunctionSig is a (possibly polymorphic) function signature: zero or more
// parameter types and a return type, closed over Forall.
type FunctionSig[CID, GID, TID Ident] struct {
	Forall *Generics[CID, GID, TID]
	Params []*Type[CID, GID, TID]
	Ret    *Type[CID, GID, TID]
}

// ForeignFunction builds a monomorphic FunctionSig — a host-declared
// function with no generic binders.
func ForeignFunction[CID, GID, TID Ident](params []*Type[CID, GID, TID], ret *Type[CID, GID, TID]) *FunctionSig[CID, GID, TID] {
	return &FunctionSig[CID, GID, TID]{Forall: NewGenerics[CID, GID, TID](), Params: params, Ret: ret}
}

// FunctionInstance is one instantiation of a FunctionSig (or of one method
// of a TraitInstance): its binders resolved to fresh cells, still mutable
// via Call/Check until the caller's own unification pins them down.
type FunctionInstance[CID, GID, TID Ident] struct {
	Params  []*Type[CID, GID, TID]
	Ret     *Type[CID, GID, TID]
	mapping *Mapping[CID, GID, TID]
}

// Instantiate allocates a fresh cell per binder in sig.Forall and
// substitutes them through Params/Ret. selfCell, if non-nil, is the cell
// SelfC occurrences (if any slipped into a non-method signature) resolve to.
func (sig *FunctionSig[CID, GID, TID]) Instantiate(env *TEnv[CID, GID, TID], selfCell *RefID) *FunctionInstance[CID, GID, TID] {
	m := ToMapping(sig.Forall, env, selfCell)
	return &FunctionInstance[CID, GID, TID]{Params: m.ApplyTypes(sig.Params), Ret: m.ApplyType(sig.Ret), mapping: m}
}

// Function returns the instance's parameter and return types.
func (fi *FunctionInstance[CID, GID, TID]) Function() ([]*Type[CID, GID, TID], *Type[CID, GID, TID]) {
	return fi.Params, fi.Ret
}

// Mapping exposes the instantiation's Mapping, e.g. so a caller can pin an
// explicit type argument via AnnotateIndex/AnnotateGID before calling.
func (fi *FunctionInstance[CID, GID, TID]) Mapping() *Mapping[CID, GID, TID] {
	return fi.mapping
}

// ToForeign lifts this instance back into a standalone, instantiable
// signature: params and return are concretified against env, and any
// still-unresolved cells become implicit binders appended to forall (their
// accumulated constraints promoted along).
func (fi *FunctionInstance[CID, GID, TID]) ToForeign(env *TEnv[CID, GID, TID], forall *Generics[CID, GID, TID], next FreshGenericFunc[CID, GID, TID]) *FunctionSig[CID, GID, TID] {
	l := NewLift(next)
	params := make([]*Type[CID, GID, TID], len(fi.Params))
	for i, p := range fi.Params {
		params[i] = l.LiftType(env, forall, p)
	}
	return &FunctionSig[CID, GID, TID]{Forall: forall, Params: params, Ret: l.LiftType(env, forall, fi.Ret)}
}

// Call checks args against the instance's parameters positionally and
// returns the (possibly still cell-bearing) return type on success. All
// positions are checked even after the first failure, so CallError can
// report every mismatch, not just the first.
func (fi *FunctionInstance[CID, GID, TID]) Call(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], handler ErrorHandlerMode, args []*Type[CID, GID, TID]) (*Type[CID, GID, TID], error) {
	if len(args) != len(fi.Params) {
		return nil, &CallError[CID, GID, TID]{Got: len(args), Expected: len(fi.Params)}
	}
	positional := make([]error, len(args))
	failed := false
	for i, p := range fi.Params {
		if err := Check(env, resolver, handler, p, args[i]); err != nil {
			positional[i] = err
			failed = true
		}
	}
	if failed {
		return nil, &CallError[CID, GID, TID]{Got: len(args), Expected: len(fi.Params), Positional: positional}
	}
	return fi.Ret, nil
}

// FieldSig is one named field of a product type.
type FieldSig[CID, GID, TID Ident] struct {
	Name string
	Type *Type[CID, GID, TID]
}

// ProductSig is a (possibly polymorphic) record/struct-like type: a name
// plus an ordered field list.
type ProductSig[CID, GID, TID Ident] struct {
	Forall *Generics[CID, GID, TID]
	Name   CID
	Fields []FieldSig[CID, GID, TID]
}

// ForeignProduct builds a monomorphic ProductSig.
func ForeignProduct[CID, GID, TID Ident](name CID, fields []FieldSig[CID, GID, TID]) *ProductSig[CID, GID, TID] {
	return &ProductSig[CID, GID, TID]{Forall: NewGenerics[CID, GID, TID](), Name: name, Fields: fields}
}

// ProductInstance is one instantiation of a ProductSig.
type ProductInstance[CID, GID, TID Ident] struct {
	Type    *Type[CID, GID, TID]
	Fields  []*Type[CID, GID, TID]
	mapping *Mapping[CID, GID, TID]
}

// Instantiate allocates fresh cells for sig.Forall and builds the product's
// own concrete type term (applied to those cells, in binder order) together
// with each field's instantiated type.
func (sig *ProductSig[CID, GID, TID]) Instantiate(env *TEnv[CID, GID, TID], meta any) *ProductInstance[CID, GID, TID] {
	m := ToMapping(sig.Forall, env, nil)
	params := make([]*Type[CID, GID, TID], len(m.Conversion))
	for i, b := range m.Conversion {
		params[i] = NewRef[CID, GID, TID](b.Cell, meta)
	}
	fields := make([]*Type[CID, GID, TID], len(sig.Fields))
	for i, f := range sig.Fields {
		fields[i] = m.ApplyType(f.Type)
	}
	return &ProductInstance[CID, GID, TID]{
		Type:    &Type[CID, GID, TID]{Constr: ConcreteC[CID, GID, TID]{Name: sig.Name}, Meta: meta, Params: params},
		Fields:  fields,
		mapping: m,
	}
}

// Field returns the instantiated type of field i.
func (pi *ProductInstance[CID, GID, TID]) Field(i int) *Type[CID, GID, TID] {
	return pi.Fields[i]
}

// Accessor returns the (Self) -> FieldType signature of field i's accessor,
// as a one-argument FunctionInstance sharing this instantiation's cells.
func (pi *ProductInstance[CID, GID, TID]) Accessor(i int) *FunctionInstance[CID, GID, TID] {
	return &FunctionInstance[CID, GID, TID]{Params: []*Type[CID, GID, TID]{pi.Type}, Ret: pi.Fields[i], mapping: pi.mapping}
}

// VariantSig is one variant of a sum type: a tag name and its ordered
// payload field types (empty for a nullary variant).
type VariantSig[CID, GID, TID Ident] struct {
	Name   string
	Fields []*Type[CID, GID, TID]
}

// SumSig is a (possibly polymorphic) tagged-union type.
type SumSig[CID, GID, TID Ident] struct {
	Forall   *Generics[CID, GID, TID]
	Name     CID
	Variants []VariantSig[CID, GID, TID]
}

// ForeignSum builds a monomorphic SumSig.
func ForeignSum[CID, GID, TID Ident](name CID, variants []VariantSig[CID, GID, TID]) *SumSig[CID, GID, TID] {
	return &SumSig[CID, GID, TID]{Forall: NewGenerics[CID, GID, TID](), Name: name, Variants: variants}
}

// SumInstance is one instantiation of a SumSig.
type SumInstance[CID, GID, TID Ident] struct {
	Type     *Type[CID, GID, TID]
	Variants [][]*Type[CID, GID, TID]
	mapping  *Mapping[CID, GID, TID]
}

// Instantiate mirrors ProductSig.Instantiate, applying the same fresh cells
// across every variant's payload so they all share the sum's type
// parameters.
func (sig *SumSig[CID, GID, TID]) Instantiate(env *TEnv[CID, GID, TID], meta any) *SumInstance[CID, GID, TID] {
	m := ToMapping(sig.Forall, env, nil)
	params := make([]*Type[CID, GID, TID], len(m.Conversion))
	for i, b := range m.Conversion {
		params[i] = NewRef[CID, GID, TID](b.Cell, meta)
	}
	variants := make([][]*Type[CID, GID, TID], len(sig.Variants))
	for i, v := range sig.Variants {
		variants[i] = m.ApplyTypes(v.Fields)
	}
	return &SumInstance[CID, GID, TID]{
		Type:     &Type[CID, GID, TID]{Constr: ConcreteC[CID, GID, TID]{Name: sig.Name}, Meta: meta, Params: params},
		Variants: variants,
		mapping:  m,
	}
}

// Variant returns variant i's instantiated payload field types.
func (si *SumInstance[CID, GID, TID]) Variant(i int) []*Type[CID, GID, TID] {
	return si.Variants[i]
}

// Constructor returns variant i's (fields...) -> SumType signature as a
// FunctionInstance sharing this instantiation's cells.
func (si *SumInstance[CID, GID, TID]) Constructor(i int) *FunctionInstance[CID, GID, TID] {
	return &FunctionInstance[CID, GID, TID]{Params: si.Variants[i], Ret: si.Type, mapping: si.mapping}
}

// MethodSig is one method of a trait declaration. Its Sig's Params/Ret may
// contain SelfC occurrences standing for the implementing type.
type MethodSig[CID, GID, TID Ident] struct {
	Name string
	Sig  *FunctionSig[CID, GID, TID]
}

// TraitSig is a trait declaration: its own generics (besides Self) and its
// method list.
type TraitSig[CID, GID, TID Ident] struct {
	Forall  *Generics[CID, GID, TID]
	Name    TID
	Methods []MethodSig[CID, GID, TID]
}

// ForeignTrait builds a monomorphic TraitSig (no trait-level generics beyond
// Self).
func ForeignTrait[CID, GID, TID Ident](name TID, methods []MethodSig[CID, GID, TID]) *TraitSig[CID, GID, TID] {
	return &TraitSig[CID, GID, TID]{Forall: NewGenerics[CID, GID, TID](), Name: name, Methods: methods}
}

// TraitInstance is one instantiation of a TraitSig at a call site: the
// trait's own generics get fresh cells immediately, but Self is left
// unresolved until SetSelf/SetSelfCheckConstraint is called — mirroring how
// a method call's receiver is typically known only after the arguments
// start unifying.
type TraitInstance[CID, GID, TID Ident] struct {
	sig     *TraitSig[CID, GID, TID]
	mapping *Mapping[CID, GID, TID]
	selfRef RefID
}

// Instantiate allocates fresh cells for sig.Forall plus one additional cell
// to stand for Self, returning a TraitInstance whose Self cell starts
// unassigned: SetSelf pins it, or a call through a Method instance infers
// it.
func (sig *TraitSig[CID, GID, TID]) Instantiate(env *TEnv[CID, GID, TID]) *TraitInstance[CID, GID, TID] {
	// trait-level generics may not carry bounds; a front end declaring one
	// has a bug, so this is an invariant violation, not an error value.
	for _, gen := range sig.Forall.Iter() {
		if cs, _ := sig.Forall.Constraints(gen); len(cs) > 0 {
			panic(fmt.Sprintf("trait %s: trait-level generic %s must not carry bounds", sig.Name, gen))
		}
	}
	self := env.Spawn()
	m := ToMapping(sig.Forall, env, &self)
	return &TraitInstance[CID, GID, TID]{sig: sig, mapping: m, selfRef: self}
}

// Mapping exposes the instantiation's Mapping, e.g. so a caller can pin
// explicit trait-level type arguments via AnnotateTypes/AnnotateGID before
// resolving methods or verifying an impl block against this instance.
func (ti *TraitInstance[CID, GID, TID]) Mapping() *Mapping[CID, GID, TID] {
	return ti.mapping
}

// SetSelf assigns the implementing type to this instance's Self cell,
// discharging any constraints attached to it (e.g. by SetSelfCheckConstraint
// calls made before this one).
func (ti *TraitInstance[CID, GID, TID]) SetSelf(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], self *Type[CID, GID, TID]) error {
	return ti.mapping.AnnotateSelf(env, resolver, self)
}

// SetSelfCheckConstraint attaches an additional constraint to the Self cell
// before assigning self to it, so that obligation is discharged as part of
// the same assignment (e.g. checking the receiver also implements a
// superclass the method body assumes).
func (ti *TraitInstance[CID, GID, TID]) SetSelfCheckConstraint(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], self *Type[CID, GID, TID], extra Constraint[CID, GID, TID]) error {
	env.AddConstraint(ti.selfRef, extra)
	return ti.mapping.AnnotateSelf(env, resolver, self)
}

// GenerateMethodAnnotation renders method i's signature as seen through
// this instance (Self and any pinned trait generics resolved, the rest
// lifted to fresh binders), working on a clone of env so generating the
// annotation never perturbs live inference state.
func (ti *TraitInstance[CID, GID, TID]) GenerateMethodAnnotation(env *TEnv[CID, GID, TID], i int, next FreshGenericFunc[CID, GID, TID]) *FunctionSig[CID, GID, TID] {
	clone := env.Clone()
	fi := ti.Method(i, clone)
	return fi.ToForeign(clone, NewGenerics[CID, GID, TID](), next)
}

// Method instantiates method i's own generics (shared trait generics and
// Self are already fixed to this instance's cells) and returns its
// signature as a FunctionInstance.
func (ti *TraitInstance[CID, GID, TID]) Method(i int, env *TEnv[CID, GID, TID]) *FunctionInstance[CID, GID, TID] {
	method := ti.sig.Methods[i]
	mm := ToMapping(method.Sig.Forall, env, &ti.selfRef)
	return &FunctionInstance[CID, GID, TID]{
		Params:  mm.ApplyTypes(ti.mapping.ApplyTypes(method.Sig.Params)),
		Ret:     mm.ApplyType(ti.mapping.ApplyType(method.Sig.Ret)),
		mapping: mm,
	}
}
