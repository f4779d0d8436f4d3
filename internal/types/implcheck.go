package types

// implToTrait carries the state for verifying an impl block's method
// signatures against a trait's declared ones: the trait instantiation's
// live Mapping and TEnv (so a trait-level generic the front end has already
// pinned to a type is compared against that type instead of being
// bijection-matched), plus the running correspondence between the trait's
// method-level generics and the impl block's own.
type implToTrait[CID, GID, TID Ident] struct {
	env     *TEnv[CID, GID, TID]
	mapping *Mapping[CID, GID, TID]
	// binding / reverse hold the 1-to-1 correspondence built up so far:
	// trait-side generic <-> impl-side generic.
	binding  map[GID]GID
	reverse  map[GID]GID
	failures []ImplHeaderFailure[CID, GID, TID]
}

func newImplToTrait[CID, GID, TID Ident](env *TEnv[CID, GID, TID], mapping *Mapping[CID, GID, TID]) *implToTrait[CID, GID, TID] {
	return &implToTrait[CID, GID, TID]{
		env:     env,
		mapping: mapping,
		binding: make(map[GID]GID),
		reverse: make(map[GID]GID),
	}
}

func (c *implToTrait[CID, GID, TID]) mismatch(got, exp *Type[CID, GID, TID]) {
	c.failures = append(c.failures, ImplHeaderFailure[CID, GID, TID]{Kind: ImplHeaderMismatch, Got: got, Expected: exp})
}

func (c *implToTrait[CID, GID, TID]) conflict(inMethod, fromImplBlock GID) {
	c.failures = append(c.failures, ImplHeaderFailure[CID, GID, TID]{Kind: ImplHeaderConflictingGeneric, InMethod: inMethod, FromImplBlock: fromImplBlock})
}

// traitFixed returns the type a trait-level generic's cell has been pinned
// to, if the generic is bound in the trait mapping and its cell is already
// assigned.
func (c *implToTrait[CID, GID, TID]) traitFixed(g GID) (*Type[CID, GID, TID], bool) {
	r, ok := c.mapping.Lookup(g)
	if !ok {
		return nil, false
	}
	assigned, ok := c.env.GetType(r)
	if !ok {
		return nil, false
	}
	return c.env.ConcretifyType(assigned), true
}

// convert walks one (given, expected) signature pair and returns the
// canonicalised form of given: Self rewritten to the trait's pinned cell,
// trait-fixed generics to their pinned types, everything else kept in the
// impl's own spelling. Divergences are collected rather than aborting, so
// one pass reports every failure in a method.
func (c *implToTrait[CID, GID, TID]) convert(given, expected *Type[CID, GID, TID]) *Type[CID, GID, TID] {
	if _, ok := given.Constr.(RefC[CID, GID, TID]); ok {
		panic("inference cell in a declared method signature")
	}
	if _, ok := expected.Constr.(RefC[CID, GID, TID]); ok {
		panic("inference cell in a declared method signature")
	}

	switch ec := expected.Constr.(type) {
	case SelfC[CID, GID, TID]:
		if c.mapping.SelfRef == nil {
			return given
		}
		if assigned, ok := c.env.GetType(*c.mapping.SelfRef); ok {
			resolved := c.env.ConcretifyType(assigned)
			if !given.DirectEq(resolved) {
				c.mismatch(given, resolved)
			}
		}
		return NewRef[CID, GID, TID](*c.mapping.SelfRef, given.Meta)
	case GenericC[CID, GID, TID]:
		if fixed, ok := c.traitFixed(ec.Name); ok {
			if !given.DirectEq(fixed) {
				c.mismatch(given, fixed)
			}
			return fixed
		}
		gc, ok := given.Constr.(GenericC[CID, GID, TID])
		if !ok {
			c.mismatch(given, expected)
			return expected
		}
		// the impl's generic may not reuse a type the trait mapping has
		// already fixed one of its own generics to.
		for _, bind := range c.mapping.Conversion {
			assigned, ok := c.env.GetType(bind.Cell)
			if !ok {
				continue
			}
			if tg, isGen := assigned.Constr.(GenericC[CID, GID, TID]); isGen && tg.Name == gc.Name {
				c.conflict(gc.Name, ec.Name)
				return expected
			}
		}
		if mapped, seen := c.binding[ec.Name]; seen {
			if mapped != gc.Name {
				c.mismatch(given, expected)
				return given
			}
		} else if back, seen := c.reverse[gc.Name]; seen {
			if back != ec.Name {
				c.mismatch(given, expected)
				return given
			}
		} else {
			c.binding[ec.Name] = gc.Name
			c.reverse[gc.Name] = ec.Name
		}
		return &Type[CID, GID, TID]{Constr: given.Constr, Meta: given.Meta, Params: c.convertAll(given, expected)}
	case ConcreteC[CID, GID, TID]:
		gcon, ok := given.Constr.(ConcreteC[CID, GID, TID])
		if !ok || gcon.Name != ec.Name {
			c.mismatch(given, expected)
			return expected
		}
		return &Type[CID, GID, TID]{Constr: given.Constr, Meta: given.Meta, Params: c.convertAll(given, expected)}
	case ObjectC[CID, GID, TID]:
		gob, ok := given.Constr.(ObjectC[CID, GID, TID])
		if !ok || gob.Trait != ec.Trait {
			c.mismatch(given, expected)
			return expected
		}
		return &Type[CID, GID, TID]{Constr: given.Constr, Meta: given.Meta, Params: c.convertAll(given, expected)}
	default:
		if !given.DirectEq(expected) {
			c.mismatch(given, expected)
		}
		return expected
	}
}

func (c *implToTrait[CID, GID, TID]) convertAll(given, expected *Type[CID, GID, TID]) []*Type[CID, GID, TID] {
	if len(given.Params) != len(expected.Params) {
		c.mismatch(given, expected)
		return cloneParams(expected.Params)
	}
	out := make([]*Type[CID, GID, TID], len(expected.Params))
	for i := range expected.Params {
		out[i] = c.convert(given.Params[i], expected.Params[i])
	}
	return out
}

func (c *implToTrait[CID, GID, TID]) convertSig(given, expected *FunctionSig[CID, GID, TID]) *FunctionSig[CID, GID, TID] {
	if len(given.Params) != len(expected.Params) {
		c.failures = append(c.failures, ImplHeaderFailure[CID, GID, TID]{Kind: ImplHeaderMismatch})
		return given
	}
	params := make([]*Type[CID, GID, TID], len(expected.Params))
	for i := range expected.Params {
		params[i] = c.convert(given.Params[i], expected.Params[i])
	}
	ret := c.convert(given.Ret, expected.Ret)
	return &FunctionSig[CID, GID, TID]{Forall: given.Forall, Params: params, Ret: ret}
}

// VerifyMethodAnnotation verifies that given is a valid declaration of
// method i of this trait instance, walking the two signatures in lockstep
// against the instance's live mapping: matching heads propagate into
// params; Self on the expected side substitutes the pinned Self cell; a
// trait-level generic already pinned by the mapping must be matched
// literally by given; any other expected generic is bijection-matched
// against the impl's own binders. Returns the canonicalised signature
// together with every divergence found.
func (ti *TraitInstance[CID, GID, TID]) VerifyMethodAnnotation(env *TEnv[CID, GID, TID], i int, given *FunctionSig[CID, GID, TID]) (*FunctionSig[CID, GID, TID], []ImplHeaderFailure[CID, GID, TID]) {
	c := newImplToTrait(env, ti.mapping)
	canonical := c.convertSig(given, ti.sig.Methods[i].Sig)
	return canonical, c.failures
}

// CheckImplHeader verifies every method of an impl block against expected's
// declared methods via mapping (the trait instantiation's Mapping, with
// Self pinned and any explicit trait-level type arguments annotated).
// given is assumed to already be in the same method order as
// expected.Methods; resolving methods by name is a name-resolution concern
// and stays with the front end. The generic correspondence is shared
// across the whole impl block, so reusing a binder inconsistently between
// two methods is a failure too.
func CheckImplHeader[CID, GID, TID Ident](env *TEnv[CID, GID, TID], mapping *Mapping[CID, GID, TID], expected *TraitSig[CID, GID, TID], given []MethodSig[CID, GID, TID]) []ImplHeaderFailure[CID, GID, TID] {
	c := newImplToTrait(env, mapping)
	for i, exp := range expected.Methods {
		if i >= len(given) {
			break
		}
		c.convertSig(given[i].Sig, exp.Sig)
	}
	return c.failures
}
