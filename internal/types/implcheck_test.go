package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func methodSig(forall *Generics[strID, strID, strID], params []*Type[strID, strID, strID], ret *Type[strID, strID, strID]) MethodSig[strID, strID, strID] {
	return MethodSig[strID, strID, strID]{Name: "m", Sig: &FunctionSig[strID, strID, strID]{
		Forall: forall, Params: params, Ret: ret,
	}}
}

// pinnedTrait instantiates a trait whose only method is "self -> a -> b ->
// a" (a and b method-level), with Self pinned to float.
func pinnedTrait(t *testing.T, env *TEnv[strID, strID, strID]) *TraitInstance[strID, strID, strID] {
	t.Helper()
	b := NewBuilder[strID, strID, strID]()
	trait := &TraitSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Name:   "T",
		Methods: []MethodSig[strID, strID, strID]{
			methodSig(b.Forall().Bind("a").Bind("b").Build(),
				[]*Type[strID, strID, strID]{b.Self(), tv("a"), tv("b")}, tv("a")),
		},
	}
	ti := trait.Instantiate(env)
	require.NoError(t, ti.SetSelf(env, nil, tc("float")))
	return ti
}

// TestVerifyMethodAnnotationAcceptsConsistentBijection: "self -> a -> b ->
// a" against "float -> a -> b -> a" with Self pinned to float. The impl's
// own a/b line up bijectively with the trait's a/b, so there must be zero
// failures.
func TestVerifyMethodAnnotationAcceptsConsistentBijection(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	b := NewBuilder[strID, strID, strID]()
	ti := pinnedTrait(t, env)

	given := &FunctionSig[strID, strID, strID]{
		Forall: b.Forall().Bind("a").Bind("b").Build(),
		Params: []*Type[strID, strID, strID]{tc("float"), tv("a"), tv("b")},
		Ret:    tv("a"),
	}
	_, failures := ti.VerifyMethodAnnotation(env, 0, given)
	assert.Empty(t, failures)
}

// TestVerifyMethodAnnotationRejectsBrokenBijection: "float -> a -> a -> a"
// reuses the impl's own "a" for both the trait's a and b positions,
// breaking the required 1-to-1 bijection. Exactly one Mismatch must be
// recorded.
func TestVerifyMethodAnnotationRejectsBrokenBijection(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	b := NewBuilder[strID, strID, strID]()
	ti := pinnedTrait(t, env)

	given := &FunctionSig[strID, strID, strID]{
		Forall: b.Forall().Bind("a").Build(),
		Params: []*Type[strID, strID, strID]{tc("float"), tv("a"), tv("a")},
		Ret:    tv("a"),
	}
	_, failures := ti.VerifyMethodAnnotation(env, 0, given)
	require.Len(t, failures, 1)
	assert.Equal(t, ImplHeaderMismatch, failures[0].Kind)
}

// TestVerifyMethodAnnotationMatchesPinnedTraitGeneric: a trait-level
// generic annotated through the live mapping is compared against the
// given signature literally, not bijection-matched. The trait here is
// "HasGen" with trait generic a and method "forall b. self -> a -> b ->
// a"; a is pinned to the impl block's own generic a and Self to float, so
// the candidate "float -> a -> b -> a" must verify with zero failures.
func TestVerifyMethodAnnotationMatchesPinnedTraitGeneric(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	b := NewBuilder[strID, strID, strID]()
	trait := &TraitSig[strID, strID, strID]{
		Forall: b.Forall().Bind("a").Build(),
		Name:   "HasGen",
		Methods: []MethodSig[strID, strID, strID]{
			methodSig(b.Forall().Bind("b").Build(),
				[]*Type[strID, strID, strID]{b.Self(), tv("a"), tv("b")}, tv("a")),
		},
	}
	ti := trait.Instantiate(env)
	require.NoError(t, ti.Mapping().AnnotateTypes(env, nil, []*Type[strID, strID, strID]{tv("a")}))
	require.NoError(t, ti.SetSelf(env, nil, tc("float")))

	given := &FunctionSig[strID, strID, strID]{
		Forall: b.Forall().Bind("c").Build(),
		Params: []*Type[strID, strID, strID]{tc("float"), tv("a"), tv("b")},
		Ret:    tv("a"),
	}
	_, failures := ti.VerifyMethodAnnotation(env, 0, given)
	assert.Empty(t, failures)
}

// TestVerifyMethodAnnotationComparesPinnedConcrete: with the trait-level
// generic a pinned to int, a candidate supplying the concrete int at a's
// positions is valid (and must NOT be reported as a mismatch just because
// its head is concrete rather than generic); supplying string there is
// one Mismatch against the pinned type.
func TestVerifyMethodAnnotationComparesPinnedConcrete(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	b := NewBuilder[strID, strID, strID]()
	trait := &TraitSig[strID, strID, strID]{
		Forall: b.Forall().Bind("a").Build(),
		Name:   "Into",
		Methods: []MethodSig[strID, strID, strID]{
			methodSig(NewGenerics[strID, strID, strID](),
				[]*Type[strID, strID, strID]{b.Self()}, tv("a")),
		},
	}
	ti := trait.Instantiate(env)
	require.NoError(t, ti.Mapping().AnnotateTypes(env, nil, []*Type[strID, strID, strID]{tc("int")}))
	require.NoError(t, ti.SetSelf(env, nil, tc("float")))

	good := &FunctionSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Params: []*Type[strID, strID, strID]{tc("float")},
		Ret:    tc("int"),
	}
	_, failures := ti.VerifyMethodAnnotation(env, 0, good)
	assert.Empty(t, failures)

	bad := &FunctionSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Params: []*Type[strID, strID, strID]{tc("float")},
		Ret:    tc("string"),
	}
	_, failures = ti.VerifyMethodAnnotation(env, 0, bad)
	require.Len(t, failures, 1)
	assert.Equal(t, ImplHeaderMismatch, failures[0].Kind)
	assert.Equal(t, "int", DisplayType(failures[0].Expected))
}

// TestVerifyMethodAnnotationConflictingGeneric: the impl's own generic may
// not reuse a type the trait mapping already fixed a trait-level generic
// to. With trait generic a pinned to the impl block's generic a, a
// candidate using a where the method-level b is expected records one
// ConflictingGeneric.
func TestVerifyMethodAnnotationConflictingGeneric(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	b := NewBuilder[strID, strID, strID]()
	trait := &TraitSig[strID, strID, strID]{
		Forall: b.Forall().Bind("a").Build(),
		Name:   "HasGen",
		Methods: []MethodSig[strID, strID, strID]{
			methodSig(b.Forall().Bind("b").Build(),
				[]*Type[strID, strID, strID]{b.Self(), tv("a"), tv("b")}, tv("a")),
		},
	}
	ti := trait.Instantiate(env)
	require.NoError(t, ti.Mapping().AnnotateTypes(env, nil, []*Type[strID, strID, strID]{tv("a")}))
	require.NoError(t, ti.SetSelf(env, nil, tc("float")))

	given := &FunctionSig[strID, strID, strID]{
		Forall: b.Forall().Bind("a").Build(),
		Params: []*Type[strID, strID, strID]{tc("float"), tv("a"), tv("a")},
		Ret:    tv("a"),
	}
	_, failures := ti.VerifyMethodAnnotation(env, 0, given)
	require.Len(t, failures, 1)
	assert.Equal(t, ImplHeaderConflictingGeneric, failures[0].Kind)
	assert.Equal(t, strID("a"), failures[0].InMethod)
	assert.Equal(t, strID("b"), failures[0].FromImplBlock)
}

// TestVerifyMethodAnnotationSubstitutesSelf: a Self position accepts the
// pinned implementing type and the canonicalised signature rewrites it to
// the Self cell.
func TestVerifyMethodAnnotationSubstitutesSelf(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	b := NewBuilder[strID, strID, strID]()
	trait := &TraitSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Name:   "T",
		Methods: []MethodSig[strID, strID, strID]{
			methodSig(NewGenerics[strID, strID, strID](),
				[]*Type[strID, strID, strID]{b.Self()}, tc("unit")),
		},
	}
	ti := trait.Instantiate(env)
	require.NoError(t, ti.SetSelf(env, nil, tc("int")))

	given := &FunctionSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Params: []*Type[strID, strID, strID]{tc("int")},
		Ret:    tc("unit"),
	}
	canonical, failures := ti.VerifyMethodAnnotation(env, 0, given)
	assert.Empty(t, failures)
	_, isRef := canonical.Params[0].Constr.(RefC[strID, strID, strID])
	assert.True(t, isRef, "Self positions canonicalise to the pinned cell")

	// the wrong implementing type at a Self position is a mismatch.
	wrong := &FunctionSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Params: []*Type[strID, strID, strID]{tc("float")},
		Ret:    tc("unit"),
	}
	_, failures = ti.VerifyMethodAnnotation(env, 0, wrong)
	require.Len(t, failures, 1)
}

// TestCheckImplHeaderConcreteMismatch: the multi-method driver reports a
// plain head mismatch on concretes.
func TestCheckImplHeaderConcreteMismatch(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	m := ToMapping[strID, strID, strID](NewGenerics[strID, strID, strID](), env, nil)
	expected := &TraitSig[strID, strID, strID]{
		Forall:  NewGenerics[strID, strID, strID](),
		Name:    "T",
		Methods: []MethodSig[strID, strID, strID]{methodSig(NewGenerics[strID, strID, strID](), nil, tc("int"))},
	}
	given := []MethodSig[strID, strID, strID]{methodSig(NewGenerics[strID, strID, strID](), nil, tc("string"))}

	failures := CheckImplHeader(env, m, expected, given)
	require.Len(t, failures, 1)
	assert.Equal(t, ImplHeaderMismatch, failures[0].Kind)
}

// TestCheckImplHeaderSharesBindingsAcrossMethods: the impl-generic
// correspondence spans the whole impl block, so a binder used for one
// trait generic in method 0 cannot stand for a different one in method 1.
func TestCheckImplHeaderSharesBindingsAcrossMethods(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	m := ToMapping[strID, strID, strID](NewGenerics[strID, strID, strID](), env, nil)
	expected := &TraitSig[strID, strID, strID]{
		Forall: NewGenerics[strID, strID, strID](),
		Name:   "T",
		Methods: []MethodSig[strID, strID, strID]{
			methodSig(NewGenerics[strID, strID, strID](), []*Type[strID, strID, strID]{tv("a")}, tc("unit")),
			methodSig(NewGenerics[strID, strID, strID](), []*Type[strID, strID, strID]{tv("b")}, tc("unit")),
		},
	}
	given := []MethodSig[strID, strID, strID]{
		methodSig(NewGenerics[strID, strID, strID](), []*Type[strID, strID, strID]{tv("x")}, tc("unit")),
		methodSig(NewGenerics[strID, strID, strID](), []*Type[strID, strID, strID]{tv("x")}, tc("unit")),
	}

	failures := CheckImplHeader(env, m, expected, given)
	require.Len(t, failures, 1)
	assert.Equal(t, ImplHeaderMismatch, failures[0].Kind)
}
