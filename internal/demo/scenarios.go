// Package demo packages the canonical walkthroughs of the type/trait
// engine as runnable, narrated scenarios, driving internal/types and
// internal/traits directly instead of going through a parser and AST
// (parsing belongs to the surrounding compiler, not this engine). Both
// cmd/tyexplore and internal/replshell share this package so the two front
// ends narrate identical scenarios.
package demo

import (
	"fmt"

	"github.com/luminalang/lyte/internal/traitfixture"
	"github.com/luminalang/lyte/internal/traits"
	"github.com/luminalang/lyte/internal/types"
)

// ID is the identifier sort every scenario uses: a bare string is its own
// display form, the same convention internal/traitfixture uses for
// fixture-described trait systems.
type ID = traitfixture.StringID

func con(name string, params ...*types.Type[ID, ID, ID]) *types.Type[ID, ID, ID] {
	return types.NewConcrete[ID, ID, ID](ID(name), nil, params...)
}

func gvar(name string, params ...*types.Type[ID, ID, ID]) *types.Type[ID, ID, ID] {
	return types.NewGeneric[ID, ID, ID](ID(name), nil, params...)
}

// Scenario is one named, runnable walkthrough.
type Scenario struct {
	Name        string
	Description string
	Run         func() (string, error)
}

// buildIndex constructs the trait index shared by every scenario below:
// Intable for int, From int for float, a blanket Into, and Functor for
// option.
func buildIndex() *traits.TraitIndex[ID, ID, ID, ID] {
	idx := traits.NewTraitIndex[ID, ID, ID, ID]()

	idx.Implement(&traits.Impl[ID, ID, ID, ID]{
		Trait: "Intable", Self: con("int"), Generics: types.NewGenerics[ID, ID, ID](),
	})
	idx.Implement(&traits.Impl[ID, ID, ID, ID]{
		Trait: "From", TraitParams: []*types.Type[ID, ID, ID]{con("int")}, Self: con("float"),
		Generics: types.NewGenerics[ID, ID, ID](),
	})

	intoGenerics := types.NewGenerics[ID, ID, ID]()
	intoGenerics.InsertWithCons("a", []types.Constraint[ID, ID, ID]{
		{Trait: "From", Params: []*types.Type[ID, ID, ID]{gvar("b")}},
	})
	intoGenerics.Insert("b")
	idx.Implement(&traits.Impl[ID, ID, ID, ID]{
		Trait: "Into", TraitParams: []*types.Type[ID, ID, ID]{gvar("a")}, Self: gvar("b"),
		Generics: intoGenerics,
	})

	idx.Implement(&traits.Impl[ID, ID, ID, ID]{
		Trait: "Functor", Self: con("option"), Generics: types.NewGenerics[ID, ID, ID](),
	})
	return idx
}

// All returns every scenario in presentation order.
func All() []Scenario {
	return []Scenario{
		{"s1-direct-impl", "∀a:Intable, b. (a,b) -> a at (int, float)", scenarioS1},
		{"s2-unconstrained", "∀a, b. (a,b) -> a at (int, float)", scenarioS2},
		{"s3-blanket-bound", "∀a:Into float. a -> float at int", scenarioS3},
		{"s4-higher-kinded", "∀f:Functor. f int -> int at option int", scenarioS4},
		{"s5-self-referential", "∀a:From a. a -> a at int (must not silently succeed)", scenarioS5},
		{"s6-trait-method", "trait Into { method: self -> a } called with [int]", scenarioS6},
		{"s7-shared-product-binder", "point{a, a} with field 1 checked against int", scenarioS7},
		{"s8-sum-constructor", "option{_ | _ a}, constructor(1)([int])", scenarioS8},
		{"s9-impl-header", "impl-header bijection check for self -> a -> b -> a", scenarioS9},
	}
}

func scenarioS1() (string, error) {
	idx := buildIndex()
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	forall := b.Forall().Bind("a", b.Bound("Intable")).Bind("b").Build()
	sig := b.Func(b.Var("a"), b.Var("b")).ForAll(forall).Returns(b.Var("a"))
	inst := sig.Instantiate(env, nil)

	ret, err := inst.Call(env, idx, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("int"), con("float")})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("call succeeded, return type = %s", types.DisplayType(env.ConcretifyType(ret))), nil
}

func scenarioS2() (string, error) {
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	sig := b.Func(b.Var("a"), b.Var("b")).ForAll(b.Forall().Bind("a").Bind("b").Build()).Returns(b.Var("a"))
	inst := sig.Instantiate(env, nil)

	ret, err := inst.Call(env, nil, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("int"), con("float")})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("call succeeded, return type = %s", types.DisplayType(env.ConcretifyType(ret))), nil
}

func scenarioS3() (string, error) {
	idx := buildIndex()
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	forall := b.Forall().Bind("a", b.Bound("Into", con("float"))).Build()
	sig := b.Func(b.Var("a")).ForAll(forall).Returns(con("float"))
	inst := sig.Instantiate(env, nil)

	ret, err := inst.Call(env, idx, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("int")})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("blanket Into impl fired, return type = %s", types.DisplayType(env.ConcretifyType(ret))), nil
}

func scenarioS4() (string, error) {
	idx := buildIndex()
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	forall := b.Forall().Bind("f", b.Bound("Functor")).Build()
	sig := b.Func(b.Var("f", con("int"))).ForAll(forall).Returns(con("int"))
	inst := sig.Instantiate(env, nil)

	ret, err := inst.Call(env, idx, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("option", con("int"))})
	if err != nil {
		return "", err
	}
	fCell, _ := inst.Mapping().Lookup("f")
	fType, _ := env.GetType(fCell)
	return fmt.Sprintf("f unified with %s, return type = %s", types.DisplayType(fType), types.DisplayType(env.ConcretifyType(ret))), nil
}

func scenarioS5() (string, error) {
	idx := buildIndex()
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	forall := b.Forall().Bind("a", b.Bound("From", b.Var("a"))).Build()
	sig := b.Func(b.Var("a")).ForAll(forall).Returns(b.Var("a"))
	inst := sig.Instantiate(env, nil)

	_, err := inst.Call(env, idx, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("int")})
	if err == nil {
		return "", fmt.Errorf("scenario bug: self-referential bound silently succeeded")
	}
	return fmt.Sprintf("correctly rejected: %s", err), nil
}

func scenarioS6() (string, error) {
	idx := buildIndex()
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	traitForall := types.NewGenerics[ID, ID, ID]()
	traitForall.Insert("a")
	traitSig := types.ForeignTrait[ID, ID, ID]("Into", []types.MethodSig[ID, ID, ID]{
		{Name: "method", Sig: types.ForeignFunction[ID, ID, ID]([]*types.Type[ID, ID, ID]{b.Self()}, b.Var("a"))},
	})
	traitSig.Forall = traitForall

	ti := traitSig.Instantiate(env)
	fi := ti.Method(0, env)
	selfCell := fi.Params[0].Constr.(types.RefC[ID, ID, ID]).Cell
	aCell := fi.Ret.Constr.(types.RefC[ID, ID, ID]).Cell
	env.AddConstraint(selfCell, types.Constraint[ID, ID, ID]{
		Trait: "Into", Params: []*types.Type[ID, ID, ID]{types.NewRef[ID, ID, ID](aCell, nil)},
	})

	_, err := fi.Call(env, idx, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("int")})
	if err != nil {
		return "", err
	}
	selfType, _ := env.GetType(selfCell)
	return fmt.Sprintf("self inferred to %s via the blanket Into impl", types.DisplayType(selfType)), nil
}

func scenarioS7() (string, error) {
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()
	sig := &types.ProductSig[ID, ID, ID]{
		Forall: b.Forall().Bind("a").Build(),
		Name:   "point",
		Fields: []types.FieldSig[ID, ID, ID]{{Name: "x", Type: b.Var("a")}, {Name: "y", Type: b.Var("a")}},
	}
	inst := sig.Instantiate(env, nil)

	if err := types.Check[ID, ID, ID](env, nil, types.HandleExpensive, inst.Field(1), con("int")); err != nil {
		return "", err
	}
	return fmt.Sprintf("field 0 also resolved to %s (shared binder)", types.DisplayType(env.ConcretifyType(inst.Field(0)))), nil
}

func scenarioS8() (string, error) {
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()
	sig := &types.SumSig[ID, ID, ID]{
		Forall: b.Forall().Bind("a").Build(),
		Name:   "option",
		Variants: []types.VariantSig[ID, ID, ID]{
			{Name: "none"},
			{Name: "some", Fields: []*types.Type[ID, ID, ID]{b.Var("a")}},
		},
	}
	inst := sig.Instantiate(env, nil)
	ctor := inst.Constructor(1)

	ret, err := ctor.Call(env, nil, types.HandleExpensive, []*types.Type[ID, ID, ID]{con("int")})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("constructor applied, result = %s", types.DisplayType(env.ConcretifyType(ret))), nil
}

func scenarioS9() (string, error) {
	env := types.NewTEnv[ID, ID, ID]()
	b := types.NewBuilder[ID, ID, ID]()

	trait := &types.TraitSig[ID, ID, ID]{
		Forall: types.NewGenerics[ID, ID, ID](), Name: "T",
		Methods: []types.MethodSig[ID, ID, ID]{{
			Name: "m",
			Sig: &types.FunctionSig[ID, ID, ID]{
				Forall: b.Forall().Bind("a").Bind("b").Build(),
				Params: []*types.Type[ID, ID, ID]{b.Self(), b.Var("a"), b.Var("b")},
				Ret:    b.Var("a"),
			},
		}},
	}
	ti := trait.Instantiate(env)
	if err := ti.SetSelf(env, nil, con("float")); err != nil {
		return "", err
	}

	sig := func(params []*types.Type[ID, ID, ID], ret *types.Type[ID, ID, ID]) *types.FunctionSig[ID, ID, ID] {
		return &types.FunctionSig[ID, ID, ID]{Forall: b.Forall().Bind("a").Bind("b").Build(), Params: params, Ret: ret}
	}
	good := sig([]*types.Type[ID, ID, ID]{con("float"), gvar("a"), gvar("b")}, gvar("a"))
	bad := sig([]*types.Type[ID, ID, ID]{con("float"), gvar("a"), gvar("a")}, gvar("a"))

	_, goodFailures := ti.VerifyMethodAnnotation(env, 0, good)
	_, badFailures := ti.VerifyMethodAnnotation(env, 0, bad)

	return fmt.Sprintf("candidate 'float -> a -> b -> a': %d failure(s); candidate 'float -> a -> a -> a': %d failure(s)",
		len(goodFailures), len(badFailures)), nil
}
