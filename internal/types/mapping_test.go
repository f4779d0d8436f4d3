package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMappingAllocatesFreshCellsPerBinder(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	g.Insert("a")
	g.Insert("b")

	before := env.Len()
	m := ToMapping[strID, strID, strID](g, env, nil)
	assert.Equal(t, before+2, env.Len())
	require.Len(t, m.Conversion, 2)
	assert.NotEqual(t, m.Conversion[0].Cell, m.Conversion[1].Cell)
}

func TestToMappingTranslatesSiblingConstraints(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	// a is bound by "From b", referring to sibling binder b.
	g.InsertWithCons("a", []Constraint[strID, strID, strID]{{Trait: "From", Params: []*Type[strID, strID, strID]{tv("b")}}})
	g.Insert("b")

	m := ToMapping[strID, strID, strID](g, env, nil)
	aCell, _ := m.Lookup("a")
	bCell, _ := m.Lookup("b")

	cs := env.Constraints(aCell)
	require.Len(t, cs, 1)
	assert.Equal(t, strID("From"), cs[0].Trait)
	require.Len(t, cs[0].Params, 1)
	ref, ok := cs[0].Params[0].Constr.(RefC[strID, strID, strID])
	require.True(t, ok)
	assert.Equal(t, bCell, ref.Cell)
}

func TestApplyTypeSubstitutesGenericsAndSelf(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	g.Insert("a")
	self := env.Spawn()
	m := ToMapping[strID, strID, strID](g, env, &self)

	b := NewBuilder[strID, strID, strID]()
	input := b.Con("option", b.Var("a"), b.Self())
	got := m.ApplyType(input)

	aCell, _ := m.Lookup("a")
	want := b.Con("option", NewRef[strID, strID, strID](aCell, nil), NewRef[strID, strID, strID](self, nil))
	assert.True(t, got.DirectEq(want))
}

func TestApplyTypeLeavesUnboundGenericAlone(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	g.Insert("a")
	m := ToMapping[strID, strID, strID](g, env, nil)

	got := m.ApplyType(tv("b"))
	assert.True(t, got.DirectEq(tv("b")))
}

func TestAnnotateGIDReportsUndischargedConstraint(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	g.InsertWithCons("a", []Constraint[strID, strID, strID]{{Trait: "Eq"}})
	m := ToMapping[strID, strID, strID](g, env, nil)

	err := m.AnnotateGID(env, nil, "a", tc("int"))
	require.Error(t, err) // nil resolver: Eq constraint cannot be discharged
	ae, ok := err.(*AnnotationError[strID, strID, strID])
	require.True(t, ok)
	assert.False(t, ae.IsAlreadyAssigned())
}

func TestAnnotateGIDUnknownGenericFails(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	m := ToMapping[strID, strID, strID](g, env, nil)
	err := m.AnnotateGID(env, nil, "unbound", tc("int"))
	require.Error(t, err)
}

func TestAnnotateIndexAssignsByPosition(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	g.Insert("a")
	g.Insert("b")
	m := ToMapping[strID, strID, strID](g, env, nil)

	require.NoError(t, m.AnnotateIndex(env, nil, 1, tc("int")))
	bCell, _ := m.Lookup("b")
	got, ok := env.GetType(bCell)
	require.True(t, ok)
	assert.True(t, got.DirectEq(tc("int")))
}

func TestAnnotateSelfRequiresSelfCell(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	g := NewGenerics[strID, strID, strID]()
	m := ToMapping[strID, strID, strID](g, env, nil)
	err := m.AnnotateSelf(env, nil, tc("int"))
	require.Error(t, err)
}
