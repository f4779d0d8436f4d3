package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderConVarDynSelf(t *testing.T) {
	b := NewBuilder[strID, strID, strID]()
	assert.True(t, b.Con("int").DirectEq(tc("int")))
	assert.True(t, b.Var("a").DirectEq(tv("a")))
	assert.Equal(t, "dyn Show", DisplayType(b.Dyn("Show")))
	assert.Equal(t, "Self", DisplayType(b.Self()))
}

func TestGenericsBuilderChaining(t *testing.T) {
	b := NewBuilder[strID, strID, strID]()
	g := b.Forall().Bind("a", b.Bound("Eq")).Bind("b").Build()

	require.Equal(t, 2, g.Len())
	cs, ok := g.Constraints("a")
	require.True(t, ok)
	require.Len(t, cs, 1)
	assert.Equal(t, strID("Eq"), cs[0].Trait)
}

func TestFuncBuilderRoundTrip(t *testing.T) {
	b := NewBuilder[strID, strID, strID]()
	sig := b.Func(b.Var("a")).ForAll(b.Forall().Bind("a").Build()).Returns(b.Var("a"))

	require.Equal(t, 1, sig.Forall.Len())
	require.Len(t, sig.Params, 1)
	assert.True(t, sig.Ret.DirectEq(tv("a")))
}

func TestFuncBuilderDefaultsToMonomorphic(t *testing.T) {
	b := NewBuilder[strID, strID, strID]()
	sig := b.Func(b.Con("int")).Returns(b.Con("int"))
	assert.Equal(t, 0, sig.Forall.Len())
}
