package traitfixture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luminalang/lyte/internal/types"
)

func TestLoadTraitIndex(t *testing.T) {
	idx, err := LoadTraitIndex("testdata/eq_ord.yaml")
	require.NoError(t, err)

	env := types.NewTEnv[StringID, StringID, StringID]()
	intType := types.NewConcrete[StringID, StringID, StringID]("int", nil)

	outcomes, contenders := idx.Select(env, "Eq", nil, intType)
	require.Len(t, outcomes, 1)
	require.Empty(t, contenders)
}

func TestLoadTraitIndexDerivesEqViaOrdSuperclass(t *testing.T) {
	idx, err := LoadTraitIndex("testdata/eq_ord.yaml")
	require.NoError(t, err)

	env := types.NewTEnv[StringID, StringID, StringID]()
	durationType := types.NewConcrete[StringID, StringID, StringID]("duration", nil)

	// duration has no direct Eq impl, but its Ord impl declares Eq as a
	// superclass, so the Eq obligation resolves through the derived bucket.
	outcomes, _ := idx.Select(env, "Eq", nil, durationType)
	require.Len(t, outcomes, 1)
	impl, ok := idx.Get(outcomes[0].ImplID)
	require.True(t, ok)
	require.Equal(t, StringID("Ord"), impl.Trait)
	require.Equal(t, "duration", types.DisplayType(impl.Self))
}

func TestLoadTraitIndexSuperclassDerivationRequiresAnImpl(t *testing.T) {
	idx, err := LoadTraitIndex("testdata/eq_ord.yaml")
	require.NoError(t, err)

	env := types.NewTEnv[StringID, StringID, StringID]()
	boolType := types.NewConcrete[StringID, StringID, StringID]("bool", nil)

	// no direct Eq[bool] impl, and no Ord[bool] impl either: must fail.
	outcomes, contenders := idx.Select(env, "Eq", nil, boolType)
	require.Empty(t, outcomes)
	require.NotEmpty(t, contenders)
}

func TestLoadTraitIndexDefaultBucket(t *testing.T) {
	idx, err := LoadTraitIndex("testdata/eq_ord.yaml")
	require.NoError(t, err)

	env := types.NewTEnv[StringID, StringID, StringID]()
	anything := types.NewConcrete[StringID, StringID, StringID]("widget", nil)

	outcomes, _ := idx.Select(env, "Show", nil, anything)
	require.Len(t, outcomes, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
}
