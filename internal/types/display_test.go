package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayTypeConcreteWithAndWithoutParams(t *testing.T) {
	assert.Equal(t, "int", DisplayType(tc("int")))
	assert.Equal(t, "(option int)", DisplayType(tc("option", tc("int"))))
}

func TestDisplayTypeRefUsesLetters(t *testing.T) {
	env := NewTEnv[strID, strID, strID]()
	r0 := env.Spawn()
	r1 := env.Spawn()
	assert.Equal(t, "'a", DisplayType(NewRef[strID, strID, strID](r0, nil)))
	assert.Equal(t, "'b", DisplayType(NewRef[strID, strID, strID](r1, nil)))
}

func TestDisplayTypeRefBeyondAlphabetIsNumbered(t *testing.T) {
	assert.Equal(t, "'<26>", DisplayRef(RefID(26)))
}

func TestDisplayTypeObjectAndSelf(t *testing.T) {
	b := NewBuilder[strID, strID, strID]()
	assert.Equal(t, "dyn Show", DisplayType(b.Dyn("Show")))
	assert.Equal(t, "Self", DisplayType(b.Self()))
}

func TestDisplayConstraintAndGenerics(t *testing.T) {
	c := Constraint[strID, strID, strID]{Trait: "Into", Params: []*Type[strID, strID, strID]{tc("int")}}
	assert.Equal(t, "Into int", DisplayConstraint(c))

	g := NewGenerics[strID, strID, strID]()
	g.InsertWithCons("a", []Constraint[strID, strID, strID]{{Trait: "Eq"}, {Trait: "Ord"}})
	g.Insert("b")
	assert.Equal(t, "a is Eq & Ord, b", DisplayGenerics(g))
}

func TestDisplaySchemeWithAndWithoutBinders(t *testing.T) {
	g := NewGenerics[strID, strID, strID]()
	assert.Equal(t, "int", DisplayScheme(g, tc("int")))

	g.Insert("a")
	assert.Equal(t, "∀ a. a", DisplayScheme(g, tv("a")))
}
