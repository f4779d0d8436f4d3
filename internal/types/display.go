package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Display convention (advisory, never used for unification):
//
//	concrete types    name  or  (name p1 … pn)
//	generics          the id's own String() form
//	trait objects     dyn T
//	inference cells   'a, 'b, … ('<n> beyond 25)
//	schemes           ∀ bindings. body
//	constraints       T p1 … pn, grouped as g is T1 & T2

var refLetters = "abcdefghijklmnopqrstuvwxyz"

// DisplayRef renders a RefID: short letters while there are few enough
// cells, a numbered form once the alphabet runs out.
func DisplayRef(r RefID) string {
	if int(r) < len(refLetters) {
		return "'" + string(refLetters[r])
	}
	return fmt.Sprintf("'<%d>", int(r))
}

// canonical folds a display string to NFC so two differently-encoded but
// visually identical identifiers never desync a map keyed on String().
func canonical(s string) string {
	return norm.NFC.String(s)
}

// DisplayType renders t per the convention above.
func DisplayType[CID, GID, TID Ident](t *Type[CID, GID, TID]) string {
	if t == nil {
		return "<nil>"
	}
	switch c := t.Constr.(type) {
	case ConcreteC[CID, GID, TID]:
		name := canonical(c.Name.String())
		if len(t.Params) == 0 {
			return name
		}
		return "(" + name + " " + joinTypes(t.Params) + ")"
	case GenericC[CID, GID, TID]:
		name := canonical(c.Name.String())
		if len(t.Params) == 0 {
			return name
		}
		return "(" + name + " " + joinTypes(t.Params) + ")"
	case RefC[CID, GID, TID]:
		base := DisplayRef(c.Cell)
		if len(t.Params) == 0 {
			return base
		}
		return "(" + base + " " + joinTypes(t.Params) + ")"
	case ObjectC[CID, GID, TID]:
		base := "dyn " + canonical(c.Trait.String())
		if len(t.Params) == 0 {
			return base
		}
		return "(" + base + " " + joinTypes(t.Params) + ")"
	case SelfC[CID, GID, TID]:
		return "Self"
	default:
		return "<?>"
	}
}

func joinTypes[CID, GID, TID Ident](ts []*Type[CID, GID, TID]) string {
	parts := make([]string, len(ts))
	for i, p := range ts {
		parts[i] = DisplayType(p)
	}
	return strings.Join(parts, " ")
}

// DisplayConstraint renders a Constraint as "T p1 … pn".
func DisplayConstraint[CID, GID, TID Ident](c Constraint[CID, GID, TID]) string {
	name := canonical(c.Trait.String())
	if len(c.Params) == 0 {
		return name
	}
	return name + " " + joinTypes(c.Params)
}

// DisplayGenerics renders a Generics scheme's binder list, grouping
// multiple bounds on the same binder as "g is T1 & T2".
func DisplayGenerics[CID, GID, TID Ident](g *Generics[CID, GID, TID]) string {
	var parts []string
	for _, gen := range g.Iter() {
		cs, _ := g.Constraints(gen)
		if len(cs) == 0 {
			parts = append(parts, canonical(gen.String()))
			continue
		}
		bounds := make([]string, len(cs))
		for i, c := range cs {
			bounds[i] = DisplayConstraint(c)
		}
		parts = append(parts, fmt.Sprintf("%s is %s", canonical(gen.String()), strings.Join(bounds, " & ")))
	}
	return strings.Join(parts, ", ")
}

// DisplayScheme renders "∀ bindings. body".
func DisplayScheme[CID, GID, TID Ident](g *Generics[CID, GID, TID], body *Type[CID, GID, TID]) string {
	if g.Len() == 0 {
		return DisplayType(body)
	}
	return fmt.Sprintf("∀ %s. %s", DisplayGenerics(g), DisplayType(body))
}
