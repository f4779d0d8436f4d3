package types

import (
	"sort"
	"strings"
)

// DictParam names one constraint as a dictionary-passing parameter: the
// parameter a trait-polymorphic function would receive at the position
// where the constraint's evidence lives, were the constraints compiled
// down to explicit dictionary arguments.
type DictParam[CID, GID, TID Ident] struct {
	Name   string
	Trait  TID
	Params []*Type[CID, GID, TID]
}

// CanonicalConstraintParams orders constraints deterministically (by trait
// name, then by instantiated params' display form) and names each one, so
// two compilations of the same signature produce identical parameter
// lists.
func CanonicalConstraintParams[CID, GID, TID Ident](constraints []Constraint[CID, GID, TID]) []DictParam[CID, GID, TID] {
	sorted := append([]Constraint[CID, GID, TID]{}, constraints...)
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := canonical(sorted[i].Trait.String()), canonical(sorted[j].Trait.String())
		if ti != tj {
			return ti < tj
		}
		return joinTypes(sorted[i].Params) < joinTypes(sorted[j].Params)
	})
	out := make([]DictParam[CID, GID, TID], len(sorted))
	for i, c := range sorted {
		out[i] = DictParam[CID, GID, TID]{Name: dictParamName(c), Trait: c.Trait, Params: c.Params}
	}
	return out
}

// dictParamName turns a constraint into a valid bare identifier, e.g.
// Constraint{Eq, [int]} -> "dict_Eq_int".
func dictParamName[CID, GID, TID Ident](c Constraint[CID, GID, TID]) string {
	name := "dict_" + identSafe(canonical(c.Trait.String()))
	for _, p := range c.Params {
		name += "_" + identSafe(DisplayType(p))
	}
	return name
}

func identSafe(s string) string {
	r := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"'", "v",
		"<", "_",
		">", "",
	)
	return r.Replace(s)
}
