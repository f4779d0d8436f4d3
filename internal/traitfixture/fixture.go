// Package traitfixture loads declarative YAML descriptions of traits and
// impls into a runnable internal/traits.TraitIndex: read the file,
// unmarshal into a typed struct, validate the required fields, wrap I/O
// and parse errors with fmt.Errorf("...: %w", err).
//
// Identifiers in a fixture file are plain strings (StringID), so fixtures
// can describe a trait system without a front end attached — useful for
// resolver tests that want a handful of named traits/impls without hand
// building Generics/Type literals.
package traitfixture

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luminalang/lyte/internal/traits"
	"github.com/luminalang/lyte/internal/types"
)

// StringID is the Ident implementation fixture files describe identifiers
// with: a bare string is both the comparable key and its own display form.
type StringID string

func (s StringID) String() string { return string(s) }

// TypeFixture is the YAML-serializable form of a types.Type.
type TypeFixture struct {
	Kind   string        `yaml:"kind"` // concrete | generic | object | self
	Name   string        `yaml:"name,omitempty"`
	Params []TypeFixture `yaml:"params,omitempty"`
}

// ConstraintFixture is the YAML-serializable form of a types.Constraint.
type ConstraintFixture struct {
	Trait  string        `yaml:"trait"`
	Params []TypeFixture `yaml:"params,omitempty"`
}

// GenericFixture is one binder of an impl's own Generics scheme.
type GenericFixture struct {
	Name   string              `yaml:"name"`
	Bounds []ConstraintFixture `yaml:"bounds,omitempty"`
}

// ImplFixture is the YAML-serializable form of one traits.Impl.
type ImplFixture struct {
	Trait       string                 `yaml:"trait"`
	TraitParams []TypeFixture          `yaml:"trait_params,omitempty"`
	Generics    []GenericFixture       `yaml:"generics,omitempty"`
	Self        TypeFixture            `yaml:"self"`
	Default     bool                   `yaml:"default,omitempty"`
	Super       []string               `yaml:"super,omitempty"`
	Associated  map[string]TypeFixture `yaml:"associated,omitempty"`
}

// File is the top-level shape of a fixture YAML document: a flat list of
// impls. Traits themselves need no declaration here; the resolver only
// needs to know which impls exist, not a trait's method list.
type File struct {
	Impls []ImplFixture `yaml:"impls"`
}

// Load reads and parses a fixture file, validating that every impl at least
// names a trait and a Self type.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("traitfixture: read %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("traitfixture: parse %s: %w", path, err)
	}
	for i, impl := range f.Impls {
		if impl.Trait == "" {
			return nil, fmt.Errorf("traitfixture: %s: impl %d missing required field: trait", path, i)
		}
		if impl.Self.Kind == "" {
			return nil, fmt.Errorf("traitfixture: %s: impl %d (%s) missing required field: self", path, i, impl.Trait)
		}
	}
	return &f, nil
}

func toType(tf TypeFixture) *types.Type[StringID, StringID, StringID] {
	params := make([]*types.Type[StringID, StringID, StringID], len(tf.Params))
	for i, p := range tf.Params {
		params[i] = toType(p)
	}
	switch tf.Kind {
	case "generic":
		return types.NewGeneric[StringID, StringID, StringID](StringID(tf.Name), nil, params...)
	case "object":
		return types.NewObject[StringID, StringID, StringID](StringID(tf.Name), nil, params...)
	case "self":
		return types.NewSelf[StringID, StringID, StringID](nil, params...)
	default:
		return types.NewConcrete[StringID, StringID, StringID](StringID(tf.Name), nil, params...)
	}
}

func toConstraint(cf ConstraintFixture) types.Constraint[StringID, StringID, StringID] {
	params := make([]*types.Type[StringID, StringID, StringID], len(cf.Params))
	for i, p := range cf.Params {
		params[i] = toType(p)
	}
	return types.Constraint[StringID, StringID, StringID]{Trait: StringID(cf.Trait), Params: params}
}

func toGenerics(gs []GenericFixture) *types.Generics[StringID, StringID, StringID] {
	g := types.NewGenerics[StringID, StringID, StringID]()
	for _, gf := range gs {
		bounds := make([]types.Constraint[StringID, StringID, StringID], len(gf.Bounds))
		for i, b := range gf.Bounds {
			bounds[i] = toConstraint(b)
		}
		g.InsertWithCons(StringID(gf.Name), bounds)
	}
	return g
}

// BuildTraitIndex registers every impl described in f into a fresh
// TraitIndex and returns it.
func BuildTraitIndex(f *File) *traits.TraitIndex[StringID, StringID, StringID, StringID] {
	idx := traits.NewTraitIndex[StringID, StringID, StringID, StringID]()
	for _, impl := range f.Impls {
		traitParams := make([]*types.Type[StringID, StringID, StringID], len(impl.TraitParams))
		for i, p := range impl.TraitParams {
			traitParams[i] = toType(p)
		}
		super := make([]StringID, len(impl.Super))
		for i, s := range impl.Super {
			super[i] = StringID(s)
		}
		var associated map[StringID]*types.Type[StringID, StringID, StringID]
		if len(impl.Associated) > 0 {
			associated = make(map[StringID]*types.Type[StringID, StringID, StringID], len(impl.Associated))
			for k, v := range impl.Associated {
				associated[StringID(k)] = toType(v)
			}
		}
		idx.Implement(&traits.Impl[StringID, StringID, StringID, StringID]{
			Trait:       StringID(impl.Trait),
			TraitParams: traitParams,
			Generics:    toGenerics(impl.Generics),
			Self:        toType(impl.Self),
			Default:     impl.Default,
			Super:       super,
			Associated:  associated,
		})
	}
	return idx
}

// LoadTraitIndex is the Load+BuildTraitIndex convenience composition most
// tests want.
func LoadTraitIndex(path string) (*traits.TraitIndex[StringID, StringID, StringID, StringID], error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return BuildTraitIndex(f), nil
}
