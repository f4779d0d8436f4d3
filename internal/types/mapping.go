package types

// GenBinding is one (generic id, cell) pair of a Mapping's conversion list,
// in binder order.
type GenBinding[GID Ident] struct {
	Gen  GID
	Cell RefID
}

// Mapping translates a Generics scheme's binders into fresh TEnv cells for
// one instantiation site. It is produced by ToMapping and consumed by
// ApplyType/ApplyTypes to rewrite a scheme's body, and by
// AnnotateGID/AnnotateIndex/AnnotateSelf to let a caller assign concrete
// types to specific binders (or to Self) post hoc.
type Mapping[CID, GID, TID Ident] struct {
	Conversion []GenBinding[GID]
	index      map[GID]RefID
	SelfRef    *RefID
}

// ToMapping allocates one fresh cell per binder in sch and returns the
// resulting Mapping. Binder constraints are translated in a second pass
// (after every binder already has a cell) because a binder's bound may
// refer to a sibling binder or to Self.
func ToMapping[CID, GID, TID Ident](sch *Generics[CID, GID, TID], env *TEnv[CID, GID, TID], selfCell *RefID) *Mapping[CID, GID, TID] {
	m := &Mapping[CID, GID, TID]{
		index:   make(map[GID]RefID, sch.Len()),
		SelfRef: selfCell,
	}
	for _, gen := range sch.Iter() {
		r := env.Spawn()
		m.Conversion = append(m.Conversion, GenBinding[GID]{Gen: gen, Cell: r})
		m.index[gen] = r
	}
	for _, gen := range sch.Iter() {
		cs, _ := sch.Constraints(gen)
		if len(cs) == 0 {
			continue
		}
		r := m.index[gen]
		for _, c := range cs {
			env.AddConstraint(r, Constraint[CID, GID, TID]{Trait: c.Trait, Params: m.ApplyTypes(c.Params)})
		}
	}
	return m
}

// Lookup returns the cell allocated for gen, if gen is bound in this
// Mapping.
func (m *Mapping[CID, GID, TID]) Lookup(gen GID) (RefID, bool) {
	r, ok := m.index[gen]
	return r, ok
}

// ApplyType rewrites t, replacing every Generic(g) bound in m by Ref(cell)
// and Self by m.SelfRef (if set). Generics not bound in m, and Self with no
// SelfRef set, are left as-is.
func (m *Mapping[CID, GID, TID]) ApplyType(t *Type[CID, GID, TID]) *Type[CID, GID, TID] {
	return t.MapType(func(meta any, constr Constr[CID, GID, TID], params []*Type[CID, GID, TID]) *Type[CID, GID, TID] {
		switch c := constr.(type) {
		case GenericC[CID, GID, TID]:
			if r, ok := m.index[c.Name]; ok {
				return &Type[CID, GID, TID]{Constr: RefC[CID, GID, TID]{Cell: r}, Meta: meta, Params: params}
			}
		case SelfC[CID, GID, TID]:
			if m.SelfRef != nil {
				return &Type[CID, GID, TID]{Constr: RefC[CID, GID, TID]{Cell: *m.SelfRef}, Meta: meta, Params: params}
			}
		}
		return &Type[CID, GID, TID]{Constr: constr, Meta: meta, Params: params}
	})
}

// ApplyTypes maps ApplyType over ts.
func (m *Mapping[CID, GID, TID]) ApplyTypes(ts []*Type[CID, GID, TID]) []*Type[CID, GID, TID] {
	out := make([]*Type[CID, GID, TID], len(ts))
	for i, t := range ts {
		out[i] = m.ApplyType(t)
	}
	return out
}

// annotateCell runs AssignToRef on r and folds a constraint failure into the
// AnnotationError family, so callers at the annotation boundary see
// AlreadyAssigned / Constraint errors. Any other checker error (the
// KindUnimplemented raised for a selected impl with associated types) is
// returned unchanged.
func annotateCell[CID, GID, TID Ident](env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], r RefID, given *Type[CID, GID, TID]) error {
	err := AssignToRef(env, resolver, HandleExpensive, r, nil, given)
	if ce, ok := err.(*CheckError[CID, GID, TID]); ok && ce.Kind == KindConstraintNotMet {
		return &AnnotationError[CID, GID, TID]{Ref: r, Constraint: ce.Constraint, Contenders: ce.Contenders}
	}
	return err
}

// AnnotateGID assigns given to the cell m allocated for gen, discharging any
// constraints translated onto that cell.
func (m *Mapping[CID, GID, TID]) AnnotateGID(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], gen GID, given *Type[CID, GID, TID]) error {
	r, ok := m.Lookup(gen)
	if !ok {
		return &AnnotationError[CID, GID, TID]{Ref: RefID(-1)}
	}
	return annotateCell(env, resolver, r, given)
}

// AnnotateIndex assigns given to the i'th binder in conversion order.
func (m *Mapping[CID, GID, TID]) AnnotateIndex(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], i int, given *Type[CID, GID, TID]) error {
	if i < 0 || i >= len(m.Conversion) {
		return &AnnotationError[CID, GID, TID]{Ref: RefID(-1)}
	}
	return annotateCell(env, resolver, m.Conversion[i].Cell, given)
}

// AnnotateTypes assigns ts to every binder cell positionally, discharging
// each cell's constraints in order. The caller supplies exactly one type
// per binder (an arity mismatch is a caller bug), and no binder may
// already be annotated.
func (m *Mapping[CID, GID, TID]) AnnotateTypes(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], ts []*Type[CID, GID, TID]) error {
	if len(ts) != len(m.Conversion) {
		panic("explicit type argument count does not match the scheme's binder count")
	}
	for i, t := range ts {
		if err := annotateCell(env, resolver, m.Conversion[i].Cell, t); err != nil {
			return err
		}
	}
	return nil
}

// AnnotateSelf assigns given to this Mapping's Self cell, if one was
// supplied to ToMapping.
func (m *Mapping[CID, GID, TID]) AnnotateSelf(env *TEnv[CID, GID, TID], resolver Resolver[CID, GID, TID], given *Type[CID, GID, TID]) error {
	if m.SelfRef == nil {
		return &AnnotationError[CID, GID, TID]{Ref: RefID(-1)}
	}
	return annotateCell(env, resolver, *m.SelfRef, given)
}
