// Package types implements the core Hindley-Milner-style type representation,
// inference environment, unifier, lift, and frontend-scheme layers described
// for the Lyte compiler. Trait resolution itself lives in the sibling
// internal/traits package to keep the one-way dependency (traits -> types)
// explicit; everything here is written so it compiles and works without ever
// importing traits.
package types

import "fmt"

// Ident is the constraint every host-supplied identifier sort (concrete-type
// id, generic id, trait id, association id) must satisfy: comparable so it
// can key maps and be compared with ==, Stringer so the display layer and
// error messages can render it. The engine never special-cases string ids;
// a front-end may use interned ints, symbol pointers, or anything else that
// satisfies this.
type Ident interface {
	comparable
	fmt.Stringer
}

// RefID is a dense, non-negative, allocation-order index into a TEnv's cell
// vector. RefIDs are stable for the lifetime of the TEnv that produced them.
type RefID int
