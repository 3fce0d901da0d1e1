// Package state holds the result state of the catalog view.
//
// Result is a closed variant: Loading, Empty or Populated. The zero value is
// not a valid state; start from Initial().
package state

import "github.com/abelbrown/qkart/internal/catalog"

// Kind identifies which variant a Result holds.
type Kind int

const (
	KindLoading Kind = iota + 1
	KindEmpty
	KindPopulated
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindEmpty:
		return "empty"
	case KindPopulated:
		return "populated"
	default:
		return "invalid"
	}
}

// Result is what the catalog view currently shows.
// Fields are unexported so variants can only be built by the transitions below.
type Result struct {
	kind  Kind
	items []catalog.Item // Populated only; never empty
	prev  *Result        // Loading only; what was shown before the lookup
}

// Initial is the state on startup: the catalog fetch is in flight and there
// is nothing to fall back to.
func Initial() Result {
	empty := Empty()
	return Result{kind: KindLoading, prev: &empty}
}

// Empty is the "no products" state.
func Empty() Result {
	return Result{kind: KindEmpty}
}

// FromItems returns Populated(items), or Empty when items has no elements.
// The slice is copied; order is preserved.
func FromItems(items []catalog.Item) Result {
	if len(items) == 0 {
		return Empty()
	}
	cp := make([]catalog.Item, len(items))
	copy(cp, items)
	return Result{kind: KindPopulated, items: cp}
}

// Kind returns the active variant.
func (r Result) Kind() Kind { return r.kind }

// IsLoading reports whether a lookup is outstanding.
func (r Result) IsLoading() bool { return r.kind == KindLoading }

// Items returns the displayed items. Nil unless Populated.
func (r Result) Items() []catalog.Item {
	if r.kind != KindPopulated {
		return nil
	}
	return r.items
}

// Len is the number of displayed items.
func (r Result) Len() int { return len(r.Items()) }

// Begin enters Loading because a lookup was issued. The current display is
// remembered so Fail can put it back. Beginning while already loading keeps
// the original fallback.
func (r Result) Begin() Result {
	if r.kind == KindLoading {
		return r
	}
	prev := r
	return Result{kind: KindLoading, prev: &prev}
}

// Resolve leaves Loading with the lookup's items.
func (r Result) Resolve(items []catalog.Item) Result {
	return FromItems(items)
}

// NotFound leaves Loading as Empty.
func (r Result) NotFound() Result {
	return Empty()
}

// Fail leaves Loading without replacing the display: the variant shown before
// the lookup comes back. Outside Loading it is a no-op.
func (r Result) Fail() Result {
	if r.kind != KindLoading {
		return r
	}
	if r.prev == nil {
		return Empty()
	}
	return *r.prev
}
