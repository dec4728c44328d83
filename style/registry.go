package style

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUndefinedStyle reports a style operation against a missing style,
// an unknown handle, or an absent registry.
var ErrUndefinedStyle = errors.New("style: undefined style")

// Handle is a stable, non-owning reference to an interned style.
// The zero Handle refers to nothing.
type Handle struct {
	id string
}

// Valid reports whether the handle was issued by a registry.
func (h Handle) Valid() bool { return h.id != "" }

// ID returns the handle's identifier. Identifiers are unique per
// interned entry and stable for its lifetime.
func (h Handle) ID() string { return h.id }

type entry struct {
	style Style
	refs  int
}

// Registry interns style values so structurally identical definitions
// share a single stored entry, referenced by a stable identifier.
// Each workbook owns exactly one Registry; there is no ambient global
// store. A Registry is not safe for concurrent use.
type Registry struct {
	entries map[string]*entry
	byValue map[Style]string
	order   []string // insertion order; the serializer's emission order
	def     Handle
}

// NewRegistry returns a registry holding the always-present default
// style as its first entry. The default entry survives even when its
// reference count drops to zero.
func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		byValue: make(map[Style]string),
	}
	def := New()
	r.def, _ = r.Intern(&def)
	return r
}

// Default returns the handle of the default style.
func (r *Registry) Default() Handle {
	if r == nil {
		return Handle{}
	}
	return r.def
}

// Intern stores the style if no equal entry exists and returns the
// entry's handle. Interning an already-present value returns the
// existing handle and increments its reference count; a new entry
// starts at count one. Identifiers are generated with enough entropy
// to stay distinct under many calls within the same instant.
func (r *Registry) Intern(s *Style) (Handle, error) {
	if r == nil || s == nil {
		return Handle{}, ErrUndefinedStyle
	}
	if id, ok := r.byValue[*s]; ok {
		r.entries[id].refs++
		return Handle{id: id}, nil
	}
	id := uuid.NewString()
	r.entries[id] = &entry{style: *s, refs: 1}
	r.byValue[*s] = id
	r.order = append(r.order, id)
	return Handle{id: id}, nil
}

// Release decrements the entry's reference count and removes the entry
// when the count reaches zero. The default style is never removed.
func (r *Registry) Release(h Handle) error {
	if r == nil {
		return ErrUndefinedStyle
	}
	e, ok := r.entries[h.id]
	if !ok {
		return fmt.Errorf("%w: unknown handle", ErrUndefinedStyle)
	}
	if e.refs > 0 {
		e.refs--
	}
	if e.refs == 0 && h != r.def {
		delete(r.entries, h.id)
		delete(r.byValue, e.style)
		for i, id := range r.order {
			if id == h.id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Copy returns a detached copy of the interned style. Modifying the
// copy and interning it again is the supported way to derive a new
// style without mutating one shared by other cells.
func (r *Registry) Copy(h Handle) (Style, error) {
	if r == nil {
		return Style{}, ErrUndefinedStyle
	}
	e, ok := r.entries[h.id]
	if !ok {
		return Style{}, fmt.Errorf("%w: unknown handle", ErrUndefinedStyle)
	}
	return e.style, nil
}

// Style returns the interned value for the handle.
func (r *Registry) Style(h Handle) (Style, bool) {
	if r == nil {
		return Style{}, false
	}
	e, ok := r.entries[h.id]
	if !ok {
		return Style{}, false
	}
	return e.style, true
}

// Len returns the number of live entries, including the default.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entry is a snapshot of one interned style.
type Entry struct {
	ID    string
	Style Style
	Refs  int
}

// Entries returns the live entries in insertion order. The default
// style is always first; the serializer derives its numeric style
// indices from this order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		out = append(out, Entry{ID: id, Style: e.style, Refs: e.refs})
	}
	return out
}
