package style

import (
	"errors"
	"testing"
)

func boldRed() Style {
	s := New()
	s.Font.Bold = true
	s.Font.Color = "FFFF0000"
	return s
}

func TestInternDeduplicates(t *testing.T) {
	r := NewRegistry()

	a, b := boldRed(), boldRed()
	ha, err := r.Intern(&a)
	if err != nil {
		t.Fatalf("Intern unexpected error: %v", err)
	}
	hb, err := r.Intern(&b)
	if err != nil {
		t.Fatalf("Intern unexpected error: %v", err)
	}

	if ha != hb {
		t.Errorf("equal styles interned to different handles: %v, %v", ha, hb)
	}
	if r.Len() != 2 { // default + one
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestInternDistinctValues(t *testing.T) {
	r := NewRegistry()

	a := boldRed()
	b := boldRed()
	b.Font.Italic = true

	ha, _ := r.Intern(&a)
	hb, _ := r.Intern(&b)
	if ha == hb {
		t.Errorf("distinct styles interned to the same handle")
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestInternNil(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Intern(nil); !errors.Is(err, ErrUndefinedStyle) {
		t.Errorf("Intern(nil) error = %v, want ErrUndefinedStyle", err)
	}

	var missing *Registry
	s := New()
	if _, err := missing.Intern(&s); !errors.Is(err, ErrUndefinedStyle) {
		t.Errorf("Intern on nil registry error = %v, want ErrUndefinedStyle", err)
	}
}

func TestReleaseEvictsAtZero(t *testing.T) {
	r := NewRegistry()

	s := boldRed()
	h1, _ := r.Intern(&s)
	h2, _ := r.Intern(&s) // same entry, count 2

	if err := r.Release(h1); err != nil {
		t.Fatalf("Release unexpected error: %v", err)
	}
	if _, ok := r.Style(h2); !ok {
		t.Fatal("entry evicted while still referenced")
	}

	if err := r.Release(h2); err != nil {
		t.Fatalf("Release unexpected error: %v", err)
	}
	if _, ok := r.Style(h2); ok {
		t.Error("entry still live after final release")
	}
	if err := r.Release(h2); !errors.Is(err, ErrUndefinedStyle) {
		t.Errorf("Release of evicted handle error = %v, want ErrUndefinedStyle", err)
	}
}

func TestDefaultNeverEvicted(t *testing.T) {
	r := NewRegistry()
	def := r.Default()

	if err := r.Release(def); err != nil {
		t.Fatalf("Release(default) unexpected error: %v", err)
	}
	if _, ok := r.Style(def); !ok {
		t.Error("default style evicted at zero references")
	}

	// Interning the default value again must return the same entry.
	s := New()
	h, _ := r.Intern(&s)
	if h != def {
		t.Errorf("re-interned default = %v, want %v", h, def)
	}
}

func TestReinternAfterEviction(t *testing.T) {
	r := NewRegistry()

	s := boldRed()
	h1, _ := r.Intern(&s)
	r.Release(h1)

	h2, _ := r.Intern(&s)
	if h1 == h2 {
		t.Errorf("evicted entry re-interned with the same identifier")
	}
}

func TestCopyDetached(t *testing.T) {
	r := NewRegistry()

	s := boldRed()
	h, _ := r.Intern(&s)

	c, err := r.Copy(h)
	if err != nil {
		t.Fatalf("Copy unexpected error: %v", err)
	}
	c.Protection.Locked = false
	c.Protection.Hidden = true

	stored, ok := r.Style(h)
	if !ok {
		t.Fatal("interned entry disappeared")
	}
	if !stored.Protection.Locked || stored.Protection.Hidden {
		t.Error("modifying a copy mutated the interned style")
	}
}

func TestEntriesInsertionOrder(t *testing.T) {
	r := NewRegistry()

	a := boldRed()
	b := boldRed()
	b.Fill = Fill{Pattern: "solid", Color: "FF00FF00"}

	ha, _ := r.Intern(&a)
	hb, _ := r.Intern(&b)

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() returned %d entries, want 3", len(entries))
	}
	if entries[0].ID != r.Default().ID() {
		t.Errorf("Entries()[0] = %s, want the default style", entries[0].ID)
	}
	if entries[1].ID != ha.ID() || entries[2].ID != hb.ID() {
		t.Errorf("Entries() not in insertion order: %s, %s", entries[1].ID, entries[2].ID)
	}

	// Eviction removes the entry from the emission order.
	r.Release(ha)
	entries = r.Entries()
	if len(entries) != 2 || entries[1].ID != hb.ID() {
		t.Errorf("Entries() after eviction = %d entries, want default then %s", len(entries), hb.ID())
	}
}

func TestIdentifiersDistinctUnderRapidInterning(t *testing.T) {
	r := NewRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := New()
		s.Font.Size = float64(i) + 1
		h, err := r.Intern(&s)
		if err != nil {
			t.Fatalf("Intern unexpected error: %v", err)
		}
		if seen[h.ID()] {
			t.Fatalf("duplicate identifier %s after %d interns", h.ID(), i)
		}
		seen[h.ID()] = true
	}
}
