package questionnaire

import (
	"errors"
	"strings"
	"testing"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
)

// --- New ---

func TestNew_Valid(t *testing.T) {
	d, err := New([]Item{{ID: 1, Prompt: "a"}, {ID: 2, Prompt: "b"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		items   []Item
		wantMsg string
	}{
		{"empty", nil, "no items"},
		{"duplicate id", []Item{{ID: 1, Prompt: "a"}, {ID: 1, Prompt: "b"}}, "duplicate item id 1"},
		{"zero id", []Item{{ID: 0, Prompt: "a"}}, "invalid id 0"},
		{"negative id", []Item{{ID: 1, Prompt: "a"}, {ID: -4, Prompt: "b"}}, "invalid id -4"},
		{"blank prompt", []Item{{ID: 1, Prompt: "   "}}, "empty prompt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.items)
			if err == nil {
				t.Fatalf("New should fail, got definition with %d items", d.Len())
			}
			if !errors.Is(err, errs.ErrConfiguration) {
				t.Errorf("error should be a ConfigurationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	items := []Item{{ID: 1, Prompt: "original"}}
	d := MustNew(items)
	items[0].Prompt = "mutated"

	got, _ := d.Item(1)
	if got.Prompt != "original" {
		t.Errorf("definition was mutated through caller slice: %q", got.Prompt)
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	d := MustNew([]Item{{ID: 1, Prompt: "a"}})
	items := d.Items()
	items[0].Prompt = "changed"

	if got, _ := d.Item(1); got.Prompt != "a" {
		t.Errorf("Items() exposed internal state: %q", got.Prompt)
	}
}

func TestMustNew_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew(nil) should panic")
		}
	}()
	MustNew(nil)
}

// --- Lookup ---

func TestHasAndItem(t *testing.T) {
	d := MustNew([]Item{{ID: 3, Prompt: "c"}, {ID: 7, Prompt: "g"}})

	if !d.Has(7) {
		t.Error("Has(7) should be true")
	}
	if d.Has(4) {
		t.Error("Has(4) should be false")
	}
	if _, ok := d.Item(4); ok {
		t.Error("Item(4) should not be found")
	}
	ids := d.IDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("IDs = %v, want [3 7]", ids)
	}
}

func TestItem_Label(t *testing.T) {
	it := Item{ID: 4, Prompt: "Opinión SAT"}
	if got := it.Label(); got != "4. Opinión SAT" {
		t.Errorf("Label = %q", got)
	}
}

// --- Default ---

func TestDefault_HasTenItems(t *testing.T) {
	d := Default()
	if d.Len() != 10 {
		t.Fatalf("Default().Len() = %d, want 10", d.Len())
	}
	for i, id := range d.IDs() {
		if id != i+1 {
			t.Errorf("position %d has id %d, want %d", i, id, i+1)
		}
	}
}

func TestDefault_OnlyItem8HasReferenceURL(t *testing.T) {
	for _, it := range DefaultItems() {
		if it.ID == 8 {
			if it.ReferenceURL != STPSPortalURL {
				t.Errorf("item 8 ReferenceURL = %q, want %q", it.ReferenceURL, STPSPortalURL)
			}
			continue
		}
		if it.ReferenceURL != "" {
			t.Errorf("item %d should have no reference url, got %q", it.ID, it.ReferenceURL)
		}
	}
}

func TestDefault_AllItemsHaveNotes(t *testing.T) {
	for _, it := range DefaultItems() {
		if it.Note == "" {
			t.Errorf("item %d has no note", it.ID)
		}
	}
}
