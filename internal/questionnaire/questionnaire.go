// Package questionnaire holds the fixed, ordered list of checklist items.
//
// A Definition is built once at startup and never mutated afterwards. The
// scoring engine depends on it for the item count (the percentage
// denominator) and for id validation.
package questionnaire

import (
	"strconv"
	"strings"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
)

// Item is one checklist question.
type Item struct {
	ID           int    `json:"id" mapstructure:"id"`
	Prompt       string `json:"prompt" mapstructure:"prompt"`
	Note         string `json:"note,omitempty" mapstructure:"note"`
	ReferenceURL string `json:"reference_url,omitempty" mapstructure:"reference_url"`
}

// Label returns the "<id>. <prompt>" form used in listings and exports.
func (i Item) Label() string {
	return strconv.Itoa(i.ID) + ". " + i.Prompt
}

// Definition is an immutable, ordered set of items with unique ids.
type Definition struct {
	items []Item
	index map[int]int // id -> position
}

// New validates items and returns a Definition that owns a private copy.
// It fails with a ConfigurationError when the list is empty, an id is not
// positive, an id repeats, or a prompt is blank.
func New(items []Item) (*Definition, error) {
	if len(items) == 0 {
		return nil, errs.Configuration("questionnaire has no items")
	}

	d := &Definition{
		items: make([]Item, len(items)),
		index: make(map[int]int, len(items)),
	}
	for pos, it := range items {
		if it.ID < 1 {
			return nil, errs.Configuration("item at position %d has invalid id %d: ids start at 1", pos+1, it.ID)
		}
		if _, dup := d.index[it.ID]; dup {
			return nil, errs.Configuration("duplicate item id %d", it.ID)
		}
		if strings.TrimSpace(it.Prompt) == "" {
			return nil, errs.Configuration("item %d has an empty prompt", it.ID)
		}
		d.items[pos] = it
		d.index[it.ID] = pos
	}
	return d, nil
}

// MustNew is New for static definitions; it panics on error.
func MustNew(items []Item) *Definition {
	d, err := New(items)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the item count N.
func (d *Definition) Len() int { return len(d.items) }

// Items returns the items in definition order. The slice is a copy.
func (d *Definition) Items() []Item {
	out := make([]Item, len(d.items))
	copy(out, d.items)
	return out
}

// IDs returns the item ids in definition order.
func (d *Definition) IDs() []int {
	out := make([]int, len(d.items))
	for i, it := range d.items {
		out[i] = it.ID
	}
	return out
}

// Has reports whether id belongs to the definition.
func (d *Definition) Has(id int) bool {
	_, ok := d.index[id]
	return ok
}

// Item looks up an item by id.
func (d *Definition) Item(id int) (Item, bool) {
	pos, ok := d.index[id]
	if !ok {
		return Item{}, false
	}
	return d.items[pos], true
}
