package ctok // import "go.spiff.io/ctok"

import (
	"fmt"
	"strconv"
)

// ID identifies an interned token text within its category. IDs count up from
// zero in first-occurrence order and are never reused or renumbered for the
// lifetime of a Table.
type ID uint32

// Ref is a (category, id) pair referring to an interned token text. It is the
// only value a Stream yields; resolve it with Table.Lookup.
type Ref struct {
	Category Category
	ID       ID
}

func (r Ref) String() string {
	return r.Category.String() + "#" + strconv.FormatUint(uint64(r.ID), 10)
}

// LookupError describes a failed Table lookup: either the category is not a
// real token category, or no text was interned under the id.
type LookupError struct {
	Category Category
	ID       ID
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no token text interned for %v", Ref{Category: e.Category, ID: e.ID})
}

type catTable struct {
	texts []string
	ids   map[string]ID
}

// Table interns token text per category. Each category maps distinct texts to
// sequential IDs in first-seen order; interning the same text twice under a
// category returns the same ID. A Table grows monotonically and never forgets
// a text.
//
// The zero value is an empty Table ready for use. A Table must not be shared
// across goroutines without external locking.
type Table struct {
	cats [len(categoryNames)]catTable
}

// NewTable allocates a new, empty Table.
func NewTable() *Table {
	return new(Table)
}

// Intern returns the ID for text under cat, interning it first if it has not
// been seen before. Intern never fails; interning with a Category outside the
// token categories panics, as that is a programming error rather than input.
func (t *Table) Intern(cat Category, text []byte) ID {
	if int(cat) >= len(t.cats) || cat == tEmpty || cat == TEOF {
		panic("ctok: intern with invalid category " + cat.String())
	}
	ct := &t.cats[cat]
	if id, ok := ct.ids[string(text)]; ok {
		return id
	}
	if ct.ids == nil {
		ct.ids = make(map[string]ID)
	}
	id := ID(len(ct.texts))
	ct.texts = append(ct.texts, string(text))
	ct.ids[string(text)] = id
	return id
}

// Lookup returns the text interned under (cat, id). It returns a *LookupError
// if nothing was interned there.
func (t *Table) Lookup(cat Category, id ID) (string, error) {
	if int(cat) >= len(t.cats) || int(id) >= len(t.cats[cat].texts) {
		return "", &LookupError{Category: cat, ID: id}
	}
	return t.cats[cat].texts[id], nil
}

// Categories returns the categories that have at least one interned text, in
// ascending order.
func (t *Table) Categories() []Category {
	cats := make([]Category, 0, len(t.cats))
	for i := range t.cats {
		if len(t.cats[i].texts) > 0 {
			cats = append(cats, Category(i))
		}
	}
	return cats
}

// Len returns the number of distinct texts interned under cat.
func (t *Table) Len(cat Category) int {
	if int(cat) >= len(t.cats) {
		return 0
	}
	return len(t.cats[cat].texts)
}

// Texts returns a copy of the texts interned under cat, indexed by ID.
func (t *Table) Texts(cat Category) []string {
	if int(cat) >= len(t.cats) || len(t.cats[cat].texts) == 0 {
		return nil
	}
	texts := make([]string, len(t.cats[cat].texts))
	copy(texts, t.cats[cat].texts)
	return texts
}

// Each calls fn for every text interned under cat in ID order. If fn returns
// an error, Each stops and returns it.
func (t *Table) Each(cat Category, fn func(ID, string) error) error {
	if int(cat) >= len(t.cats) {
		return nil
	}
	for i, text := range t.cats[cat].texts {
		if err := fn(ID(i), text); err != nil {
			return err
		}
	}
	return nil
}
