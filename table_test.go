package ctok // import "go.spiff.io/ctok"

import (
	"testing"

	"golang.org/x/xerrors"
)

func TestRefString(t *testing.T) {
	defer setlogf(t)()
	cases := []struct {
		Ref  Ref
		Want string
	}{
		{Ref{Category: TKeyword, ID: 0}, "keyword#0"},
		{Ref{Category: TIdentifier, ID: 12}, "identifier#12"},
		{Ref{Category: TEOF, ID: 0}, "EOF#0"},
		{Ref{Category: Category(0xffffffff), ID: 3}, "invalid#3"},
	}
	for _, c := range cases {
		if got := c.Ref.String(); got != c.Want {
			t.Errorf("%#v.String() = %q; want %q", c.Ref, got, c.Want)
		}
	}
}

func TestInternDedup(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()

	first := tab.Intern(TIdentifier, []byte("main"))
	again := tab.Intern(TIdentifier, []byte("main"))
	if first != again {
		t.Fatalf("Intern(identifier, main) = %d, then %d; want equal IDs", first, again)
	}

	other := tab.Intern(TIdentifier, []byte("argc"))
	if other == first {
		t.Fatalf("Intern(identifier, argc) = %d; want a new ID", other)
	}

	// Categories do not share ID spaces: the same text interns
	// independently under each.
	kwid := tab.Intern(TKeyword, []byte("main"))
	if kwid != 0 {
		t.Errorf("Intern(keyword, main) = %d; want 0", kwid)
	}
	if n := tab.Len(TIdentifier); n != 2 {
		t.Errorf("Len(identifier) = %d; want 2", n)
	}
	if n := tab.Len(TKeyword); n != 1 {
		t.Errorf("Len(keyword) = %d; want 1", n)
	}

	// Empty text is a valid intern key.
	if id := tab.Intern(TUnknown, nil); id != 0 {
		t.Errorf("Intern(unknown, nil) = %d; want 0", id)
	}
	if id := tab.Intern(TUnknown, []byte{}); id != 0 {
		t.Errorf("Intern(unknown, []byte{}) = %d; want 0", id)
	}
}

func TestInternFirstSeenOrder(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()
	words := []string{"gamma", "alpha", "beta", "alpha", "gamma", "delta"}
	want := []string{"gamma", "alpha", "beta", "delta"}

	for _, w := range words {
		tab.Intern(TIdentifier, []byte(w))
	}

	got := tab.Texts(TIdentifier)
	if len(got) != len(want) {
		t.Fatalf("Texts(identifier) = %q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Texts(identifier)[%d] = %q; want %q", i, got[i], want[i])
		}
	}

	// IDs are indexes into the first-seen order.
	for i, w := range want {
		if id := tab.Intern(TIdentifier, []byte(w)); id != ID(i) {
			t.Errorf("Intern(identifier, %q) = %d; want %d", w, id, i)
		}
		text, err := tab.Lookup(TIdentifier, ID(i))
		if err != nil {
			t.Errorf("Lookup(identifier, %d) = %v; want %q", i, err, w)
		} else if text != w {
			t.Errorf("Lookup(identifier, %d) = %q; want %q", i, text, w)
		}
	}
}

func TestLookupError(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()
	tab.Intern(TKeyword, []byte("if"))

	cases := []struct {
		Name string
		Cat  Category
		ID   ID
	}{
		{"UnusedID", TKeyword, 1},
		{"EmptyCategory", TString, 0},
		{"EOF", TEOF, 0},
		{"OutOfRange", Category(0xffffffff), 0},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			defer setlogf(t)()
			text, err := tab.Lookup(c.Cat, c.ID)
			if err == nil {
				t.Fatalf("Lookup(%v, %d) = %q; want error", c.Cat, c.ID, text)
			}
			var lerr *LookupError
			if !xerrors.As(err, &lerr) {
				t.Fatalf("Lookup(%v, %d) error = %T; want *LookupError", c.Cat, c.ID, err)
			}
			if lerr.Category != c.Cat || lerr.ID != c.ID {
				t.Errorf("error = %v; want category %v id %d", lerr, c.Cat, c.ID)
			}
		})
	}
}

func TestZeroValueTable(t *testing.T) {
	defer setlogf(t)()
	var tab Table
	if id := tab.Intern(TInteger, []byte("42")); id != 0 {
		t.Fatalf("Intern(integer, 42) = %d; want 0", id)
	}
	text, err := tab.Lookup(TInteger, 0)
	if err != nil || text != "42" {
		t.Fatalf("Lookup(integer, 0) = %q, %v; want %q, nil", text, err, "42")
	}
}

func TestCategories(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()
	if cats := tab.Categories(); len(cats) != 0 {
		t.Fatalf("Categories() = %v; want none", cats)
	}

	tab.Intern(TOperator, []byte("<<="))
	tab.Intern(TKeyword, []byte("while"))
	tab.Intern(TKeyword, []byte("do"))

	want := []Category{TKeyword, TOperator}
	cats := tab.Categories()
	if len(cats) != len(want) {
		t.Fatalf("Categories() = %v; want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("Categories()[%d] = %v; want %v", i, cats[i], want[i])
		}
	}
}

func TestTextsCopies(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()
	tab.Intern(TChar, []byte("'a'"))

	texts := tab.Texts(TChar)
	texts[0] = "clobbered"

	if text, err := tab.Lookup(TChar, 0); err != nil || text != "'a'" {
		t.Fatalf("Lookup(char, 0) = %q, %v; want %q, nil", text, err, "'a'")
	}
	if texts := tab.Texts(TString); texts != nil {
		t.Errorf("Texts(string) = %q; want nil", texts)
	}
}

func TestEach(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()
	want := []string{"0", "1", "2"}
	for _, w := range want {
		tab.Intern(TInteger, []byte(w))
	}

	var got []string
	err := tab.Each(TInteger, func(id ID, text string) error {
		if int(id) != len(got) {
			t.Errorf("Each yielded id %d; want %d", id, len(got))
		}
		got = append(got, text)
		return nil
	})
	if err != nil {
		t.Fatalf("Each(integer) = %v; want nil", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Each(integer) yielded %q; want %q", got, want)
	}

	stop := xerrors.New("stop")
	calls := 0
	err = tab.Each(TInteger, func(ID, string) error {
		calls++
		return stop
	})
	if !xerrors.Is(err, stop) {
		t.Errorf("Each(integer) = %v; want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("Each called fn %d times after an error; want 1", calls)
	}

	if err := tab.Each(Category(0xffffffff), func(ID, string) error { return stop }); err != nil {
		t.Errorf("Each(invalid) = %v; want nil", err)
	}
}

func TestInternInvalidCategory(t *testing.T) {
	defer setlogf(t)()
	cases := []Category{TEOF, Category(0xffffffff)}
	for _, cat := range cases {
		t.Run(cat.String(), func(t *testing.T) {
			defer setlogf(t)()
			defer func() {
				if recover() == nil {
					t.Errorf("Intern(%v, x) did not panic", cat)
				}
			}()
			NewTable().Intern(cat, []byte("x"))
		})
	}
}

func TestInternAllocs(t *testing.T) {
	defer setlogf(t)()
	tab := NewTable()
	text := []byte("recurring")
	tab.Intern(TIdentifier, text)

	// Interning a text already in the table must not allocate, or a long
	// scan would churn garbage for every repeated identifier.
	avg := testing.AllocsPerRun(100, func() {
		tab.Intern(TIdentifier, text)
	})
	if avg != 0 {
		t.Errorf("Intern of a known text allocates %v times per run; want 0", avg)
	}
}
