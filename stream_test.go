package ctok // import "go.spiff.io/ctok"

import (
	"strings"
	"testing"

	"golang.org/x/xerrors"
)

type refCase struct {
	Category Category
	Text     string
}

// drainRefs reads refs until TEOF, failing the test on any scan error.
func drainRefs(t *testing.T, s *Stream) []Ref {
	t.Helper()
	var refs []Ref
	for {
		ref, err := s.Next()
		if err != nil {
			t.Fatalf("Next() = %v; want ref", err)
		}
		if ref.Category == TEOF {
			return refs
		}
		refs = append(refs, ref)
	}
}

func checkRefs(t *testing.T, s *Stream, refs []Ref, want []refCase) {
	t.Helper()
	if len(refs) != len(want) {
		t.Fatalf("scan yielded %d refs; want %d", len(refs), len(want))
	}
	for i, ref := range refs {
		if ref.Category != want[i].Category {
			t.Errorf("%d: ref.Category = %v; want %v", i+1, ref.Category, want[i].Category)
		}
		text, err := s.Table().Lookup(ref.Category, ref.ID)
		if err != nil {
			t.Errorf("%d: Lookup(%v) = %v; want %q", i+1, ref, err, want[i].Text)
		} else if text != want[i].Text {
			t.Errorf("%d: Lookup(%v) = %q; want %q", i+1, ref, text, want[i].Text)
		}
	}
}

func TestStreamMainProgram(t *testing.T) {
	defer setlogf(t)()
	s := ScanString("", "int main(void){return 0;}")
	refs := drainRefs(t, s)
	checkRefs(t, s, refs, []refCase{
		{TKeyword, "int"},
		{TIdentifier, "main"},
		{TPunct, "("},
		{TKeyword, "void"},
		{TPunct, ")"},
		{TPunct, "{"},
		{TKeyword, "return"},
		{TInteger, "0"},
		{TPunct, ";"},
		{TPunct, "}"},
	})

	// EOF latches: every later call yields the same TEOF ref.
	for i := 0; i < 3; i++ {
		ref, err := s.Next()
		if err != nil {
			t.Fatalf("Next() after EOF = %v; want TEOF ref", err)
		}
		if ref.Category != TEOF {
			t.Fatalf("Next() after EOF = %v; want TEOF ref", ref)
		}
	}
}

func TestStreamInternsPerCategory(t *testing.T) {
	defer setlogf(t)()
	s := ScanString("", "x = x + y; y = y - x;")
	refs := drainRefs(t, s)
	checkRefs(t, s, refs, []refCase{
		{TIdentifier, "x"},
		{TOperator, "="},
		{TIdentifier, "x"},
		{TOperator, "+"},
		{TIdentifier, "y"},
		{TPunct, ";"},
		{TIdentifier, "y"},
		{TOperator, "="},
		{TIdentifier, "y"},
		{TOperator, "-"},
		{TIdentifier, "x"},
		{TPunct, ";"},
	})

	// Repeated texts reuse their first ID.
	if refs[0] != refs[2] || refs[2] != refs[10] {
		t.Errorf("refs for x = %v, %v, %v; want one ID", refs[0], refs[2], refs[10])
	}
	if refs[1] != refs[7] {
		t.Errorf("refs for = are %v and %v; want one ID", refs[1], refs[7])
	}
	if tab := s.Table(); tab.Len(TIdentifier) != 2 || tab.Len(TOperator) != 3 || tab.Len(TPunct) != 1 {
		t.Errorf("table sizes = %d identifiers, %d operators, %d punctuators; want 2, 3, 1",
			tab.Len(TIdentifier), tab.Len(TOperator), tab.Len(TPunct))
	}
}

func TestStreamRoundTrip(t *testing.T) {
	defer setlogf(t)()
	const input = `#include <math.h>

/* area of a circle */
double area(double r) {
	return 3.14159 * r * r; // close enough
}
`
	s := ScanString("circle.c", input)
	s.KeepWhitespace = true

	var rebuilt strings.Builder
	for {
		ref, err := s.Next()
		if err != nil {
			t.Fatalf("Next() = %v; want ref", err)
		}
		if ref.Category == TEOF {
			break
		}
		text, err := s.Table().Lookup(ref.Category, ref.ID)
		if err != nil {
			t.Fatalf("Lookup(%v) = %v; want text", ref, err)
		}
		rebuilt.WriteString(text)
	}
	if got := rebuilt.String(); got != input {
		t.Fatalf("concatenated ref texts = %q; want %q", got, input)
	}
}

func TestStreamSuppressesWhitespace(t *testing.T) {
	defer setlogf(t)()
	s := ScanString("", "a b")
	refs := drainRefs(t, s)
	checkRefs(t, s, refs, []refCase{
		{TIdentifier, "a"},
		{TIdentifier, "b"},
	})
	if n := s.Table().Len(TWhitespace); n != 0 {
		t.Errorf("Len(whitespace) = %d; want 0", n)
	}

	s = ScanString("", "a b")
	s.KeepWhitespace = true
	refs = drainRefs(t, s)
	checkRefs(t, s, refs, []refCase{
		{TIdentifier, "a"},
		{TWhitespace, " "},
		{TIdentifier, "b"},
	})
}

func TestStreamDeterminism(t *testing.T) {
	defer setlogf(t)()
	const input = `
static int counts[16];

int bump(int i) {
	if (i < 0 || i >= 16) return -1;
	counts[i] += 1;
	return counts[i];
}
`
	first := ScanString("counts.c", input)
	second := ScanString("counts.c", input)

	firstRefs := drainRefs(t, first)
	secondRefs := drainRefs(t, second)

	if len(firstRefs) != len(secondRefs) {
		t.Fatalf("scans yielded %d and %d refs; want equal counts", len(firstRefs), len(secondRefs))
	}
	for i := range firstRefs {
		if firstRefs[i] != secondRefs[i] {
			t.Errorf("%d: refs differ: %v and %v", i+1, firstRefs[i], secondRefs[i])
		}
	}

	for _, cat := range first.Table().Categories() {
		a, b := first.Table().Texts(cat), second.Table().Texts(cat)
		if len(a) != len(b) {
			t.Errorf("%v: tables hold %d and %d texts; want equal counts", cat, len(a), len(b))
			continue
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%v: text %d is %q and %q; want equal", cat, i, a[i], b[i])
			}
		}
	}
}

func TestStreamEmptyInput(t *testing.T) {
	defer setlogf(t)()
	s := ScanString("", "")
	for i := 0; i < 3; i++ {
		ref, err := s.Next()
		if err != nil {
			t.Fatalf("Next() = %v; want TEOF ref", err)
		}
		if ref.Category != TEOF {
			t.Fatalf("Next() = %v; want TEOF ref", ref)
		}
	}
	if cats := s.Table().Categories(); len(cats) != 0 {
		t.Fatalf("Categories() = %v; want none", cats)
	}
}

func TestStreamErrorLatch(t *testing.T) {
	defer setlogf(t)()
	s := ScanString("broken.c", "int x; /* unterminated")

	refs := []refCase{
		{TKeyword, "int"},
		{TIdentifier, "x"},
		{TPunct, ";"},
	}
	for i, want := range refs {
		ref, err := s.Next()
		if err != nil {
			t.Fatalf("%d: Next() = %v; want ref", i+1, err)
		}
		text, lerr := s.Table().Lookup(ref.Category, ref.ID)
		if lerr != nil || ref.Category != want.Category || text != want.Text {
			t.Fatalf("%d: Next() = %v (%q, %v); want %v %q", i+1, ref, text, lerr, want.Category, want.Text)
		}
	}

	_, err := s.Next()
	if !xerrors.Is(err, ErrUnterminatedComment) {
		t.Fatalf("Next() = %v; want %v", err, ErrUnterminatedComment)
	}
	if !strings.Contains(err.Error(), "broken.c:") {
		t.Errorf("error %q does not name the source", err)
	}

	// The error latches: later calls return it unchanged, and the table
	// still holds everything read before the failure.
	for i := 0; i < 3; i++ {
		if _, again := s.Next(); again != err {
			t.Fatalf("Next() after error = %v; want %v", again, err)
		}
	}
	if n := s.Table().Len(TIdentifier); n != 1 {
		t.Errorf("Len(identifier) = %d; want 1", n)
	}
}

func TestStreamLocation(t *testing.T) {
	defer setlogf(t)()
	s := ScanString("main.c", "int x;\nint y;")

	if loc := s.Location(); loc != (Location{}) {
		t.Errorf("Location() before scan = %v; want zero", loc)
	}

	if _, err := s.Next(); err != nil {
		t.Fatalf("Next() = %v; want ref", err)
	}
	want := Location{Name: "main.c", Offset: 3, Line: 1, Column: 4}
	if loc := s.Location(); loc != want {
		t.Errorf("Location() = %#v; want %#v", loc, want)
	}

	drainRefs(t, s)
	wantEnd := Location{Name: "main.c", Offset: 13, Line: 2, Column: 7}
	if loc := s.Location(); loc != wantEnd {
		t.Errorf("Location() at EOF = %#v; want %#v", loc, wantEnd)
	}
}
