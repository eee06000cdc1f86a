//go:build gofuzz
// +build gofuzz

package ctok // import "go.spiff.io/ctok"

import "bytes"

func Fuzz(b []byte) (rc int) {
	s := Scan(bytes.NewReader(b))
	for {
		ref, err := s.Next()
		if err != nil || ref.Category == TEOF {
			return 0
		}
		if _, err := s.Table().Lookup(ref.Category, ref.ID); err != nil {
			panic(err)
		}
	}
}

func FuzzLexer(b []byte) (rc int) {
	lex := NewLexer(bytes.NewReader(b))
	for {
		t, err := lex.ReadToken()
		if err != nil || t.Category == TEOF {
			return 0
		}
	}
}
