package ctok // import "go.spiff.io/ctok"

import (
	"io"
	"strings"
)

// TokenReader is anything capable of reading a token and returning either it or an error.
type TokenReader interface {
	ReadToken() (Token, error)
}

// Stream drives a TokenReader, interning each token it produces and yielding
// (category, id) pairs in source order. One Stream owns one Table and scans
// one source; re-scanning means building a new Stream.
//
// The Stream reads lazily: no input is consumed until Next is called, and
// each call consumes only as much input as one token needs. Stopping early is
// fine; everything interned so far stays available through Table.
type Stream struct {
	// KeepWhitespace passes whitespace tokens through Next instead of
	// discarding them. With it set, concatenating the looked-up texts of
	// every Ref reproduces the scanned input exactly.
	KeepWhitespace bool

	tr    TokenReader
	table *Table

	last Token
	err  error
}

// NewStream allocates a Stream reading tokens from tr.
func NewStream(tr TokenReader) *Stream {
	return &Stream{
		tr:    tr,
		table: NewTable(),
	}
}

// Scan allocates a Stream lexing r.
func Scan(r io.Reader) *Stream {
	return NewStream(NewLexer(r))
}

// ScanString allocates a Stream lexing src. The name may be empty; it is only
// used to identify src in locations.
func ScanString(name, src string) *Stream {
	lex := NewLexer(strings.NewReader(src))
	lex.Name = name
	return NewStream(lex)
}

// Next returns the next token as a (category, id) pair, interning its text in
// the stream's Table. At end of input it returns a Ref with category TEOF and
// no error, and will keep doing so on subsequent calls. If reading a token
// fails, the error is returned by this and every later call: the stream is
// not resumable past an error, though its Table remains valid for everything
// read before it.
func (s *Stream) Next() (Ref, error) {
	if s.err != nil {
		return Ref{}, s.err
	}
	if s.last.Category == TEOF {
		return Ref{Category: TEOF}, nil
	}

	for {
		tok, err := s.tr.ReadToken()
		if err != nil {
			s.err = err
			return Ref{}, err
		}
		s.last = tok

		switch tok.Category {
		case TEOF:
			return Ref{Category: TEOF}, nil
		case TWhitespace:
			if !s.KeepWhitespace {
				continue
			}
		}
		return Ref{
			Category: tok.Category,
			ID:       s.table.Intern(tok.Category, tok.Raw),
		}, nil
	}
}

// Table returns the stream's Table. It is valid at any point of the scan and
// covers everything yielded so far.
func (s *Stream) Table() *Table {
	return s.table
}

// Location returns the end location of the last token read from the
// underlying TokenReader.
func (s *Stream) Location() Location {
	return s.last.End
}
