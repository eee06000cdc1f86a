package ctok // import "go.spiff.io/ctok"

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"golang.org/x/xerrors"
)

// Scan errors returned by the Lexer. Errors are wrapped with the location of
// the failure, so use errors.Is or xerrors.Is to match them.
var (
	// ErrUnterminatedComment is returned when EOF occurs inside a block
	// comment before its closing "*/".
	ErrUnterminatedComment = errors.New("unterminated block comment")
	// ErrUnterminatedLiteral is returned when a newline or EOF occurs
	// inside a character or string literal before its closing quote.
	ErrUnterminatedLiteral = errors.New("unterminated character or string literal")
	// ErrMalformedNumber is returned for numeric runs that cannot be cut
	// as a literal, such as a second decimal point or an empty exponent.
	ErrMalformedNumber = errors.New("malformed numeric literal")
)

const eof rune = -1

type scanResult struct {
	r    rune
	size int
	pos  Location // position before the rune was consumed
	err  error
}

// NamedReader is an optional interface that an io.Reader can implement to provide a name for its
// data source.
type NamedReader interface {
	io.Reader

	// Name returns a non-empty string identifying the reader's data source. This may be a file,
	// URL, resource ID, or some other thing. If the returned string is empty, it will be
	// treated as unnamed.
	Name() string
}

var noToken Token

// Lexer takes an input sequence of runes and constructs Tokens from it.
//
// The Lexer tokenizes all of its input, whitespace included: it is the
// consumer's job to discard whitespace tokens if it has no use for them
// (Stream does this by default). Concatenating the Raw fields of every token
// read from a Lexer reproduces the input.
type Lexer struct {
	// Name is the name of the token source currently being lexed. It is used to identify the
	// source of a location by name. It is not necessarily a filename, but usually is.
	//
	// If the reader provided to the Lexer implements NamedReader, the reader's name takes
	// priority.
	Name string

	scanner io.RuneReader

	pending  [2]scanResult
	npending int
	last     [2]scanResult
	nlast    int

	startPos Location
	pos      Location

	lineStart bool

	next consumerFunc

	buf bytes.Buffer
}

// NewLexer allocates a new Lexer that reads runes from r.
func NewLexer(r io.Reader) *Lexer {
	rr := runeReader(r)

	le := &Lexer{
		scanner:   rr,
		pos:       Location{Line: 1, Column: 1},
		lineStart: true,
	}
	return le
}

type nameRuneReader struct {
	*bufio.Reader
	namefn func() string
}

func (n nameRuneReader) Name() string {
	return n.namefn()
}

func runeReader(r io.Reader) io.RuneReader {
	switch r := r.(type) {
	case io.RuneReader:
		return r
	case NamedReader:
		return nameRuneReader{bufio.NewReader(r), r.Name}
	default:
		return bufio.NewReader(r)
	}
}

// ReadToken returns a token or an error. If EOF occurs, a TEOF token is returned without an error,
// and will be returned by all subsequent calls to ReadToken.
func (l *Lexer) ReadToken() (tok Token, err error) {
	l.reset()
	if l.next == nil {
		l.next = l.lexSegment
	}

	if l.pos == (Location{Line: 1, Column: 1}) {
		l.pos.Name = l.posName()
	}
	l.startPos = l.scanPos()

	var r rune
	for {
		r, err = l.readRune()
		if err != nil {
			return tok, err
		}

		tok, l.next, err = l.next(r)
		if err != nil || tok.Category != tEmpty {
			return tok, err
		}
	}
}

func (l *Lexer) token(kind Category, takeBuffer bool) Token {
	var txt []byte
	if buflen := l.buf.Len(); buflen > 0 && takeBuffer {
		txt = make([]byte, buflen)
		copy(txt, l.buf.Bytes())
	} else if takeBuffer {
		txt = []byte{}
	}
	l.buf.Reset()
	return Token{
		Start:    l.startPos,
		End:      l.scanPos(),
		Category: kind,
		Raw:      txt,
	}
}

func (l *Lexer) readRune() (r rune, err error) {
	if l.npending > 0 {
		l.npending--
		res := l.pending[l.npending]
		l.pushLast(res)
		if res.size > 0 {
			l.pos = res.pos.add(res.r, res.size)
		}
		return res.r, res.err
	}

	var size int
	l.pos.Name = l.posName()
	r, size, err = l.scanner.ReadRune()
	if err == io.EOF {
		r, size, err = eof, 0, nil
	}
	res := scanResult{r: r, size: size, pos: l.pos, err: err}
	l.pushLast(res)
	if size > 0 {
		l.pos = l.pos.add(r, size)
	}

	return r, err
}

func (l *Lexer) pushLast(res scanResult) {
	l.last[1], l.last[0] = l.last[0], res
	if l.nlast < len(l.last) {
		l.nlast++
	}
}

func (l *Lexer) posName() string {
	if named, ok := l.scanner.(NamedReader); ok {
		if name := named.Name(); name != "" {
			return name
		}
	}
	return l.Name
}

// unread takes the last-scanned rune and tells the lexer to return it on the next call to readRune.
// Up to two runes may be walked back, which is as far as any sub-lexer needs (a ".." that fails to
// become "..." must give back one dot and the rune after it).
func (l *Lexer) unread() {
	if l.npending == len(l.pending) {
		panic("unread() exceeded pushback depth")
	}
	if l.nlast == 0 {
		panic("unread() called before readRune")
	}
	l.pending[l.npending] = l.last[0]
	l.npending++
	l.pos = l.last[0].pos
	l.last[0], l.last[1] = l.last[1], scanResult{}
	l.nlast--
}

func (l *Lexer) reset() {
	l.buf.Reset()
}

func (l *Lexer) buffer(r rune) {
	if r >= 0 {
		l.buf.WriteRune(r)
	}
}

func (l *Lexer) scanPos() Location {
	return l.pos
}

// failAt wraps err with a location, usually the start of the token that could not be cut.
func (l *Lexer) failAt(pos Location, err error) error {
	return xerrors.Errorf("%v: %w", pos, err)
}

// badNumberRune reports the rune that made a numeric literal malformed.
func (l *Lexer) badNumberRune(r rune) error {
	if r == eof {
		return xerrors.Errorf("unexpected EOF in numeric literal at %v: %w", l.pos, ErrMalformedNumber)
	}
	return xerrors.Errorf("unexpected character %q in numeric literal at %v: %w", r, l.pos, ErrMalformedNumber)
}

// Rune cases

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isWordStart(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

func isWordRune(r rune) bool {
	return isWordStart(r) || isDecimal(r)
}

func isSign(r rune) bool {
	return r == '-' || r == '+'
}

func isDecimal(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHex(r rune) bool {
	return isDecimal(r) ||
		('a' <= r && r <= 'f') ||
		('A' <= r && r <= 'F')
}

func isNumberSuffix(r rune) bool {
	switch r {
	case 'u', 'U', 'l', 'L', 'f', 'F':
		return true
	}
	return false
}

// Branches

type consumerFunc func(rune) (Token, consumerFunc, error)

func (l *Lexer) lexSegment(r rune) (Token, consumerFunc, error) {
	atLineStart := l.lineStart
	if r != eof && !isSpace(r) {
		l.lineStart = false
	}

	switch {
	// EOF
	case r == eof:
		return l.token(TEOF, false), l.lexSegment, nil

	// Whitespace
	case isSpace(r):
		if r == '\n' {
			l.lineStart = true
		}
		l.buffer(r)
		return noToken, l.lexSpace(l.lexSegment), nil

	// Preprocessor directive ('#' must open its line; elsewhere it is an operator)
	case r == '#' && atLineStart:
		l.buffer(r)
		return noToken, l.lexPreproc, nil

	// Identifier / keyword
	case isWordStart(r):
		l.buffer(r)
		return noToken, l.lexWord, nil

	// Numerics
	case isDecimal(r):
		l.buffer(r)
		if r == '0' {
			return noToken, l.lexNumberZero, nil
		}
		return noToken, l.lexNumberInt, nil

	// Character and string literals
	case r == '\'' || r == '"':
		l.buffer(r)
		return noToken, l.lexQuote(r), nil

	// Comment or the '/', '/=' operators
	case r == '/':
		return noToken, l.lexCommentOrOperator, nil

	// Float fraction or the '.', '...' operators
	case r == '.':
		return noToken, l.lexDot, nil

	// Punctuators
	case isPunct(r):
		l.buffer(r)
		return l.token(TPunct, true), l.lexSegment, nil

	// Operators
	case isOperator(r):
		return l.lexOperator(r)
	}

	// Anything else is an unknown rune. Cut it as a one-rune token so the
	// scan can keep going.
	l.buffer(r)
	return l.token(TUnknown, true), l.lexSegment, nil
}

func (l *Lexer) lexSpace(next consumerFunc) consumerFunc {
	var spaceConsumer consumerFunc
	spaceConsumer = func(r rune) (Token, consumerFunc, error) {
		if !isSpace(r) {
			l.unread()
			return l.token(TWhitespace, true), next, nil
		}
		if r == '\n' {
			l.lineStart = true
		}
		l.buffer(r)
		return noToken, spaceConsumer, nil
	}
	return spaceConsumer
}

func (l *Lexer) lexCommentOrOperator(r rune) (Token, consumerFunc, error) {
	switch r {
	case '/':
		l.buffer('/')
		l.buffer(r)
		return noToken, l.lexLineComment, nil
	case '*':
		l.buffer('/')
		l.buffer(r)
		return noToken, l.lexBlockComment, nil
	}
	l.unread()
	return l.lexOperator('/')
}

func (l *Lexer) lexLineComment(r rune) (Token, consumerFunc, error) {
	if r == '\n' || r == eof {
		l.unread()
		return l.token(TComment, true), l.lexSegment, nil
	}
	l.buffer(r)
	return noToken, l.lexLineComment, nil
}

func (l *Lexer) lexBlockComment(r rune) (Token, consumerFunc, error) {
	switch r {
	case eof:
		return noToken, nil, l.failAt(l.startPos, ErrUnterminatedComment)
	case '*':
		l.buffer(r)
		return noToken, l.lexBlockCommentStar, nil
	}
	l.buffer(r)
	return noToken, l.lexBlockComment, nil
}

func (l *Lexer) lexBlockCommentStar(r rune) (Token, consumerFunc, error) {
	//
	// Occurs after a '*' inside a block comment.
	//
	// '/' -> Comment
	// '*' -> repeat
	// _   -> back to the comment body
	//
	switch r {
	case eof:
		return noToken, nil, l.failAt(l.startPos, ErrUnterminatedComment)
	case '/':
		l.buffer(r)
		return l.token(TComment, true), l.lexSegment, nil
	case '*':
		l.buffer(r)
		return noToken, l.lexBlockCommentStar, nil
	}
	l.buffer(r)
	return noToken, l.lexBlockComment, nil
}

func (l *Lexer) lexPreproc(r rune) (Token, consumerFunc, error) {
	switch r {
	case eof, '\n':
		l.unread()
		return l.token(TPreproc, true), l.lexSegment, nil
	case '\\':
		return noToken, l.lexPreprocEscape, nil
	}
	l.buffer(r)
	return noToken, l.lexPreproc, nil
}

func (l *Lexer) lexPreprocEscape(r rune) (Token, consumerFunc, error) {
	//
	// Occurs after a '\' inside a preprocessor directive. A backslash-newline
	// splices the next physical line into the directive; any other rune keeps
	// both characters in the token.
	//
	if r == eof {
		l.buffer('\\')
		l.unread()
		return l.token(TPreproc, true), l.lexSegment, nil
	}
	l.buffer('\\')
	l.buffer(r)
	return noToken, l.lexPreproc, nil
}

func (l *Lexer) lexWord(r rune) (Token, consumerFunc, error) {
	if isWordRune(r) {
		l.buffer(r)
		return noToken, l.lexWord, nil
	}
	l.unread()
	tok := l.token(TIdentifier, true)
	if keywords[string(tok.Raw)] {
		tok.Category = TKeyword
	}
	return tok, l.lexSegment, nil
}

func (l *Lexer) lexDot(r rune) (Token, consumerFunc, error) {
	//
	// Occurs after a leading '.'. A digit begins a float fraction; anything
	// else is the dot operator or "...".
	//
	if isDecimal(r) {
		l.buffer('.')
		l.buffer(r)
		return noToken, l.lexNumberFrac, nil
	}
	l.unread()
	return l.lexOperator('.')
}

func (l *Lexer) lexNumberZero(r rune) (Token, consumerFunc, error) {
	//
	// Occurs after '0' was lexed as the initial digit of a number.
	//
	// [Xx]   -> lex hex digits (at least one required)
	// [0-9]  -> lex integer tail (octal digits are not re-validated)
	// '.'    -> lex fraction
	// [Ee]   -> lex exponent
	// Suffix -> lex suffix run
	// _      -> Integer
	//
	switch {
	case r == 'x' || r == 'X':
		l.buffer(r)
		return noToken, l.lexNumberHexStart, nil
	case isDecimal(r):
		l.buffer(r)
		return noToken, l.lexNumberInt, nil
	case r == '.':
		l.buffer(r)
		return noToken, l.lexNumberFrac, nil
	case r == 'e' || r == 'E':
		l.buffer(r)
		return noToken, l.lexNumberExpStart, nil
	case isNumberSuffix(r):
		l.buffer(r)
		return noToken, l.lexNumberSuffix(r == 'f' || r == 'F'), nil
	}
	l.unread()
	return l.token(TInteger, true), l.lexSegment, nil
}

func (l *Lexer) lexNumberInt(r rune) (Token, consumerFunc, error) {
	switch {
	case isDecimal(r):
		l.buffer(r)
		return noToken, l.lexNumberInt, nil
	case r == '.':
		l.buffer(r)
		return noToken, l.lexNumberFrac, nil
	case r == 'e' || r == 'E':
		l.buffer(r)
		return noToken, l.lexNumberExpStart, nil
	case isNumberSuffix(r):
		l.buffer(r)
		return noToken, l.lexNumberSuffix(r == 'f' || r == 'F'), nil
	}
	l.unread()
	return l.token(TInteger, true), l.lexSegment, nil
}

func (l *Lexer) lexNumberFrac(r rune) (Token, consumerFunc, error) {
	//
	// Occurs after the '.' of a number. The token is a float from here on.
	//
	// [0-9] -> repeat
	// '.'   -> error (second decimal point)
	// [Ee]  -> lex exponent
	// Suffix-> lex suffix run
	// _     -> Float
	//
	switch {
	case isDecimal(r):
		l.buffer(r)
		return noToken, l.lexNumberFrac, nil
	case r == '.':
		return noToken, nil, l.badNumberRune(r)
	case r == 'e' || r == 'E':
		l.buffer(r)
		return noToken, l.lexNumberExpStart, nil
	case isNumberSuffix(r):
		l.buffer(r)
		return noToken, l.lexNumberSuffix(true), nil
	}
	l.unread()
	return l.token(TFloat, true), l.lexSegment, nil
}

func (l *Lexer) lexNumberExpStart(r rune) (Token, consumerFunc, error) {
	//
	// Occurs after an 'e' or 'E'. The exponent needs at least one digit;
	// a sign may come first.
	//
	switch {
	case isSign(r):
		l.buffer(r)
		return noToken, l.lexNumberExpSign, nil
	case isDecimal(r):
		l.buffer(r)
		return noToken, l.lexNumberExp, nil
	}
	return noToken, nil, l.badNumberRune(r)
}

func (l *Lexer) lexNumberExpSign(r rune) (Token, consumerFunc, error) {
	if isDecimal(r) {
		l.buffer(r)
		return noToken, l.lexNumberExp, nil
	}
	return noToken, nil, l.badNumberRune(r)
}

func (l *Lexer) lexNumberExp(r rune) (Token, consumerFunc, error) {
	switch {
	case isDecimal(r):
		l.buffer(r)
		return noToken, l.lexNumberExp, nil
	case isNumberSuffix(r):
		l.buffer(r)
		return noToken, l.lexNumberSuffix(true), nil
	case r == '.':
		return noToken, nil, l.badNumberRune(r)
	}
	l.unread()
	return l.token(TFloat, true), l.lexSegment, nil
}

func (l *Lexer) lexNumberHexStart(r rune) (Token, consumerFunc, error) {
	if isHex(r) {
		l.buffer(r)
		return noToken, l.lexNumberHex, nil
	}
	return noToken, nil, l.badNumberRune(r)
}

func (l *Lexer) lexNumberHex(r rune) (Token, consumerFunc, error) {
	//
	// Note that 'f' and 'F' are hex digits here, never float suffixes: a hex
	// literal is always an integer.
	//
	switch {
	case isHex(r):
		l.buffer(r)
		return noToken, l.lexNumberHex, nil
	case r == 'u' || r == 'U' || r == 'l' || r == 'L':
		l.buffer(r)
		return noToken, l.lexNumberSuffix(false), nil
	case r == '.':
		return noToken, nil, l.badNumberRune(r)
	}
	l.unread()
	return l.token(TInteger, true), l.lexSegment, nil
}

func (l *Lexer) lexNumberSuffix(isFloat bool) consumerFunc {
	var suffixConsumer consumerFunc
	suffixConsumer = func(r rune) (Token, consumerFunc, error) {
		switch {
		case isNumberSuffix(r):
			if r == 'f' || r == 'F' {
				isFloat = true
			}
			l.buffer(r)
			return noToken, suffixConsumer, nil
		case r == '.':
			return noToken, nil, l.badNumberRune(r)
		}
		l.unread()
		kind := TInteger
		if isFloat {
			kind = TFloat
		}
		return l.token(kind, true), l.lexSegment, nil
	}
	return suffixConsumer
}

func (l *Lexer) lexQuote(q rune) consumerFunc {
	//
	// Consume runes until the matching close quote. A backslash escapes the
	// rune after it, whatever it is; an escaped newline therefore continues
	// the literal on the next physical line, while a bare newline or EOF
	// leaves the literal unterminated.
	//
	kind := TString
	if q == '\'' {
		kind = TChar
	}
	var quoteConsumer, escapeConsumer consumerFunc
	quoteConsumer = func(r rune) (Token, consumerFunc, error) {
		switch r {
		case eof, '\n':
			return noToken, nil, l.failAt(l.startPos, ErrUnterminatedLiteral)
		case '\\':
			return noToken, escapeConsumer, nil
		case q:
			l.buffer(r)
			return l.token(kind, true), l.lexSegment, nil
		}
		l.buffer(r)
		return noToken, quoteConsumer, nil
	}
	escapeConsumer = func(r rune) (Token, consumerFunc, error) {
		if r == eof {
			return noToken, nil, l.failAt(l.startPos, ErrUnterminatedLiteral)
		}
		l.buffer('\\')
		l.buffer(r)
		return noToken, quoteConsumer, nil
	}
	return quoteConsumer
}

func (l *Lexer) lexOperator(first rune) (Token, consumerFunc, error) {
	//
	// Longest-match operator scan. The second rune is held unbuffered until
	// the tables decide whether it extends the operator; a ".." that fails to
	// become "..." walks both runes back and cuts a lone dot.
	//
	l.buffer(first)
	var second consumerFunc
	second = func(r rune) (Token, consumerFunc, error) {
		switch {
		case isTripleStart(first, r):
			third := func(r2 rune) (Token, consumerFunc, error) {
				if isOperatorTriple(first, r, r2) {
					l.buffer(r)
					l.buffer(r2)
					return l.token(TOperator, true), l.lexSegment, nil
				}
				l.unread()
				if isOperatorPair(first, r) {
					l.buffer(r)
					return l.token(TOperator, true), l.lexSegment, nil
				}
				l.unread()
				return l.token(TOperator, true), l.lexSegment, nil
			}
			return noToken, third, nil
		case isOperatorPair(first, r):
			l.buffer(r)
			return l.token(TOperator, true), l.lexSegment, nil
		}
		l.unread()
		return l.token(TOperator, true), l.lexSegment, nil
	}
	return noToken, second, nil
}
