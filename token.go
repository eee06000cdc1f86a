package ctok // import "go.spiff.io/ctok"

import "strconv"

// Category is an enumeration of the kinds of tokens produced by a Lexer.
type Category uint

func (c Category) String() string {
	i := int(c)
	if i < 0 || len(categoryNames) <= i {
		return "invalid"
	}
	return categoryNames[c]
}

// Lex-able token categories encountered in C-family source text.
const (
	tEmpty = Category(iota)

	TEOF // !.

	TWhitespace // [ \t\r\n]+
	TComment    // '//' { !EOL . } | '/*' { . } '*/'
	TPreproc    // '#' at line start { !EOL . | '\\' EOL }

	TKeyword    // reserved word (see keywords)
	TIdentifier // [A-Za-z_] [A-Za-z0-9_]*

	TInteger // [0-9]+ suffixes | '0' [Xx] hex+ suffixes
	TFloat   // digits '.' digits? exponent? | digits exponent | [fF] suffix

	TChar   // '\'' ( '\\' . | [^'\n] )* '\''
	TString // '"' ( '\\' . | [^"\n] )* '"'

	TOperator // longest match against the operator tables below
	TPunct    // one of ( ) { } [ ] ; ,

	// TUnknown covers any rune no other category claims. It is always one
	// rune long so the lexer can keep going.
	TUnknown
)

var categoryNames = [...]string{
	tEmpty: "empty",

	TEOF: "EOF",

	TWhitespace: "whitespace",
	TComment:    "comment",
	TPreproc:    "preprocessor",

	TKeyword:    "keyword",
	TIdentifier: "identifier",

	TInteger: "integer",
	TFloat:   "float",

	TChar:   "char",
	TString: "string",

	TOperator: "operator",
	TPunct:    "punctuator",

	TUnknown: "unknown",
}

// Token is a classified span of source text. Start and end locations are
// metadata and do not affect interning. Raw is the exact text of the span,
// including any quotes, comment delimiters, or escape characters.
type Token struct {
	Start, End Location
	Category   Category
	Raw        []byte
}

// Location describes a location in an input byte sequence.
type Location struct {
	Name   string // Name is an identifier, usually a file path, for the location.
	Offset int    // A byte offset into an input sequence. Starts at 0.
	Line   int    // A line number, delimited by '\n'. Starts at 1.
	Column int    // A column number. Starts at 1.
}

func (l Location) String() string {
	pos := strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column) + ":" + strconv.Itoa(l.Offset)
	if l.Name != "" {
		return l.Name + ":" + pos
	}
	return pos
}

func (l Location) add(r rune, size int) Location {
	l.Offset += size
	l.Column++
	if r == '\n' {
		l.Line++
		l.Column = 1
	}
	return l
}

// keywords is the fixed reserved-word set: the 32 reserved words of C89 plus
// inline and restrict. Matching is case-sensitive.
var keywords = map[string]bool{
	"auto":     true,
	"break":    true,
	"case":     true,
	"char":     true,
	"const":    true,
	"continue": true,
	"default":  true,
	"do":       true,
	"double":   true,
	"else":     true,
	"enum":     true,
	"extern":   true,
	"float":    true,
	"for":      true,
	"goto":     true,
	"if":       true,
	"inline":   true,
	"int":      true,
	"long":     true,
	"register": true,
	"restrict": true,
	"return":   true,
	"short":    true,
	"signed":   true,
	"sizeof":   true,
	"static":   true,
	"struct":   true,
	"switch":   true,
	"typedef":  true,
	"union":    true,
	"unsigned": true,
	"void":     true,
	"volatile": true,
	"while":    true,
}

// Operator tables. Matching is longest-first: a three-rune operator beats its
// two-rune prefix, which beats its one-rune prefix. Every one- and two-rune
// prefix of a longer operator is itself an operator except "..", which forces
// the lexer to cut two single dots.

// isOperatorTriple reports whether a, b, c spell a three-rune operator.
func isOperatorTriple(a, b, c rune) bool {
	switch {
	case a == '<' && b == '<' && c == '=': // <<=
		return true
	case a == '>' && b == '>' && c == '=': // >>=
		return true
	case a == '.' && b == '.' && c == '.': // ...
		return true
	}
	return false
}

// isOperatorPair reports whether a, b spell a two-rune operator.
func isOperatorPair(a, b rune) bool {
	switch a {
	case '-':
		return b == '>' || b == '-' || b == '='
	case '+':
		return b == '+' || b == '='
	case '&':
		return b == '&' || b == '='
	case '|':
		return b == '|' || b == '='
	case '<':
		return b == '<' || b == '='
	case '>':
		return b == '>' || b == '='
	case '=', '!', '*', '/', '%', '^':
		return b == '='
	case '#':
		return b == '#'
	}
	return false
}

// isTripleStart reports whether a, b begin a three-rune operator.
func isTripleStart(a, b rune) bool {
	return (a == '<' && b == '<') ||
		(a == '>' && b == '>') ||
		(a == '.' && b == '.')
}

// isOperator reports whether r is an operator on its own.
func isOperator(r rune) bool {
	switch r {
	case '.', '&', '*', '+', '-', '~', '!', '/', '%', '<', '>', '^', '|', '?', ':', '=', '#':
		return true
	}
	return false
}

// isPunct reports whether r is a structural punctuator. Punctuators never
// combine with a following rune.
func isPunct(r rune) bool {
	switch r {
	case '(', ')', '{', '}', '[', ']', ';', ',':
		return true
	}
	return false
}
