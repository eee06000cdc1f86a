// Package ctok lexes C-family source text into classified tokens and interns
// each token's text in a per-category table.
//
// The lexer reads its input a rune at a time and cuts one token per call, so
// a source is only consumed as far as the consumer asks. Tokens fall into a
// small fixed set of categories: keywords, identifiers, integer and float
// literals, character and string literals, operators, punctuators, comments,
// preprocessor directives, whitespace, and a catch-all for anything else.
// Given
//
//	#include <stdio.h>
//
//	int main(void) {
//		/* greet */
//		printf("hi\n");
//		return 0;
//	}
//
// the stream begins with a preprocessor token for the include line, followed
// by the keyword "int", the identifier "main", and so on. Every token carries
// the exact text of its source span, escapes and delimiters included.
//
// A Stream ties the lexer to a Table: each token's text is interned under its
// category, and the consumer sees only compact (category, id) pairs that the
// Table can resolve back to text at any time. Identical text within a
// category always shares one id, and ids count up from zero in the order the
// texts first appeared.
//
// ctok recognizes preprocessor directives as single tokens but does not
// expand them, and it builds no syntax tree: it is the stage before a parser,
// not the parser.
package ctok // import "go.spiff.io/ctok"
