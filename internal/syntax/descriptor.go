// Package syntax externalizes the character-class, keyword, operator, and
// comment decisions the lexer needs so that the lexer itself stays
// language-agnostic: a pure-data descriptor that can also be loaded from
// configuration (see LoadDescriptor).
package syntax

import (
	"sort"
	"unicode"

	"github.com/nanoc-lang/nanoc/pkg/token"
)

// Keyword pairs a spelling with its token kind.
type Keyword struct {
	Name string
	Kind token.Type
}

// Symbol pairs a multi-character spelling (operator or punctuation) with
// its token kind. Tables are kept sorted longest-first by Finalize so the
// lexer can do maximal munch with a simple linear scan.
type Symbol struct {
	Text string
	Kind token.Type
}

// Features toggles optional lexical productions.
type Features struct {
	HexLiterals        bool
	BinaryLiterals     bool
	OctalLiterals      bool
	FloatLiterals      bool
	ScientificNotation bool
	PreprocessorLines  bool
}

// CommentDelimiters holds the (possibly absent) comment delimiter spellings.
// An empty string means "this comment style is not supported".
type CommentDelimiters struct {
	LineStart  string
	BlockStart string
	BlockEnd   string
}

// Descriptor is the pure-data description of a language's lexical surface.
// It is immutable once built: nothing in this package mutates a Descriptor
// after NewC99 / LoadDescriptor returns it.
type Descriptor struct {
	Keywords    []Keyword
	Operators   []Symbol // sorted longest-first
	Punct       []Symbol // sorted longest-first
	Comments    CommentDelimiters
	Features    Features
	StringQuote rune
	CharQuote   rune
	Escape      rune

	keywordIndex map[string]token.Type
}

// Finalize sorts the operator/punctuation tables longest-first (maximal
// munch) and builds the keyword lookup index. Called once after a
// Descriptor's tables have been assembled, by NewC99 and by LoadDescriptor.
func (d *Descriptor) Finalize() {
	sort.SliceStable(d.Operators, func(i, j int) bool {
		return len(d.Operators[i].Text) > len(d.Operators[j].Text)
	})
	sort.SliceStable(d.Punct, func(i, j int) bool {
		return len(d.Punct[i].Text) > len(d.Punct[j].Text)
	})
	d.keywordIndex = make(map[string]token.Type, len(d.Keywords))
	for _, kw := range d.Keywords {
		d.keywordIndex[kw.Name] = kw.Kind
	}
}

// LookupKeyword returns the keyword token kind for name, or (IDENT, false)
// if name is not a reserved word in this descriptor.
func (d *Descriptor) LookupKeyword(name string) (token.Type, bool) {
	kind, ok := d.keywordIndex[name]
	if !ok {
		return token.IDENT, false
	}
	return kind, true
}

// IsWhitespace reports whether ch is a trivia character to be skipped
// between tokens.
func (d *Descriptor) IsWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

// IsIdentifierStart reports whether ch can begin an identifier.
func (d *Descriptor) IsIdentifierStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

// IsIdentifierContinue reports whether ch can continue an identifier.
func (d *Descriptor) IsIdentifierContinue(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

// IsDigit reports whether ch is a decimal digit.
func (d *Descriptor) IsDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// MatchPunct tries to match the longest punctuation symbol at the head of
// s. Returns the matched Symbol and true, or the zero Symbol and false.
func (d *Descriptor) MatchPunct(s string) (Symbol, bool) {
	return matchLongest(d.Punct, s)
}

// MatchOperator tries to match the longest operator symbol at the head of
// s. Returns the matched Symbol and true, or the zero Symbol and false.
func (d *Descriptor) MatchOperator(s string) (Symbol, bool) {
	return matchLongest(d.Operators, s)
}

func matchLongest(table []Symbol, s string) (Symbol, bool) {
	// table is sorted longest-first, so the first textual match is the
	// maximal munch.
	for _, sym := range table {
		if len(sym.Text) <= len(s) && s[:len(sym.Text)] == sym.Text {
			return sym, true
		}
	}
	return Symbol{}, false
}
