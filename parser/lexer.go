package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/herbrand/fol-engine/runes"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenFreeVar // ?name
	tokenLParen
	tokenRParen
	tokenComma
	tokenDot
	tokenNot
	tokenAnd
	tokenOr
	tokenImplies
	tokenIff
	tokenForAll
	tokenExists
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

var keywords = map[string]tokenKind{
	"not":    tokenNot,
	"and":    tokenAnd,
	"or":     tokenOr,
	"forall": tokenForAll,
	"exists": tokenExists,
}

var symbols = []struct {
	text string
	kind tokenKind
}{
	{"<=>", tokenIff},
	{"⇔", tokenIff},
	{"=>", tokenImplies},
	{"->", tokenImplies},
	{"⇒", tokenImplies},
	{"¬", tokenNot},
	{"~", tokenNot},
	{"∧", tokenAnd},
	{"&", tokenAnd},
	{"∨", tokenOr},
	{"|", tokenOr},
	{"∀", tokenForAll},
	{"∃", tokenExists},
	{"(", tokenLParen},
	{")", tokenRParen},
	{",", tokenComma},
	{".", tokenDot},
}

func lex(text string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		ch, ok := runes.First(rest)
		if !ok {
			return nil, fmt.Errorf("invalid UTF-8 at offset %d", pos)
		}
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			pos += utf8.RuneLen(ch)
			continue
		}
		if sym, kind, ok := matchSymbol(rest); ok {
			tokens = append(tokens, token{kind: kind, text: sym, pos: pos})
			pos += len(sym)
			continue
		}
		if ch == '?' {
			name, n := scanIdent(rest[1:])
			if name == "" {
				return nil, fmt.Errorf("offset %d: '?' must be followed by a variable name", pos)
			}
			tokens = append(tokens, token{kind: tokenFreeVar, text: name, pos: pos})
			pos += 1 + n
			continue
		}
		if runes.IsIdentFirst(ch) {
			name, n := scanIdent(rest)
			kind := tokenIdent
			if k, ok := keywords[name]; ok {
				kind = k
			}
			tokens = append(tokens, token{kind: kind, text: name, pos: pos})
			pos += n
			continue
		}
		return nil, fmt.Errorf("offset %d: unexpected character %q", pos, ch)
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: pos})
	return tokens, nil
}

func matchSymbol(rest string) (string, tokenKind, bool) {
	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym.text) {
			return sym.text, sym.kind, true
		}
	}
	return "", tokenEOF, false
}

func scanIdent(s string) (string, int) {
	n := 0
	for n < len(s) {
		ch, size := utf8.DecodeRuneInString(s[n:])
		if !runes.IsIdent(ch) {
			break
		}
		n += size
	}
	return s[:n], n
}
