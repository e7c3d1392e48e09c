// Package parser reads first-order sentences from text.
//
// The grammar, loosest-binding first:
//
//	sentence := quantified | iff
//	quantified := ("forall"|"∀"|"exists"|"∃") ident+ "." sentence
//	iff      := implies ( ("<=>"|"⇔") implies )*
//	implies  := or [ ("=>"|"->"|"⇒") implies ]
//	or       := and ( ("or"|"|"|"∨") and )*
//	and      := unary ( ("and"|"&"|"∧") unary )*
//	unary    := ("not"|"~"|"¬") unary | "(" sentence ")" | quantified | predicate
//	predicate := ident [ "(" term ("," term)* ")" ]
//	term     := "?" ident | ident [ "(" term ("," term)* ")" ]
//
// Identifiers bound by an enclosing quantifier are variables within its
// scope; "?name" marks a free variable; any other identifier is a
// constant, function or predicate symbol. A quantifier's scope extends
// as far right as possible.
package parser

import (
	"strings"

	"github.com/herbrand/fol-engine/errors"
	"github.com/herbrand/fol-engine/logic"
)

// Sentence parses a single sentence.
func Sentence(text string) (logic.Sentence, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, errors.New("lex %q: %v: %w", text, err, errors.ErrInvalidArgument)
	}
	p := &parser{tokens: tokens, free: make(map[string]logic.Var)}
	s, err := p.sentence()
	if err != nil {
		return nil, errors.New("parse %q: %v: %w", text, err, errors.ErrInvalidArgument)
	}
	if p.peek().kind != tokenEOF {
		return nil, errors.New("parse %q: trailing input at %v: %w", text, p.peek(), errors.ErrInvalidArgument)
	}
	return s, nil
}

// Sentences parses one sentence per non-blank line. Lines starting with
// '#' are comments.
func Sentences(text string) ([]logic.Sentence, error) {
	var sentences []logic.Sentence
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s, err := Sentence(line)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

// Predicate parses a single atomic sentence, as used for backward
// chaining goals.
func Predicate(text string) (*logic.Predicate, error) {
	s, err := Sentence(text)
	if err != nil {
		return nil, err
	}
	p, ok := s.(*logic.Predicate)
	if !ok {
		return nil, errors.New("%q is not an atomic sentence: %w", text, errors.ErrInvalidArgument)
	}
	return p, nil
}

type parser struct {
	tokens []token
	pos    int

	// scopes tracks quantifier-bound names, innermost last; free holds
	// the ?name variables, shared across the sentence.
	scopes []map[string]logic.Var
	free   map[string]logic.Var
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return token{}, errors.New("expected %s, found %v at offset %d", what, t, t.pos)
	}
	return t, nil
}

func (p *parser) lookup(name string) (logic.Var, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if x, ok := p.scopes[i][name]; ok {
			return x, true
		}
	}
	return logic.Var{}, false
}

func (p *parser) sentence() (logic.Sentence, error) {
	if kind := p.peek().kind; kind == tokenForAll || kind == tokenExists {
		return p.quantified()
	}
	return p.iff()
}

func (p *parser) quantified() (logic.Sentence, error) {
	q := p.next()
	var names []string
	for p.peek().kind == tokenIdent {
		names = append(names, p.next().text)
	}
	if len(names) == 0 {
		return nil, errors.New("expected variable name after %v at offset %d", q, q.pos)
	}
	if _, err := p.expect(tokenDot, "'.'"); err != nil {
		return nil, err
	}
	scope := make(map[string]logic.Var, len(names))
	xs := make([]logic.Var, len(names))
	for i, name := range names {
		xs[i] = logic.NewVar(name)
		scope[name] = xs[i]
	}
	p.scopes = append(p.scopes, scope)
	body, err := p.sentence()
	p.scopes = p.scopes[:len(p.scopes)-1]
	if err != nil {
		return nil, err
	}
	for i := len(xs) - 1; i >= 0; i-- {
		if q.kind == tokenForAll {
			body = logic.NewForAll(xs[i], body)
		} else {
			body = logic.NewExists(xs[i], body)
		}
	}
	return body, nil
}

func (p *parser) iff() (logic.Sentence, error) {
	left, err := p.implies()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenIff {
		p.next()
		right, err := p.implies()
		if err != nil {
			return nil, err
		}
		left = logic.NewIff(left, right)
	}
	return left, nil
}

func (p *parser) implies() (logic.Sentence, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenImplies {
		return left, nil
	}
	p.next()
	right, err := p.implies()
	if err != nil {
		return nil, err
	}
	return logic.NewImplies(left, right), nil
}

func (p *parser) or() (logic.Sentence, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.next()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = logic.NewOr(left, right)
	}
	return left, nil
}

func (p *parser) and() (logic.Sentence, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = logic.NewAnd(left, right)
	}
	return left, nil
}

func (p *parser) unary() (logic.Sentence, error) {
	switch p.peek().kind {
	case tokenNot:
		p.next()
		op, err := p.unary()
		if err != nil {
			return nil, err
		}
		return logic.NewNot(op), nil
	case tokenLParen:
		p.next()
		s, err := p.sentence()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return s, nil
	case tokenForAll, tokenExists:
		return p.quantified()
	case tokenIdent:
		return p.predicate()
	default:
		t := p.peek()
		return nil, errors.New("expected a sentence, found %v at offset %d", t, t.pos)
	}
}

func (p *parser) predicate() (logic.Sentence, error) {
	name := p.next()
	if _, bound := p.lookup(name.text); bound {
		return nil, errors.New("variable %q can't be used as a predicate at offset %d", name.text, name.pos)
	}
	args, err := p.argList()
	if err != nil {
		return nil, err
	}
	return logic.NewPredicate(name.text, args...), nil
}

func (p *parser) argList() ([]logic.Term, error) {
	if p.peek().kind != tokenLParen {
		return nil, nil
	}
	p.next()
	var args []logic.Term
	for {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if p.peek().kind != tokenComma {
			break
		}
		p.next()
	}
	if _, err := p.expect(tokenRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) term() (logic.Term, error) {
	switch t := p.peek(); t.kind {
	case tokenFreeVar:
		p.next()
		if x, ok := p.free[t.text]; ok {
			return x, nil
		}
		x := logic.NewVar(t.text)
		p.free[t.text] = x
		return x, nil
	case tokenIdent:
		p.next()
		if x, bound := p.lookup(t.text); bound {
			return x, nil
		}
		if p.peek().kind == tokenLParen {
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			return logic.NewFunction(t.text, args...), nil
		}
		return logic.Constant{Name: t.text}, nil
	default:
		return nil, errors.New("expected a term, found %v at offset %d", t, t.pos)
	}
}
