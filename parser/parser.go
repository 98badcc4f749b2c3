/*
File    : gosetl/parser/parser.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package parser implements the hand-written Pratt/precedence-climbing
// parser for the language: a single-token-lookahead consumer of the
// lexer's token stream, producing the span-tagged AST in package ast.
package parser

import (
	"errors"
	"fmt"

	"github.com/akashmaji946/gosetl/ast"
	"github.com/akashmaji946/gosetl/lexer"
)

// Parser pulls tokens from a Lexer through a one-token pushback buffer.
// It shares no state with the lexer beyond the input position.
type Parser struct {
	lex       *lexer.Lexer
	saved     bool
	savedSpan ast.Span
	savedTok  lexer.Token
}

// New creates a Parser over src.
func New(src string) *Parser {
	return &Parser{lex: lexer.New(src)}
}

func (p *Parser) take() (ast.Span, lexer.Token, error) {
	if p.saved {
		p.saved = false
		return p.savedSpan, p.savedTok, nil
	}
	span, tok, err := p.lex.Next()
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			return span, tok, &Error{Kind: InvalidToken, Span: lexErr.Span, Message: lexErr.Message}
		}
		return span, tok, err
	}
	return span, tok, nil
}

func (p *Parser) save(span ast.Span, tok lexer.Token) {
	p.saved, p.savedSpan, p.savedTok = true, span, tok
}

// errUnexpected classifies a misplaced token: End reached mid-construct is
// Incomplete, anything else is UnexpectedToken.
func (p *Parser) errUnexpected(span ast.Span, tok lexer.Token, msg string) error {
	if tok.Kind == lexer.KEnd {
		return &Error{Kind: Incomplete, Span: span, Message: msg}
	}
	return &Error{Kind: UnexpectedToken, Span: span, Message: fmt.Sprintf("%s, found %s", msg, tok.String())}
}

func (p *Parser) errAt(span ast.Span, msg string) error {
	return &Error{Kind: UnexpectedToken, Span: span, Message: msg}
}

func (p *Parser) maybePunct(x lexer.Punct) (ast.Span, bool, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Span{}, false, err
	}
	if tok.Kind == lexer.KPunct && tok.Punct == x {
		return span, true, nil
	}
	p.save(span, tok)
	return ast.Span{}, false, nil
}

func (p *Parser) expectPunct(x lexer.Punct) (ast.Span, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Span{}, err
	}
	if tok.Kind == lexer.KPunct && tok.Punct == x {
		return span, nil
	}
	p.save(span, tok)
	return ast.Span{}, p.errUnexpected(span, tok, fmt.Sprintf("expected '%s'", x))
}

func (p *Parser) maybeKeyword(kw string) (ast.Span, bool, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Span{}, false, err
	}
	if tok.Kind == lexer.KIdent && tok.Text == kw {
		return span, true, nil
	}
	p.save(span, tok)
	return ast.Span{}, false, nil
}

func (p *Parser) expectKeyword(kw string) (ast.Span, error) {
	span, ok, err := p.maybeKeyword(kw)
	if err != nil {
		return ast.Span{}, err
	}
	if ok {
		return span, nil
	}
	span, tok, err := p.take()
	if err != nil {
		return ast.Span{}, err
	}
	p.save(span, tok)
	return ast.Span{}, p.errUnexpected(span, tok, fmt.Sprintf("expected '%s'", kw))
}

// expectIdent reads any identifier, keyword-ness notwithstanding: bind
// names in set-ops are not restricted to non-keywords by the grammar.
func (p *Parser) expectIdent() (ast.Span, string, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Span{}, "", err
	}
	if tok.Kind == lexer.KIdent {
		return span, tok.Text, nil
	}
	p.save(span, tok)
	return ast.Span{}, "", p.errUnexpected(span, tok, "expected identifier")
}

// readFieldName reads either an identifier or a string literal, the two
// forms spec.md allows for a field name (postfix `.name`/`."name"` and
// hash-literal `name: value`/`"name": value` pairs alike).
func (p *Parser) readFieldName() (ast.Span, string, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Span{}, "", err
	}
	switch tok.Kind {
	case lexer.KIdent, lexer.KStr:
		return span, tok.Text, nil
	default:
		p.save(span, tok)
		return ast.Span{}, "", p.errUnexpected(span, tok, "expected field name")
	}
}

// NextStatement parses and returns the next statement, skipping any `;`
// separators before it. ok is false (with a nil error) once End is
// reached cleanly; err is non-nil on a parse failure, at which point the
// caller should stop pulling from this Parser for the current input.
func (p *Parser) NextStatement() (stmt *ast.Stmt, ok bool, err error) {
	span, tok, err := p.take()
	if err != nil {
		return nil, false, err
	}
	for tok.Kind == lexer.KPunct && tok.Punct == lexer.Semi {
		span, tok, err = p.take()
		if err != nil {
			return nil, false, err
		}
	}
	if tok.Kind == lexer.KEnd {
		return nil, false, nil
	}
	if tok.Kind == lexer.KIdent && tok.Text == "import" {
		nameSpan, name, err := p.expectIdent()
		if err != nil {
			return nil, false, err
		}
		full := ast.Join(span, nameSpan)
		return &ast.Stmt{Span: full, Kind: ast.ImportStmt{Name: name}}, true, nil
	}
	p.save(span, tok)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, false, err
	}
	return &ast.Stmt{Span: expr.Span, Kind: ast.ExprStmt{Expr: expr}}, true, nil
}

// ParseAll drains a fresh Parser over src into a statement slice,
// stopping at the first error.
func ParseAll(src string) ([]ast.Stmt, error) {
	p := New(src)
	var stmts []ast.Stmt
	for {
		stmt, ok, err := p.NextStatement()
		if err != nil {
			return stmts, err
		}
		if !ok {
			return stmts, nil
		}
		stmts = append(stmts, *stmt)
	}
}

// parseTerminatedList reads zero-or-more items separated by commas, with
// an optional trailing comma, ending at `end`. Used for call arguments,
// list literals, and hash-literal pairs.
func parseTerminatedList[T any](p *Parser, end lexer.Punct, f func(*Parser) (T, error)) ([]T, ast.Span, error) {
	var list []T
	for {
		span, ok, err := p.maybePunct(end)
		if err != nil {
			return nil, ast.Span{}, err
		}
		if ok {
			return list, span, nil
		}
		item, err := f(p)
		if err != nil {
			return nil, ast.Span{}, err
		}
		list = append(list, item)
		_, ok, err = p.maybePunct(lexer.Comma)
		if err != nil {
			return nil, ast.Span{}, err
		}
		if !ok {
			break
		}
	}
	span, err := p.expectPunct(end)
	if err != nil {
		return nil, ast.Span{}, err
	}
	return list, span, nil
}

// parseExpr is the expression grammar's entry point: assignment, the
// lowest-precedence level.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssign()
}

func compoundOp(punct lexer.Punct) (ast.BinOp, bool) {
	switch punct {
	case lexer.PlusEq:
		return ast.BinAdd, true
	case lexer.MinusEq:
		return ast.BinSub, true
	case lexer.StarEq:
		return ast.BinMul, true
	case lexer.SlashEq:
		return ast.BinDiv, true
	case lexer.PercentEq:
		return ast.BinRem, true
	case lexer.OrEq:
		return ast.BinOr, true
	case lexer.XorEq:
		return ast.BinXor, true
	case lexer.AndEq:
		return ast.BinAnd, true
	case lexer.LShiftEq:
		return ast.BinShl, true
	case lexer.RShiftEq:
		return ast.BinShr, true
	default:
		return 0, false
	}
}

// parseAssign handles `=` and the compound-assignment family, right-
// associative via recursing back into parseAssign for the RHS.
func (p *Parser) parseAssign() (ast.Expr, error) {
	lhs, err := p.parseOr()
	if err != nil {
		return ast.Expr{}, err
	}
	span, tok, err := p.take()
	if err != nil {
		return ast.Expr{}, err
	}
	if tok.Kind != lexer.KPunct {
		p.save(span, tok)
		return lhs, nil
	}
	if tok.Punct == lexer.Eq {
		rhs, err := p.parseAssign()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.Expr{Span: ast.Join(lhs.Span, rhs.Span), Kind: ast.Assign{LHS: lhs, RHS: rhs}}, nil
	}
	if op, ok := compoundOp(tok.Punct); ok {
		rhs, err := p.parseAssign()
		if err != nil {
			return ast.Expr{}, err
		}
		return ast.Expr{
			Span: ast.Join(lhs.Span, rhs.Span),
			Kind: ast.CompoundAssign{Op: ast.Spanned[ast.BinOp]{Span: span, Kind: op}, LHS: lhs, RHS: rhs},
		}, nil
	}
	p.save(span, tok)
	return lhs, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		span, tok, err := p.take()
		if err != nil {
			return ast.Expr{}, err
		}
		if tok.Kind != lexer.KPunct || tok.Punct != lexer.OrOr {
			p.save(span, tok)
			return lhs, nil
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return ast.Expr{}, err
		}
		lhs = ast.Expr{
			Span: ast.Join(lhs.Span, rhs.Span),
			Kind: ast.BoolOpExpr{Op: ast.Spanned[ast.BoolOp]{Span: span, Kind: ast.BoolOr}, LHS: lhs, RHS: rhs},
		}
	}
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	lhs, err := p.parseRel()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		span, tok, err := p.take()
		if err != nil {
			return ast.Expr{}, err
		}
		if tok.Kind != lexer.KPunct || tok.Punct != lexer.AndAnd {
			p.save(span, tok)
			return lhs, nil
		}
		rhs, err := p.parseRel()
		if err != nil {
			return ast.Expr{}, err
		}
		lhs = ast.Expr{
			Span: ast.Join(lhs.Span, rhs.Span),
			Kind: ast.BoolOpExpr{Op: ast.Spanned[ast.BoolOp]{Span: span, Kind: ast.BoolAnd}, LHS: lhs, RHS: rhs},
		}
	}
}

func (p *Parser) parseRel() (ast.Expr, error) {
	lhs, err := p.parseBitOr()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		span, tok, err := p.take()
		if err != nil {
			return ast.Expr{}, err
		}
		var op ast.RelOp
		opSpan := span
		matched := true
		switch {
		case tok.Kind == lexer.KPunct && tok.Punct == lexer.EqEq:
			op = ast.RelEq
		case tok.Kind == lexer.KPunct && tok.Punct == lexer.NotEq:
			op = ast.RelNe
		case tok.Kind == lexer.KPunct && tok.Punct == lexer.LAngle:
			op = ast.RelLt
		case tok.Kind == lexer.KPunct && tok.Punct == lexer.LAngleEq:
			op = ast.RelLe
		case tok.Kind == lexer.KPunct && tok.Punct == lexer.RAngle:
			op = ast.RelGt
		case tok.Kind == lexer.KPunct && tok.Punct == lexer.RAngleEq:
			op = ast.RelGe
		case tok.Kind == lexer.KIdent && tok.Text == "in":
			op = ast.RelIn
		case tok.Kind == lexer.KIdent && tok.Text == "not":
			span2, tok2, err := p.take()
			if err != nil {
				return ast.Expr{}, err
			}
			if tok2.Kind != lexer.KIdent || tok2.Text != "in" {
				return ast.Expr{}, p.errUnexpected(span2, tok2, "expected 'in' after 'not'")
			}
			op = ast.RelNotIn
			opSpan = ast.Join(span, span2)
		default:
			matched = false
		}
		if !matched {
			p.save(span, tok)
			return lhs, nil
		}
		rhs, err := p.parseBitOr()
		if err != nil {
			return ast.Expr{}, err
		}
		lhs = ast.Expr{
			Span: ast.Join(lhs.Span, rhs.Span),
			Kind: ast.RelOpExpr{Op: ast.Spanned[ast.RelOp]{Span: opSpan, Kind: op}, LHS: lhs, RHS: rhs},
		}
	}
}

// binOpLevel generalizes one left-associative binary-operator precedence
// level: parse the next-higher level, then loop consuming the matching
// puncts.
func (p *Parser) binOpLevel(next func() (ast.Expr, error), match func(lexer.Punct) (ast.BinOp, bool)) (ast.Expr, error) {
	lhs, err := next()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		span, tok, err := p.take()
		if err != nil {
			return ast.Expr{}, err
		}
		if tok.Kind != lexer.KPunct {
			p.save(span, tok)
			return lhs, nil
		}
		op, ok := match(tok.Punct)
		if !ok {
			p.save(span, tok)
			return lhs, nil
		}
		rhs, err := next()
		if err != nil {
			return ast.Expr{}, err
		}
		lhs = ast.Expr{
			Span: ast.Join(lhs.Span, rhs.Span),
			Kind: ast.BinOpExpr{Op: ast.Spanned[ast.BinOp]{Span: span, Kind: op}, LHS: lhs, RHS: rhs},
		}
	}
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.binOpLevel(p.parseBitXor, func(punct lexer.Punct) (ast.BinOp, bool) {
		if punct == lexer.Or {
			return ast.BinOr, true
		}
		return 0, false
	})
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.binOpLevel(p.parseBitAnd, func(punct lexer.Punct) (ast.BinOp, bool) {
		if punct == lexer.Xor {
			return ast.BinXor, true
		}
		return 0, false
	})
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.binOpLevel(p.parseShift, func(punct lexer.Punct) (ast.BinOp, bool) {
		if punct == lexer.And {
			return ast.BinAnd, true
		}
		return 0, false
	})
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.binOpLevel(p.parseAdd, func(punct lexer.Punct) (ast.BinOp, bool) {
		switch punct {
		case lexer.LShift:
			return ast.BinShl, true
		case lexer.RShift:
			return ast.BinShr, true
		default:
			return 0, false
		}
	})
}

func (p *Parser) parseAdd() (ast.Expr, error) {
	return p.binOpLevel(p.parseMul, func(punct lexer.Punct) (ast.BinOp, bool) {
		switch punct {
		case lexer.Plus:
			return ast.BinAdd, true
		case lexer.Minus:
			return ast.BinSub, true
		default:
			return 0, false
		}
	})
}

func (p *Parser) parseMul() (ast.Expr, error) {
	return p.binOpLevel(p.parseUnary, func(punct lexer.Punct) (ast.BinOp, bool) {
		switch punct {
		case lexer.Star:
			return ast.BinMul, true
		case lexer.Slash:
			return ast.BinDiv, true
		case lexer.Percent:
			return ast.BinRem, true
		default:
			return 0, false
		}
	})
}

// parseUnary handles the right-associative prefix operators `!`/`-`.
func (p *Parser) parseUnary() (ast.Expr, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Expr{}, err
	}
	var op ast.UnOp
	switch {
	case tok.Kind == lexer.KPunct && tok.Punct == lexer.Not:
		op = ast.UnNot
	case tok.Kind == lexer.KPunct && tok.Punct == lexer.Minus:
		op = ast.UnNeg
	default:
		p.save(span, tok)
		return p.parsePostfix()
	}
	operand, err := p.parseUnary()
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{
		Span: ast.Join(span, operand.Span),
		Kind: ast.UnOpExpr{Op: ast.Spanned[ast.UnOp]{Span: span, Kind: op}, Operand: operand},
	}, nil
}

// parsePostfix handles the postfix family: call, index, field.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return ast.Expr{}, err
	}
	for {
		span, tok, err := p.take()
		if err != nil {
			return ast.Expr{}, err
		}
		if tok.Kind != lexer.KPunct {
			p.save(span, tok)
			return expr, nil
		}
		switch tok.Punct {
		case lexer.LParen:
			args, endSpan, err := parseTerminatedList(p, lexer.RParen, (*Parser).parseExpr)
			if err != nil {
				return ast.Expr{}, err
			}
			expr = ast.Expr{Span: ast.Span{Start: expr.Span.Start, End: endSpan.End}, Kind: ast.Call{Callee: expr, Args: args}}
		case lexer.LBracket:
			idx, err := p.parseExpr()
			if err != nil {
				return ast.Expr{}, err
			}
			endSpan, err := p.expectPunct(lexer.RBracket)
			if err != nil {
				return ast.Expr{}, err
			}
			expr = ast.Expr{Span: ast.Span{Start: expr.Span.Start, End: endSpan.End}, Kind: ast.Index{Recv: expr, Key: idx}}
		case lexer.Dot:
			nameSpan, name, err := p.readFieldName()
			if err != nil {
				return ast.Expr{}, err
			}
			expr = ast.Expr{Span: ast.Span{Start: expr.Span.Start, End: nameSpan.End}, Kind: ast.Field{Recv: expr, Name: name}}
		default:
			p.save(span, tok)
			return expr, nil
		}
	}
}

// parseAtom handles literals, names, parenthesized/list/hash expressions,
// and the set-op constructs introduced by `into`/`from`.
func (p *Parser) parseAtom() (ast.Expr, error) {
	span, tok, err := p.take()
	if err != nil {
		return ast.Expr{}, err
	}
	switch tok.Kind {
	case lexer.KStr:
		return ast.Expr{Span: span, Kind: ast.LitStr{Value: tok.Text}}, nil
	case lexer.KInt:
		return ast.Expr{Span: span, Kind: ast.LitInt{Digits: tok.Text, Radix: ast.Radix(tok.Radix)}}, nil
	case lexer.KFloat:
		return ast.Expr{Span: span, Kind: ast.LitFloat{Digits: tok.Text}}, nil
	case lexer.KPunct:
		switch tok.Punct {
		case lexer.LParen:
			return p.parseParen(span.Start)
		case lexer.LBrace:
			return p.parseHash(span.Start)
		case lexer.LBracket:
			return p.parseList(span.Start)
		default:
			p.save(span, tok)
			return ast.Expr{}, p.errUnexpected(span, tok, "expected expression")
		}
	case lexer.KIdent:
		switch tok.Text {
		case "null":
			return ast.Expr{Span: span, Kind: ast.LitNull{}}, nil
		case "true":
			return ast.Expr{Span: span, Kind: ast.LitBool{Value: true}}, nil
		case "false":
			return ast.Expr{Span: span, Kind: ast.LitBool{Value: false}}, nil
		case "into":
			return p.parseInsert(span)
		case "from":
			return p.parseFromExpr(span)
		default:
			if lexer.Keywords[tok.Text] {
				p.save(span, tok)
				return ast.Expr{}, p.errUnexpected(span, tok, fmt.Sprintf("'%s' cannot be used as a name", tok.Text))
			}
			return ast.Expr{Span: span, Kind: ast.Name{Ident: tok.Text}}, nil
		}
	default:
		p.save(span, tok)
		return ast.Expr{}, p.errUnexpected(span, tok, "expected expression")
	}
}

func (p *Parser) parseParen(start int) (ast.Expr, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	end, err := p.expectPunct(lexer.RParen)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Span: ast.Span{Start: start, End: end.End}, Kind: expr.Kind}, nil
}

func (p *Parser) parseList(start int) (ast.Expr, error) {
	elems, endSpan, err := parseTerminatedList(p, lexer.RBracket, (*Parser).parseExpr)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Span: ast.Span{Start: start, End: endSpan.End}, Kind: ast.List{Elems: elems}}, nil
}

func (p *Parser) parseHashField() (ast.HashField, error) {
	_, name, err := p.readFieldName()
	if err != nil {
		return ast.HashField{}, err
	}
	if _, err := p.expectPunct(lexer.Colon); err != nil {
		return ast.HashField{}, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.HashField{}, err
	}
	return ast.HashField{Name: name, Value: value}, nil
}

func (p *Parser) parseHash(start int) (ast.Expr, error) {
	fields, endSpan, err := parseTerminatedList(p, lexer.RBrace, (*Parser).parseHashField)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Span: ast.Span{Start: start, End: endSpan.End}, Kind: ast.Hash{Fields: fields}}, nil
}

// parseInsert parses `into <expr> insert <expr> { , <expr> }`, with
// intoSpan already consumed.
func (p *Parser) parseInsert(intoSpan ast.Span) (ast.Expr, error) {
	target, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	if _, err := p.expectKeyword("insert"); err != nil {
		return ast.Expr{}, err
	}
	values, err := p.parseCommaList(p.parseExpr)
	if err != nil {
		return ast.Expr{}, err
	}
	end := intoSpan.End
	if len(values) > 0 {
		end = values[len(values)-1].Span.End
	}
	return ast.Expr{Span: ast.Span{Start: intoSpan.Start, End: end}, Kind: ast.Insert{Into: target, Values: values}}, nil
}

// parseCommaList parses one-or-more items separated by commas, with no
// terminating punctuation of its own (the list simply ends wherever f
// stops matching further input) — used by insert/update's value lists,
// which have no enclosing brackets.
func (p *Parser) parseCommaList(f func() (ast.Expr, error)) ([]ast.Expr, error) {
	first, err := f()
	if err != nil {
		return nil, err
	}
	items := []ast.Expr{first}
	for {
		_, ok, err := p.maybePunct(lexer.Comma)
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		item, err := f()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// parseFromExpr parses the whole `from ... [join ...] [where ...]
// (update|delete|select|ε)` construct, with fromSpan (the `from` token)
// already consumed.
func (p *Parser) parseFromExpr(fromSpan ast.Span) (ast.Expr, error) {
	from, err := p.parseFromClause()
	if err != nil {
		return ast.Expr{}, err
	}

	span, tok, err := p.take()
	if err != nil {
		return ast.Expr{}, err
	}
	if tok.Kind == lexer.KIdent {
		switch tok.Text {
		case "update":
			return p.finishUpdate(fromSpan, from)
		case "delete":
			return p.finishDelete(fromSpan, from)
		case "select":
			return p.finishSelect(fromSpan, from)
		case "limit":
			// Reserved but not part of the grammar.
			return ast.Expr{}, p.errAt(span, "unknown clause 'limit'")
		}
	}
	p.save(span, tok)
	end := fromClauseEnd(from)
	return ast.Expr{Span: ast.Span{Start: fromSpan.Start, End: end}, Kind: ast.Select{From: from, Project: ast.Expr{}}}, nil
}

func (p *Parser) finishUpdate(fromSpan ast.Span, from ast.FromClause) (ast.Expr, error) {
	updates, err := p.parseCommaList(p.parseExpr)
	if err != nil {
		return ast.Expr{}, err
	}
	end := updates[len(updates)-1].Span.End
	return ast.Expr{Span: ast.Span{Start: fromSpan.Start, End: end}, Kind: ast.Update{From: from, Updates: updates}}, nil
}

func (p *Parser) finishDelete(fromSpan ast.Span, from ast.FromClause) (ast.Expr, error) {
	seen := make(map[string]bool)
	parseName := func() (ast.Expr, error) { return p.parseDeleteName(from, seen) }
	names, err := p.parseCommaList(parseName)
	if err != nil {
		return ast.Expr{}, err
	}
	end := names[len(names)-1].Span.End
	return ast.Expr{Span: ast.Span{Start: fromSpan.Start, End: end}, Kind: ast.Delete{From: from, Deletes: names}}, nil
}

func (p *Parser) finishSelect(fromSpan ast.Span, from ast.FromClause) (ast.Expr, error) {
	proj, err := p.parseExpr()
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Expr{Span: ast.Span{Start: fromSpan.Start, End: proj.Span.End}, Kind: ast.Select{From: from, Project: proj}}, nil
}

// parseDeleteName reads one delete target: it must be a bare identifier
// naming a currently bound row variable (`from.Bind` or `from.Join.Bind`),
// with no duplicates across the whole delete list.
func (p *Parser) parseDeleteName(from ast.FromClause, seen map[string]bool) (ast.Expr, error) {
	span, name, err := p.expectIdent()
	if err != nil {
		return ast.Expr{}, err
	}
	bound := name == from.Bind || (from.Join != nil && name == from.Join.Bind)
	if !bound {
		return ast.Expr{}, p.errAt(span, fmt.Sprintf("'%s' is not a bound row variable", name))
	}
	if seen[name] {
		return ast.Expr{}, p.errAt(span, fmt.Sprintf("duplicate delete target '%s'", name))
	}
	seen[name] = true
	return ast.Expr{Span: span, Kind: ast.Name{Ident: name}}, nil
}

func (p *Parser) parseFromClause() (ast.FromClause, error) {
	_, bind, err := p.expectIdent()
	if err != nil {
		return ast.FromClause{}, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return ast.FromClause{}, err
	}
	source, err := p.parseExpr()
	if err != nil {
		return ast.FromClause{}, err
	}

	var join *ast.JoinClause
	span, tok, err := p.take()
	if err != nil {
		return ast.FromClause{}, err
	}
	if tok.Kind == lexer.KIdent && tok.Text == "join" {
		j, err := p.parseJoinClause()
		if err != nil {
			return ast.FromClause{}, err
		}
		join = &j
	} else {
		p.save(span, tok)
	}

	var filter ast.Expr
	span, tok, err = p.take()
	if err != nil {
		return ast.FromClause{}, err
	}
	if tok.Kind == lexer.KIdent && tok.Text == "where" {
		filter, err = p.parseExpr()
		if err != nil {
			return ast.FromClause{}, err
		}
	} else {
		p.save(span, tok)
	}

	return ast.FromClause{Bind: bind, Source: source, Join: join, Filter: filter}, nil
}

func (p *Parser) parseJoinClause() (ast.JoinClause, error) {
	_, bind, err := p.expectIdent()
	if err != nil {
		return ast.JoinClause{}, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return ast.JoinClause{}, err
	}
	source, err := p.parseExpr()
	if err != nil {
		return ast.JoinClause{}, err
	}
	var filter ast.Expr
	span, tok, err := p.take()
	if err != nil {
		return ast.JoinClause{}, err
	}
	if tok.Kind == lexer.KIdent && tok.Text == "on" {
		filter, err = p.parseExpr()
		if err != nil {
			return ast.JoinClause{}, err
		}
	} else {
		p.save(span, tok)
	}
	return ast.JoinClause{Bind: bind, Source: source, Filter: filter}, nil
}

// fromClauseEnd computes the rightmost covered offset of a FromClause
// with no trailing update/delete/select clause, for the joinless,
// projectionless Select's span.
func fromClauseEnd(from ast.FromClause) int {
	end := from.Source.Span.End
	if from.Join != nil {
		if from.Join.Source.Span.End > end {
			end = from.Join.Source.Span.End
		}
		if from.Join.Filter.Kind != nil && from.Join.Filter.Span.End > end {
			end = from.Join.Filter.Span.End
		}
	}
	if from.Filter.Kind != nil && from.Filter.Span.End > end {
		end = from.Filter.Span.End
	}
	return end
}
