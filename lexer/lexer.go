/*
File    : gosetl/lexer/lexer.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package lexer

import (
	"fmt"

	"github.com/akashmaji946/gosetl/ast"
)

// Error is a lexical error: an offending span plus a short message. The
// lexer never recovers from one — the caller decides whether to continue.
type Error struct {
	Span    ast.Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid token at %d:%d: %s", e.Span.Start, e.Span.End, e.Message)
}

func invalidToken(span ast.Span, format string, args ...any) error {
	return &Error{Span: span, Message: fmt.Sprintf(format, args...)}
}

// Lexer scans raw source bytes into (span, Token) pairs on demand. It
// keeps no state in common with the parser beyond the input position, and
// buffers at most one byte of its own pushback.
type Lexer struct {
	src    string
	pos    int
	saved  bool
	savedI int
	savedC byte
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

func (l *Lexer) take() (int, byte, bool) {
	if l.saved {
		l.saved = false
		return l.savedI, l.savedC, true
	}
	if l.pos >= len(l.src) {
		return 0, 0, false
	}
	i, c := l.pos, l.src[l.pos]
	l.pos++
	return i, c, true
}

func (l *Lexer) save(i int, c byte) {
	l.saved, l.savedI, l.savedC = true, i, c
}

func (l *Lexer) takeIf(f func(byte) bool) (int, byte, bool) {
	i, c, ok := l.take()
	if !ok {
		return 0, 0, false
	}
	if f(c) {
		return i, c, true
	}
	l.save(i, c)
	return 0, 0, false
}

func (l *Lexer) skipWhile(f func(byte) bool) (int, byte, bool) {
	for {
		i, c, ok := l.take()
		if !ok {
			return 0, 0, false
		}
		if !f(c) {
			return i, c, true
		}
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDecDigit(c byte) bool { return c >= '0' && c <= '9' }
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }
func isHexDigit(c byte) bool {
	return isDecDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
func isIdentCont(c byte) bool { return isIdentStart(c) || isDecDigit(c) }

// Next returns the next token and its span, or Token{Kind: KEnd} once the
// input is exhausted.
func (l *Lexer) Next() (ast.Span, Token, error) {
	i, c, ok := l.skipWhile(isWhitespace)
	if !ok {
		n := len(l.src)
		return ast.Span{Start: n, End: n}, Token{Kind: KEnd}, nil
	}
	switch {
	case c == '"':
		return l.parseStr(i)
	case isDecDigit(c):
		span, tok, err := l.parseNum(i, c)
		if err != nil {
			return span, tok, err
		}
		if err := l.checkNumSuffix(); err != nil {
			return span, Token{}, err
		}
		return span, tok, nil
	case isIdentStart(c):
		return l.parseIdent(i)
	default:
		return l.parsePunct(i, c)
	}
}

func (l *Lexer) parseStr(start int) (ast.Span, Token, error) {
	for {
		i, c, ok := l.take()
		if !ok {
			return ast.Span{}, Token{}, invalidToken(ast.Span{Start: start, End: len(l.src)}, "unterminated string literal")
		}
		switch c {
		case '"':
			span := ast.Span{Start: start, End: i + 1}
			return span, Token{Kind: KStr, Text: l.src[start+1 : i]}, nil
		case '\\':
			// Consume the next byte verbatim: no escape interpretation at lex time.
			l.take()
		}
	}
}

func (l *Lexer) parseNum(start int, first byte) (ast.Span, Token, error) {
	if first == '0' {
		if i, c, ok := l.take(); ok {
			switch c {
			case 'b':
				return l.parseIntRadix(start, 2, isBinDigit)
			case 'o':
				return l.parseIntRadix(start, 8, isOctDigit)
			case 'x':
				return l.parseIntRadix(start, 16, isHexDigit)
			default:
				l.save(i, c)
			}
		}
	}

	end, err := l.parseDigits(isDecDigit)
	if err != nil {
		return ast.Span{}, Token{}, err
	}
	if _, _, ok := l.takeIf(func(c byte) bool { return c == '.' }); ok {
		fracEnd, hadDigits, err := l.parseDecimal()
		if err != nil {
			return ast.Span{}, Token{}, err
		}
		end2 := end + 1
		if hadDigits {
			end2 = fracEnd
			if expEnd, hasExp, err := l.parseExponent(); err != nil {
				return ast.Span{}, Token{}, err
			} else if hasExp {
				end2 = expEnd
			}
		}
		span := ast.Span{Start: start, End: end2}
		return span, Token{Kind: KFloat, Text: l.src[start:end2]}, nil
	}
	if expEnd, hasExp, err := l.parseExponent(); err != nil {
		return ast.Span{}, Token{}, err
	} else if hasExp {
		span := ast.Span{Start: start, End: expEnd}
		return span, Token{Kind: KFloat, Text: l.src[start:expEnd]}, nil
	}
	span := ast.Span{Start: start, End: end}
	return span, Token{Kind: KInt, Text: l.src[start:end], Radix: 10}, nil
}

func (l *Lexer) parseIntRadix(start, radix int, isDigit func(byte) bool) (ast.Span, Token, error) {
	end, err := l.parseDigits(isDigit)
	if err != nil {
		return ast.Span{}, Token{}, err
	}
	if end == start+2 {
		return ast.Span{}, Token{}, invalidToken(ast.Span{Start: start, End: end}, "expect digits after '%s'", l.src[start:end])
	}
	span := ast.Span{Start: start, End: end}
	return span, Token{Kind: KInt, Text: l.src[start+2 : end], Radix: radix}, nil
}

func (l *Lexer) parseDigits(isDigit func(byte) bool) (int, error) {
	for {
		i, c, ok := l.take()
		if !ok {
			return len(l.src), nil
		}
		switch {
		case c == '_':
			if _, _, ok := l.takeIf(isDigit); !ok {
				return 0, invalidToken(ast.Span{Start: i, End: i + 1}, "expect digits after '_'")
			}
		case isDigit(c):
		default:
			l.save(i, c)
			return i, nil
		}
	}
}

func (l *Lexer) parseDecimal() (end int, hadDigits bool, err error) {
	if _, _, ok := l.takeIf(isDecDigit); !ok {
		return 0, false, nil
	}
	end, err = l.parseDigits(isDecDigit)
	return end, true, err
}

func (l *Lexer) parseExponent() (end int, present bool, err error) {
	i, c, ok := l.takeIf(func(c byte) bool { return c == 'e' || c == 'E' })
	if !ok {
		return 0, false, nil
	}
	if si, sc, sok := l.takeIf(func(c byte) bool { return c == '+' || c == '-' }); sok {
		i, c = si, sc
	}
	fracEnd, hadDigits, err := l.parseDecimal()
	if err != nil {
		return 0, false, err
	}
	if !hadDigits {
		return 0, false, invalidToken(ast.Span{Start: i, End: i + 1}, "expect digits after '%c'", c)
	}
	return fracEnd, true, nil
}

func (l *Lexer) checkNumSuffix() error {
	if i, _, ok := l.takeIf(isIdentStart); ok {
		return invalidToken(ast.Span{Start: i, End: i + 1}, "unexpected suffix after number literal")
	}
	return nil
}

func (l *Lexer) parseIdent(start int) (ast.Span, Token, error) {
	end := len(l.src)
	if i, c, ok := l.skipWhile(isIdentCont); ok {
		l.save(i, c)
		end = i
	}
	span := ast.Span{Start: start, End: end}
	return span, Token{Kind: KIdent, Text: l.src[start:end]}, nil
}

func (l *Lexer) parsePunct(start int, first byte) (ast.Span, Token, error) {
	var p Punct
	count := 1
	switch first {
	case ';':
		p = Semi
	case ':':
		p = Colon
	case ',':
		p = Comma
	case '.':
		p, count = l.punct1(Dot, '.', DotDot)
	case '(':
		p = LParen
	case ')':
		p = RParen
	case '{':
		p = LBrace
	case '}':
		p = RBrace
	case '[':
		p = LBracket
	case ']':
		p = RBracket
	case '=':
		p, count = l.punct1(Eq, '=', EqEq)
	case '!':
		p, count = l.punct1(Not, '=', NotEq)
	case '+':
		p, count = l.punct1(Plus, '=', PlusEq)
	case '-':
		p, count = l.punct1(Minus, '=', MinusEq)
	case '*':
		p, count = l.punct1(Star, '=', StarEq)
	case '/':
		p, count = l.punct1(Slash, '=', SlashEq)
	case '%':
		p, count = l.punct1(Percent, '=', PercentEq)
	case '|':
		p, count = l.punct2(Or, '=', OrEq, '|', OrOr)
	case '^':
		p, count = l.punct1(Xor, '=', XorEq)
	case '&':
		p, count = l.punct2(And, '=', AndEq, '&', AndAnd)
	case '<':
		p, count = l.punct3(LAngle, '=', LAngleEq, '<', LShift, LShiftEq)
	case '>':
		p, count = l.punct3(RAngle, '=', RAngleEq, '>', RShift, RShiftEq)
	default:
		return ast.Span{}, Token{}, invalidToken(ast.Span{Start: start, End: start + 1}, "unexpected character %q", string(first))
	}
	span := ast.Span{Start: start, End: start + count}
	return span, Token{Kind: KPunct, Punct: p}, nil
}

func (l *Lexer) punct1(def Punct, x byte, matched Punct) (Punct, int) {
	if i, c, ok := l.take(); ok {
		if c == x {
			return matched, 2
		}
		l.save(i, c)
	}
	return def, 1
}

func (l *Lexer) punct2(def Punct, x1 byte, m1 Punct, x2 byte, m2 Punct) (Punct, int) {
	i, c, ok := l.take()
	if !ok {
		return def, 1
	}
	switch c {
	case x1:
		return m1, 2
	case x2:
		return m2, 2
	default:
		l.save(i, c)
		return def, 1
	}
}

// punct3 handles the three-character family (`<`, `<=`, `<<`, `<<=`): x1
// is the plain-equals alternative, x2 starts the doubled form (doubled)
// whose own optional '=' (doubledEq) is resolved by a nested punct1.
func (l *Lexer) punct3(def Punct, x1 byte, m1 Punct, x2 byte, doubled Punct, doubledEq Punct) (Punct, int) {
	i, c, ok := l.take()
	if !ok {
		return def, 1
	}
	switch c {
	case x1:
		return m1, 2
	case x2:
		p, n := l.punct1(doubled, '=', doubledEq)
		return p, n + 1
	default:
		l.save(i, c)
		return def, 1
	}
}
