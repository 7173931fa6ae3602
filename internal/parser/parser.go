/*
File    : easyscript/internal/parser/parser.go
Parser struct shape (index into a pre-scanned token slice, two-token
lookahead) is grounded on go-mix's parser/parser.go (CurrToken/NextToken
fields, expectNext-style assertions). The flattened term/factor/unary
precedence chain and the recursive structure of term()/factor()/unary()
are grounded on original_source/parser.rs's own precedence climb, extended
here to cover if/for/fun/call/accessor/list/map, which that early snapshot
never reached. Unlike go-mix's parser, which accumulates multiple errors
before reporting, this parser fails fast with a single *errs.ParserError
— EasyScript's grammar is small enough that cascading recovery would only
produce noise (spec.md §6).
*/

// Package parser builds an EasyScript AST from source text via a
// recursive-descent parse over the full token stream.
package parser

import (
	"strconv"

	"github.com/akashmaji946/easyscript/internal/ast"
	"github.com/akashmaji946/easyscript/internal/errs"
	"github.com/akashmaji946/easyscript/internal/lexer"
	"github.com/akashmaji946/easyscript/internal/token"
)

// Parser holds the full pre-scanned token stream and a cursor into it.
type Parser struct {
	toks []token.Token
	pos  int
}

// New builds a Parser over an already-tokenized stream.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse tokenizes and parses src in one step, returning the program as a
// top-level Block whose entries are the source's sequence of expressions.
func Parse(src string) (*ast.Block, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(toks).ParseProgram()
}

// ParseProgram parses the whole token stream as a top-level Block.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	pos := p.posOf(p.cur())
	entries, err := p.parseEntries(token.EOF)
	if err != nil {
		return nil, err
	}
	return ast.NewBlock(pos, entries), nil
}

func (p *Parser) posOf(tok token.Token) ast.Pos { return ast.At(tok.Line, tok.Column) }

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// expect asserts the current token's type and advances past it, or fails
// with a ParserError naming what was wanted.
func (p *Parser) expect(tt token.Type, what string) (token.Token, error) {
	if p.cur().Type != tt {
		c := p.cur()
		if c.Type == token.EOF {
			return token.Token{}, errs.NewParserError(c.Line, c.Column, "expected %s, got end of input", what)
		}
		return token.Token{}, errs.NewParserError(c.Line, c.Column, "expected %s, got %q", what, c.Literal)
	}
	return p.advance(), nil
}

// errorf reports a ParserError at the current token, with format taking
// exactly one %q-style verb for the offending literal.
func (p *Parser) errorf(format string) error {
	c := p.cur()
	if c.Type == token.EOF {
		return errs.NewParserError(c.Line, c.Column, "unexpected end of input")
	}
	return errs.NewParserError(c.Line, c.Column, format, c.Literal)
}

// parseEntries parses a `;`-separated sequence of expressions until term
// is reached (token.RBRACE for a nested block, token.EOF for the program).
func (p *Parser) parseEntries(term token.Type) ([]ast.BlockEntry, error) {
	var entries []ast.BlockEntry
	for p.cur().Type != term && p.cur().Type != token.EOF {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		semi := false
		if p.cur().Type == token.SEMI {
			p.advance()
			semi = true
		}
		entries = append(entries, ast.BlockEntry{Expr: e, HasTrailingSemi: semi})
	}
	if term != token.EOF && p.cur().Type != term {
		return nil, p.errorf("expected '}', got %q")
	}
	return entries, nil
}

// parseBlockRequired parses a `{ ... }` block where a brace is mandatory —
// the body of if/else/for/fun. No map-literal ambiguity exists here: the
// grammar never permits a map in these positions.
func (p *Parser) parseBlockRequired() (*ast.Block, error) {
	open, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	entries, err := p.parseEntries(token.RBRACE)
	if err != nil {
		return nil, err
	}
	p.advance() // consume '}'
	return ast.NewBlock(p.posOf(open), entries), nil
}

// parseExpression dispatches the keyword-led forms (let/if/for/fun) and
// otherwise falls through to the assignment precedence level.
func (p *Parser) parseExpression() (ast.Expr, error) {
	switch p.cur().Type {
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.FUN:
		return p.parseFunctionDef()
	default:
		return p.parseAssignment()
	}
}

func (p *Parser) parseLet() (ast.Expr, error) {
	start := p.advance() // consume 'let'
	name, err := p.expect(token.IDENT, "an identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewLet(p.posOf(start), name.Literal, init), nil
}

func (p *Parser) parseIf() (ast.Expr, error) {
	start := p.advance() // consume 'if'
	cond, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlockRequired()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Expr
	if p.cur().Type == token.ELSE {
		p.advance()
		if p.cur().Type == token.IF {
			elseBranch, err = p.parseIf()
		} else {
			elseBranch, err = p.parseBlockRequired()
		}
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(p.posOf(start), cond, then, elseBranch), nil
}

func (p *Parser) parseFor() (ast.Expr, error) {
	start := p.advance() // consume 'for'

	if p.cur().Type == token.IDENT && p.peek().Type == token.IN {
		name := p.advance().Literal
		p.advance() // consume 'in'
		iterable, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		var filter ast.Expr
		if p.cur().Type == token.IF {
			p.advance()
			filter, err = p.parseAssignment()
			if err != nil {
				return nil, err
			}
		}
		body, err := p.parseBlockRequired()
		if err != nil {
			return nil, err
		}
		return ast.NewForIn(p.posOf(start), name, iterable, filter, body), nil
	}

	cond, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockRequired()
	if err != nil {
		return nil, err
	}
	return ast.NewForCondition(p.posOf(start), cond, body), nil
}

func (p *Parser) parseFunctionDef() (ast.Expr, error) {
	start := p.advance() // consume 'fun'
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []string
	if p.cur().Type != token.RPAREN {
		tok, err := p.expect(token.IDENT, "a parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Literal)
		for p.cur().Type == token.COMMA {
			p.advance()
			tok, err := p.expect(token.IDENT, "a parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, tok.Literal)
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockRequired()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDef(p.posOf(start), params, body), nil
}

// parseAssignment parses the term-chain and, if an '=' follows a valid
// l-value, reparses it as an Assignment (right-associative: the value side
// recurses back into parseAssignment, so `a = b = 1` is legal).
func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != token.ASSIGN {
		return left, nil
	}
	lv, err := toLValue(left)
	if err != nil {
		return nil, err
	}
	eq := p.advance() // consume '='
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(p.posOf(eq), lv, value), nil
}

// toLValue validates that expr is assignable: a bare identifier, or a
// single-level index/dot accessor whose receiver is itself a bare
// identifier (nested accessor assignment is rejected, per spec.md §4.3).
func toLValue(expr ast.Expr) (ast.LValue, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return ast.LValue{Kind: ast.LValueIdent, Name: e.Name}, nil
	case *ast.Accessor:
		recv, ok := e.Target.(*ast.Identifier)
		if !ok {
			pos := e.At()
			return ast.LValue{}, errs.NewParserError(pos.Line, pos.Column,
				"assignment target must be a variable, index, or dot access on a variable")
		}
		if e.Kind == ast.AccessIndex {
			return ast.LValue{Kind: ast.LValueIndex, Target: recv, Key: e.Key}, nil
		}
		return ast.LValue{Kind: ast.LValueDot, Target: recv, Name: e.Name}, nil
	default:
		pos := expr.At()
		return ast.LValue{}, errs.NewParserError(pos.Line, pos.Column, "invalid assignment target")
	}
}

// parseTerm is the flattened tier above factor: left-associative
// `+ - < <= > >= == != && ||`, all at one precedence level (spec.md §9's
// chosen resolution of the flattening open question).
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := termOp(p.cur().Type)
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(p.posOf(opTok), left, op, right)
	}
}

func termOp(tt token.Type) (ast.BinaryOp, bool) {
	switch tt {
	case token.PLUS:
		return ast.OpAdd, true
	case token.MINUS:
		return ast.OpSub, true
	case token.LT:
		return ast.OpLt, true
	case token.LE:
		return ast.OpLe, true
	case token.GT:
		return ast.OpGt, true
	case token.GE:
		return ast.OpGe, true
	case token.EQ:
		return ast.OpEq, true
	case token.NEQ:
		return ast.OpNeq, true
	case token.LOGIC_AND:
		return ast.OpAnd, true
	case token.LOGIC_OR:
		return ast.OpOr, true
	default:
		return 0, false
	}
}

// parseFactor is the tier above unary: left-associative
// `* / % << >> & | ^`.
func (p *Parser) parseFactor() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := factorOp(p.cur().Type)
		if !ok {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(p.posOf(opTok), left, op, right)
	}
}

func factorOp(tt token.Type) (ast.BinaryOp, bool) {
	switch tt {
	case token.STAR:
		return ast.OpMul, true
	case token.SLASH:
		return ast.OpDiv, true
	case token.PERCENT:
		return ast.OpMod, true
	case token.SHL:
		return ast.OpShl, true
	case token.SHR:
		return ast.OpShr, true
	case token.AMP:
		return ast.OpBitAnd, true
	case token.PIPE:
		return ast.OpBitOr, true
	case token.CARET:
		return ast.OpBitXor, true
	default:
		return 0, false
	}
}

// parseUnary handles the single prefix operator the grammar reaches:
// numeric negation. A bare '!' never lexes (the lexer rejects it unless
// followed by '='), so OpNot is never constructed here — it remains in
// ast.UnaryOp purely for data-model completeness.
func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur().Type == token.MINUS {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(p.posOf(opTok), ast.OpNeg, operand), nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of
// call/index/dot suffixes.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case token.LPAREN:
			open := p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = ast.NewCall(p.posOf(open), expr, args)
		case token.LBRACKET:
			open := p.advance()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
				return nil, err
			}
			expr = ast.NewAccessor(p.posOf(open), expr, ast.AccessIndex, key, "")
		case token.DOT:
			p.advance()
			name, err := p.expect(token.IDENT, "a property name")
			if err != nil {
				return nil, err
			}
			expr = ast.NewAccessor(p.posOf(name), expr, ast.AccessDot, nil, name.Literal)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.cur().Type != token.RPAREN {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.cur().Type == token.COMMA {
			p.advance()
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

// parsePrimary parses literals, identifiers, parenthesized expressions,
// list literals, and the ambiguous `{...}` form (map-or-block).
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case token.NUMBER:
		p.advance()
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, errs.NewParserError(tok.Line, tok.Column, "invalid number literal %q", tok.Literal)
		}
		return ast.NewNumberLiteral(tok, n), nil
	case token.STRING:
		p.advance()
		return ast.NewStringLiteral(tok, tok.Literal), nil
	case token.TRUE:
		p.advance()
		return ast.NewBoolLiteral(tok, true), nil
	case token.FALSE:
		p.advance()
		return ast.NewBoolLiteral(tok, false), nil
	case token.NIL:
		p.advance()
		return ast.NewNilLiteral(tok), nil
	case token.IDENT:
		p.advance()
		return ast.NewIdentifier(tok), nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.LBRACE:
		return p.parseBraceExpression()
	default:
		return nil, p.errorf("unexpected token %q")
	}
}

func (p *Parser) parseListLiteral() (ast.Expr, error) {
	open := p.advance() // consume '['
	var elems []ast.Expr
	if p.cur().Type != token.RBRACKET {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		for p.cur().Type == token.COMMA {
			p.advance()
			if p.cur().Type == token.RBRACKET {
				break
			}
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
	}
	if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
		return nil, err
	}
	return ast.NewListLiteral(p.posOf(open), elems), nil
}

// parseBraceExpression resolves the `{...}` ambiguity: an empty `{}` is
// an empty map, a `key: value` pair after the first element means the
// whole form is a map, and anything else is a nested block.
func (p *Parser) parseBraceExpression() (ast.Expr, error) {
	open := p.advance() // consume '{'

	if p.cur().Type == token.RBRACE {
		p.advance()
		return ast.NewMapLiteral(p.posOf(open), nil), nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.cur().Type == token.COLON {
		return p.parseMapBody(open, first)
	}
	return p.parseBlockBody(open, first)
}

func (p *Parser) parseMapBody(open token.Token, firstKey ast.Expr) (ast.Expr, error) {
	p.advance() // consume ':'
	firstVal, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	entries := []ast.MapEntry{{Key: firstKey, Value: firstVal}}
	for p.cur().Type == token.COMMA {
		p.advance()
		if p.cur().Type == token.RBRACE {
			break
		}
		k, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, "':'"); err != nil {
			return nil, err
		}
		v, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntry{Key: k, Value: v})
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewMapLiteral(p.posOf(open), entries), nil
}

func (p *Parser) parseBlockBody(open token.Token, first ast.Expr) (ast.Expr, error) {
	semi := false
	if p.cur().Type == token.SEMI {
		p.advance()
		semi = true
	}
	entries := []ast.BlockEntry{{Expr: first, HasTrailingSemi: semi}}
	for p.cur().Type != token.RBRACE && p.cur().Type != token.EOF {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		s := false
		if p.cur().Type == token.SEMI {
			p.advance()
			s = true
		}
		entries = append(entries, ast.BlockEntry{Expr: e, HasTrailingSemi: s})
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewBlock(p.posOf(open), entries), nil
}
