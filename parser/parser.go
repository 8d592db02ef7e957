// Package parser implements a recursive-descent parser that turns a token
// stream from the lexer package into an *ast.Program.
//
// Parser Architecture:
//
// The parser keeps two tokens in view at all times, curTok and peekTok, so
// that a production can decide what to do without consuming anything it
// turns out not to want. Class, method, and block bodies are each parsed by
// one dedicated function; expression parsing follows Smalltalk's three-level
// message precedence directly instead of a general Pratt table, since the
// grammar never needs anything richer:
//
//	unary messages   (highest): receiver selector
//	binary messages           : receiver + argument
//	keyword messages (lowest) : receiver key: arg key2: arg2
//
// Within a level, sends are left-associative: `3 + 4 + 5` is `(3 + 4) + 5`.
//
// Errors accumulate in p.errors rather than aborting the parse, so a single
// pass over a file can report more than one mistake. Parse still returns
// whatever AST it managed to build alongside a non-nil error, since a caller
// that wants to keep going (e.g. a REPL after a bad line) can choose to
// ignore a partial tree rather than re-lex from scratch.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/somlang/som/ast"
	"github.com/somlang/som/lexer"
)

// Parser parses one source unit. It is stateful and single-use: build a new
// Parser for each file or REPL line.
type Parser struct {
	l       *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token
	errors  []string
}

// New creates a Parser reading from src.
func New(src string) *Parser {
	p := &Parser{l: lexer.New(src)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curTok = p.peekTok
	p.peekTok = p.l.Next()
}

func (p *Parser) addErrorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.curTok.Line, p.curTok.Column, fmt.Sprintf(format, args...)))
}

// Errors returns the accumulated parse errors, if any.
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseAmbiguity describes a run of more than four dashes where a class body
// expects the "----" separator. The parser does not pick a reading: it adds
// the ParseAmbiguity message to its errors, so Parse fails. See the lexer's
// Dashes token.
type ParseAmbiguity struct {
	Line, Col int
	Literal   string
}

func (e *ParseAmbiguity) Error() string {
	return fmt.Sprintf("%d:%d: ambiguous separator %q", e.Line, e.Col, e.Literal)
}

// Parse parses a whole source unit: zero or more class definitions.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.curTok.Type != lexer.EOF {
		cd := p.parseClassDef()
		if cd != nil {
			prog.Classes = append(prog.Classes, cd)
		}
		if p.curTok.Type == lexer.Period {
			p.next()
		}
	}
	if len(p.errors) > 0 {
		return prog, fmt.Errorf("parse errors: %s", strings.Join(p.errors, "; "))
	}
	return prog, nil
}

// parseClassDef parses:
//
//	Name = Super (
//	  | iv1 iv2 |
//	  method definitions...
//	  ----
//	  | cv1 |
//	  class method definitions...
//	)
func (p *Parser) parseClassDef() *ast.ClassDef {
	if p.curTok.Type != lexer.Identifier {
		p.addErrorf("expected class name, got %s", p.curTok.Type)
		p.next()
		return nil
	}
	cd := &ast.ClassDef{Pos: ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}, Name: p.curTok.Literal}
	p.next()

	if !p.expectBinary("=") {
		return cd
	}
	p.next()

	if p.curTok.Type != lexer.Identifier {
		p.addErrorf("expected superclass name, got %s", p.curTok.Type)
		return cd
	}
	cd.Super = p.curTok.Literal
	p.next()

	if !p.expect(lexer.LParen, "(") {
		return cd
	}
	p.next()

	cd.InstanceVarNames = p.parseOptionalVarList()
	for p.curTok.Type != lexer.RParen && p.curTok.Type != lexer.Dashes && p.curTok.Type != lexer.EOF {
		m := p.parseMethodDef()
		if m != nil {
			cd.InstanceMethods = append(cd.InstanceMethods, m)
		}
	}

	if p.curTok.Type == lexer.Dashes {
		if len(p.curTok.Literal) != 4 {
			p.errors = append(p.errors, (&ParseAmbiguity{Line: p.curTok.Line, Col: p.curTok.Column, Literal: p.curTok.Literal}).Error())
		}
		p.next()
		cd.ClassVarNames = p.parseOptionalVarList()
		for p.curTok.Type != lexer.RParen && p.curTok.Type != lexer.EOF {
			m := p.parseMethodDef()
			if m != nil {
				cd.ClassMethods = append(cd.ClassMethods, m)
			}
		}
	}

	p.expect(lexer.RParen, ")")
	p.next()
	return cd
}

func (p *Parser) parseOptionalVarList() []string {
	if p.curTok.Type != lexer.Pipe {
		return nil
	}
	p.next()
	var names []string
	for p.curTok.Type == lexer.Identifier {
		names = append(names, p.curTok.Literal)
		p.next()
	}
	p.expect(lexer.Pipe, "|")
	p.next()
	return names
}

// parseMethodDef parses one method: a unary, binary, or keyword selector
// pattern followed by `= ( body )`.
func (p *Parser) parseMethodDef() *ast.MethodDef {
	md := &ast.MethodDef{Pos: ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}}

	switch {
	case p.curTok.Type == lexer.Keyword:
		var sel strings.Builder
		for p.curTok.Type == lexer.Keyword {
			sel.WriteString(p.curTok.Literal)
			p.next()
			if p.curTok.Type != lexer.Identifier {
				p.addErrorf("expected parameter name in method pattern, got %s", p.curTok.Type)
				return nil
			}
			md.Params = append(md.Params, p.curTok.Literal)
			p.next()
		}
		md.Selector = sel.String()
	case p.curTok.Type == lexer.BinaryOp || p.curTok.Type == lexer.Pipe:
		md.Selector = p.curTok.Literal
		p.next()
		if p.curTok.Type != lexer.Identifier {
			p.addErrorf("expected parameter name in binary method pattern, got %s", p.curTok.Type)
			return nil
		}
		md.Params = append(md.Params, p.curTok.Literal)
		p.next()
	case p.curTok.Type == lexer.Identifier:
		md.Selector = p.curTok.Literal
		p.next()
	default:
		p.addErrorf("expected method pattern, got %s", p.curTok.Type)
		p.next()
		return nil
	}

	if !p.expectBinary("=") {
		return md
	}
	p.next()

	if !p.expect(lexer.LParen, "(") {
		return md
	}
	p.next()
	md.Body = p.parseSequence(lexer.RParen)
	p.expect(lexer.RParen, ")")
	p.next()
	return md
}

// parseSequence parses `| locals | stmt. stmt. ...` up to (but not
// consuming) a closing token of type end.
func (p *Parser) parseSequence(end lexer.TokenType) *ast.Sequence {
	seq := &ast.Sequence{Pos: ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}}
	seq.Locals = p.parseOptionalVarList()
	for p.curTok.Type != end && p.curTok.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			seq.Statements = append(seq.Statements, stmt)
		}
		if p.curTok.Type == lexer.Period {
			p.next()
		} else {
			break
		}
	}
	return seq
}

func (p *Parser) parseStatement() ast.Node {
	if p.curTok.Type == lexer.Caret {
		pos := ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}
		p.next()
		val := p.parseExpression()
		return &ast.Return{Pos: pos, Value: val}
	}
	return p.parseExpression()
}

// parseExpression handles assignment, which binds weaker than any message
// send: `x := y foo: z` assigns the result of the whole send to x.
func (p *Parser) parseExpression() ast.Node {
	if p.curTok.Type == lexer.Identifier && p.peekTok.Type == lexer.Assign {
		pos := ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}
		name := p.curTok.Literal
		p.next() // identifier
		p.next() // :=
		val := p.parseExpression()
		return &ast.Assignment{
			Pos:    pos,
			Target: &ast.Variable{Pos: pos, Name: name},
			Value:  val,
		}
	}
	return p.parseKeywordSend()
}

func (p *Parser) parseKeywordSend() ast.Node {
	recv := p.parseBinarySend()
	if recv == nil || p.curTok.Type != lexer.Keyword {
		return recv
	}
	pos := sendPos(recv)
	var sel strings.Builder
	var args []ast.Node
	for p.curTok.Type == lexer.Keyword {
		sel.WriteString(p.curTok.Literal)
		p.next()
		arg := p.parseBinarySend()
		if arg == nil {
			p.addErrorf("expected argument after keyword %q", sel.String())
			break
		}
		args = append(args, arg)
	}
	recvNode, isSuper := unwrapSuper(recv)
	return &ast.Send{Pos: pos, Kind: ast.SendKeyword, Receiver: recvNode, IsSuper: isSuper, Selector: sel.String(), Args: args}
}

func (p *Parser) parseBinarySend() ast.Node {
	recv := p.parseUnarySend()
	for recv != nil && (p.curTok.Type == lexer.BinaryOp || p.curTok.Type == lexer.Pipe) {
		pos := sendPos(recv)
		op := p.curTok.Literal
		p.next()
		arg := p.parseUnarySend()
		if arg == nil {
			p.addErrorf("expected argument after binary operator %q", op)
			break
		}
		recvNode, isSuper := unwrapSuper(recv)
		recv = &ast.Send{Pos: pos, Kind: ast.SendBinary, Receiver: recvNode, IsSuper: isSuper, Selector: op, Args: []ast.Node{arg}}
	}
	return recv
}

func (p *Parser) parseUnarySend() ast.Node {
	recv := p.parsePrimary()
	for recv != nil && p.curTok.Type == lexer.Identifier {
		pos := sendPos(recv)
		sel := p.curTok.Literal
		p.next()
		recvNode, isSuper := unwrapSuper(recv)
		recv = &ast.Send{Pos: pos, Kind: ast.SendUnary, Receiver: recvNode, IsSuper: isSuper, Selector: sel}
	}
	return recv
}

// superMarker tags a bare "super" receiver so the send-building helpers
// above can detect it without a dedicated AST node: dispatch needs to know
// "begin lookup at the defining method's superclass", not "evaluate this
// expression", so super never becomes a real Receiver value. The embedded
// ast.Node is always nil; it only gives superMarker ast.Node's unexported
// method so that it can travel through the parser as an ast.Node.
type superMarker struct {
	ast.Pos
	ast.Node
}

func unwrapSuper(n ast.Node) (ast.Node, bool) {
	if _, ok := n.(*superMarker); ok {
		return nil, true
	}
	return n, false
}

func sendPos(n ast.Node) ast.Pos {
	switch v := n.(type) {
	case *ast.Send:
		return v.Pos
	case *ast.Variable:
		return v.Pos
	case *ast.Literal:
		return v.Pos
	case *ast.Block:
		return v.Pos
	case *superMarker:
		return v.Pos
	default:
		return ast.Pos{}
	}
}

func (p *Parser) parsePrimary() ast.Node {
	pos := ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}
	switch p.curTok.Type {
	case lexer.Int:
		v, err := strconv.ParseInt(p.curTok.Literal, 10, 64)
		if err != nil {
			p.addErrorf("invalid integer literal %q", p.curTok.Literal)
		}
		p.next()
		return &ast.Literal{Pos: pos, Kind: ast.IntLiteral, Int: v}
	case lexer.Float:
		v, err := strconv.ParseFloat(p.curTok.Literal, 64)
		if err != nil {
			p.addErrorf("invalid float literal %q", p.curTok.Literal)
		}
		p.next()
		return &ast.Literal{Pos: pos, Kind: ast.FloatLiteral, Float: v}
	case lexer.String:
		s := p.curTok.Literal
		p.next()
		return &ast.Literal{Pos: pos, Kind: ast.StringLiteral, Str: s}
	case lexer.Symbol:
		s := p.curTok.Literal
		p.next()
		return &ast.Literal{Pos: pos, Kind: ast.SymbolLiteral, Str: s}
	case lexer.HashLParen:
		return p.parseArrayLiteral()
	case lexer.LBracket:
		return p.parseBlock()
	case lexer.LParen:
		p.next()
		inner := p.parseExpression()
		p.expect(lexer.RParen, ")")
		p.next()
		return inner
	case lexer.Identifier:
		name := p.curTok.Literal
		p.next()
		if name == "super" {
			return &superMarker{Pos: pos}
		}
		return &ast.Variable{Pos: pos, Name: name}
	default:
		p.addErrorf("unexpected token %s in expression", p.curTok.Type)
		p.next()
		return nil
	}
}

func (p *Parser) parseArrayLiteral() ast.Node {
	pos := ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}
	p.next() // consume '#('
	var elems []*ast.Literal
	for p.curTok.Type != lexer.RParen && p.curTok.Type != lexer.EOF {
		elem := p.parsePrimary()
		lit, ok := elem.(*ast.Literal)
		if !ok {
			p.addErrorf("array literals may only contain literal elements")
			continue
		}
		elems = append(elems, lit)
	}
	p.expect(lexer.RParen, ")")
	p.next()
	return &ast.Literal{Pos: pos, Kind: ast.ArrayLiteral, Elems: elems}
}

func (p *Parser) parseBlock() *ast.Block {
	pos := ast.Pos{Line: p.curTok.Line, Col: p.curTok.Column}
	p.next() // consume '['
	var params []string
	for p.curTok.Type == lexer.Colon {
		p.next()
		if p.curTok.Type != lexer.Identifier {
			p.addErrorf("expected block parameter name, got %s", p.curTok.Type)
			break
		}
		params = append(params, p.curTok.Literal)
		p.next()
	}
	if len(params) > 0 {
		p.expect(lexer.Pipe, "|")
		p.next()
	}
	body := p.parseSequence(lexer.RBracket)
	p.expect(lexer.RBracket, "]")
	p.next()
	return &ast.Block{Pos: pos, Params: params, Body: body}
}

func (p *Parser) expect(tt lexer.TokenType, human string) bool {
	if p.curTok.Type != tt {
		p.addErrorf("expected %q, got %s", human, p.curTok.Type)
		return false
	}
	return true
}

func (p *Parser) expectBinary(op string) bool {
	if p.curTok.Type != lexer.BinaryOp || p.curTok.Literal != op {
		p.addErrorf("expected %q, got %s(%q)", op, p.curTok.Type, p.curTok.Literal)
		return false
	}
	return true
}
