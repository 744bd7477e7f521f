package parser

import (
	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/lval"
	"github.com/funvibe/esparse/internal/scope"
	"github.com/funvibe/esparse/internal/token"
)

// parseProgram parses the top-level production (spec.md §3's parse
// entry point), grounded on the teacher's ParseProgram.
func (p *Parser) parseProgram() *ast.Node {
	start := p.cur.Start
	var body []*ast.Node
	for !p.curIs(token.EOF) {
		body = append(body, p.parseStatement())
	}
	n := p.startNodeAt(start)
	n.Body = body
	return p.finishNode(n, ast.Program)
}

// parseStatement dispatches on the current token's keyword, covering
// the statement forms SPEC_FULL.md's scoped-down parser structures
// (variable declarations, blocks, function declarations, expression
// statements); anything else is swallowed as an ExpressionStatement
// wrapping an OpaqueExpression token span, since
// control flow (if/for/while/switch/try), classes, and import/export
// are out of scope here (spec.md's Non-goals; see internal/ast's Kind
// doc comment).
func (p *Parser) parseStatement() *ast.Node {
	switch p.cur.Type {
	case token.KwVar, token.KwConst:
		return p.parseVariableStatement(p.keywordText())
	case token.KwLet:
		if p.letStartsDeclaration() {
			return p.parseVariableStatement("let")
		}
		return p.parseExpressionStatement()
	case token.BraceL:
		return p.parseBlockStatement()
	case token.KwFunction:
		return p.parseFunctionDeclaration()
	case token.Semi:
		start := p.cur.Start
		p.advance()
		n := p.startNodeAt(start)
		n.Expression = nil
		return p.finishNode(n, ast.ExpressionStatement)
	default:
		return p.parseExpressionStatement()
	}
}

// keywordText returns the current keyword token's canonical spelling.
func (p *Parser) keywordText() string {
	return token.Lookup(p.cur.Type).Keyword
}

// letStartsDeclaration disambiguates `let` as a declaration keyword
// from `let` used as an ordinary identifier (legal in non-strict,
// non-module code; spec.md §4.1's contextual-keyword handling): a
// declaration follows only when the next token can start a binding
// target.
func (p *Parser) letStartsDeclaration() bool {
	switch p.peek.Type {
	case token.Name, token.BracketL, token.BraceL:
		return true
	default:
		return false
	}
}

// parseVariableStatement parses `var|let|const <declarator-list> ;`
// (spec.md §4.6: var declarations go to the nearest hoisting scope,
// let/const to the nearest lexical scope).
func (p *Parser) parseVariableStatement(kind string) *ast.Node {
	start := p.cur.Start
	p.advance() // consume var/let/const

	bindKind := scope.BindVar
	if kind != "var" {
		bindKind = scope.BindLexical
	}

	var declarators []*ast.Node
	for {
		declarators = append(declarators, p.parseVariableDeclarator(bindKind))
		if !p.eat(token.Comma) {
			break
		}
	}

	p.consumeSemicolon()

	n := p.startNodeAt(start)
	n.Operator = kind
	n.Elements = declarators
	return p.finishNode(n, ast.VariableDeclaration)
}

func (p *Parser) parseVariableDeclarator(bindKind scope.BindKind) *ast.Node {
	start := p.cur.Start

	savedDestructuring := p.destructuring
	dErr := lval.NewDestructuringErrors()
	p.destructuring = dErr
	target := p.parseBindingAtom()
	p.destructuring = savedDestructuring
	p.addLvalError(lval.ToAssignable(p, target, true, dErr))
	p.addLvalError(lval.CheckLvalPattern(p, target, bindKind, nil))

	n := p.startNodeAt(start)
	n.Left = target

	if p.eat(token.Eq) {
		n.Right = p.parseAssignmentExpression()
	}

	return p.finishNode(n, ast.VariableDeclarator)
}

// parseBindingAtom parses an identifier, or an array/object literal
// destined to become a pattern via lval.ToAssignable/CheckLvalPattern,
// matching the teacher's approach of parsing binding targets with the
// same grammar as expressions and converting afterward.
func (p *Parser) parseBindingAtom() *ast.Node {
	switch p.cur.Type {
	case token.BracketL:
		return p.parseArrayLiteral()
	case token.BraceL:
		return p.parseObjectLiteral()
	default:
		return p.parsePrimaryExpression()
	}
}

// consumeSemicolon implements ASI (spec.md §4.4): an explicit `;` is
// consumed; otherwise the statement boundary is accepted silently when
// canInsertSemicolon holds, and flagged otherwise.
func (p *Parser) consumeSemicolon() {
	if p.eat(token.Semi) {
		return
	}
	if p.canInsertSemicolon() {
		return
	}
	p.addError(p.raiser.Raise(p.cur.Start, "Unexpected token, expected ;"))
}

// parseBlockStatement parses `{ stmt* }`, pushing and popping a plain
// lexical scope (spec.md §4.6) around its body.
func (p *Parser) parseBlockStatement() *ast.Node {
	start := p.cur.Start
	p.advance() // '{'

	p.scopes.EnterScope(0)
	var body []*ast.Node
	for !p.curIs(token.BraceR) && !p.curIs(token.EOF) {
		body = append(body, p.parseStatement())
	}
	p.scopes.ExitScope()

	p.addError(p.expect(token.BraceR, "}"))

	n := p.startNodeAt(start)
	n.Body = body
	return p.finishNode(n, ast.BlockStatement)
}

// parseExpressionStatement parses a bare expression followed by ASI.
func (p *Parser) parseExpressionStatement() *ast.Node {
	start := p.cur.Start
	expr := p.parseAssignmentExpression()
	p.consumeSemicolon()

	n := p.startNodeAt(start)
	n.Expression = expr
	return p.finishNode(n, ast.ExpressionStatement)
}

// parseFunctionDeclaration parses `function [*] name (params) { body }`
// (spec.md §4.6's hoisted-function-binding rule): the name is declared
// with BindFunction in the enclosing scope before params/body are
// parsed so the function can reference itself recursively, and params
// and locals live in a fresh function scope.
func (p *Parser) parseFunctionDeclaration() *ast.Node {
	start := p.cur.Start
	p.advance() // 'function'

	generator := p.eat(token.Star)

	name := ""
	if p.curIs(token.Name) {
		name = p.cur.Value.(string)
		if err := p.scopes.DeclareName(name, scope.BindFunction, p.cur.Start); err != nil {
			p.addError(p.raiser.RaiseRecoverable(p.cur.Start, err.Error()))
		}
		p.advance()
	}

	flags := scope.FlagFunction
	if generator {
		flags |= scope.FlagGenerator
	}
	p.scopes.EnterScope(flags)
	if generator {
		p.generatorDepth++
	}

	params := p.parseFunctionParams()
	body := p.parseBlockStatement()

	if generator {
		p.generatorDepth--
	}
	p.scopes.ExitScope()

	n := p.startNodeAt(start)
	n.Name = name
	n.Elements = params
	n.Body = []*ast.Node{body}
	return p.finishNode(n, ast.FunctionDeclaration)
}

// parseFunctionParams parses `(binding, binding, ...)`, declaring each
// as a BindVar name in the just-entered function scope (spec.md §4.6:
// parameters are var-scoped).
func (p *Parser) parseFunctionParams() []*ast.Node {
	p.addError(p.expect(token.ParenL, "("))

	var params []*ast.Node
	for !p.curIs(token.ParenR) && !p.curIs(token.EOF) {
		param := p.parseBindingAtom()
		if p.curIs(token.Eq) {
			eqStart := param.Start
			p.advance()
			def := p.parseAssignmentExpression()
			pattern := p.startNodeAt(eqStart)
			pattern.Left = param
			pattern.Right = def
			param = p.finishNode(pattern, ast.AssignmentPattern)
		}
		p.addLvalError(lval.CheckLvalPattern(p, param, scope.BindVar, nil))
		params = append(params, param)
		if !p.curIs(token.ParenR) {
			if !p.eat(token.Comma) {
				break
			}
		}
	}

	p.addError(p.expect(token.ParenR, ")"))
	return params
}
