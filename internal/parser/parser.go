// Package parser implements the driver of spec.md §3's parse lifecycle:
// it pulls tokens from a pipeline.TokenStream, builds ast.Node values
// via internal/ast's StartNode/FinishNode, and calls into
// internal/lval and internal/scope at every position those packages'
// rules apply. It implements lval.Host so internal/lval never needs to
// import this package back.
//
// internal/ast's Kind enum is deliberately narrow: it carries the
// handful of node kinds reachable from lval conversion and the
// statement forms needed to exercise scope declarations, plus
// OpaqueExpression/OpaqueStatement as placeholders for the rest of the
// ECMAScript grammar spec.md places out of scope (binary/logical
// operators, calls, conditionals, templates, arrow functions, classes,
// control flow). This parser is sized to match: it fully structures
// the in-scope forms and folds everything else into an opaque,
// bracket-balanced token span rather than guessing at a grammar the
// AST has nowhere to put.
//
// Grounded on the teacher's internal/parser/parser.go: the two-token
// lookahead (cur/peek advanced by nextToken) is kept verbatim in
// shape; the prefixParseFn/infixParseFn registration tables and the
// precedence-climbing loop are dropped, since funxy's operator set is
// user-extensible and spec.md's is not (and mostly out of scope here).
package parser

import (
	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/diagnostics"
	"github.com/funvibe/esparse/internal/location"
	"github.com/funvibe/esparse/internal/lval"
	"github.com/funvibe/esparse/internal/pipeline"
	"github.com/funvibe/esparse/internal/scope"
	"github.com/funvibe/esparse/internal/token"
)

// Parser is the driver state for one parse. Never shared across
// goroutines (spec.md §5).
type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.Context

	cur     token.Token
	peek    token.Token
	prevEnd int

	// newlineBeforeCur mirrors the lexer's own newlineBeforeCur flag for
	// the token now sitting in cur, re-derived here because advance only
	// sees tokens, not the lexer's internal line-break bookkeeping; ASI
	// (spec.md §4.4) needs it on the *parser* side of the token stream.
	newlineBeforeCur bool

	ecmaVersion    int
	sourceType     string // "script" or "module"
	inStrict       bool
	preserveParens bool

	scopes *scope.Stack
	raiser *diagnostics.Raiser

	asyncDepth     int
	generatorDepth int

	// destructuring is the DestructuringErrors for the assignment-target
	// candidate currently being parsed, shared across its whole
	// left-hand-side (including any nested array/object literals) so a
	// sticky position like "comma after rest element" recorded deep
	// inside surfaces to the conversion call that checks it. nil outside
	// of such a candidate (e.g. parsing a plain call argument).
	destructuring *lval.DestructuringErrors
}

// New creates a Parser reading from stream, configured from ctx's
// Options (spec.md §6).
func New(stream pipeline.TokenStream, ctx *pipeline.Context) *Parser {
	ecmaVersion := ctx.Options.EcmaVersion
	if ecmaVersion == 0 {
		ecmaVersion = 13
	}
	sourceType := ctx.Options.SourceType
	if sourceType == "" {
		sourceType = "script"
	}

	p := &Parser{
		stream:         stream,
		ctx:            ctx,
		ecmaVersion:    ecmaVersion,
		sourceType:     sourceType,
		inStrict:       sourceType == "module",
		preserveParens: ctx.Options.PreserveParens,
		scopes:         scope.NewStack(sourceType == "module"),
		raiser:         diagnostics.NewRaiser(ctx.SourceCode, ctx.Options.SourceFile),
	}

	p.scopes.EnterScope(scope.FlagTop)

	p.advance()
	p.advance()

	return p
}

// advance slides the two-token lookahead window forward by pulling the
// next token from the stream, grounded on the teacher's nextToken.
// newlineBeforeCur is re-derived from the two tokens' own Loc fields
// (rather than threaded through from the lexer's private state) since
// pipeline.TokenStream only hands back token.Token values.
func (p *Parser) advance() {
	prevEndLine := p.cur.Loc.End.Line
	p.prevEnd = p.cur.End
	p.cur = p.peek
	if prevEndLine != 0 {
		p.newlineBeforeCur = p.cur.Loc.Start.Line != prevEndLine
	}
	peeked := p.stream.Peek(1)
	if len(peeked) > 0 {
		p.peek = peeked[0]
	} else {
		p.peek = token.Token{Type: token.EOF}
	}
	p.stream.Next()
}

// canInsertSemicolon implements spec.md §4.4's ASI predicate from the
// parser side: true if a line terminator preceded cur, or cur is `}` or
// EOF, mirroring internal/lexer.Tokenizer.CanInsertSemicolon.
func (p *Parser) canInsertSemicolon() bool {
	return p.newlineBeforeCur || p.cur.Type == token.BraceR || p.cur.Type == token.EOF
}

func (p *Parser) curIs(t token.Type) bool { return p.cur.Type == t }

// eat consumes the current token if it matches t, reporting whether it
// did; callers combine this with expect for a required token.
func (p *Parser) eat(t token.Type) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t token.Type, what string) *diagnostics.Error {
	if p.eat(t) {
		return nil
	}
	return p.raiser.Raise(p.cur.Start, "Unexpected token, expected "+what)
}

// addError records a non-fatal error on the shared pipeline context, the
// way funxy's parser appends to ctx.Errors rather than unwinding.
func (p *Parser) addError(err *diagnostics.Error) {
	p.ctx.AddError(err)
}

// noteTrailingCommaAfterRest records cur's position into the active
// destructuring bookkeeping the first time a spread/rest element is
// immediately followed by a comma, so a later ToAssignable call on the
// enclosing array/object literal can reject it (spec.md §8 scenario 4).
// A no-op outside of an assignment-target candidate or once a position
// is already recorded.
func (p *Parser) noteTrailingCommaAfterRest() {
	if p.destructuring == nil || !p.curIs(token.Comma) {
		return
	}
	if p.destructuring.TrailingComma < 0 {
		p.destructuring.TrailingComma = p.cur.Start
	}
}

// addLvalError records an error returned from internal/lval, which
// hands back a plain `error` since it must not import this package's
// concrete type; every lval.Host in this module is a *Parser, so the
// error is always the *diagnostics.Error its own Raiser produced.
func (p *Parser) addLvalError(err error) {
	if err == nil {
		return
	}
	if diagErr, ok := err.(*diagnostics.Error); ok {
		p.addError(diagErr)
	}
}

// --- lval.Host -----------------------------------------------------------

func (p *Parser) EcmaVersion() int            { return p.ecmaVersion }
func (p *Parser) InAsyncFunction() bool       { return p.asyncDepth > 0 }
func (p *Parser) Strict() bool                { return p.inStrict }
func (p *Parser) Raiser() *diagnostics.Raiser { return p.raiser }
func (p *Parser) Scopes() *scope.Stack        { return p.scopes }

// --- shared helpers used by expressions.go / statements.go -------------

func (p *Parser) startNode() *ast.Node { return ast.StartNode(p.cur.Start) }

func (p *Parser) startNodeAt(start int) *ast.Node { return ast.StartNode(start) }

func (p *Parser) finishNode(n *ast.Node, kind ast.Kind) *ast.Node {
	n = ast.FinishNode(n, kind, p.prevEnd)
	if p.ctx.Options.Locations {
		loc := location.Between(p.ctx.SourceCode, n.Start, n.End, p.ctx.Options.SourceFile)
		n.Loc = &loc
	}
	n.Source = p.ctx.Options.SourceFile
	return n
}

// Parse runs the parser to completion and returns the Program node,
// grounded on the teacher's ParserProcessor.Process entry point.
func (p *Parser) Parse() *ast.Node {
	return p.parseProgram()
}
