package parser_test

import (
	"testing"

	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/lexer"
	"github.com/funvibe/esparse/internal/parser"
	"github.com/funvibe/esparse/internal/pipeline"
)

func parseSource(t *testing.T, src string, sourceType string) (*ast.Node, *pipeline.Context) {
	t.Helper()
	ctx := pipeline.NewContext(src, pipeline.Options{EcmaVersion: 13, SourceType: sourceType})
	pl := pipeline.New(&lexer.Processor{}, &parser.Processor{})
	ctx = pl.Run(ctx)
	return ctx.AstRoot, ctx
}

func TestParseVariableDeclaration(t *testing.T) {
	root, ctx := parseSource(t, "var x = 1;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if root.Kind != ast.Program || len(root.Body) != 1 {
		t.Fatalf("got %+v", root)
	}
	decl := root.Body[0]
	if decl.Kind != ast.VariableDeclaration || decl.Operator != "var" {
		t.Fatalf("got %+v", decl)
	}
	if len(decl.Elements) != 1 {
		t.Fatalf("expected one declarator, got %d", len(decl.Elements))
	}
	dtor := decl.Elements[0]
	if dtor.Kind != ast.VariableDeclarator || dtor.Left.Kind != ast.Identifier || dtor.Left.Name != "x" {
		t.Fatalf("got %+v", dtor)
	}
	if dtor.Right == nil || dtor.Right.Kind != ast.Literal {
		t.Fatalf("expected a literal initializer, got %+v", dtor.Right)
	}
}

func TestParseDestructuringArrayPattern(t *testing.T) {
	root, ctx := parseSource(t, "let [a, , b] = x;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	dtor := root.Body[0].Elements[0]
	if dtor.Left.Kind != ast.ArrayPattern {
		t.Fatalf("expected array pattern, got %s", dtor.Left.Kind)
	}
	if len(dtor.Left.Elements) != 3 || dtor.Left.Elements[1] != nil {
		t.Fatalf("expected a hole at index 1, got %+v", dtor.Left.Elements)
	}
}

func TestParseObjectPatternWithDefault(t *testing.T) {
	root, ctx := parseSource(t, "const { a = 1, ...rest } = obj;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	left := root.Body[0].Elements[0].Left
	if left.Kind != ast.ObjectPattern {
		t.Fatalf("expected object pattern, got %s", left.Kind)
	}
	if len(left.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(left.Properties))
	}
	if left.Properties[1].Kind != ast.RestElement {
		t.Fatalf("expected trailing rest element, got %s", left.Properties[1].Kind)
	}
}

func TestParseRedeclarationIsReported(t *testing.T) {
	_, ctx := parseSource(t, "let x; let x;", "script")
	if len(ctx.Errors) == 0 {
		t.Fatal("expected a redeclaration error for `let x; let x;`")
	}
}

func TestParseFunctionDeclarationScopesParams(t *testing.T) {
	root, ctx := parseSource(t, "function f(a, b) { return a; }", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	fn := root.Body[0]
	if fn.Kind != ast.FunctionDeclaration || fn.Name != "f" {
		t.Fatalf("got %+v", fn)
	}
	if len(fn.Elements) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Elements))
	}
	if len(fn.Body) != 1 || fn.Body[0].Kind != ast.BlockStatement {
		t.Fatalf("expected a block body, got %+v", fn.Body)
	}
}

func TestParseAssignmentToMemberExpression(t *testing.T) {
	root, ctx := parseSource(t, "a.b = 1;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	stmt := root.Body[0]
	if stmt.Kind != ast.ExpressionStatement {
		t.Fatalf("got %+v", stmt)
	}
	assign := stmt.Expression
	if assign.Kind != ast.AssignmentExpression || assign.Left.Kind != ast.MemberExpression {
		t.Fatalf("got %+v", assign)
	}
}

func TestParseAutomaticSemicolonInsertion(t *testing.T) {
	root, ctx := parseSource(t, "var x = 1\nvar y = 2\n", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors under ASI: %v", ctx.Errors)
	}
	if len(root.Body) != 2 {
		t.Fatalf("expected two statements via ASI, got %d", len(root.Body))
	}
}

func TestParseOpaqueExpressionForOutOfScopeGrammar(t *testing.T) {
	// Binary expressions are outside this parser's structured node set
	// (see internal/ast's Kind doc comment); the statement must still
	// parse to completion rather than erroring out.
	root, ctx := parseSource(t, "var x = 1 + 2;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	init := root.Body[0].Elements[0].Right
	if init.Kind != ast.OpaqueExpression {
		t.Fatalf("expected an opaque expression for `1 + 2`, got %s", init.Kind)
	}
}

func TestParseRegexpLiteral(t *testing.T) {
	root, ctx := parseSource(t, "var re = /abc/gi;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	init := root.Body[0].Elements[0].Right
	if init.Kind != ast.Literal {
		t.Fatalf("expected a regexp literal node, got %s", init.Kind)
	}
}

func TestParseInvalidRegexpFlagSurfacesAsError(t *testing.T) {
	_, ctx := parseSource(t, "var re = /abc/zz;", "script")
	if len(ctx.Errors) == 0 {
		t.Fatal("expected an invalid-flag error from the regexp validator")
	}
}

func TestParseRestElementFollowedByElementIsRejected(t *testing.T) {
	_, ctx := parseSource(t, "[...rest, trailing] = x;", "script")
	if len(ctx.Errors) == 0 {
		t.Fatal("expected a comma-after-rest-element error")
	}
}

func TestParseRestPropertyFollowedByPropertyIsRejected(t *testing.T) {
	_, ctx := parseSource(t, "({...rest, trailing} = x);", "script")
	if len(ctx.Errors) == 0 {
		t.Fatal("expected a comma-after-rest-element error")
	}
}

func TestParseVariableDeclaratorRestFollowedByElementIsRejected(t *testing.T) {
	_, ctx := parseSource(t, "let [...rest, trailing] = x;", "script")
	if len(ctx.Errors) == 0 {
		t.Fatal("expected a comma-after-rest-element error")
	}
}

func TestParseRestElementAsLastElementIsAccepted(t *testing.T) {
	_, ctx := parseSource(t, "[a, ...rest] = x;", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors for a terminal rest element: %v", ctx.Errors)
	}
}

func TestParseParenthesizedExpressionIsCollapsedByDefault(t *testing.T) {
	root, ctx := parseSource(t, "var x = (1);", "script")
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	init := root.Body[0].Elements[0].Right
	if init.Kind != ast.Literal {
		t.Fatalf("expected parens collapsed to the inner literal, got %s", init.Kind)
	}
}

func TestParseParenthesizedExpressionPreservedWhenRequested(t *testing.T) {
	ctx := pipeline.NewContext("var x = (1);", pipeline.Options{
		EcmaVersion:    13,
		SourceType:     "script",
		PreserveParens: true,
	})
	pl := pipeline.New(&lexer.Processor{}, &parser.Processor{})
	ctx = pl.Run(ctx)
	if len(ctx.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	init := ctx.AstRoot.Body[0].Elements[0].Right
	if init.Kind != ast.ParenthesizedExpression {
		t.Fatalf("expected a preserved ParenthesizedExpression node, got %s", init.Kind)
	}
	if init.Expression == nil || init.Expression.Kind != ast.Literal {
		t.Fatalf("expected the paren node to wrap the inner literal, got %+v", init.Expression)
	}
}
