package lexer

import "github.com/funvibe/esparse/internal/token"

// Context is one entry of the TokenContextStack (spec.md §4.2):
// Label names the bracket/keyword that pushed it (InGeneratorContext and
// Update look for the "function" label to find a function context);
// IsExpr, PreserveSpace and Generator are the three predicates the
// tokenizer consults when it must disambiguate `{`/`}` as block vs.
// expression, decide whether to skip whitespace inside a template
// literal, and recognize a `yield`/`of` in a generator body.
type Context struct {
	Label         string
	IsExpr        bool
	PreserveSpace bool
	Generator     bool
}

// The ten named contexts of spec.md §4.2, grounded one-to-one on
// original_source/crates/parser/src/token/context.rs's
// TOKEN_CONTEXT_TYPES.
var (
	ctxBStat    = Context{Label: "{", IsExpr: false, PreserveSpace: false, Generator: false}
	ctxBExpr    = Context{Label: "{", IsExpr: true, PreserveSpace: false, Generator: false}
	ctxBTmpl    = Context{Label: "${", IsExpr: false, PreserveSpace: false, Generator: false}
	ctxPStat    = Context{Label: "(", IsExpr: false, PreserveSpace: false, Generator: false}
	ctxPExpr    = Context{Label: "(", IsExpr: true, PreserveSpace: false, Generator: false}
	ctxQTmpl    = Context{Label: "`", IsExpr: true, PreserveSpace: true, Generator: false}
	ctxFStat    = Context{Label: "function", IsExpr: false, PreserveSpace: false, Generator: false}
	ctxFExpr    = Context{Label: "function", IsExpr: true, PreserveSpace: false, Generator: false}
	ctxFExprGen = Context{Label: "function", IsExpr: true, PreserveSpace: false, Generator: true}
	ctxFGen     = Context{Label: "function", IsExpr: false, PreserveSpace: false, Generator: true}
)

func sameContext(a, b Context) bool { return a == b }

// ContextStack is the tokenizer's parallel bracket/context stack
// (spec.md §4.2). It starts with a single b_stat entry — top level code
// is parsed as if inside a block statement.
type ContextStack struct {
	stack      []Context
	exprAllowed bool
}

// NewContextStack returns a stack primed with the initial b_stat
// context, per spec.md §4.2.
func NewContextStack() *ContextStack {
	return &ContextStack{stack: []Context{ctxBStat}, exprAllowed: true}
}

// Current returns the innermost context.
func (c *ContextStack) Current() Context { return c.stack[len(c.stack)-1] }

// ExprAllowed reports whether the tokenizer should read the next
// ambiguous token (`/`, `{`, ...) as starting an expression.
func (c *ContextStack) ExprAllowed() bool { return c.exprAllowed }

// SetExprAllowed forces the exprAllowed flag; exposed for the parser's
// "could not be inferred in the tokenize phase" override cases (spec.md
// §4.2's override_context).
func (c *ContextStack) SetExprAllowed(v bool) { c.exprAllowed = v }

func (c *ContextStack) push(ctx Context) { c.stack = append(c.stack, ctx) }

func (c *ContextStack) pop() (Context, bool) {
	if len(c.stack) == 0 {
		return Context{}, false
	}
	out := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return out, true
}

// InGeneratorContext reports whether the nearest enclosing "function"
// context is a generator (spec.md §4.2, used by the `yield`
// disambiguation in update_name_context).
func (c *ContextStack) InGeneratorContext() bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].Label == "function" {
			return c.stack[i].Generator
		}
	}
	return false
}

// braceIsBlock decides whether a `{` that follows prevType opens a
// block statement (true) or an object-expression literal (false),
// per spec.md §4.2's brace_is_block.
func (c *ContextStack) braceIsBlock(prevType token.Type, afterColonLineBreak bool) bool {
	parent := c.Current()
	switch parent {
	case ctxFExpr, ctxFStat:
		return true
	}
	if prevType == token.Colon && (parent == ctxBStat || parent == ctxBExpr) {
		return !parent.IsExpr
	}
	if prevType == token.KwReturn || (prevType == token.Name && c.exprAllowed) {
		return afterColonLineBreak
	}
	switch prevType {
	case token.KwElse, token.Semi, token.EOF, token.ParenR, token.Arrow:
		return true
	}
	if prevType == token.BraceL {
		return parent == ctxBStat
	}
	if prevType == token.KwVar || prevType == token.KwConst || prevType == token.Name {
		return false
	}
	return !c.exprAllowed
}

// Update advances the context stack in reaction to the token just read
// (curType), given the token type that preceded it (prevType) and two
// predicates the caller must supply because they depend on source text
// the tokenizer — not the context stack — owns: lineBreakSincePrev (was
// there a line terminator between the previous token's end and this
// one's start) and curIsKeyword (is curType a reserved word). This
// mirrors original_source/crates/parser/src/token/context.rs's
// update_context dispatch one-to-one.
func (c *ContextStack) Update(prevType, curType token.Type, lineBreakSincePrev bool, curIsKeyword bool, curName string, ecmaVersion int) {
	switch {
	case curIsKeyword && prevType == token.Dot:
		c.exprAllowed = false

	case curType == token.ParenR || curType == token.BraceR:
		if len(c.stack) == 1 {
			c.exprAllowed = true
			return
		}
		out, ok := c.pop()
		if !ok {
			return
		}
		if out == ctxBStat && c.Current().Label == "function" {
			if out2, ok := c.pop(); ok {
				c.exprAllowed = !out2.IsExpr
			}
			return
		}
		c.exprAllowed = !out.IsExpr

	case curType == token.BraceL:
		if c.braceIsBlock(prevType, lineBreakSincePrev) {
			c.push(ctxBStat)
		} else {
			c.push(ctxBExpr)
		}
		c.exprAllowed = true

	case curType == token.DollarBraceL || curType == token.TemplateMid:
		c.push(ctxBTmpl)
		c.exprAllowed = true

	case curType == token.ParenL:
		statementParens := prevType == token.KwIf || prevType == token.KwFor ||
			prevType == token.KwWith || prevType == token.KwWhile
		if statementParens {
			c.push(ctxPStat)
		} else {
			c.push(ctxPExpr)
		}
		c.exprAllowed = true

	case curType == token.IncDec:
		// no context change; handled by the tokenizer's own ASI logic

	case curType == token.KwFunction:
		c.updateFunctionContext(prevType, lineBreakSincePrev)

	case curType == token.KwClass:
		c.updateFunctionContext(prevType, lineBreakSincePrev)

	case curType == token.Backtick:
		if c.Current() == ctxQTmpl {
			c.pop()
		} else {
			c.push(ctxQTmpl)
		}
		c.exprAllowed = false

	case curType == token.TemplateTail:
		// The tail chunk already consumed the closing backtick (see
		// lexer.go's readTemplateChunk); close out the q_tmpl context
		// the opening backtick pushed.
		if c.Current() == ctxQTmpl {
			c.pop()
		}
		c.exprAllowed = false

	case curType == token.Star:
		if prevType == token.KwFunction {
			top := len(c.stack) - 1
			if c.stack[top] == ctxFExpr {
				c.stack[top] = ctxFExprGen
			} else {
				c.stack[top] = ctxFGen
			}
		}
		c.exprAllowed = true

	case curType == token.Name:
		c.updateNameContext(prevType, curName, ecmaVersion)

	default:
		c.exprAllowed = token.Lookup(curType).BeforeExpr
	}
}

// updateFunctionContext implements update_function_context /
// update_class_context: `function`/`class` opens either an f_expr or an
// f_stat context depending on what can legally precede it.
func (c *ContextStack) updateFunctionContext(prevType token.Type, lineBreakSincePrev bool) {
	prevInfo := token.Lookup(prevType)
	parent := c.Current()
	expressionPosition := prevInfo.BeforeExpr &&
		prevType != token.KwElse &&
		!(prevType == token.Semi && parent != ctxPStat) &&
		!(prevType == token.KwReturn && lineBreakSincePrev) &&
		!((prevType == token.Colon || prevType == token.BraceL) && parent == ctxBStat)
	if expressionPosition {
		c.push(ctxFExpr)
	} else {
		c.push(ctxFStat)
	}
	c.exprAllowed = false
}

// updateNameContext implements update_name_context: `of` in a
// non-expression position, or `yield` inside a generator, re-opens
// expression position (so the token that follows — typically a regex
// or unary minus — is read correctly).
func (c *ContextStack) updateNameContext(prevType token.Type, curName string, ecmaVersion int) {
	allowed := false
	if ecmaVersion >= 6 && prevType != token.Dot {
		if curName == "of" && !c.exprAllowed {
			allowed = true
		} else if curName == "yield" && c.InGeneratorContext() {
			allowed = true
		}
	}
	c.exprAllowed = allowed
}

// OverrideCurrent replaces the top context unconditionally — the
// parser-level escape hatch for positions the tokenizer cannot
// disambiguate on its own (spec.md §4.2's override_context), e.g. after
// parsing `async` the parser knows whether `function` that follows
// starts a statement or an expression in a way the bare token stream
// does not.
func (c *ContextStack) OverrideCurrent(ctx Context) {
	if len(c.stack) == 0 || !sameContext(c.Current(), ctx) {
		c.stack[len(c.stack)-1] = ctx
	}
}
