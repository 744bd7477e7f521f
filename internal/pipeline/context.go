package pipeline

import (
	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/diagnostics"
)

// Options carries the subset of spec.md §6's Options record the core
// pipeline stages consult directly; the root esparse package owns the
// full public Options type and narrows it down to this one when it
// builds a Context.
type Options struct {
	EcmaVersion    int
	SourceType     string // "script" or "module"
	Locations      bool
	SourceFile     string
	PreserveParens bool // emit ParenthesizedExpression nodes (spec.md §6)
}

// Context is the value threaded through the lexer → parser pipeline
// stages (spec.md §3's parse lifecycle), generalized from the teacher's
// funxy-specific PipelineContext: SourceCode/TokenStream/AstRoot/Errors
// carry over unchanged in shape, Options replaces funxy's
// language-specific settings bag.
type Context struct {
	SourceCode string
	Options    Options

	TokenStream TokenStream
	AstRoot     *ast.Node
	Errors      []*diagnostics.Error
}

// NewContext creates a Context ready for the lexer stage.
func NewContext(source string, opts Options) *Context {
	return &Context{SourceCode: source, Options: opts}
}

// AddError appends err to Errors if non-nil; a nil err is a no-op so
// callers can write `ctx.AddError(maybeErr)` unconditionally.
func (c *Context) AddError(err *diagnostics.Error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}
