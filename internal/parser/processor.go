package parser

import (
	"github.com/funvibe/esparse/internal/diagnostics"
	"github.com/funvibe/esparse/internal/pipeline"
)

// Processor is the parser pipeline stage: it drives a fresh Parser over
// ctx.TokenStream into ctx.AstRoot. Grounded on the teacher's
// ParserProcessor.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.TokenStream == nil {
		r := diagnostics.NewRaiser(ctx.SourceCode, ctx.Options.SourceFile)
		ctx.AddError(r.InternalError(0, "parser: token stream is nil"))
		return ctx
	}

	p := New(ctx.TokenStream, ctx)
	ctx.AstRoot = p.Parse()

	if err := ctx.TokenStream.Err(); err != nil {
		if diagErr, ok := err.(*diagnostics.Error); ok {
			ctx.AddError(diagErr)
		} else {
			ctx.AddError(p.raiser.InternalError(0, err.Error()))
		}
	}

	return ctx
}
