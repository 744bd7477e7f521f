package pipeline_test

import (
	"testing"

	"github.com/funvibe/esparse/internal/lexer"
	"github.com/funvibe/esparse/internal/pipeline"
)

func TestPipelineRunsLexerStage(t *testing.T) {
	ctx := pipeline.NewContext("let x = 1;", pipeline.Options{EcmaVersion: 13, SourceType: "script"})

	pl := pipeline.New(&lexer.Processor{})
	out := pl.Run(ctx)

	if out.TokenStream == nil {
		t.Fatal("expected the lexer stage to populate TokenStream")
	}
	tok := out.TokenStream.Next()
	if tok.Type.String() == "" {
		t.Fatalf("expected a readable token type, got %+v", tok)
	}
}

func TestContextAddErrorIgnoresNil(t *testing.T) {
	ctx := pipeline.NewContext("", pipeline.Options{})
	ctx.AddError(nil)
	if len(ctx.Errors) != 0 {
		t.Fatalf("expected AddError(nil) to be a no-op, got %d errors", len(ctx.Errors))
	}
}
