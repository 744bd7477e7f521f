package lexer

import (
	"github.com/funvibe/esparse/internal/pipeline"
	"github.com/funvibe/esparse/internal/token"
)

const lookaheadBufferSize = 10

// bufferedLexer adapts a Tokenizer to pipeline.TokenStream, grounded on
// the teacher's identically-named type in internal/lexer/processor.go:
// same ring-buffer Peek/Next shape, generalized to carry the first
// tokenizing error instead of assuming NextToken cannot fail.
type bufferedLexer struct {
	t      *Tokenizer
	buffer []token.Token
	pos    int
	err    error
}

// NewTokenStream wraps t as a pipeline.TokenStream.
func NewTokenStream(t *Tokenizer) pipeline.TokenStream {
	return &bufferedLexer{t: t}
}

func (bl *bufferedLexer) next() token.Token {
	if bl.err != nil {
		return token.Token{Type: token.EOF}
	}
	tok, err := bl.t.NextToken()
	if err != nil {
		bl.err = err
		return token.Token{Type: token.EOF}
	}
	return tok
}

func (bl *bufferedLexer) Next() token.Token {
	if bl.pos < len(bl.buffer) {
		tok := bl.buffer[bl.pos]
		bl.pos++
		return tok
	}
	return bl.next()
}

func (bl *bufferedLexer) Peek(n int) []token.Token {
	if len(bl.buffer)-bl.pos == 0 {
		bl.buffer = append(bl.buffer, bl.next())
	}
	for len(bl.buffer)-bl.pos < n {
		last := bl.buffer[len(bl.buffer)-1]
		if last.Type == token.EOF {
			break
		}
		bl.buffer = append(bl.buffer, bl.next())
	}
	if bl.pos > lookaheadBufferSize {
		bl.buffer = bl.buffer[bl.pos:]
		bl.pos = 0
	}
	end := bl.pos + n
	if end > len(bl.buffer) {
		end = len(bl.buffer)
	}
	return bl.buffer[bl.pos:end]
}

func (bl *bufferedLexer) Err() error { return bl.err }

var _ pipeline.TokenStream = (*bufferedLexer)(nil)

// Processor is the lexer pipeline stage: it wires a fresh Tokenizer
// over ctx.SourceCode into ctx.TokenStream. Grounded on the teacher's
// LexerProcessor.
type Processor struct{}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	t := New(ctx.SourceCode, ctx.Options.EcmaVersion, ctx.Options.SourceFile)
	ctx.TokenStream = NewTokenStream(t)
	return ctx
}
