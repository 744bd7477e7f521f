package pipeline

import (
	"github.com/funvibe/esparse/internal/token"
)

// Processor is any component that can process a Context and return a
// (possibly the same) modified context. Grounded on the teacher's
// identical Processor interface.
type Processor interface {
	Process(ctx *Context) *Context
}

// TokenStream defines the contract for a buffered token stream between
// the lexer and parser stages. Grounded on the teacher's TokenStream,
// with one addition: Err, since internal/lexer.Tokenizer can fail
// mid-stream (a malformed escape, an unterminated string) and the
// interface needs a way to surface that without changing Next's
// signature away from the teacher's token-only contract.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token

	// Peek returns the next n tokens without consuming them.
	// If the stream has fewer than n tokens, it returns all remaining tokens.
	Peek(n int) []token.Token

	// Err returns the first tokenizing error encountered, or nil. Once
	// set, Next keeps returning an EOF token rather than panicking or
	// looping.
	Err() error
}
