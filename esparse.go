// Package esparse is the public entry point: a small, Acorn-style
// ECMAScript tokenizer/parser/regex-validator core (spec.md §1). It
// wires internal/lexer and internal/parser into a two-stage
// internal/pipeline.Pipeline and exposes three functions — Parse,
// Tokenize, ValidateRegExp — plus the Options and Error types those
// take and return.
//
// Grounded on the teacher's root-level public surface (funxy exposes
// its own Parse/pipeline-construction helpers the same way, one stage
// per concern, composed by internal/pipeline.New).
package esparse

import (
	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/diagnostics"
	"github.com/funvibe/esparse/internal/lexer"
	"github.com/funvibe/esparse/internal/parser"
	"github.com/funvibe/esparse/internal/pipeline"
	"github.com/funvibe/esparse/internal/regexp"
	"github.com/funvibe/esparse/internal/token"
)

// EcmaVersion selects which edition's grammar/flag set applies (spec.md
// §4.1's version gates: `u`/`y` at 6, `s` at 9, `d` at 13).
type EcmaVersion int

// Options configures a parse, tokenize, or regex-validation call
// (spec.md §6).
type Options struct {
	// EcmaVersion defaults to 13 (the newest the core understands) when
	// zero.
	EcmaVersion EcmaVersion

	// SourceType is "script" (default) or "module"; module sources run
	// in strict mode and get undefined-export tracking (spec.md §4.6).
	SourceType string

	// Locations requests that every Node carry a line/column
	// SourceLocation rather than only byte offsets.
	Locations bool

	// SourceFile labels diagnostics with a file name; optional.
	SourceFile string

	// MaxSourceBytes, when non-zero, rejects Parse/Tokenize inputs
	// longer than this many bytes before a single token is read.
	MaxSourceBytes int

	// PreserveParens requests that parenthesized expressions keep their
	// own ParenthesizedExpression wrapper node rather than being
	// collapsed into the expression they enclose (spec.md §6); off by
	// default, matching acorn's preserveParens option.
	PreserveParens bool
}

func (o Options) toPipelineOptions() pipeline.Options {
	v := int(o.EcmaVersion)
	if v == 0 {
		v = 13
	}
	sourceType := o.SourceType
	if sourceType == "" {
		sourceType = "script"
	}
	return pipeline.Options{
		EcmaVersion:    v,
		SourceType:     sourceType,
		Locations:      o.Locations,
		SourceFile:     o.SourceFile,
		PreserveParens: o.PreserveParens,
	}
}

// Error wraps internal/diagnostics.Error for the public surface (spec.md
// §7): every fallible entry point below returns one on failure rather
// than panicking.
type Error struct {
	Kind    diagnostics.Kind
	Message string
	Pos     int
	Loc     Position
	Source  string

	inner *diagnostics.Error
}

// Position is a 1-based line, 0-based column pair (spec.md §3).
type Position struct {
	Line   int
	Column int
}

func (e *Error) Error() string { return e.inner.Error() }

// Unwrap exposes the underlying *diagnostics.Error for callers that want
// to inspect the full diagnostic (e.g. its ParseID).
func (e *Error) Unwrap() error { return e.inner }

// checkSourceSize rejects source before the pipeline runs at all when it
// exceeds opts.MaxSourceBytes, reporting the limit and the actual size
// in human-readable form.
func checkSourceSize(source string, opts Options) *Error {
	if opts.MaxSourceBytes <= 0 || len(source) <= opts.MaxSourceBytes {
		return nil
	}
	raiser := diagnostics.NewRaiser(source, opts.SourceFile)
	msg := "source (" + diagnostics.FormatSourceSize(len(source)) + ") exceeds MaxSourceBytes (" +
		diagnostics.FormatSourceSize(opts.MaxSourceBytes) + ")"
	return wrapError(raiser.Raise(0, msg))
}

func wrapError(err *diagnostics.Error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:    err.Kind,
		Message: err.Message,
		Pos:     err.Pos,
		Loc:     Position{Line: err.Loc.Line, Column: err.Loc.Column},
		Source:  err.Source,
		inner:   err,
	}
}

// Parse runs the full lexer → parser pipeline over source and returns
// the resulting Program node. Parsing continues past recoverable errors
// (spec.md §7); the first one encountered, if any, is returned alongside
// whatever tree was built.
func Parse(source string, opts Options) (*ast.Node, error) {
	if err := checkSourceSize(source, opts); err != nil {
		return nil, err
	}

	popts := opts.toPipelineOptions()
	ctx := pipeline.NewContext(source, popts)

	pl := pipeline.New(&lexer.Processor{}, &parser.Processor{})
	ctx = pl.Run(ctx)

	if len(ctx.Errors) > 0 {
		return ctx.AstRoot, wrapError(ctx.Errors[0])
	}
	return ctx.AstRoot, nil
}

// TokenIterator drains a tokenized source one token at a time,
// implementing the lexer's pipeline.TokenStream shape (spec.md §6) for
// callers that want tokens without a full parse.
type TokenIterator struct {
	stream pipeline.TokenStream
}

// Next returns the next token, or a token.EOF-typed Token once the
// source is exhausted.
func (it *TokenIterator) Next() token.Token { return it.stream.Next() }

// Err returns the first tokenizing error encountered, or nil.
func (it *TokenIterator) Err() error { return it.stream.Err() }

// Tokenize scans source into a TokenIterator without parsing it.
func Tokenize(source string, opts Options) (*TokenIterator, error) {
	if err := checkSourceSize(source, opts); err != nil {
		return nil, err
	}

	popts := opts.toPipelineOptions()
	t := lexer.New(source, popts.EcmaVersion, popts.SourceFile)
	return &TokenIterator{stream: lexer.NewTokenStream(t)}, nil
}

// ValidateRegExp checks pattern/flags against the regular-expression
// grammar of spec.md §4.4 for the given version, without constructing a
// Node — the same validation a Regexp token undergoes during tokenizing
// (internal/lexer.Tokenizer.readRegexp), exposed standalone for callers
// that only have a pattern/flags pair (e.g. from a template string built
// at runtime).
func ValidateRegExp(source, flags string, version EcmaVersion) error {
	v := int(version)
	if v == 0 {
		v = 13
	}
	raiser := diagnostics.NewRaiser(source, "")
	if err := regexp.Validate(raiser, 0, v, source, flags); err != nil {
		if diagErr, ok := err.(*diagnostics.Error); ok {
			return wrapError(diagErr)
		}
		return err
	}
	return nil
}
