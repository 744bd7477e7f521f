package esparse_test

import (
	"testing"

	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/token"

	"github.com/funvibe/esparse"
)

func TestParseReturnsAProgram(t *testing.T) {
	root, err := esparse.Parse("let x = 1;", esparse.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != ast.Program || len(root.Body) != 1 {
		t.Fatalf("got %+v", root)
	}
}

func TestParseDefaultsEcmaVersionAndSourceType(t *testing.T) {
	// Options{} must behave like EcmaVersion: 13, SourceType: "script".
	root, err := esparse.Parse("var x = 1;", esparse.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Body[0].Kind != ast.VariableDeclaration {
		t.Fatalf("got %+v", root.Body[0])
	}
}

func TestParseSurfacesARecoverableError(t *testing.T) {
	_, err := esparse.Parse("let x; let x;", esparse.Options{})
	if err == nil {
		t.Fatal("expected a redeclaration error")
	}
	var perr *esparse.Error
	if !asError(err, &perr) {
		t.Fatalf("expected *esparse.Error, got %T", err)
	}
	if perr.Message == "" {
		t.Fatal("expected a non-empty diagnostic message")
	}
}

func TestParseAcceptsModuleSourceType(t *testing.T) {
	_, err := esparse.Parse("var x = 1;", esparse.Options{SourceType: "module"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenizeYieldsTokensWithoutParsing(t *testing.T) {
	it, err := esparse.Tokenize("let x = 1;", esparse.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []token.Type
	for {
		tok := it.Next()
		got = append(got, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []token.Type{token.KwLet, token.Name, token.Eq, token.Num, token.Semi, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("token %d: got %s, want %s", i, got[i], w)
		}
	}
	if it.Err() != nil {
		t.Fatalf("unexpected tokenizing error: %v", it.Err())
	}
}

func TestTokenizeReportsErrViaIterator(t *testing.T) {
	it, err := esparse.Tokenize(`"unterminated`, esparse.Options{})
	if err != nil {
		t.Fatalf("unexpected error from Tokenize itself: %v", err)
	}
	for {
		tok := it.Next()
		if tok.Type == token.EOF {
			break
		}
	}
	if it.Err() == nil {
		t.Fatal("expected the iterator to surface the unterminated-string error")
	}
}

func TestValidateRegExpAcceptsAValidPattern(t *testing.T) {
	if err := esparse.ValidateRegExp("abc", "gi", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRegExpRejectsDuplicateFlags(t *testing.T) {
	if err := esparse.ValidateRegExp("abc", "gg", 0); err == nil {
		t.Fatal("expected an error for a duplicate flag")
	}
}

func TestParseRejectsSourceBeyondMaxSourceBytes(t *testing.T) {
	_, err := esparse.Parse("var x = 1;", esparse.Options{MaxSourceBytes: 4})
	if err == nil {
		t.Fatal("expected an error for source exceeding MaxSourceBytes")
	}
}

func TestParseAllowsSourceWithinMaxSourceBytes(t *testing.T) {
	_, err := esparse.Parse("var x = 1;", esparse.Options{MaxSourceBytes: 4096})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRegExpRejectsUnicodeFlagBelowVersion6(t *testing.T) {
	if err := esparse.ValidateRegExp("abc", "u", 5); err == nil {
		t.Fatal("expected the `u` flag to be rejected below ecmaVersion 6")
	}
}

// asError reports whether err's concrete type is *esparse.Error, storing
// it through target on success.
func asError(err error, target **esparse.Error) bool {
	e, ok := err.(*esparse.Error)
	if ok {
		*target = e
	}
	return ok
}
