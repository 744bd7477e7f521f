package lexer

import (
	"testing"

	"github.com/funvibe/esparse/internal/token"
)

func tokenizeAll(t *testing.T, src string) []token.Token {
	t.Helper()
	tk := New(src, 13, "")
	var toks []token.Token
	for {
		tok, err := tk.NextToken()
		if err != nil {
			t.Fatalf("unexpected tokenizing error for %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestBasicPunctuatorsAndNames(t *testing.T) {
	toks := tokenizeAll(t, "let x = 1;")
	want := []token.Type{token.KwLet, token.Name, token.Eq, token.Num, token.Semi, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestDivisionVsRegexDisambiguation(t *testing.T) {
	// After a name, '/' starts a division.
	toks := tokenizeAll(t, "a / b")
	if toks[1].Type != token.Slash {
		t.Errorf("expected division after identifier, got %s", toks[1].Type)
	}

	// At the start of an expression statement, '/' starts a regex.
	toks = tokenizeAll(t, "/abc/g")
	if toks[0].Type != token.Regexp {
		t.Errorf("expected regexp literal, got %s", toks[0].Type)
	}
	v := toks[0].Value.(token.RegexpValue)
	if v.Pattern != "abc" || v.Flags != "g" {
		t.Errorf("got pattern=%q flags=%q, want abc/g", v.Pattern, v.Flags)
	}
}

func TestRegexpAfterReturnKeyword(t *testing.T) {
	// 'return' leaves the context stack expecting an expression, so '/'
	// after it must read as a regex, not a division (grounded on
	// original_source/crates/parser/src/token/context.rs's b_stat
	// handling of keywords).
	toks := tokenizeAll(t, "return /x/")
	if toks[1].Type != token.Regexp {
		t.Errorf("expected regexp after return, got %s", toks[1].Type)
	}
}

func TestTemplateLiteralWithInterpolation(t *testing.T) {
	toks := tokenizeAll(t, "`a${b}c`")
	if len(toks) < 2 {
		t.Fatalf("expected multiple tokens, got %v", toks)
	}
	// The stream must contain a Name token for `b` between the two
	// template chunks, and must end cleanly at EOF (no unbalanced
	// q_tmpl context left on the stack).
	sawName := false
	for _, tok := range toks {
		if tok.Type == token.Name {
			sawName = true
		}
	}
	if !sawName {
		t.Errorf("expected interpolated identifier token, got %v", toks)
	}
	if toks[len(toks)-1].Type != token.EOF {
		t.Errorf("expected stream to end at EOF, got %s", toks[len(toks)-1].Type)
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	tk := New(`"abc`, 13, "")
	_, err := tk.NextToken()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestInvalidRegexpFlagIsRejectedAtTokenizeTime(t *testing.T) {
	tk := New("/x/gg", 13, "")
	_, err := tk.NextToken()
	if err == nil {
		t.Fatal("expected a duplicate-flag error")
	}
}

func TestCanInsertSemicolon(t *testing.T) {
	tk := New("a\nb", 13, "")
	if _, err := tk.NextToken(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tk.NextToken(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tk.CanInsertSemicolon() {
		t.Fatalf("expected CanInsertSemicolon after a line break")
	}
}

func TestDecimalIntegerBeyondSafeRangeIsRejected(t *testing.T) {
	tk := New("9007199254740993", 13, "")
	if _, err := tk.NextToken(); err == nil {
		t.Fatal("expected a safe-integer-range error for a literal beyond MAX_SAFE_INTEGER")
	}
}

func TestHexLiteralBeyondSafeRangeIsNotRejected(t *testing.T) {
	// The safe-integer check only applies to plain decimal integer
	// literals; a hex literal of the same or greater magnitude is a
	// different representation and is left alone.
	tk := New("0xFFFFFFFFFFFFFFFF", 13, "")
	if _, err := tk.NextToken(); err != nil {
		t.Fatalf("unexpected error for a large hex literal: %v", err)
	}
}

func TestFloatBeyondSafeRangeIsNotRejected(t *testing.T) {
	tk := New("9007199254740993.0", 13, "")
	if _, err := tk.NextToken(); err != nil {
		t.Fatalf("unexpected error for a float literal: %v", err)
	}
}

func TestNumericAndStringLiterals(t *testing.T) {
	toks := tokenizeAll(t, `0x10 "hi" 'world'`)
	if toks[0].Type != token.Num || toks[0].NumValue != "0x10" {
		t.Errorf("got %+v, want hex literal 0x10", toks[0])
	}
	if toks[1].Type != token.String || toks[1].Value.(string) != "hi" {
		t.Errorf("got %+v, want string \"hi\"", toks[1])
	}
	if toks[2].Type != token.String || toks[2].Value.(string) != "world" {
		t.Errorf("got %+v, want string 'world'", toks[2])
	}
}
