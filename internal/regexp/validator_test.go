package regexp

import (
	"testing"

	"github.com/funvibe/esparse/internal/diagnostics"
)

func validate(t *testing.T, pattern, flags string, ecmaVersion int) error {
	t.Helper()
	r := diagnostics.NewRaiser("/"+pattern+"/"+flags, "")
	return Validate(r, 0, ecmaVersion, pattern, flags)
}

func TestValidateFlags(t *testing.T) {
	cases := []struct {
		flags       string
		ecmaVersion int
		wantErr     bool
	}{
		{"", 5, false},
		{"gim", 5, false},
		{"y", 5, true},   // sticky needs ecma6
		{"y", 6, false},
		{"u", 6, false},
		{"s", 6, true},   // dotAll needs ecma9
		{"s", 9, false},
		{"d", 9, true},   // hasIndices needs ecma13
		{"d", 13, false},
		{"gg", 6, true},  // duplicate flag
		{"x", 13, true},  // unknown flag
		{"uv", 15, true}, // u and v are mutually exclusive
	}
	for _, c := range cases {
		err := validate(t, "a", c.flags, c.ecmaVersion)
		if (err != nil) != c.wantErr {
			t.Errorf("flags %q ecma%d: err=%v, wantErr=%v", c.flags, c.ecmaVersion, err, c.wantErr)
		}
	}
}

func TestValidPatterns(t *testing.T) {
	patterns := []string{
		`abc`,
		`a|b|c`,
		`a*b+c?`,
		`a{1,3}`,
		`[abc]`,
		`[^abc]`,
		`[a-z]`,
		`(abc)`,
		`(?:abc)`,
		`(?=abc)`,
		`(?!abc)`,
		`(?<=abc)`,
		`(?<!abc)`,
		`(?<name>abc)\k<name>`,
		`\d\D\s\S\w\W`,
		`\bfoo\B`,
		`^abc$`,
		`\cA`,
		`\x41`,
		`A`,
		`\0`,
		`\1`,
		`(a)\1`,
	}
	for _, p := range patterns {
		if err := validate(t, p, "", 9); err != nil {
			t.Errorf("pattern %q: unexpected error: %v", p, err)
		}
	}
}

func TestValidPatternsUnicodeMode(t *testing.T) {
	patterns := []string{
		`a`,
		`\u{1F600}`,
		`[\u{1F600}-\u{1F64F}]`,
		`(?<greeting>hello)`,
		`\p{Letter}`,
		`\P{Letter}`,
		`\p{Script=Greek}`,
	}
	for _, p := range patterns {
		if err := validate(t, p, "u", 11); err != nil {
			t.Errorf("pattern %q (u flag): unexpected error: %v", p, err)
		}
	}
}

func TestInvalidPatterns(t *testing.T) {
	patterns := []struct {
		pattern string
		flags   string
	}{
		{`(abc`, ""},       // unterminated group
		{`abc)`, ""},       // stray close paren never reached by disjunction, caught by trailing pos check
		{`[abc`, ""},       // unterminated class
		{`a{2,1}`, ""},     // quantifier out of order
		{`\k<name>`, "u"},  // unresolved named backreference
		{`(a)\2`, "u"},     // backreference to a group that doesn't exist, strict under u
		{`(?<n>a)(?<n>b)`, ""}, // duplicate group name
		{`\p{Bogus}`, "u"}, // unknown property name
		{`a{`, "u"},        // incomplete quantifier, strict under u
	}
	for _, c := range patterns {
		if err := validate(t, c.pattern, c.flags, 13); err == nil {
			t.Errorf("pattern %q flags %q: expected error, got none", c.pattern, c.flags)
		}
	}
}

func TestSurrogatePairRoundTrip(t *testing.T) {
	cases := []int{0x1F600, 0x10000, 0x10FFFF, 0x1F64F}
	for _, cp := range cases {
		lead := rune(0xD800 + ((cp - 0x10000) >> 10))
		trail := rune(0xDC00 + ((cp - 0x10000) & 0x3FF))
		got := combineSurrogatePair(lead, trail)
		if got != cp {
			t.Errorf("surrogate round trip for U+%X: got U+%X", cp, got)
		}
	}
}
