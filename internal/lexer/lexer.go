// Package lexer implements the tokenizer of spec.md §4.3: a hand-written
// scanner whose behavior at several points (template literals, `/` as
// division vs. regex, automatic semicolon insertion) depends on parser
// state carried alongside the character cursor — the TokenContextStack
// of context.go.
//
// Grounded on the teacher's internal/lexer/lexer.go: the readChar/
// peekChar cursor idiom and the big switch-on-current-character
// NextToken dispatch are kept; the character classification, number/
// string/template/regex grammars, and the context-sensitive
// disambiguation are all new, generalized from funxy's single-language
// lexical grammar to spec.md §4.1's ECMAScript one.
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/funvibe/esparse/internal/charclass"
	"github.com/funvibe/esparse/internal/diagnostics"
	"github.com/funvibe/esparse/internal/location"
	"github.com/funvibe/esparse/internal/regexp"
	"github.com/funvibe/esparse/internal/token"
)

// Tokenizer turns a source string into a stream of token.Token values.
// One Tokenizer is never shared between goroutines (spec.md §5).
type Tokenizer struct {
	Source      string
	EcmaVersion int

	pos int // byte offset of the read cursor

	Context *ContextStack

	raiser *diagnostics.Raiser

	// The just-produced token.
	Cur token.Token

	// prevType/prevEnd describe the token before Cur, which Update and
	// the ASI logic both need.
	prevType token.Type
	prevEnd  int

	newlineBeforeCur bool
}

// New creates a Tokenizer over src. file is used only to label
// diagnostics (spec.md §4.7).
func New(src string, ecmaVersion int, file string) *Tokenizer {
	return &Tokenizer{
		Source:      src,
		EcmaVersion: ecmaVersion,
		Context:     NewContextStack(),
		raiser:      diagnostics.NewRaiser(src, file),
	}
}

func (t *Tokenizer) eof() bool { return t.pos >= len(t.Source) }

func (t *Tokenizer) peekRune() (rune, int) {
	if t.eof() {
		return -1, 0
	}
	return utf8.DecodeRuneInString(t.Source[t.pos:])
}

func (t *Tokenizer) peekByte() byte {
	if t.eof() {
		return 0
	}
	return t.Source[t.pos]
}

func (t *Tokenizer) peekByteAt(n int) byte {
	if t.pos+n >= len(t.Source) {
		return 0
	}
	return t.Source[t.pos+n]
}

func (t *Tokenizer) raise(pos int, msg string) error { return t.raiser.Raise(pos, msg) }

// NextToken scans and returns the next token, advancing the cursor and
// updating the context stack (spec.md §4.2/§4.3). It is the primary
// driver entry point outside template literals.
func (t *Tokenizer) NextToken() (token.Token, error) {
	prevType := t.Cur.Type
	prevEnd := t.Cur.End

	var newline bool
	if !t.Context.Current().PreserveSpace {
		var err error
		newline, err = t.skipSpace()
		if err != nil {
			return token.Token{}, err
		}
	}
	t.newlineBeforeCur = newline

	start := t.pos
	tok, err := t.readToken()
	if err != nil {
		return token.Token{}, err
	}
	tok.Start = start
	tok.End = t.pos
	tok.Loc.Start = toTokPos(location.Of(t.Source, start))
	tok.Loc.End = toTokPos(location.Of(t.Source, t.pos))

	curName, _ := tok.Value.(string)
	_, isKeyword := token.LookupKeyword(curName)
	t.Context.Update(prevType, tok.Type, newline, isKeyword, curName, t.EcmaVersion)

	t.prevType = prevType
	t.prevEnd = prevEnd
	t.Cur = tok
	return tok, nil
}

func toTokPos(p location.Position) token.Position {
	return token.Position{Line: p.Line, Column: p.Column}
}

// CanInsertSemicolon implements spec.md §4.3's ASI predicate: true if a
// line terminator preceded the current token, or the current token is
// `}` or EOF.
func (t *Tokenizer) CanInsertSemicolon() bool {
	return t.newlineBeforeCur || t.Cur.Type == token.BraceR || t.Cur.Type == token.EOF
}

// NewlineBeforeCurrent reports whether a line terminator separates the
// previous token from the current one.
func (t *Tokenizer) NewlineBeforeCurrent() bool { return t.newlineBeforeCur }

// --- whitespace and comments -----------------------------------------

func (t *Tokenizer) skipSpace() (sawNewline bool, err error) {
	for !t.eof() {
		r, w := t.peekRune()
		switch {
		case r == '\n' || r == '\r' || charclass.IsLineTerminator(r):
			sawNewline = true
			t.pos += w
		case charclass.IsWhiteSpace(r):
			t.pos += w
		case r == '/' && t.peekByteAt(1) == '/':
			t.pos += 2
			for !t.eof() {
				rr, ww := t.peekRune()
				if rr == '\n' || charclass.IsLineTerminator(rr) {
					break
				}
				t.pos += ww
			}
		case r == '/' && t.peekByteAt(1) == '*':
			start := t.pos
			t.pos += 2
			closed := false
			for !t.eof() {
				rr, ww := t.peekRune()
				if rr == '\n' || charclass.IsLineTerminator(rr) {
					sawNewline = true
				}
				if rr == '*' && t.peekByteAt(1) == '/' {
					t.pos += 2
					closed = true
					break
				}
				t.pos += ww
			}
			if !closed {
				return sawNewline, t.raise(start, "Unterminated comment")
			}
		default:
			return sawNewline, nil
		}
	}
	return sawNewline, nil
}

// --- main dispatch -----------------------------------------------------

func (t *Tokenizer) readToken() (token.Token, error) {
	if t.eof() {
		return token.Token{Type: token.EOF}, nil
	}

	cur := t.Context.Current()
	if cur == ctxQTmpl && t.peekByte() != '`' {
		return t.readTemplateChunk()
	}

	r, _ := t.peekRune()

	switch {
	case r == '"' || r == '\'':
		return t.readString(byte(r))
	case r == '`':
		t.pos++
		return token.Token{Type: token.Backtick}, nil
	case charclass.IsDecimalDigit(r):
		return t.readNumber()
	case r == '.' && charclass.IsDecimalDigit(rune(t.peekByteAt(1))):
		return t.readNumber()
	case charclass.IsIdentifierStart(r) || r == '\\':
		return t.readWord()
	case r == '#':
		return t.readPrivateName()
	case r == '/':
		return t.readSlash()
	default:
		return t.readPunctuator()
	}
}

// --- identifiers and keywords -----------------------------------------

func (t *Tokenizer) readWord() (token.Token, error) {
	name, containsEsc, err := t.readWordText()
	if err != nil {
		return token.Token{}, err
	}
	if kw, ok := token.LookupKeyword(name); ok {
		return token.Token{Type: kw, Value: name, ContainsEsc: containsEsc}, nil
	}
	return token.Token{Type: token.Name, Value: name, ContainsEsc: containsEsc}, nil
}

// readWordText reads an IdentifierName, accepting \uXXXX / \u{H+}
// escapes anywhere ID_Start/ID_Continue is legal (spec.md §4.1).
func (t *Tokenizer) readWordText() (string, bool, error) {
	var b strings.Builder
	first := true
	containsEsc := false
	for !t.eof() {
		if t.peekByte() == '\\' {
			start := t.pos
			t.pos++
			if t.peekByte() != 'u' {
				return "", false, t.raise(start, "Invalid identifier escape")
			}
			t.pos++
			cp, err := t.readUnicodeEscapeValue()
			if err != nil {
				return "", false, err
			}
			ok := charclass.IsIdentifierPart(rune(cp))
			if first {
				ok = charclass.IsIdentifierStart(rune(cp))
			}
			if !ok {
				return "", false, t.raise(start, "Invalid Unicode escape value in identifier")
			}
			b.WriteRune(rune(cp))
			containsEsc = true
			first = false
			continue
		}
		r, w := t.peekRune()
		ok := charclass.IsIdentifierPart(r)
		if first {
			ok = charclass.IsIdentifierStart(r)
		}
		if !ok {
			break
		}
		b.WriteRune(r)
		t.pos += w
		first = false
	}
	if b.Len() == 0 {
		return "", false, t.raise(t.pos, "Unexpected character")
	}
	return b.String(), containsEsc, nil
}

// readUnicodeEscapeValue reads the hex digits of \uXXXX or \u{H+} (the
// leading "\u" already consumed), combining a UTF-16 surrogate pair via
// funbit the same way internal/regexp does for regex pattern escapes.
func (t *Tokenizer) readUnicodeEscapeValue() (int, error) {
	if t.peekByte() == '{' {
		t.pos++
		start := t.pos
		for !t.eof() && t.peekByte() != '}' {
			t.pos++
		}
		text := t.Source[start:t.pos]
		if t.eof() || text == "" {
			return 0, t.raise(start, "Invalid Unicode escape sequence")
		}
		t.pos++ // '}'
		v, err := strconv.ParseInt(text, 16, 32)
		if err != nil || v > 0x10FFFF {
			return 0, t.raise(start, "Undefined Unicode code-point")
		}
		return int(v), nil
	}
	lead, ok := t.readFixedHex(4)
	if !ok {
		return 0, t.raise(t.pos, "Invalid Unicode escape sequence")
	}
	if lead >= 0xD800 && lead <= 0xDBFF && t.peekByte() == '\\' && t.peekByteAt(1) == 'u' {
		save := t.pos
		t.pos += 2
		trail, ok := t.readFixedHex(4)
		if ok && trail >= 0xDC00 && trail <= 0xDFFF {
			return combineSurrogatePair(rune(lead), rune(trail)), nil
		}
		t.pos = save
	}
	return lead, nil
}

func combineSurrogatePair(lead, trail rune) int {
	b := funbit.NewBuilder()
	funbit.AddInteger(b, int(lead), funbit.WithSize(16))
	funbit.AddInteger(b, int(trail), funbit.WithSize(16))
	bs, err := funbit.Build(b)
	if err != nil {
		return int(lead)
	}
	m := funbit.NewMatcher()
	var cp int
	funbit.UTF16(m, &cp)
	results, err := funbit.Match(m, bs)
	if err != nil || len(results) == 0 {
		return int(lead)
	}
	return cp
}

func (t *Tokenizer) readFixedHex(n int) (int, bool) {
	if t.pos+n > len(t.Source) {
		return 0, false
	}
	for i := 0; i < n; i++ {
		if !isHexByte(t.Source[t.pos+i]) {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(t.Source[t.pos:t.pos+n], 16, 32)
	if err != nil {
		return 0, false
	}
	t.pos += n
	return int(v), true
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (t *Tokenizer) readPrivateName() (token.Token, error) {
	t.pos++ // '#'
	name, _, err := t.readWordText()
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Type: token.PrivateName, Value: name}, nil
}

// --- numbers ------------------------------------------------------------

func (t *Tokenizer) readNumber() (token.Token, error) {
	start := t.pos
	isFloat := false

	if t.peekByte() == '0' && (t.peekByteAt(1) == 'x' || t.peekByteAt(1) == 'X') {
		t.pos += 2
		t.consumeWhile(isHexByte)
		return t.finishNumber(start, false, false)
	}
	if t.peekByte() == '0' && (t.peekByteAt(1) == 'o' || t.peekByteAt(1) == 'O') {
		t.pos += 2
		t.consumeWhile(func(c byte) bool { return c >= '0' && c <= '7' })
		return t.finishNumber(start, false, false)
	}
	if t.peekByte() == '0' && (t.peekByteAt(1) == 'b' || t.peekByteAt(1) == 'B') {
		t.pos += 2
		t.consumeWhile(func(c byte) bool { return c == '0' || c == '1' })
		return t.finishNumber(start, false, false)
	}

	t.consumeDecimalDigits()
	if t.peekByte() == '.' {
		isFloat = true
		t.pos++
		t.consumeDecimalDigits()
	}
	if t.peekByte() == 'e' || t.peekByte() == 'E' {
		isFloat = true
		t.pos++
		if t.peekByte() == '+' || t.peekByte() == '-' {
			t.pos++
		}
		t.consumeDecimalDigits()
	}
	return t.finishNumber(start, isFloat, true)
}

// maxSafeInteger is Number.MAX_SAFE_INTEGER: the largest integer a JS
// Number can hold without losing precision.
const maxSafeInteger = 1<<53 - 1

func (t *Tokenizer) consumeDecimalDigits() {
	t.consumeWhile(func(c byte) bool { return (c >= '0' && c <= '9') || c == '_' })
}

func (t *Tokenizer) consumeWhile(pred func(byte) bool) {
	for !t.eof() && pred(t.Source[t.pos]) {
		t.pos++
	}
}

func (t *Tokenizer) finishNumber(start int, isFloat, decimal bool) (token.Token, error) {
	if t.peekByte() == 'n' && !isFloat {
		text := t.Source[start:t.pos]
		t.pos++
		if charclass.IsIdentifierStart(rune(t.peekByte())) {
			return token.Token{}, t.raise(t.pos, "Identifier directly after number")
		}
		return token.Token{Type: token.BigInt, NumValue: strings.ReplaceAll(text, "_", "")}, nil
	}
	if charclass.IsIdentifierStart(rune(t.peekByte())) {
		return token.Token{}, t.raise(t.pos, "Identifier directly after number")
	}
	text := strings.ReplaceAll(t.Source[start:t.pos], "_", "")
	if decimal && !isFloat {
		if err := t.checkSafeInteger(start, text); err != nil {
			return token.Token{}, err
		}
	}
	return token.Token{Type: token.Num, NumValue: text}, nil
}

// checkSafeInteger reports a recoverable diagnostic when a plain
// decimal integer literal exceeds Number.MAX_SAFE_INTEGER, formatting
// the offending value with thousands separators so the message is
// legible for very large literals.
func (t *Tokenizer) checkSafeInteger(start int, text string) error {
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil || value > maxSafeInteger {
		display := text
		if err == nil {
			display = diagnostics.FormatLargeNumber(value)
		}
		return t.raise(start, "numeric literal "+display+" exceeds the safe integer range (Number.MAX_SAFE_INTEGER)")
	}
	return nil
}

// --- strings --------------------------------------------------------

func (t *Tokenizer) readString(quote byte) (token.Token, error) {
	start := t.pos
	t.pos++ // opening quote
	var b strings.Builder
	for {
		if t.eof() {
			return token.Token{}, t.raise(start, "Unterminated string constant")
		}
		c := t.Source[t.pos]
		if c == quote {
			t.pos++
			break
		}
		if c == '\n' || c == '\r' {
			return token.Token{}, t.raise(t.pos, "Unterminated string constant")
		}
		if c == '\\' {
			t.pos++
			if err := t.readEscapeSequence(&b); err != nil {
				return token.Token{}, err
			}
			continue
		}
		r, w := t.peekRune()
		b.WriteRune(r)
		t.pos += w
	}
	s := b.String()
	return token.Token{Type: token.String, Value: s}, nil
}

// readEscapeSequence reads one escape body (the leading backslash
// already consumed), appending its decoded text to b, per spec.md
// §4.3's string-escape grammar.
func (t *Tokenizer) readEscapeSequence(b *strings.Builder) error {
	if t.eof() {
		return t.raise(t.pos, "Unterminated string constant")
	}
	c := t.Source[t.pos]
	switch c {
	case 'n':
		b.WriteByte('\n')
		t.pos++
	case 't':
		b.WriteByte('\t')
		t.pos++
	case 'r':
		b.WriteByte('\r')
		t.pos++
	case 'b':
		b.WriteByte('\b')
		t.pos++
	case 'f':
		b.WriteByte('\f')
		t.pos++
	case 'v':
		b.WriteByte('\v')
		t.pos++
	case '0':
		if !charclass.IsDecimalDigit(rune(t.peekByteAt(1))) {
			b.WriteByte(0)
			t.pos++
			return nil
		}
		return t.raise(t.pos, "Octal literal in strict mode")
	case 'x':
		t.pos++
		v, ok := t.readFixedHex(2)
		if !ok {
			return t.raise(t.pos, "Invalid hexadecimal escape")
		}
		b.WriteRune(rune(v))
	case 'u':
		t.pos++
		v, err := t.readUnicodeEscapeValue()
		if err != nil {
			return err
		}
		b.WriteRune(rune(v))
	case '\r':
		t.pos++
		if t.peekByte() == '\n' {
			t.pos++
		}
	case '\n':
		t.pos++
	default:
		if charclass.IsLineTerminator(rune(c)) {
			_, w := t.peekRune()
			t.pos += w
			return nil
		}
		r, w := t.peekRune()
		b.WriteRune(r)
		t.pos += w
	}
	return nil
}

// --- regular expressions ----------------------------------------------

// readSlash disambiguates `/` as division vs. a regex literal opener
// using Context.ExprAllowed (spec.md §4.2/§4.3): the context stack
// tracks exactly this.
func (t *Tokenizer) readSlash() (token.Token, error) {
	if t.Context.ExprAllowed() {
		return t.readRegexp()
	}
	start := t.pos
	t.pos++
	if t.peekByte() == '=' {
		t.pos++
		return token.Token{Type: token.AssignOp, Value: t.Source[start:t.pos]}, nil
	}
	return token.Token{Type: token.Slash}, nil
}

func (t *Tokenizer) readRegexp() (token.Token, error) {
	start := t.pos
	t.pos++ // opening '/'
	inClass := false
	for {
		if t.eof() {
			return token.Token{}, t.raise(start, "Unterminated regular expression")
		}
		c := t.Source[t.pos]
		if c == '\n' || charclass.IsLineTerminator(rune(c)) {
			return token.Token{}, t.raise(start, "Unterminated regular expression")
		}
		if c == '\\' {
			t.pos += 2
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		}
		t.pos++
	}
	pattern := t.Source[start+1 : t.pos]
	t.pos++ // closing '/'

	flagsStart := t.pos
	for !t.eof() && charclass.IsIdentifierPart(rune(t.Source[t.pos])) {
		t.pos++
	}
	flags := t.Source[flagsStart:t.pos]

	if err := regexp.Validate(t.raiser, start, t.EcmaVersion, pattern, flags); err != nil {
		return token.Token{}, err
	}

	return token.Token{
		Type:  token.Regexp,
		Value: token.RegexpValue{Pattern: pattern, Flags: flags},
	}, nil
}

// --- template literals --------------------------------------------------

// readTemplateChunk reads template text up to the next `${` or the
// closing backtick (spec.md §4.3), called instead of the normal
// dispatch whenever the q_tmpl context is on top and the cursor is not
// looking at a backtick.
func (t *Tokenizer) readTemplateChunk() (token.Token, error) {
	start := t.pos
	var cooked strings.Builder
	invalid := false
	for {
		if t.eof() {
			return token.Token{}, t.raise(start, "Unterminated template")
		}
		c := t.Source[t.pos]
		if c == '`' {
			break
		}
		if c == '$' && t.peekByteAt(1) == '{' {
			break
		}
		if c == '\\' {
			t.pos++
			if err := t.readEscapeSequence(&cooked); err != nil {
				invalid = true
				// Consume to keep the cursor moving; a tagged template
				// may legally contain a bad escape (spec.md §4.3).
				if !t.eof() {
					t.pos++
				}
				continue
			}
			continue
		}
		if c == '\r' {
			cooked.WriteByte('\n')
			t.pos++
			if t.peekByte() == '\n' {
				t.pos++
			}
			continue
		}
		r, w := t.peekRune()
		cooked.WriteRune(r)
		t.pos += w
	}
	raw := t.Source[start:t.pos]
	val := token.TemplateValue{Raw: raw}
	if !invalid {
		s := cooked.String()
		val.Cooked = &s
	}

	if t.peekByte() == '`' {
		t.pos++
		return token.Token{Type: token.TemplateTail, Value: val}, nil
	}
	// c == '$' '{'
	t.pos += 2
	return token.Token{Type: token.TemplateMid, Value: val}, nil
}

// --- punctuators --------------------------------------------------------

type punct struct {
	text string
	typ  token.Type
}

// punctuators is tried longest-match-first (spec.md §4.1's maximal-munch
// rule for operators).
var punctuators = []punct{
	{"?.", token.QuestionDot}, // special-cased below to not swallow "?.5"
	{"...", token.Ellipsis},
	{"=>", token.Arrow},
	{"??=", token.AssignOp},
	{"??", token.NullishCoalescing},
	{"&&=", token.AssignOp},
	{"||=", token.AssignOp},
	{"&&", token.LogicalAND},
	{"||", token.LogicalOR},
	{"**=", token.AssignOp},
	{"**", token.StarStar},
	{"===", token.Equality},
	{"!==", token.Equality},
	{"==", token.Equality},
	{"!=", token.Equality},
	{"<=", token.Relational},
	{">=", token.Relational},
	{"<<=", token.AssignOp},
	{">>>=", token.AssignOp},
	{">>=", token.AssignOp},
	{"<<", token.BitShift},
	{">>>", token.BitShift},
	{">>", token.BitShift},
	{"+=", token.AssignOp},
	{"-=", token.AssignOp},
	{"*=", token.AssignOp},
	{"/=", token.AssignOp},
	{"%=", token.AssignOp},
	{"&=", token.AssignOp},
	{"|=", token.AssignOp},
	{"^=", token.AssignOp},
	{"++", token.IncDec},
	{"--", token.IncDec},
	{"<", token.Relational},
	{">", token.Relational},
	{"[", token.BracketL},
	{"]", token.BracketR},
	{"{", token.BraceL},
	{"}", token.BraceR},
	{"(", token.ParenL},
	{")", token.ParenR},
	{",", token.Comma},
	{";", token.Semi},
	{":", token.Colon},
	{".", token.Dot},
	{"?", token.Question},
	{"=", token.Eq},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Modulo},
	{"&", token.BitwiseAND},
	{"|", token.BitwiseOR},
	{"^", token.BitwiseXOR},
	{"~", token.Prefix},
	{"!", token.Prefix},
}

func (t *Tokenizer) readPunctuator() (token.Token, error) {
	if t.peekByte() == '?' && t.peekByteAt(1) == '.' && !charclass.IsDecimalDigit(rune(t.peekByteAt(2))) {
		t.pos += 2
		return token.Token{Type: token.QuestionDot}, nil
	}
	rest := t.Source[t.pos:]
	for _, p := range punctuators {
		if p.typ == token.QuestionDot {
			continue // handled above
		}
		if strings.HasPrefix(rest, p.text) {
			t.pos += len(p.text)
			return token.Token{Type: p.typ, Value: p.text}, nil
		}
	}
	return token.Token{}, t.raise(t.pos, "Unexpected character")
}
