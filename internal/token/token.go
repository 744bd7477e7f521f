// Package token is the catalogue of lexical categories the tokenizer
// produces: the TokenType registry (§4.1 of the spec) plus the keyword
// table the identifier lexer consults.
package token

// Type is a stable, comparable identity for a lexical category. Unlike
// the teacher's language (where TokenType is the literal spelling),
// ECMAScript keywords are each their own Type so that the parser can
// switch on Type alone.
type Type int

const (
	EOF Type = iota

	// Literals and names.
	Name
	PrivateName
	Num
	BigInt
	String
	Regexp
	TemplateChunk // cooked+raw pair held in Token.Value
	TemplateStart // '`' opening a template
	TemplateTail  // '`' closing a template / chunk after '}'
	TemplateMid   // '${' following a template chunk

	// Punctuation.
	BracketL     // [
	BracketR     // ]
	BraceL       // {
	BraceR       // }
	ParenL       // (
	ParenR       // )
	Comma
	Semi
	Colon
	Dot
	Question
	QuestionDot  // ?.
	Arrow        // =>
	Ellipsis     // ...
	DollarBraceL // ${
	Backtick

	// Assignment.
	Eq       // =
	AssignOp // compound assignment, e.g. +=, &&=, ??=

	// Unary / update.
	IncDec // ++ --
	Prefix // ! ~
	Plus
	Minus

	// Binary operators (precedence carried on the Info, 1..11 per spec §4.1).
	LogicalOR         // ||
	NullishCoalescing // ??
	LogicalAND        // &&
	BitwiseOR         // |
	BitwiseXOR        // ^
	BitwiseAND        // &
	Equality          // == != === !==
	Relational        // < > <= >= (instanceof and in are KwInstanceof/KwIn)
	BitShift          // << >> >>>
	Modulo            // %
	Star              // *
	Slash             // /
	StarStar          // **

	// Keywords: each its own Type.
	KwBreak
	KwCase
	KwCatch
	KwContinue
	KwDebugger
	KwDefault
	KwDo
	KwElse
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwReturn
	KwSwitch
	KwThrow
	KwTry
	KwVar
	KwConst
	KwWhile
	KwWith
	KwNew
	KwThis
	KwSuper
	KwClass
	KwExtends
	KwExport
	KwImport
	KwNull
	KwTrue
	KwFalse
	KwIn
	KwInstanceof
	KwTypeof
	KwVoid
	KwDelete
	KwLet
	KwStatic
	KwAsync
	KwAwait
	KwYield
	KwOf
	KwGet
	KwSet
)

// Info carries the static attributes of a TokenType (spec.md §4.1).
type Info struct {
	Label            string
	BeforeExpr       bool // next token is parsed in expression-starting position
	StartsExpr       bool
	RightAssociative bool
	IsLoop           bool
	IsAssign         bool
	Prefix           bool
	Postfix          bool
	Binop            int // 0 = not a binary operator; otherwise precedence 1..11
	Keyword          string
}

var infoTable = map[Type]Info{
	EOF:           {Label: "eof"},
	Name:          {Label: "name", StartsExpr: true},
	PrivateName:   {Label: "privateId", StartsExpr: true},
	Num:           {Label: "num", StartsExpr: true},
	BigInt:        {Label: "bigint", StartsExpr: true},
	String:        {Label: "string", StartsExpr: true},
	Regexp:        {Label: "regexp", StartsExpr: true},
	TemplateChunk: {Label: "template", StartsExpr: true},
	TemplateStart: {Label: "`", StartsExpr: true},
	TemplateTail:  {Label: "`"},
	TemplateMid:   {Label: "${"},

	BracketL:     {Label: "[", BeforeExpr: true, StartsExpr: true},
	BracketR:     {Label: "]"},
	BraceL:       {Label: "{", BeforeExpr: true, StartsExpr: true},
	BraceR:       {Label: "}"},
	ParenL:       {Label: "(", BeforeExpr: true, StartsExpr: true},
	ParenR:       {Label: ")"},
	Comma:        {Label: ",", BeforeExpr: true},
	Semi:         {Label: ";", BeforeExpr: true},
	Colon:        {Label: ":", BeforeExpr: true},
	Dot:          {Label: "."},
	Question:     {Label: "?", BeforeExpr: true},
	QuestionDot:  {Label: "?."},
	Arrow:        {Label: "=>", BeforeExpr: true},
	Ellipsis:     {Label: "...", BeforeExpr: true, StartsExpr: true},
	DollarBraceL: {Label: "${", BeforeExpr: true, StartsExpr: true},
	Backtick:     {Label: "`", StartsExpr: true},

	Eq:       {Label: "=", BeforeExpr: true, IsAssign: true},
	AssignOp: {Label: "_=", BeforeExpr: true, IsAssign: true},

	IncDec: {Label: "++/--", Prefix: true, Postfix: true, StartsExpr: true},
	Prefix: {Label: "prefix", BeforeExpr: true, Prefix: true, StartsExpr: true},
	Plus:   {Label: "+/-", BeforeExpr: true, Binop: 9, Prefix: true, StartsExpr: true},
	Minus:  {Label: "+/-", BeforeExpr: true, Binop: 9, Prefix: true, StartsExpr: true},

	LogicalOR:         {Label: "||", BeforeExpr: true, Binop: 1},
	NullishCoalescing: {Label: "??", BeforeExpr: true, Binop: 1},
	LogicalAND:        {Label: "&&", BeforeExpr: true, Binop: 2},
	BitwiseOR:          {Label: "|", BeforeExpr: true, Binop: 3},
	BitwiseXOR:         {Label: "^", BeforeExpr: true, Binop: 4},
	BitwiseAND:         {Label: "&", BeforeExpr: true, Binop: 5},
	Equality:           {Label: "==/!=", BeforeExpr: true, Binop: 6},
	Relational:         {Label: "</>", BeforeExpr: true, Binop: 7},
	BitShift:           {Label: "<</>>", BeforeExpr: true, Binop: 8},
	Modulo:             {Label: "%", BeforeExpr: true, Binop: 10},
	Star:               {Label: "*", BeforeExpr: true, Binop: 10},
	Slash:              {Label: "/", BeforeExpr: true, Binop: 10},
	StarStar:           {Label: "**", BeforeExpr: true, Binop: 11, RightAssociative: true},
}

var keywordSpelling = map[Type]string{
	KwBreak: "break", KwCase: "case", KwCatch: "catch", KwContinue: "continue",
	KwDebugger: "debugger", KwDefault: "default", KwDo: "do", KwElse: "else",
	KwFinally: "finally", KwFor: "for", KwFunction: "function", KwIf: "if",
	KwReturn: "return", KwSwitch: "switch", KwThrow: "throw", KwTry: "try",
	KwVar: "var", KwConst: "const", KwWhile: "while", KwWith: "with",
	KwNew: "new", KwThis: "this", KwSuper: "super", KwClass: "class",
	KwExtends: "extends", KwExport: "export", KwImport: "import",
	KwNull: "null", KwTrue: "true", KwFalse: "false", KwIn: "in",
	KwInstanceof: "instanceof", KwTypeof: "typeof", KwVoid: "void",
	KwDelete: "delete", KwLet: "let", KwStatic: "static", KwAsync: "async",
	KwAwait: "await", KwYield: "yield", KwOf: "of", KwGet: "get", KwSet: "set",
}

var keywordBeforeExpr = map[Type]bool{
	KwReturn: true, KwCase: true, KwDo: true, KwElse: true, KwIn: true,
	KwInstanceof: true, KwTypeof: true, KwVoid: true, KwDelete: true,
	KwNew: true, KwThrow: true, KwYield: true, KwAwait: true, KwOf: true,
}

var keywordStartsExpr = map[Type]bool{
	KwThis: true, KwSuper: true, KwNull: true, KwTrue: true, KwFalse: true,
	KwFunction: true, KwClass: true, KwNew: true, KwImport: true,
	KwTypeof: true, KwVoid: true, KwDelete: true, KwYield: true, KwAwait: true,
}

// keywords maps a keyword spelling to its token Type.
var keywords map[string]Type

func init() {
	keywords = make(map[string]Type, len(keywordSpelling))
	for t, spelling := range keywordSpelling {
		binop := 0
		if t == KwInstanceof || t == KwIn {
			binop = 7
		}
		infoTable[t] = Info{
			Label:      spelling,
			Keyword:    spelling,
			BeforeExpr: keywordBeforeExpr[t],
			StartsExpr: keywordStartsExpr[t],
			Binop:      binop,
		}
		keywords[spelling] = t
	}
}

// Lookup returns the static Info for t.
func Lookup(t Type) Info { return infoTable[t] }

// LookupKeyword returns the keyword Type for ident and true if ident is
// in the keyword table (reserved words and the contextual words that
// have their own Type); otherwise the zero Type and false.
func LookupKeyword(ident string) (Type, bool) {
	t, ok := keywords[ident]
	return t, ok
}

// IsAssign reports whether t is '=' or a compound assignment.
func IsAssign(t Type) bool { return infoTable[t].IsAssign }

// String implements fmt.Stringer for debugging/diagnostics formatting.
func (t Type) String() string {
	if info, ok := infoTable[t]; ok && info.Label != "" {
		return info.Label
	}
	return "unknown"
}
