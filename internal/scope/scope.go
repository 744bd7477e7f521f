// Package scope implements the nested scope stack of spec.md §4.6: it
// records identifier bindings, classifies them by BindKind, detects
// redeclarations, and collects module-level exports whose target was
// never declared.
//
// The nested table shape is grounded on the teacher's
// internal/symbols.SymbolTable (a *SymbolTable with an outer pointer,
// searched top-down on lookup); this package keeps the nesting, held as
// a slice of *Scope rather than outer pointers, and drops everything
// specific to funxy's trait/type-class system,
// since the ECMAScript core only needs var/lexical/function
// classification, not a type environment.
package scope

// Flag is a bitset over the scope attributes of spec.md §3.
type Flag uint16

const (
	FlagTop Flag = 1 << iota
	FlagFunction
	FlagAsync
	FlagGenerator
	FlagArrow
	FlagSimpleCatch
	FlagSuper
	FlagDirectSuper
	FlagClassStaticBlock
)

// FlagVar is the set of flags that make a scope a "hoisting scope" — the
// destination of `var` declarations (spec.md §3's VAR = TOP|FUNCTION|CLASS_STATIC_BLOCK).
const FlagVar = FlagTop | FlagFunction | FlagClassStaticBlock

func (f Flag) has(bit Flag) bool { return f&bit != 0 }

// BindKind is the closed set of binding classifications (spec.md §3).
type BindKind int

const (
	BindNone BindKind = iota
	BindVar
	BindLexical
	BindFunction
	BindSimpleCatch
	BindOutside
)

// Scope is one entry of the scope stack.
type Scope struct {
	Flags           Flag
	Var             []string
	Lexical         []string
	Functions       []string
	InClassFieldInit bool
}

func newScope(flags Flag) *Scope {
	return &Scope{Flags: flags}
}

func contains(xs []string, name string) bool {
	for _, x := range xs {
		if x == name {
			return true
		}
	}
	return false
}

// Stack is the parser's nested scope stack (spec.md §4.6). Scopes are
// pushed on function/block/class entry and popped on exit with LIFO
// discipline; a Stack is never shared between parsers (spec.md §5).
type Stack struct {
	scopes []*Scope

	// Module mode: declare_name removes names from UndefinedExports as
	// they are declared; CheckLocalExport adds names that are
	// referenced but never found declared in the module (top) scope.
	Module          bool
	UndefinedExports map[string]int // name -> first-reference start position
}

// NewStack creates an empty Stack. Module selects whether declare_name /
// CheckLocalExport track undefined-export bookkeeping.
func NewStack(module bool) *Stack {
	return &Stack{Module: module, UndefinedExports: make(map[string]int)}
}

// EnterScope pushes Scope(flags).
func (s *Stack) EnterScope(flags Flag) {
	s.scopes = append(s.scopes, newScope(flags))
}

// ExitScope pops the top scope. It panics if the stack is empty — a
// mismatched Enter/Exit pair is a parser bug (spec.md §4.6's LIFO
// discipline), not a malformed-input diagnosis.
func (s *Stack) ExitScope() {
	if len(s.scopes) == 0 {
		panic("scope: ExitScope on empty stack")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Current returns the innermost scope.
func (s *Stack) Current() *Scope { return s.scopes[len(s.scopes)-1] }

// Depth returns the number of scopes currently on the stack.
func (s *Stack) Depth() int { return len(s.scopes) }

// CurrentVarScope returns the nearest enclosing scope with FlagVar set —
// the hoisting destination for `var` (spec.md §4.6).
func (s *Stack) CurrentVarScope() *Scope {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].Flags.has(FlagVar) {
			return s.scopes[i]
		}
	}
	return nil
}

// CurrentThisScope returns the nearest enclosing scope with FlagVar set
// and FlagArrow unset — the scope `this`/`super`/`new.target` resolve
// against (spec.md §4.6).
func (s *Stack) CurrentThisScope() *Scope {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		sc := s.scopes[i]
		if sc.Flags.has(FlagVar) && !sc.Flags.has(FlagArrow) {
			return sc
		}
	}
	return nil
}

// treatFunctionsAsVar reports whether function declarations in sc behave
// like `var` for redeclaration purposes (spec.md §4.6's declare_name
// FUNCTION case).
func (s *Stack) treatFunctionsAsVar(sc *Scope) bool {
	return sc.Flags.has(FlagFunction) || (!s.Module && sc.Flags.has(FlagTop))
}

// RedeclareError is returned by DeclareName when name conflicts with an
// existing binding in the relevant scope.
type RedeclareError struct {
	Name string
}

func (e *RedeclareError) Error() string {
	return "Identifier '" + e.Name + "' has already been declared"
}

// DeclareName records name as bound with bindType at pos, per the rules
// of spec.md §4.6. pos is accepted but not used; DeclareName does not
// format positions into errors — that is the caller's job via
// diagnostics.Raiser.
func (s *Stack) DeclareName(name string, bindType BindKind, pos int) error {
	cur := s.Current()
	switch bindType {
	case BindLexical:
		if contains(cur.Lexical, name) || contains(cur.Functions, name) || contains(cur.Var, name) {
			return &RedeclareError{Name: name}
		}
		cur.Lexical = append(cur.Lexical, name)
		if s.Module && cur.Flags.has(FlagTop) {
			delete(s.UndefinedExports, name)
		}

	case BindSimpleCatch:
		cur.Lexical = append(cur.Lexical, name)

	case BindFunction:
		if s.treatFunctionsAsVar(cur) {
			if contains(cur.Lexical, name) {
				return &RedeclareError{Name: name}
			}
		} else if contains(cur.Lexical, name) || contains(cur.Var, name) {
			return &RedeclareError{Name: name}
		}
		cur.Functions = append(cur.Functions, name)

	case BindOutside:
		// No binding is recorded; used for names that resolve outside
		// the current function (spec.md §4.5's check_lval_simple).

	default: // BindVar
		for i := len(s.scopes) - 1; i >= 0; i-- {
			sc := s.scopes[i]
			simpleCatchException := sc.Flags.has(FlagSimpleCatch) && len(sc.Lexical) > 0 && sc.Lexical[0] == name
			if (contains(sc.Lexical, name) && !simpleCatchException) ||
				(!s.treatFunctionsAsVar(sc) && contains(sc.Functions, name)) {
				return &RedeclareError{Name: name}
			}
			sc.Var = append(sc.Var, name)
			if s.Module && sc.Flags.has(FlagTop) {
				delete(s.UndefinedExports, name)
			}
			if sc.Flags.has(FlagVar) {
				break
			}
		}
	}
	return nil
}

// CheckLocalExport records identifierName in UndefinedExports if the
// module (bottom-of-stack) scope does not contain it in either Lexical
// or Var (spec.md §4.6).
func (s *Stack) CheckLocalExport(identifierName string, pos int) {
	root := s.scopes[0]
	if !contains(root.Lexical, identifierName) && !contains(root.Var, identifierName) {
		s.UndefinedExports[identifierName] = pos
	}
}
