// Package lval implements the left-value / binding converter and
// checker of spec.md §4.5: rewriting a tentatively-parsed expression
// into a destructuring pattern when it is used as an assignment or
// binding target, and validating every syntactic rule that applies to
// that target.
//
// Grounded on original_source/crates/parser/src/lval.rs (to_assignable /
// to_assignable_list) for the conversion half; the check_lval_* half
// follows spec.md §4.5's rule text directly, since the excerpted source
// revisions available in original_source do not carry that function
// under this name.
package lval

import (
	"regexp"

	"github.com/funvibe/esparse/internal/ast"
	"github.com/funvibe/esparse/internal/diagnostics"
	"github.com/funvibe/esparse/internal/scope"
)

// DestructuringErrors holds sticky positions recorded during speculative
// expression parsing (spec.md §3). -1 means unset.
type DestructuringErrors struct {
	ShorthandAssign    int
	TrailingComma      int
	ParenthesizedAssign int
	ParenthesizedBind  int
	DoubleProto        int
}

// NewDestructuringErrors returns a DestructuringErrors with every field
// unset.
func NewDestructuringErrors() *DestructuringErrors {
	return &DestructuringErrors{-1, -1, -1, -1, -1}
}

// Host is the subset of parser state the lval surface needs from its
// owner: the EcmaVersion gate, the async-function predicate used by the
// `await`-as-identifier check, strict-mode tracking, the error-raising
// entry point, and the scope stack `check_lval_simple` declares names
// into. internal/parser implements Host; this package never imports
// internal/parser, avoiding an import cycle.
type Host interface {
	EcmaVersion() int
	InAsyncFunction() bool
	Strict() bool
	Raiser() *diagnostics.Raiser
	Scopes() *scope.Stack
}

// reservedWordsStrictBind lists the identifiers forbidden as binding
// targets in strict mode (spec.md §4.5's
// reserved_words_strict_bind_regex): the strict-mode reserved words plus
// "eval" and "arguments".
var reservedWordsStrictBind = regexp.MustCompile(`^(?:implements|interface|let|package|private|protected|public|static|yield|eval|arguments)$`)

// checkPatternErrors consumes destructuringErrors.TrailingComma, the one
// position ToAssignable's Object/Array cases check (spec.md §8 scenario
// 4): a rest element followed by another element parses cleanly as an
// expression, so the comma after the RestElement is recorded rather than
// rejected on the spot, and only raised once the containing literal is
// actually converted into a pattern.
func checkPatternErrors(r *diagnostics.Raiser, destructuringErrors *DestructuringErrors) error {
	if destructuringErrors == nil || destructuringErrors.TrailingComma < 0 {
		return nil
	}
	pos := destructuringErrors.TrailingComma
	destructuringErrors.TrailingComma = -1
	return r.RaiseRecoverable(pos, "Comma is not permitted after the rest element")
}

// ToAssignable recursively rewrites node into a pattern if it is used as
// an assignment (isBinding=false) or binding (isBinding=true) target,
// per spec.md §4.5. destructuringErrors, if non-nil, is checked via
// checkPatternErrors at the object/array boundary — the recursive calls
// below always pass nil further in, since the sticky position lives on
// the one shared struct the caller threaded in, not per recursion depth.
func ToAssignable(h Host, node *ast.Node, isBinding bool, destructuringErrors *DestructuringErrors) error {
	r := h.Raiser()

	if h.EcmaVersion() < 6 {
		return nil
	}

	switch node.Kind {
	case ast.Identifier:
		if h.InAsyncFunction() && node.Name == "await" {
			return r.Raise(node.Start, "Cannot use 'await' as identifier inside an async function")
		}

	case ast.ObjectExpression:
		if err := checkPatternErrors(r, destructuringErrors); err != nil {
			return err
		}
		node.Kind = ast.ObjectPattern
		for _, prop := range node.Properties {
			if err := ToAssignable(h, prop, isBinding, nil); err != nil {
				return err
			}
			if prop.Kind == ast.RestElement && prop.Argument != nil {
				if prop.Argument.Kind == ast.ArrayPattern || prop.Argument.Kind == ast.ObjectPattern {
					return r.Raise(prop.Argument.Start, "Unexpected token")
				}
			}
		}

	case ast.Property:
		if node.PropKind != "" && node.PropKind != ast.PropInit {
			if node.Key != nil {
				return r.Raise(node.Key.Start, "Object pattern can't contain getter or setter")
			}
		}
		if node.PropValue != nil {
			if err := ToAssignable(h, node.PropValue, isBinding, nil); err != nil {
				return err
			}
		}

	case ast.ArrayExpression:
		if err := checkPatternErrors(r, destructuringErrors); err != nil {
			return err
		}
		node.Kind = ast.ArrayPattern
		if err := ToAssignableList(h, node.Elements, isBinding); err != nil {
			return err
		}

	case ast.SpreadElement:
		node.Kind = ast.RestElement
		if node.Argument != nil {
			if err := ToAssignable(h, node.Argument, isBinding, nil); err != nil {
				return err
			}
			if node.Argument.Kind == ast.AssignmentPattern {
				return r.Raise(node.Argument.Start, "Rest elements cannot have a default value")
			}
		}

	case ast.AssignmentExpression:
		if node.Operator != "=" {
			return r.Raise(node.Left.End, "Only '=' operator can be used for specifying default value.")
		}
		node.Kind = ast.AssignmentPattern
		node.Operator = ""
		if err := ToAssignable(h, node.Left, isBinding, nil); err != nil {
			return err
		}

	case ast.ParenthesizedExpression:
		if node.Expression != nil {
			return ToAssignable(h, node.Expression, isBinding, destructuringErrors)
		}

	case ast.ChainExpression:
		return r.RaiseRecoverable(node.Start, "Optional chaining cannot appear in left-hand side")

	default:
		if !ast.IsPattern(node.Kind) && !(node.Kind == ast.MemberExpression && isBinding) {
			return r.Raise(node.Start, "Assigning to rvalue")
		}
	}
	return nil
}

// ToAssignableList applies ToAssignable to every element of nodes, then
// — for ecma_version exactly 6 in binding mode — enforces that a
// trailing RestElement's argument is a plain Identifier.
func ToAssignableList(h Host, nodes []*ast.Node, isBinding bool) error {
	for _, n := range nodes {
		if n == nil {
			continue // array hole (elision)
		}
		if err := ToAssignable(h, n, isBinding, nil); err != nil {
			return err
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	last := nodes[len(nodes)-1]
	if last != nil && h.EcmaVersion() == 6 && isBinding && last.Kind == ast.RestElement {
		if last.Argument == nil || last.Argument.Kind != ast.Identifier {
			pos := last.Start
			if last.Argument != nil {
				pos = last.Argument.Start
			}
			return h.Raiser().Raise(pos, "Unexpected token")
		}
	}
	return nil
}

// CheckLvalSimple validates node as a target allowing only identifiers,
// member expressions, and parenthesized expressions (spec.md §4.5).
// checkClashes, if non-nil, collects names seen so far in the current
// binding list so that a duplicate can be reported before DeclareName
// runs.
func CheckLvalSimple(h Host, node *ast.Node, bindType scope.BindKind, checkClashes map[string]bool) error {
	r := h.Raiser()

	switch node.Kind {
	case ast.Identifier:
		if h.Strict() && reservedWordsStrictBind.MatchString(node.Name) {
			word := "Assigning to"
			if bindType != scope.BindNone {
				word = "Binding"
			}
			return r.RaiseRecoverable(node.Start, word+" "+node.Name+" in strict mode")
		}
		if bindType == scope.BindLexical && node.Name == "let" {
			return r.RaiseRecoverable(node.Start, "let is disallowed as a lexically bound name")
		}
		if checkClashes != nil {
			if checkClashes[node.Name] {
				return r.RaiseRecoverable(node.Start, "Argument name clash")
			}
			checkClashes[node.Name] = true
		}
		if bindType != scope.BindOutside {
			if err := h.Scopes().DeclareName(node.Name, bindType, node.Start); err != nil {
				return r.RaiseRecoverable(node.Start, err.Error())
			}
		}

	case ast.ChainExpression:
		return r.RaiseRecoverable(node.Start, "Optional chaining cannot appear in left-hand side")

	case ast.MemberExpression:
		if bindType != scope.BindNone {
			return r.Raise(node.Start, "Binding member expression")
		}

	case ast.ParenthesizedExpression:
		if bindType != scope.BindNone {
			return r.Raise(node.Start, "Binding parenthesized expression")
		}
		return CheckLvalSimple(h, node.Expression, bindType, checkClashes)

	default:
		word := "Binding rvalue"
		if bindType == scope.BindNone {
			word = "Assigning to rvalue"
		}
		return r.Raise(node.Start, word)
	}
	return nil
}

// CheckLvalPattern validates node as a full pattern target: object/array
// patterns recurse per-slot via CheckLvalInnerPattern; anything else
// delegates to CheckLvalSimple (spec.md §4.5).
func CheckLvalPattern(h Host, node *ast.Node, bindType scope.BindKind, checkClashes map[string]bool) error {
	switch node.Kind {
	case ast.ObjectPattern:
		for _, prop := range node.Properties {
			if err := CheckLvalInnerPattern(h, prop, bindType, checkClashes); err != nil {
				return err
			}
		}
		return nil

	case ast.ArrayPattern:
		for _, el := range node.Elements {
			if el == nil {
				continue
			}
			if err := CheckLvalInnerPattern(h, el, bindType, checkClashes); err != nil {
				return err
			}
		}
		return nil

	default:
		return CheckLvalSimple(h, node, bindType, checkClashes)
	}
}

// CheckLvalInnerPattern dispatches a pattern-interior node per spec.md
// §4.5: a Property recurses on its value, an AssignmentPattern on its
// left, a RestElement on its argument, anything else goes through
// CheckLvalPattern.
func CheckLvalInnerPattern(h Host, node *ast.Node, bindType scope.BindKind, checkClashes map[string]bool) error {
	switch node.Kind {
	case ast.Property:
		return CheckLvalInnerPattern(h, node.PropValue, bindType, checkClashes)
	case ast.AssignmentPattern:
		return CheckLvalPattern(h, node.Left, bindType, checkClashes)
	case ast.RestElement:
		return CheckLvalPattern(h, node.Argument, bindType, checkClashes)
	default:
		return CheckLvalPattern(h, node, bindType, checkClashes)
	}
}
