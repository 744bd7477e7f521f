// Package ast defines the syntax-tree node shape of spec.md §3. Unlike
// the teacher's language (one Go type per node kind behind a Visitor
// interface), spec.md models Node as a single flat record whose Kind
// determines which child slots are meaningful — so this package follows
// the spec literally: one Node struct, optional child-slot fields, no
// type hierarchy.
package ast

import "github.com/funvibe/esparse/internal/location"

// Kind is the closed enumeration of node kinds reachable from the
// lval/assignability surface this module implements (spec.md §3). A
// complete ESTree would carry many more (IfStatement, CallExpression,
// ...); those belong to the full expression/statement parser that
// spec.md places out of scope, and are represented opaquely by
// OpaqueExpression/OpaqueStatement where the parser layer needs a
// placeholder child.
type Kind int

const (
	Invalid Kind = iota

	Identifier
	PrivateIdentifier
	Literal
	ThisExpression
	Super

	ObjectExpression
	ObjectPattern
	ArrayExpression
	ArrayPattern
	Property
	SpreadElement
	RestElement
	AssignmentExpression
	AssignmentPattern
	MemberExpression
	ChainExpression
	ParenthesizedExpression

	// Opaque placeholders: a real sub-tree produced by the (out-of-scope)
	// full expression/statement parser, kept only so that lval
	// conversion sees something in a child slot when a fuller parser is
	// layered on top.
	OpaqueExpression
	OpaqueStatement

	Program
	ExpressionStatement
	VariableDeclaration
	VariableDeclarator
	BlockStatement
	FunctionExpression
	FunctionDeclaration
)

func (k Kind) String() string {
	names := map[Kind]string{
		Invalid: "Invalid", Identifier: "Identifier", PrivateIdentifier: "PrivateIdentifier",
		Literal: "Literal", ThisExpression: "ThisExpression", Super: "Super",
		ObjectExpression: "ObjectExpression", ObjectPattern: "ObjectPattern",
		ArrayExpression: "ArrayExpression", ArrayPattern: "ArrayPattern",
		Property: "Property", SpreadElement: "SpreadElement", RestElement: "RestElement",
		AssignmentExpression: "AssignmentExpression", AssignmentPattern: "AssignmentPattern",
		MemberExpression: "MemberExpression", ChainExpression: "ChainExpression",
		ParenthesizedExpression: "ParenthesizedExpression",
		OpaqueExpression:        "OpaqueExpression", OpaqueStatement: "OpaqueStatement",
		Program: "Program", ExpressionStatement: "ExpressionStatement",
		VariableDeclaration: "VariableDeclaration", VariableDeclarator: "VariableDeclarator",
		BlockStatement: "BlockStatement", FunctionExpression: "FunctionExpression",
		FunctionDeclaration: "FunctionDeclaration",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// PropertyKind distinguishes a Property node's role (spec.md §4.5:
// "if kind != init, object pattern must not contain getter/setter").
type PropertyKind string

const (
	PropInit   PropertyKind = "init"
	PropGet    PropertyKind = "get"
	PropSet    PropertyKind = "set"
	PropMethod PropertyKind = "method"
)

// Node is the single concrete syntax-tree node type (spec.md §3). Every
// non-root node satisfies Start <= End and [Start,End] is contained in
// its parent's; a node's Kind determines which of the fields below are
// meaningful.
type Node struct {
	Kind Kind

	Start int
	End   int
	Loc   *location.SourceLocation // nil unless Options.Locations
	Range *[2]int                  // not populated by the parser; always nil

	Source string // populated from Options.SourceFile when set

	// Identifier / Literal.
	Name  string
	Value interface{} // literal value; nil for non-literals

	// Shared binary/assignment slots.
	Left     *Node
	Right    *Node
	Operator string

	// Unary/spread/rest/paren/chain wrapper slots.
	Argument   *Node
	Expression *Node

	// Member expression.
	Object   *Node
	Property *Node
	Computed bool
	Optional bool // ?. on this link; ChainExpression wraps the outermost

	// Object/array literal & pattern slots.
	Properties []*Node
	Elements   []*Node // array elements; nil slice entries are elisions

	// Property node slots.
	Key         *Node
	PropValue   *Node
	PropKind    PropertyKind
	Shorthand   bool
	Method      bool

	// Program / statement container slots.
	Body []*Node
}

// StartNode creates a node whose Kind and End are not yet known — the
// caller finishes it with FinishNode once the production completes
// (spec.md §3 lifecycle: "Nodes are created in start_node before their
// type is known").
func StartNode(start int) *Node {
	return &Node{Start: start}
}

// FinishNode sets Kind and End on n, completing it.
func FinishNode(n *Node, kind Kind, end int) *Node {
	n.Kind = kind
	n.End = end
	return n
}

// IsPattern reports whether kind is one of the four destructuring-target
// kinds (spec.md §3: "Pattern kinds ... appear only in positions
// reachable from an lval conversion").
func IsPattern(k Kind) bool {
	switch k {
	case ObjectPattern, ArrayPattern, AssignmentPattern, RestElement:
		return true
	default:
		return false
	}
}
