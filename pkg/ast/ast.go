// Package ast defines the annotated syntax tree handed to the code generator.
//
// The tree is the output of semantic analysis, which is a separate
// collaborator: every variable occurrence arrives with its lexical nesting
// distance and frame slot already resolved, and every call site with the
// caller's and callee's nesting depths and the callee's mangled name.
package ast

// NodeKind defines the kind of a node in the AST
type NodeKind int

// Node kinds enum
const (
	// Value expressions
	Number NodeKind = iota
	Char
	String
	VarRef
	BinaryOp
	UnaryOp
	Call

	// Boolean conditions
	BoolLit
	Not
	Relation
	Logic

	// Statements
	Assign
	If
	While
	Return
	Block
	Empty

	// Declarations
	FuncDecl
	VarDecl
	Param
)

// Op identifies an arithmetic, relational, or logical operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Rem
	Neg
	Plus

	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	And
	Or
)

// Node represents a node in the annotated syntax tree
type Node struct {
	Kind NodeKind
	Data interface{}
}

// TypeKind defines the kind of a Type
type TypeKind int

// Type kinds enum
const (
	TYPE_INT TypeKind = iota
	TYPE_BYTE
	TYPE_ARRAY
	TYPE_STRING
	TYPE_VOID
)

// Type represents a PAL value type. The language's type set is closed:
// int, byte, fixed-size arrays of either scalar, and void for procedures.
// TYPE_STRING exists only for runtime primitive signatures; user code
// reaches strings through byte arrays.
type Type struct {
	Kind TypeKind
	Base *Type // element type for arrays
	Len  int64 // element count for arrays
}

// Pre-defined types
var (
	TypeInt    = &Type{Kind: TYPE_INT}
	TypeByte   = &Type{Kind: TYPE_BYTE}
	TypeString = &Type{Kind: TYPE_STRING}
	TypeVoid   = &Type{Kind: TYPE_VOID}
)

// NewArrayType returns a fixed-size array type over a scalar element type.
func NewArrayType(base *Type, n int64) *Type {
	return &Type{Kind: TYPE_ARRAY, Base: base, Len: n}
}

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool { return t != nil && t.Kind == TYPE_ARRAY }

// IsScalar reports whether t is int or byte.
func (t *Type) IsScalar() bool {
	return t != nil && (t.Kind == TYPE_INT || t.Kind == TYPE_BYTE)
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TYPE_INT:
		return "int"
	case TYPE_BYTE:
		return "byte"
	case TYPE_STRING:
		return "string"
	case TYPE_VOID:
		return "void"
	case TYPE_ARRAY:
		return "array of " + t.Base.String()
	}
	return "<unknown>"
}

// --- Node Data Structs ---

type NumberNode struct{ Value int64 }
type CharNode struct{ Value byte }
type StringNode struct{ Value string }

// VarRefNode is a variable occurrence, fully resolved by semantic analysis.
// Hops is the number of access-link hops from the frame of the function the
// occurrence appears in to the frame of the declaring function (0 = local).
// Slot is the position among the declaring function's parameters and locals,
// in declaration order; the frame field index is Slot+1 because field 0 of
// every frame is the access link.
type VarRefNode struct {
	Name    string
	Hops    int
	Slot    int
	IsParam bool
	ByRef   bool
	Typ     *Type
	Index   *Node // subscript, arrays only
}

type BinaryOpNode struct {
	Op   Op
	Typ  *Type // static type of both operands and the result
	L, R *Node
}
type UnaryOpNode struct {
	Op   Op
	Typ  *Type
	Expr *Node
}

// CallNode is a call site. Callee is the mangled, globally unique name.
// CallerDepth and CalleeDepth are the lexical nesting depths recorded by
// semantic analysis (outermost function = 0).
type CallNode struct {
	Callee      string
	CallerDepth int
	CalleeDepth int
	Args        []*Node
}

type BoolLitNode struct{ Value bool }
type NotNode struct{ Cond *Node }
type RelationNode struct {
	Op   Op
	Typ  *Type // static type of both compared expressions
	L, R *Node
}
type LogicNode struct {
	Op   Op // And or Or, short-circuit
	L, R *Node
}

type AssignNode struct{ Lhs, Rhs *Node }
type IfNode struct{ Cond, Then, Else *Node }
type WhileNode struct{ Cond, Body *Node }
type ReturnNode struct{ Expr *Node }
type BlockNode struct{ Stmts []*Node }
type EmptyNode struct{}

type ParamNode struct {
	Name  string
	Typ   *Type
	ByRef bool
}
type VarDeclNode struct {
	Name string
	Typ  *Type
}

// FuncDeclNode is one function or procedure. Locals holds the ordered local
// declarations: VarDecl nodes contribute frame slots, nested FuncDecl nodes
// contribute none. Parent is the statically enclosing function; the
// outermost function is its own parent. Ret is nil for procedures.
type FuncDeclNode struct {
	Name   string
	Params []*Node
	Locals []*Node
	Body   *Node
	Ret    *Type
	Parent *Node
	Depth  int
}

// Program is one translation unit: a single outermost procedure whose
// Locals carry the whole nesting tree.
type Program struct {
	Root *Node
}

// --- Node Constructors ---

func newNode(kind NodeKind, data interface{}) *Node {
	return &Node{Kind: kind, Data: data}
}

func NewNumber(value int64) *Node {
	return newNode(Number, NumberNode{Value: value})
}
func NewChar(value byte) *Node {
	return newNode(Char, CharNode{Value: value})
}
func NewString(value string) *Node {
	return newNode(String, StringNode{Value: value})
}
func NewVarRef(name string, hops, slot int, isParam, byRef bool, typ *Type, index *Node) *Node {
	return newNode(VarRef, VarRefNode{
		Name: name, Hops: hops, Slot: slot, IsParam: isParam, ByRef: byRef, Typ: typ, Index: index,
	})
}
func NewBinaryOp(op Op, typ *Type, l, r *Node) *Node {
	return newNode(BinaryOp, BinaryOpNode{Op: op, Typ: typ, L: l, R: r})
}
func NewUnaryOp(op Op, typ *Type, expr *Node) *Node {
	return newNode(UnaryOp, UnaryOpNode{Op: op, Typ: typ, Expr: expr})
}
func NewCall(callee string, callerDepth, calleeDepth int, args []*Node) *Node {
	return newNode(Call, CallNode{Callee: callee, CallerDepth: callerDepth, CalleeDepth: calleeDepth, Args: args})
}
func NewBoolLit(value bool) *Node {
	return newNode(BoolLit, BoolLitNode{Value: value})
}
func NewNot(cond *Node) *Node {
	return newNode(Not, NotNode{Cond: cond})
}
func NewRelation(op Op, typ *Type, l, r *Node) *Node {
	return newNode(Relation, RelationNode{Op: op, Typ: typ, L: l, R: r})
}
func NewLogic(op Op, l, r *Node) *Node {
	return newNode(Logic, LogicNode{Op: op, L: l, R: r})
}
func NewAssign(lhs, rhs *Node) *Node {
	return newNode(Assign, AssignNode{Lhs: lhs, Rhs: rhs})
}
func NewIf(cond, then, els *Node) *Node {
	return newNode(If, IfNode{Cond: cond, Then: then, Else: els})
}
func NewWhile(cond, body *Node) *Node {
	return newNode(While, WhileNode{Cond: cond, Body: body})
}
func NewReturn(expr *Node) *Node {
	return newNode(Return, ReturnNode{Expr: expr})
}
func NewBlock(stmts []*Node) *Node {
	return newNode(Block, BlockNode{Stmts: stmts})
}
func NewEmpty() *Node {
	return newNode(Empty, EmptyNode{})
}
func NewParam(name string, typ *Type, byRef bool) *Node {
	return newNode(Param, ParamNode{Name: name, Typ: typ, ByRef: byRef})
}
func NewVarDecl(name string, typ *Type) *Node {
	return newNode(VarDecl, VarDeclNode{Name: name, Typ: typ})
}

// NewFuncDecl builds a function node. Parent is left nil; the caller links
// the nesting tree with SetParent, and NewProgram closes the root self-loop.
func NewFuncDecl(name string, params, locals []*Node, body *Node, ret *Type, depth int) *Node {
	return newNode(FuncDecl, FuncDeclNode{
		Name: name, Params: params, Locals: locals, Body: body, Ret: ret, Depth: depth,
	})
}

// SetParent records fn's statically enclosing function.
func SetParent(fn, parent *Node) {
	d := fn.Data.(FuncDeclNode)
	d.Parent = parent
	fn.Data = d
}

// NewProgram wraps the outermost procedure, making it its own parent.
func NewProgram(root *Node) *Program {
	SetParent(root, root)
	return &Program{Root: root}
}
