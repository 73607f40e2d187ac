package tick

import "fmt"

// Kind tags every variant a Node can hold. The tree is a single
// tagged-variant type rather than a class hierarchy: analysis and emission
// both switch on Kind instead of relying on dynamic dispatch, so adding a
// node shape never requires touching an interface definition.
type Kind int

const (
	// Type variants.
	KNamedType Kind = iota
	KPointerType
	KArrayType
	KFunctionType
	KOptionalType
	KErrorUnionType
	KSliceType

	// Expression variants.
	KIntLit
	KUintLit
	KBoolLit
	KStringLit
	KNullLit
	KUndefinedLit
	KIdentifier
	KUnary
	KBinary
	KCall
	KIndex
	KFieldAccess
	KCast
	KStructInit
	KArrayInit
	KEnumValueRef
	KOptionalUnwrap

	// Statement / declaration variants.
	KBlock
	KIf
	KFor
	KSwitch
	KSwitchCase
	KReturn
	KExprStmt
	KBreak
	KContinue
	KGoto
	KLabel
	KDecl
	KParam
	KFieldDecl // struct/union field declaration
	KEnumDecl
	KEnumValue
	KStructDecl
	KUnionDecl
	KFunctionDecl
	KModule
)

func (k Kind) String() string {
	names := [...]string{
		"NamedType", "PointerType", "ArrayType", "FunctionType", "OptionalType",
		"ErrorUnionType", "SliceType",
		"IntLit", "UintLit", "BoolLit", "StringLit", "NullLit", "UndefinedLit",
		"Identifier", "Unary", "Binary", "Call", "Index", "FieldAccess", "Cast",
		"StructInit", "ArrayInit", "EnumValueRef", "OptionalUnwrap",
		"Block", "If", "For", "Switch", "SwitchCase", "Return", "ExprStmt",
		"Break", "Continue", "Goto", "Label", "Decl", "Param", "FieldDecl",
		"EnumDecl", "EnumValue", "StructDecl", "UnionDecl", "FunctionDecl", "Module",
	}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Flags is a bit-set of compiler-tracked node properties.
type Flags uint8

const (
	FlagSynthetic Flags = 1 << iota // compiler-generated, not from source
	FlagAnalyzed
	FlagLowered
	FlagTemporary // compiler-allocated slot, not user-named
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// QualFlags is the qualifier bit-set recorded on a Decl node (spec §3.2).
type QualFlags uint8

const (
	QualPub QualFlags = 1 << iota
	QualExtern
	QualStatic
	QualVolatile
	QualVar // unset means `let` (immutable)
	QualForwardDecl
)

func (q QualFlags) Has(bit QualFlags) bool { return q&bit != 0 }

// BuiltinOp is the semantic operation tag an arithmetic node carries after
// analysis, independent of the surface operator spelling (spec §3.3).
type BuiltinOp int

const (
	OpNone BuiltinOp = iota

	OpSatAdd
	OpSatSub
	OpSatMul
	OpSatDiv

	OpWrapAdd
	OpWrapSub
	OpWrapMul
	OpWrapDiv

	OpCheckedAdd
	OpCheckedSub
	OpCheckedMul
	OpCheckedDiv
	OpCheckedMod
	OpCheckedShl
	OpCheckedShr
	OpCheckedNeg

	OpCheckedCast
)

// SurfaceOp is the operator as written in source, before the analyzer maps
// it (together with the resolved type) onto a BuiltinOp.
type SurfaceOp int

const (
	OpAdd SurfaceOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpNeg
	OpBitNot
	OpNot
	OpAddrOf
	OpDeref
	OpOrElse
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLogAnd
	OpLogOr
)

// CastStrategy selects how a cast lowers to C (spec §4.8).
type CastStrategy int

const (
	CastBare CastStrategy = iota
	CastChecked
)

// Node is the single tagged-variant tree type. Every node carries a
// position, a kind, intrusive sibling links with an O(1)-append tail
// cache held by the owning list, and a small flag set. The payload fields
// below are a union in spirit: only the fields relevant to Kind are
// meaningful for any given node, matching the C source's per-kind data
// union rather than a class hierarchy (spec §9).
type Node struct {
	Kind  Kind
	Pos   Pos
	Flags Flags

	Next, Prev *Node // intrusive sibling list; nil when not linked

	// ---- type variants ----
	// Name doubles as: NamedType name, Identifier name, Decl/StructDecl/
	// EnumDecl/UnionDecl/FunctionDecl name (carried on the owning Decl),
	// Param name, FieldDecl name, EnumValue name, Label name, Goto target.
	Name      string
	Builtin   BuiltinTag
	TypeEntry *TypeEntry
	Elem      *Node // PointerType/ArrayType/SliceType/OptionalType element, ErrorUnionType ok-type
	ErrType   *Node // ErrorUnionType error-type
	SizeExpr  *Node // ArrayType size expression (reduced to literal post-analysis)
	Params    *NodeList
	Ret       *Node // FunctionType return type

	// ---- expression variants ----
	IntVal      int64  // IntLit/UintLit/BoolLit value
	StrVal      string // StringLit value
	Symbol      *Symbol
	NeedsPrefix bool // Identifier.needs_user_prefix

	SurfOp       SurfaceOp
	Op           BuiltinOp
	ResolvedType *Node
	Lhs, Rhs     *Node // binary operands, assignment sides, index{array,idx}
	Operand      *Node // unary operand, cast source, optionalUnwrap operand

	CastStrategy CastStrategy
	RuntimeFunc  string // checked-cast/checked-op runtime helper name

	Callee *Node
	Args   *NodeList

	Object      *Node // field access / index base
	FieldName   string
	ObjectIsPtr bool
	ParentDecl  *Node // enum-value back-pointer to its enum decl

	InitFields *NodeList // struct-init field list (each a name/value pair)
	InitElems  *NodeList // array-init element list

	// ---- statement / decl variants ----
	Body      *NodeList // block statements
	Cond      *Node     // if/for condition
	Then      *Node     // if then-branch
	Else      *Node     // if else-branch (always a block post-analysis)
	ForInit   *Node
	ForStep   *Node
	SwitchVal *Node
	Cases     *NodeList // switch cases
	CaseVals  *NodeList // case values (nil/empty means default)
	RetExpr   *Node

	DeclType QualFlags
	VarType  *Node // declared/inferred type
	Init     *Node // initializer expression or func/struct/enum/union decl
	TempID   int   // 0 for user names

	Underlying *Node     // enum underlying type
	Values     *NodeList // enum values, ordered

	Fields  *NodeList // struct/union fields, ordered
	Align   *Node     // optional alignment literal
	Packed  bool
	TagType *Node // union tag type reference (enum NamedType)

	Decls *NodeList // module-level declarations, ordered

	// per-declaration analysis bookkeeping, valid on KDecl nodes whose
	// Init is a function/struct/enum/union, or on plain var/let decls.
	analysis *declInfo
}

// NodeList is an intrusive doubly-linked list of sibling Nodes with an
// O(1)-append tail cache, per spec §3.1's tree-ordering invariant. A plain
// slice would work too, but analysis repeatedly splices synthesized nodes
// (temporaries, forward-decl stubs, flattened initializer assignments)
// into the middle of these lists, which a slice would make O(n) per
// insert; the intrusive links keep InsertBefore/Prepend O(1) for the
// lists that get walked and spliced during analysis (module decls, block
// statements, struct fields, enum values, call arguments).
type NodeList struct {
	head, tail *Node
	len        int
}

func (l *NodeList) Len() int { return l.len }

func (l *NodeList) Head() *Node { return l.head }

// Append adds n to the end of the list in O(1) using the tail cache.
func (l *NodeList) Append(n *Node) {
	n.Prev, n.Next = l.tail, nil
	if l.tail != nil {
		l.tail.Next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.len++
}

// InsertBefore splices n immediately before at, maintaining the tail
// cache. at must be nil (append) or a node currently in the list.
func (l *NodeList) InsertBefore(n, at *Node) {
	if at == nil {
		l.Append(n)
		return
	}
	n.Prev = at.Prev
	n.Next = at
	if at.Prev != nil {
		at.Prev.Next = n
	} else {
		l.head = n
	}
	at.Prev = n
	l.len++
}

// Prepend adds n to the front of the list in O(1).
func (l *NodeList) Prepend(n *Node) {
	if l.head == nil {
		l.Append(n)
		return
	}
	l.InsertBefore(n, l.head)
}

// PrependList splices another list's nodes, in order, to the front of l.
func (l *NodeList) PrependList(other *NodeList) {
	if other == nil || other.len == 0 {
		return
	}
	if l.head == nil {
		l.head, l.tail, l.len = other.head, other.tail, other.len
		return
	}
	other.tail.Next = l.head
	l.head.Prev = other.tail
	l.head = other.head
	l.len += other.len
}

// Slice materializes the list into a fresh slice for callers that want
// random access or need to range with an index.
func (l *NodeList) Slice() []*Node {
	out := make([]*Node, 0, l.len)
	for n := l.head; n != nil; n = n.Next {
		out = append(out, n)
	}
	return out
}

func NewNodeList(items ...*Node) *NodeList {
	l := &NodeList{}
	for _, it := range items {
		l.Append(it)
	}
	return l
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s@%s", n.Kind, n.Pos)
}
