package model

// Node is a syntax tree node handed to the walker by a frontend. The set of
// implementations is closed: only types in this package satisfy it.
type Node interface {
	Extent() Span
	node()
}

// SyntaxFile is the root of a parsed source file.
type SyntaxFile struct {
	Path  Path
	Nodes []Node
}

// Function is a function, method or closure definition.
type Function struct {
	Name string
	Span Span
	Body []Node
}

// Statement is any statement-level node. Children holds its sub-expressions
// and nested constructs in source order.
type Statement struct {
	Span     Span
	Children []Node
}

// Conditional is a two-way conditional. Else is nil, a *Block, or another
// *Conditional for chained else-if forms.
type Conditional struct {
	Span   Span
	Header []Node
	Cond   Node
	Then   *Block
	Else   Node
}

// Block is a braced statement list without coverage meaning of its own.
type Block struct {
	Span Span
	Body []Node
}

// Arm is one case of a multi-arm conditional.
type Arm struct {
	Span     Span
	Patterns []Node
	Body     []Node
}

// Match is a multi-arm conditional. Scrutinee may be nil (tagless switch, select).
type Match struct {
	Span      Span
	Header    []Node
	Scrutinee Node
	Arms      []Arm
}

// LoopKind distinguishes loop forms.
type LoopKind int

const (
	// LoopCounted iterates a counter or a collection.
	LoopCounted LoopKind = iota + 1
	// LoopConditioned checks its condition before each iteration.
	LoopConditioned
	// LoopPostChecked runs its body before any exit check.
	LoopPostChecked
)

// String returns the tree-document name of the loop kind.
func (k LoopKind) String() string {
	switch k {
	case LoopCounted:
		return "counted"
	case LoopConditioned:
		return "conditioned"
	case LoopPostChecked:
		return "post-checked"
	default:
		return "unknown"
	}
}

// Loop is any loop construct. Header holds init/condition/post or range parts.
type Loop struct {
	Kind   LoopKind
	Span   Span
	Header []Node
	Body   []Node
}

// MacroCall is a macro or builtin invocation in statement or expression position.
type MacroCall struct {
	Name string
	Span Span
	Args []Node
}

// LogicalOp is a short-circuit boolean operator.
type LogicalOp string

// Short-circuit operators.
const (
	LogicalAnd LogicalOp = "&&"
	LogicalOr  LogicalOp = "||"
)

// Logical is a binary boolean expression. Only && and || produce coverage points.
type Logical struct {
	Op    LogicalOp
	Span  Span
	Left  Node
	Right Node
}

// Expr is a structural expression whose children may contain coverage points.
type Expr struct {
	Span     Span
	Children []Node
}

// Other is a node the frontend could not classify. The walker skips it.
type Other struct {
	Kind string
	Span Span
}

// Extent implements Node.
func (n *Function) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Statement) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Conditional) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Block) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Match) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Loop) Extent() Span { return n.Span }

// Extent implements Node.
func (n *MacroCall) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Logical) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Expr) Extent() Span { return n.Span }

// Extent implements Node.
func (n *Other) Extent() Span { return n.Span }

func (*Function) node()    {}
func (*Statement) node()   {}
func (*Conditional) node() {}
func (*Block) node()       {}
func (*Match) node()       {}
func (*Loop) node()        {}
func (*MacroCall) node()   {}
func (*Logical) node()     {}
func (*Expr) node()        {}
func (*Other) node()       {}
