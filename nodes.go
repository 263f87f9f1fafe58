package equations

import (
	"strconv"
	"strings"
)

// node is a node in the compiled tree of an equation.
type node struct {
	kind nodeKind

	// name is the variable or function name.
	name string
	// val is the value of a literal.
	val float64

	op  *operator
	bop *bracketOp
	jux func(a, b float64) float64

	args []*node
	// b is the shared bindings that variable and call nodes read from.
	b *bindings
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum     // push val
	nodeVar     // push lookup(name)
	nodeCall    // call funcs[name] with args
	nodeUnary   // prefix or postfix op on args[0]
	nodeNary    // infix op on args
	nodeBracket // bracketed op on args, possibly none
	nodeJuxt    // jux(args[0], args[1])
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

// eval computes the value of the node. Variables and functions are looked up
// anew on every call.
func (n *node) eval() float64 {
	switch n.kind {
	case nodeNum:
		return n.val
	case nodeVar:
		v, ok := n.b.vars[n.name]
		if !ok {
			panic("equations: variable " + strconv.Quote(n.name) + " missing at evaluation")
		}
		return v
	case nodeCall:
		fn := n.b.funcs[n.name]
		if fn == nil {
			panic("equations: function " + strconv.Quote(n.name) + " missing at evaluation")
		}
		return fn(n.evalargs())
	case nodeUnary, nodeNary:
		return n.op.fn(n.evalargs())
	case nodeBracket:
		return n.bop.fn(n.evalargs())
	case nodeJuxt:
		return n.jux(n.args[0].eval(), n.args[1].eval())
	default:
		panic("equations: invalid AST node " + n.kind.String())
	}
}

func (n *node) evalargs() []float64 {
	v := make([]float64, len(n.args))
	for i, a := range n.args {
		v[i] = a.eval()
	}
	return v
}

// vars adds the names of variables used in the tree to m.
func (n *node) vars(m map[string]bool) {
	if n.kind == nodeVar {
		m[n.name] = true
	}
	for _, a := range n.args {
		a.vars(m)
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$#$")
	case nodeNum:
		b.WriteString(strconv.FormatFloat(n.val, 'g', -1, 64))
	case nodeVar:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('[')
		n.fmtargs(b, ", ")
		b.WriteByte(']')
	case nodeUnary:
		if n.op.kind == opPrefix {
			b.WriteString(n.op.syms[0])
			n.args[0].fmt(b)
		} else {
			n.args[0].fmt(b)
			b.WriteString(n.op.syms[0])
		}
	case nodeNary:
		n.args[0].fmt(b)
		for i, a := range n.args[1:] {
			b.WriteByte(' ')
			b.WriteString(n.op.syms[i])
			b.WriteByte(' ')
			a.fmt(b)
		}
	case nodeBracket:
		b.WriteString(n.bop.open)
		n.fmtargs(b, ", ")
		b.WriteString(n.bop.close)
	case nodeJuxt:
		n.args[0].fmt(b)
		b.WriteByte(' ')
		n.args[1].fmt(b)
	default:
		panic("equations: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, sep string) {
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(sep)
		}
		a.fmt(b)
	}
}
