package equations

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Func is the implementation of a function, infix operator, or bracketed
// operator. It receives its evaluated arguments in order and must not retain
// args.
type Func func(args []float64) float64

// DefaultPrecedence is the precedence given to operators that don't set one.
const DefaultPrecedence = 100

type opKind int8

const (
	opInfix opKind = iota
	opPrefix
	opPostfix
)

// operator is a registered prefix, postfix, or infix operator. Affix
// operators have exactly one symbol. Infix operators have one symbol per gap
// between operands, so a binary operator has one symbol and a ternary
// operator like "a ? b : c" has two.
type operator struct {
	kind  opKind
	syms  []string
	prec  float64
	right bool
	fn    Func
}

func unaryFunc(f func(float64) float64) Func {
	return func(args []float64) float64 {
		return f(args[0])
	}
}

func binaryFunc(f func(a, b float64) float64) Func {
	return func(args []float64) float64 {
		return f(args[0], args[1])
	}
}

// clone copies an operator so a store does not observe later edits made
// through an Op handle.
func (op *operator) clone() *operator {
	r := *op
	r.syms = append([]string(nil), op.syms...)
	return &r
}

// bracketOp is an operator written as a pair of symbols around its operands,
// like |x| for absolute value.
type bracketOp struct {
	open, close string
	// multi indicates the operands are a separator-delimited list rather than
	// a single expression.
	multi bool
	// empty indicates that nothing between the symbols is a valid invocation.
	empty bool
	fn    Func
}

// assocGroup holds the operators of one precedence level which share an
// associativity, split by placement.
type assocGroup struct {
	right   bool
	infix   []*operator
	prefix  []*operator
	postfix []*operator
}

func (a *assocGroup) add(op *operator) {
	switch op.kind {
	case opInfix:
		a.infix = append(a.infix, op)
	case opPrefix:
		a.prefix = append(a.prefix, op)
	case opPostfix:
		a.postfix = append(a.postfix, op)
	default:
		panic("equations: unknown operator kind")
	}
}

// opGroup is the set of operators sharing one precedence. Either
// associativity may be absent.
type opGroup struct {
	prec  float64
	left  *assocGroup
	right *assocGroup
}

func (g *opGroup) add(op *operator) {
	if op.right {
		if g.right == nil {
			g.right = &assocGroup{right: true}
		}
		g.right.add(op)
		return
	}
	if g.left == nil {
		g.left = &assocGroup{}
	}
	g.left.add(op)
}

// groupOperators partitions ops by precedence. The groups are returned in
// ascending order of precedence, which is the order the parser splits them:
// the loosest-binding operators are found first at the outside of the
// equation.
func groupOperators(ops []*operator) []*opGroup {
	m := treemap.NewWith(utils.Float64Comparator)
	for _, op := range ops {
		v, ok := m.Get(op.prec)
		if !ok {
			v = &opGroup{prec: op.prec}
			m.Put(op.prec, v)
		}
		v.(*opGroup).add(op)
	}
	r := make([]*opGroup, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		r = append(r, it.Value().(*opGroup))
	}
	return r
}
