package equations

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Grammar records the symbols, names, and operators that equations are
// compiled against. Compiling takes a snapshot of the grammar, so changing a
// grammar after compiling does not affect equations already compiled.
//
// Methods that register symbols panic if a symbol is empty after trimming
// spaces. All symbols and names are normalized to Unicode NFC.
type Grammar struct {
	open, close, sep string

	vars  map[string]float64
	funcs map[string]Func

	ops  []*operator
	bops []*bracketOp

	jux   func(a, b float64) float64
	depth int
}

// NewGrammar creates a grammar with the brackets "(" and ")", the separator
// ",", and nothing else.
func NewGrammar() *Grammar {
	return &Grammar{
		open:  "(",
		close: ")",
		sep:   ",",
		vars:  make(map[string]float64),
		funcs: make(map[string]Func),
		depth: math.MaxInt,
	}
}

// Clone creates a deep copy of g.
func (g *Grammar) Clone() *Grammar {
	n := Grammar{
		open:  g.open,
		close: g.close,
		sep:   g.sep,
		vars:  make(map[string]float64, len(g.vars)),
		funcs: make(map[string]Func, len(g.funcs)),
		ops:   make([]*operator, len(g.ops)),
		bops:  make([]*bracketOp, len(g.bops)),
		jux:   g.jux,
		depth: g.depth,
	}
	for k, v := range g.vars {
		n.vars[k] = v
	}
	for k, v := range g.funcs {
		n.funcs[k] = v
	}
	for i, op := range g.ops {
		n.ops[i] = op.clone()
	}
	for i, bop := range g.bops {
		b := *bop
		n.bops[i] = &b
	}
	return &n
}

// normalize trims spaces from a symbol or name and converts it to NFC.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// symbol normalizes a symbol to register, panicking if it is empty.
func symbol(s, what string) string {
	r := normalize(s)
	if r == "" {
		panic("equations: empty " + what)
	}
	return r
}

// Brackets sets the symbols used for grouping and function calls.
func (g *Grammar) Brackets(open, close string) *Grammar {
	g.open = symbol(open, "open bracket")
	g.close = symbol(close, "close bracket")
	return g
}

// Separator sets the symbol between function arguments.
func (g *Grammar) Separator(sep string) *Grammar {
	g.sep = symbol(sep, "separator")
	return g
}

// Variable adds a variable or sets its value.
func (g *Grammar) Variable(name string, val float64) *Grammar {
	g.vars[symbol(name, "variable name")] = val
	return g
}

// Function adds or replaces a function. To remove a function, pass nil for
// fn.
func (g *Grammar) Function(name string, fn Func) *Grammar {
	name = symbol(name, "function name")
	if fn == nil {
		delete(g.funcs, name)
		return g
	}
	g.funcs[name] = fn
	return g
}

// MaxDepth limits how deeply subexpressions may nest. Equations that need
// more depth fail to compile.
func (g *Grammar) MaxDepth(n int) *Grammar {
	g.depth = n
	return g
}

// Juxtaposition enables implicit operations between adjacent operands, as in
// "2x" or "(a)(b)". If fn is nil, juxtaposition multiplies.
func (g *Grammar) Juxtaposition(fn func(a, b float64) float64) *Grammar {
	if fn == nil {
		fn = func(a, b float64) float64 { return a * b }
	}
	g.jux = fn
	return g
}

// Op is a handle to an operator just added to a grammar. Its methods modify
// that operator in place and return the handle for chaining.
type Op struct {
	op *operator
}

// Prec sets the operator's precedence. Operators with lower precedence bind
// more loosely.
func (o Op) Prec(p float64) Op {
	o.op.prec = p
	return o
}

// LeftAssoc makes the operator left-associative. This is the default.
func (o Op) LeftAssoc() Op {
	return o.Assoc(true)
}

// RightAssoc makes the operator right-associative.
func (o Op) RightAssoc() Op {
	return o.Assoc(false)
}

// Assoc sets the operator's associativity.
func (o Op) Assoc(left bool) Op {
	o.op.right = !left
	return o
}

func (g *Grammar) add(kind opKind, syms []string, fn Func) Op {
	if fn == nil {
		panic("equations: nil operator implementation")
	}
	if len(syms) == 0 {
		panic("equations: operator with no symbols")
	}
	op := operator{
		kind: kind,
		syms: make([]string, len(syms)),
		prec: DefaultPrecedence,
		fn:   fn,
	}
	for i, s := range syms {
		op.syms[i] = symbol(s, "operator symbol")
	}
	g.ops = append(g.ops, &op)
	return Op{&op}
}

// Prefix adds an operator written before its operand.
func (g *Grammar) Prefix(sym string, fn func(float64) float64) Op {
	return g.add(opPrefix, []string{sym}, unaryFunc(fn))
}

// Postfix adds an operator written after its operand.
func (g *Grammar) Postfix(sym string, fn func(float64) float64) Op {
	return g.add(opPostfix, []string{sym}, unaryFunc(fn))
}

// Binary adds an operator written between two operands.
func (g *Grammar) Binary(sym string, fn func(a, b float64) float64) Op {
	return g.add(opInfix, []string{sym}, binaryFunc(fn))
}

// Infix adds an operator whose symbols interleave its operands, so that
// syms[i] separates operands i and i+1. For example, Infix([]string{"?",
// ":"}, fn) adds a ternary conditional "a ? b : c", and fn receives three
// arguments.
func (g *Grammar) Infix(syms []string, fn Func) Op {
	return g.add(opInfix, syms, fn)
}

// BracketOp is a handle to a bracketed operator just added to a grammar.
type BracketOp struct {
	bop *bracketOp
}

// AllowEmpty permits the operator to enclose nothing, in which case its
// implementation receives no arguments.
func (b BracketOp) AllowEmpty() BracketOp {
	b.bop.empty = true
	return b
}

// Bracketed adds an operator written as a pair of symbols around a single
// operand, like |x| for absolute value. open and close may be the same.
func (g *Grammar) Bracketed(open, close string, fn func(float64) float64) *Grammar {
	g.bracketed(open, close, false, unaryFunc(fn))
	return g
}

// BracketedMulti adds an operator written as a pair of symbols around a
// separator-delimited list of operands.
func (g *Grammar) BracketedMulti(open, close string, fn Func) BracketOp {
	return BracketOp{g.bracketed(open, close, true, fn)}
}

func (g *Grammar) bracketed(open, close string, multi bool, fn Func) *bracketOp {
	if fn == nil {
		panic("equations: nil bracketed operator implementation")
	}
	bop := bracketOp{
		open:  symbol(open, "open bracket"),
		close: symbol(close, "close bracket"),
		multi: multi,
		fn:    fn,
	}
	g.bops = append(g.bops, &bop)
	return &bop
}

// Compile compiles an equation. Whitespace in src is equivalent to spaces. If
// there is no way to parse src, the error is a *ParseError.
func (g *Grammar) Compile(src string) (*Equation, error) {
	src = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, norm.NFC.String(src))
	st := newStore(g)
	tracer().Debugf("compiling %q", src)
	root := parseEquation(src, st, g.depth)
	if root == nil {
		err := &ParseError{Equation: src, DepthExceeded: st.cutoffs > 0}
		tracer().Debugf("%v", err)
		return nil, err
	}
	tracer().Debugf("compiled %q as %v", src, root)
	return &Equation{root: root, b: st.b, src: src}, nil
}

// Evaluate is a shortcut to compile an equation and evaluate it once.
func (g *Grammar) Evaluate(src string) (float64, error) {
	e, err := g.Compile(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(), nil
}
