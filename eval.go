package equations

import (
	"sort"
)

// bindings are the variable values and function implementations that a
// compiled tree reads at evaluation time. An Equation and every node in its
// tree share one bindings value.
type bindings struct {
	vars  map[string]float64
	funcs map[string]Func
}

// Equation is a compiled equation. Evaluating it reads the current values of
// its variables and the current implementations of its functions, so it can
// be evaluated repeatedly after changing either. It is not safe to use an
// Equation concurrently.
type Equation struct {
	root *node
	b    *bindings
	src  string
}

// Eval evaluates the equation and returns the result.
func (e *Equation) Eval() float64 {
	return e.root.eval()
}

// SetVar changes the value of a variable. The set of variables is fixed when
// the equation is compiled; if name was not a variable at that time, then
// SetVar does nothing.
func (e *Equation) SetVar(name string, val float64) {
	name = normalize(name)
	if _, ok := e.b.vars[name]; !ok {
		return
	}
	e.b.vars[name] = val
}

// Reimplement changes the implementation of a function. If name was not a
// function when the equation was compiled, or if fn is nil, then Reimplement
// does nothing.
func (e *Equation) Reimplement(name string, fn Func) {
	if fn == nil {
		return
	}
	name = normalize(name)
	if _, ok := e.b.funcs[name]; !ok {
		return
	}
	e.b.funcs[name] = fn
}

// Vars returns the sorted names of the variables that the equation uses.
func (e *Equation) Vars() []string {
	m := make(map[string]bool)
	e.root.vars(m)
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Source returns the text the equation was compiled from, after
// normalization.
func (e *Equation) Source() string {
	return e.src
}

// String formats the compiled tree with every subexpression in parentheses.
func (e *Equation) String() string {
	return e.root.String()
}

// Evaluate is a shortcut to compile and evaluate an equation using the
// standard maths grammar.
func Evaluate(src string) (float64, error) {
	return NewGrammar().StandardMaths().Evaluate(src)
}
