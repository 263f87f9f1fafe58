package equations

import (
	"sort"
)

// store is the configuration snapshot that one compilation parses against.
// Everything except the bindings is fixed once it is built.
type store struct {
	open, close, sep string

	b *bindings
	// vnames and fnames are the variable and function names, longest first.
	vnames []string
	fnames []string

	// groups is the operator catalog, loosest binding first.
	groups []*opGroup
	// prefixes are the symbols of every prefix operator, longest first.
	prefixes []string

	// bops is the bracketed operators in registration order.
	bops []*bracketOp
	// byOpen maps opening symbol to closing symbol to operator. byClose is
	// the reverse index.
	byOpen  map[string]map[string]*bracketOp
	byClose map[string]map[string]*bracketOp
	// openers and closers are every bracket-like symbol, including the plain
	// brackets, longest first.
	openers []string
	closers []string
	// closersFor lists the symbols that can close each opener, longest
	// first. openersFor is the mirror.
	closersFor map[string][]string
	openersFor map[string][]string

	jux func(a, b float64) float64

	// cutoffs counts parse paths abandoned because the depth budget ran out.
	cutoffs int
}

func newStore(g *Grammar) *store {
	st := store{
		open:  g.open,
		close: g.close,
		sep:   g.sep,
		b: &bindings{
			vars:  make(map[string]float64, len(g.vars)),
			funcs: make(map[string]Func, len(g.funcs)),
		},
		byOpen:     make(map[string]map[string]*bracketOp),
		byClose:    make(map[string]map[string]*bracketOp),
		closersFor: make(map[string][]string),
		openersFor: make(map[string][]string),
		jux:        g.jux,
	}
	for k, v := range g.vars {
		st.b.vars[k] = v
		st.vnames = append(st.vnames, k)
	}
	for k, v := range g.funcs {
		st.b.funcs[k] = v
		st.fnames = append(st.fnames, k)
	}
	st.vnames = longestFirst(st.vnames)
	st.fnames = longestFirst(st.fnames)

	ops := make([]*operator, len(g.ops))
	for i, op := range g.ops {
		ops[i] = op.clone()
		if op.kind == opPrefix {
			st.prefixes = append(st.prefixes, op.syms[0])
		}
	}
	st.groups = groupOperators(ops)
	st.prefixes = longestFirst(st.prefixes)

	for _, bop := range g.bops {
		bop := *bop
		st.bops = append(st.bops, &bop)
		nest(st.byOpen, bop.open, bop.close, &bop)
		nest(st.byClose, bop.close, bop.open, &bop)
	}
	st.openers = symbols(st.byOpen, st.open)
	st.closers = symbols(st.byClose, st.close)
	for _, o := range st.openers {
		st.closersFor[o] = partners(st.byOpen[o], o == st.open, st.close)
	}
	for _, c := range st.closers {
		st.openersFor[c] = partners(st.byClose[c], c == st.close, st.open)
	}
	return &st
}

func nest(m map[string]map[string]*bracketOp, outer, inner string, bop *bracketOp) {
	n := m[outer]
	if n == nil {
		n = make(map[string]*bracketOp)
		m[outer] = n
	}
	n[inner] = bop
}

// symbols returns the keys of m plus plain, longest first.
func symbols(m map[string]map[string]*bracketOp, plain string) []string {
	v := []string{plain}
	for k := range m {
		if k != plain {
			v = append(v, k)
		}
	}
	return longestFirst(v)
}

// partners returns the keys of m, plus plain if isPlain, longest first.
func partners(m map[string]*bracketOp, isPlain bool, plain string) []string {
	var v []string
	for k := range m {
		v = append(v, k)
	}
	if isPlain {
		if _, ok := m[plain]; !ok {
			v = append(v, plain)
		}
	}
	return longestFirst(v)
}

// longestFirst sorts and deduplicates symbols so that longer symbols come
// first. Symbols of equal length are in lexical order so that matching is
// deterministic.
func longestFirst(v []string) []string {
	sort.Slice(v, func(i, j int) bool {
		if len(v[i]) != len(v[j]) {
			return len(v[i]) > len(v[j])
		}
		return v[i] < v[j]
	})
	r := v[:0]
	for i, s := range v {
		if i > 0 && s == v[i-1] {
			continue
		}
		r = append(r, s)
	}
	return r
}

// allowsEmpty returns whether the bracket pair open...close may enclose
// nothing. Plain brackets always may, since function calls use them.
func (st *store) allowsEmpty(open, close string) bool {
	if open == st.open && close == st.close {
		return true
	}
	if bop := st.byOpen[open][close]; bop != nil {
		return bop.empty
	}
	return false
}
