package equations

import (
	"sort"
	"strings"
)

// parse tries each precedence group in turn, loosest first. Within a group,
// left-associative operators are tried before right-associative ones.
func (operationParser) parse(s string, st *store, depth int) *node {
	for _, g := range st.groups {
		if g.left != nil {
			if n := g.left.parse(s, st, depth); n != nil {
				return n
			}
		}
		if g.right != nil {
			if n := g.right.parse(s, st, depth); n != nil {
				return n
			}
		}
	}
	return nil
}

func (a *assocGroup) parse(s string, st *store, depth int) *node {
	if n := a.parseInfix(s, st, depth); n != nil {
		return n
	}
	if a.right {
		if n := parsePrefix(a.prefix, s, st, depth); n != nil {
			return n
		}
		return parsePostfix(a.postfix, s, st, depth)
	}
	if n := parsePostfix(a.postfix, s, st, depth); n != nil {
		return n
	}
	return parsePrefix(a.prefix, s, st, depth)
}

// placement is one way an infix operator's symbols can split an equation.
type placement struct {
	op *operator
	at []int
}

func (p placement) firstStart() int { return p.at[0] }
func (p placement) lastStart() int  { return p.at[len(p.at)-1] }
func (p placement) firstEnd() int   { return p.at[0] + len(p.op.syms[0]) }
func (p placement) lastEnd() int    { return p.lastStart() + len(p.op.syms[len(p.at)-1]) }

// leftFirst orders placements for left-associative operators so that the
// largest left operand comes first.
func leftFirst(a, b placement) bool {
	switch {
	case a.firstStart() != b.firstStart():
		return a.firstStart() > b.firstStart()
	case a.lastStart() != b.lastStart():
		return a.lastStart() > b.lastStart()
	case a.firstEnd() != b.firstEnd():
		return a.firstEnd() > b.firstEnd()
	default:
		return a.lastEnd() > b.lastEnd()
	}
}

// rightFirst orders placements for right-associative operators so that the
// largest right operand comes first.
func rightFirst(a, b placement) bool {
	switch {
	case a.lastEnd() != b.lastEnd():
		return a.lastEnd() < b.lastEnd()
	case a.firstEnd() != b.firstEnd():
		return a.firstEnd() < b.firstEnd()
	case a.lastStart() != b.lastStart():
		return a.lastStart() < b.lastStart()
	default:
		return a.firstStart() < b.firstStart()
	}
}

func (a *assocGroup) parseInfix(s string, st *store, depth int) *node {
	var cands []placement
	for _, op := range a.infix {
	outer:
		for _, at := range st.placements(s, op.syms) {
			for _, arg := range operands(s, op.syms, at) {
				if isBlank(arg) {
					continue outer
				}
			}
			cands = append(cands, placement{op: op, at: at})
		}
	}
	less := leftFirst
	if a.right {
		less = rightFirst
	}
	sort.SliceStable(cands, func(i, j int) bool { return less(cands[i], cands[j]) })
	for _, p := range cands {
		if n := parsePlacement(p, s, st, depth); n != nil {
			return n
		}
	}
	return nil
}

func parsePlacement(p placement, s string, st *store, depth int) *node {
	texts := operands(s, p.op.syms, p.at)
	args := make([]*node, len(texts))
	for i, t := range texts {
		args[i] = parseEquation(t, st, depth)
		if args[i] == nil {
			return nil
		}
	}
	return &node{kind: nodeNary, op: p.op, args: args}
}

// parsePrefix applies the prefix operator with the longest symbol that starts
// s and leaves an operand.
func parsePrefix(ops []*operator, s string, st *store, depth int) *node {
	var best *operator
	for _, op := range ops {
		sym := op.syms[0]
		if !strings.HasPrefix(s, sym) || isBlank(s[len(sym):]) {
			continue
		}
		if best == nil || len(sym) > len(best.syms[0]) {
			best = op
		}
	}
	if best == nil {
		return nil
	}
	arg := parseEquation(s[len(best.syms[0]):], st, depth)
	if arg == nil {
		return nil
	}
	return &node{kind: nodeUnary, op: best, args: []*node{arg}}
}

// parsePostfix is the mirror of parsePrefix.
func parsePostfix(ops []*operator, s string, st *store, depth int) *node {
	var best *operator
	for _, op := range ops {
		sym := op.syms[0]
		if !strings.HasSuffix(s, sym) || isBlank(s[:len(s)-len(sym)]) {
			continue
		}
		if best == nil || len(sym) > len(best.syms[0]) {
			best = op
		}
	}
	if best == nil {
		return nil
	}
	arg := parseEquation(s[:len(s)-len(best.syms[0])], st, depth)
	if arg == nil {
		return nil
	}
	return &node{kind: nodeUnary, op: best, args: []*node{arg}}
}
