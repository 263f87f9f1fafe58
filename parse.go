package equations

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// subparser recognizes one form of equation. parse returns nil if s is not
// in that form.
type subparser interface {
	parse(s string, st *store, depth int) *node
}

// endReader is a subparser which can also recognize its form at the end of a
// longer string. fromEnd calls yield with each recognized node and the
// suffix of s that it was parsed from, longest first, until yield returns
// false. Suffixes with nothing before them need not be yielded.
type endReader interface {
	subparser
	fromEnd(s string, st *store, depth int, yield func(n *node, src string) bool)
}

type (
	variableParser   struct{}
	bracketedParser  struct{}
	bracketsParser   struct{}
	callParser       struct{}
	operationParser  struct{}
	scientificParser struct{}
	literalParser    struct{}
	juxtaParser      struct{}
)

// pipeline is the order in which subparsers are tried. Earlier entries win.
var pipeline []subparser

func init() {
	// Set in init because juxtaParser reads pipeline.
	pipeline = []subparser{
		variableParser{},
		bracketedParser{},
		bracketsParser{},
		callParser{},
		operationParser{},
		scientificParser{},
		literalParser{},
		juxtaParser{},
	}
}

// parseEquation parses s as a complete equation, or returns nil if it cannot.
// Each call consumes one unit of depth.
func parseEquation(s string, st *store, depth int) *node {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if depth <= 0 {
		if st.cutoffs == 0 {
			tracer().Debugf("depth exhausted at %q", s)
		}
		st.cutoffs++
		return nil
	}
	depth--
	for _, p := range pipeline {
		if n := p.parse(s, st, depth); n != nil {
			return n
		}
	}
	return nil
}

// parseArgs parses a separator-delimited argument list. An empty list is
// valid. ok is false if any argument fails to parse.
func parseArgs(s string, st *store, depth int) (args []*node, ok bool) {
	if isBlank(s) {
		return nil, true
	}
	parts := st.splitArgs(s)
	args = make([]*node, len(parts))
	for i, p := range parts {
		args[i] = parseEquation(p, st, depth)
		if args[i] == nil {
			return nil, false
		}
	}
	return args, true
}

func (variableParser) parse(s string, st *store, depth int) *node {
	if _, ok := st.b.vars[s]; ok {
		return &node{kind: nodeVar, name: s, b: st.b}
	}
	return nil
}

func (variableParser) fromEnd(s string, st *store, depth int, yield func(*node, string) bool) {
	for _, name := range st.vnames {
		if !strings.HasSuffix(s, name) {
			continue
		}
		if !yield(&node{kind: nodeVar, name: name, b: st.b}, name) {
			return
		}
	}
}

// bracketCall creates the node for bop applied to the text between its
// symbols.
func bracketCall(bop *bracketOp, inner string, st *store, depth int) *node {
	if isBlank(inner) {
		if !bop.empty {
			return nil
		}
		return &node{kind: nodeBracket, bop: bop}
	}
	if bop.multi {
		args, ok := parseArgs(inner, st, depth)
		if !ok {
			return nil
		}
		return &node{kind: nodeBracket, bop: bop, args: args}
	}
	arg := parseEquation(inner, st, depth)
	if arg == nil {
		return nil
	}
	return &node{kind: nodeBracket, bop: bop, args: []*node{arg}}
}

func (bracketedParser) parse(s string, st *store, depth int) *node {
	var cands []*bracketOp
	for _, bop := range st.bops {
		if strings.HasPrefix(s, bop.open) && strings.HasSuffix(s, bop.close) {
			cands = append(cands, bop)
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if len(a.open) != len(b.open) {
			return len(a.open) > len(b.open)
		}
		return len(a.close) > len(b.close)
	})
	for _, bop := range cands {
		j, c := st.closeIndex(s, 0, bop.open, []string{bop.close})
		if c == "" || j+len(c) != len(s) {
			continue
		}
		if n := bracketCall(bop, s[len(bop.open):j], st, depth); n != nil {
			return n
		}
	}
	return nil
}

func (bracketedParser) fromEnd(s string, st *store, depth int, yield func(*node, string) bool) {
	type cand struct {
		bop *bracketOp
		at  int
	}
	var cands []cand
	for _, bop := range st.bops {
		if !strings.HasSuffix(s, bop.close) {
			continue
		}
		k, o := st.openIndex(s, len(s)-1, bop.close, []string{bop.open})
		if o == "" || isBlank(s[:k]) {
			continue
		}
		cands = append(cands, cand{bop, k})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.at != b.at {
			return a.at < b.at
		}
		if len(a.bop.open) != len(b.bop.open) {
			return len(a.bop.open) > len(b.bop.open)
		}
		return len(a.bop.close) > len(b.bop.close)
	})
	for _, c := range cands {
		inner := s[c.at+len(c.bop.open) : len(s)-len(c.bop.close)]
		n := bracketCall(c.bop, inner, st, depth)
		if n == nil {
			continue
		}
		if !yield(n, s[c.at:]) {
			return
		}
	}
}

func (bracketsParser) parse(s string, st *store, depth int) *node {
	if !strings.HasPrefix(s, st.open) || !strings.HasSuffix(s, st.close) {
		return nil
	}
	j, c := st.closeIndex(s, 0, st.open, []string{st.close})
	if c == "" || j != len(s)-len(st.close) {
		return nil
	}
	inner := s[len(st.open):j]
	if isBlank(inner) {
		return nil
	}
	return parseEquation(inner, st, depth)
}

func (bracketsParser) fromEnd(s string, st *store, depth int, yield func(*node, string) bool) {
	if !strings.HasSuffix(s, st.close) {
		return
	}
	k, o := st.openIndex(s, len(s)-1, st.close, []string{st.open})
	if o == "" || isBlank(s[:k]) {
		return
	}
	n := parseEquation(s[k+len(o):len(s)-len(st.close)], st, depth)
	if n == nil {
		return
	}
	yield(n, s[k:])
}

// callArgs finds the argument list at the end of s. at is the index of the
// opening bracket.
func callArgs(s string, st *store) (at int, inner string, ok bool) {
	if !strings.HasSuffix(s, st.close) {
		return 0, "", false
	}
	k, o := st.openIndex(s, len(s)-1, st.close, []string{st.open})
	if o == "" {
		return 0, "", false
	}
	return k, s[k+len(o) : len(s)-len(st.close)], true
}

func (callParser) parse(s string, st *store, depth int) *node {
	at, inner, ok := callArgs(s, st)
	if !ok {
		return nil
	}
	name := strings.TrimSpace(s[:at])
	if _, ok := st.b.funcs[name]; !ok {
		return nil
	}
	args, ok := parseArgs(inner, st, depth)
	if !ok {
		return nil
	}
	return &node{kind: nodeCall, name: name, args: args, b: st.b}
}

func (callParser) fromEnd(s string, st *store, depth int, yield func(*node, string) bool) {
	at, inner, ok := callArgs(s, st)
	if !ok {
		return
	}
	head := strings.TrimRight(s[:at], " ")
	var args []*node
	parsed := false
	for _, name := range st.fnames {
		if !strings.HasSuffix(head, name) || isBlank(head[:len(head)-len(name)]) {
			continue
		}
		if !parsed {
			args, ok = parseArgs(inner, st, depth)
			if !ok {
				return
			}
			parsed = true
		}
		n := &node{kind: nodeCall, name: name, args: args, b: st.b}
		if !yield(n, s[len(head)-len(name):]) {
			return
		}
	}
}

func (scientificParser) parse(s string, st *store, depth int) *node {
	i := strings.IndexByte(s, 'e')
	if i < 0 {
		return nil
	}
	v, ok := scientific(strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]))
	if !ok {
		return nil
	}
	return &node{kind: nodeNum, val: v}
}

func (scientificParser) fromEnd(s string, st *store, depth int, yield func(*node, string) bool) {
	i := strings.LastIndexByte(s, 'e')
	if i < 0 {
		return
	}
	exp := strings.TrimSpace(s[i+1:])
	if !isLiteral(exp) {
		return
	}
	head := strings.TrimRight(s[:i], " ")
	for _, m := range literalSuffixes(head) {
		v, ok := scientific(m, exp)
		if !ok {
			continue
		}
		if !yield(&node{kind: nodeNum, val: v}, s[len(head)-len(m):]) {
			return
		}
	}
}

// scientific computes mant×10^exp. When exp is an integer, the result is the
// correctly rounded value of the decimal.
func scientific(mant, exp string) (float64, bool) {
	if !isLiteral(mant) || !isLiteral(exp) {
		return 0, false
	}
	if !strings.Contains(exp, ".") {
		v, err := strconv.ParseFloat(mant+"e"+exp, 64)
		if err == nil || err.(*strconv.NumError).Err == strconv.ErrRange {
			return v, true
		}
	}
	m, _ := strconv.ParseFloat(mant, 64)
	x, _ := strconv.ParseFloat(exp, 64)
	return m * math.Pow(10, x), true
}

func (literalParser) parse(s string, st *store, depth int) *node {
	if !isLiteral(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && err.(*strconv.NumError).Err != strconv.ErrRange {
		return nil
	}
	return &node{kind: nodeNum, val: v}
}

func (literalParser) fromEnd(s string, st *store, depth int, yield func(*node, string) bool) {
	for _, m := range literalSuffixes(s) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil && err.(*strconv.NumError).Err != strconv.ErrRange {
			continue
		}
		if !yield(&node{kind: nodeNum, val: v}, m) {
			return
		}
	}
}

var literalRE = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

func isLiteral(s string) bool {
	return literalRE.MatchString(s)
}

// literalSuffixes returns every suffix of s that is a literal, longest first.
func literalSuffixes(s string) []string {
	start := len(s)
	for start > 0 && strings.IndexByte("0123456789.+-", s[start-1]) >= 0 {
		start--
	}
	var r []string
	for k := start; k < len(s); k++ {
		if isLiteral(s[k:]) {
			r = append(r, s[k:])
		}
	}
	return r
}
