package equations

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/bigfloat"
)

// constPrec is the precision in bits at which preset constants are computed
// before rounding to float64.
const constPrec = 128

func bigConst(f func(z *big.Float) *big.Float) float64 {
	z := new(big.Float).SetPrec(constPrec)
	v, _ := f(z).Float64()
	return v
}

var (
	constPi = bigConst(bigfloat.Pi)
	constE  = bigConst(func(z *big.Float) *big.Float {
		one := new(big.Float).SetPrec(constPrec).SetInt64(1)
		return bigfloat.Exp(z, one)
	})
	constTau = bigConst(func(z *big.Float) *big.Float {
		bigfloat.Pi(z)
		return z.Mul(z, big.NewFloat(2))
	})
	constPhi = bigConst(func(z *big.Float) *big.Float {
		z.SetInt64(5)
		z.Sqrt(z)
		z.Add(z, big.NewFloat(1))
		return z.Quo(z, big.NewFloat(2))
	})
)

// EqualityMargin is the margin within which the logic preset's == operator
// considers two values equal.
const EqualityMargin = 1e-14

// BasicMaths adds arithmetic operators and a few functions:
//
//	binary + - (precedence 100), * / % (200), ^ (300, right-associative)
//	prefix + - √ (500)
//	functions sqrt, round, max, min
//
// It is a subset of StandardMaths. Use one or the other.
func (g *Grammar) BasicMaths() *Grammar {
	g.Binary("+", add).Prec(100)
	g.Binary("-", sub).Prec(100)

	g.Binary("*", mul).Prec(200)
	g.Binary("/", div).Prec(200)
	g.Binary("%", math.Mod).Prec(200)

	g.Binary("^", math.Pow).Prec(300).RightAssoc()

	g.Prefix("+", pos).Prec(500)
	g.Prefix("-", neg).Prec(500)
	g.Prefix("√", math.Sqrt).Prec(500)

	g.Function("sqrt", fnSqrt)
	g.Function("round", fnRound)
	g.Function("max", fnMax)
	g.Function("min", fnMin)
	return g
}

// StandardMaths adds everything in BasicMaths plus constants, alternative
// operator symbols, bracketed operators, more functions, and juxtaposition as
// multiplication:
//
//	constants pi e tau phi π τ φ ϕ
//	binary + - (100), * × · / ÷ % (200), ^ (300, right), √ (400, nth root)
//	prefix + - √ (500)
//	postfix % ‰ (600)
//	bracketed ⌊x⌋ ⌈x⌉ |x|
//	functions log sqrt cbrt ceil floor abs round max min
func (g *Grammar) StandardMaths() *Grammar {
	g.Variable("pi", constPi)
	g.Variable("e", constE)
	g.Variable("tau", constTau)
	g.Variable("phi", constPhi)

	g.Variable("π", constPi)
	g.Variable("τ", constTau)
	g.Variable("φ", constPhi)
	g.Variable("ϕ", constPhi)

	g.Binary("+", add).Prec(100)
	g.Binary("-", sub).Prec(100)

	g.Binary("*", mul).Prec(200)
	g.Binary("×", mul).Prec(200)
	g.Binary("·", mul).Prec(200)
	g.Binary("/", div).Prec(200)
	g.Binary("÷", div).Prec(200)
	g.Binary("%", math.Mod).Prec(200)

	g.Binary("^", math.Pow).Prec(300).RightAssoc()

	g.Binary("√", root).Prec(400)

	g.Prefix("+", pos).Prec(500)
	g.Prefix("-", neg).Prec(500)
	g.Prefix("√", math.Sqrt).Prec(500)

	g.Postfix("%", func(x float64) float64 { return x / 100 }).Prec(600)
	g.Postfix("‰", func(x float64) float64 { return x / 1000 }).Prec(600)

	g.Bracketed("⌊", "⌋", math.Floor)
	g.Bracketed("⌈", "⌉", math.Ceil)
	g.Bracketed("|", "|", math.Abs)

	g.Function("log", fnLog)
	g.Function("sqrt", fnSqrt)
	g.Function("cbrt", monadic(math.Cbrt, 1))
	g.Function("ceil", monadic(math.Ceil, 0))
	g.Function("floor", monadic(math.Floor, 0))
	g.Function("abs", monadic(math.Abs, 0))
	g.Function("round", fnRound)
	g.Function("max", fnMax)
	g.Function("min", fnMin)

	g.Juxtaposition(nil)
	return g
}

// Logic adds conditional, boolean, and comparison operators. Values of at
// least 0.5 are true, and results are 1 for true and 0 for false.
//
//	infix a ? b : c (700, right-associative)
//	binary || (800), && (900)
//	infix a == b ~ margin (950)
//	binary == (1000), < > <= >= (1100)
//	prefix ! (1200)
//	functions any, all
//
// Logic can be combined with BasicMaths or StandardMaths.
func (g *Grammar) Logic() *Grammar {
	g.Infix([]string{"?", ":"}, func(args []float64) float64 {
		if truth(args[0]) {
			return args[1]
		}
		return args[2]
	}).RightAssoc().Prec(700)

	g.Binary("||", func(a, b float64) float64 { return boolean(truth(a) || truth(b)) }).Prec(800)
	g.Binary("&&", func(a, b float64) float64 { return boolean(truth(a) && truth(b)) }).Prec(900)

	g.Infix([]string{"==", "~"}, func(args []float64) float64 {
		return boolean(within(args[0], args[1], args[2]))
	}).Prec(950)

	g.Binary("==", func(a, b float64) float64 { return boolean(within(a, b, EqualityMargin)) }).Prec(1000)

	g.Binary("<", func(a, b float64) float64 { return boolean(a < b) }).Prec(1100)
	g.Binary(">", func(a, b float64) float64 { return boolean(a > b) }).Prec(1100)
	g.Binary("<=", func(a, b float64) float64 { return boolean(a <= b) }).Prec(1100)
	g.Binary(">=", func(a, b float64) float64 { return boolean(a >= b) }).Prec(1100)

	g.Prefix("!", func(x float64) float64 { return boolean(!truth(x)) }).Prec(1200)

	g.Function("any", func(args []float64) float64 {
		for _, x := range args {
			if truth(x) {
				return 1
			}
		}
		return 0
	})
	g.Function("all", func(args []float64) float64 {
		for _, x := range args {
			if !truth(x) {
				return 0
			}
		}
		return 1
	})
	return g
}

func add(a, b float64) float64  { return a + b }
func sub(a, b float64) float64  { return a - b }
func mul(a, b float64) float64  { return a * b }
func div(a, b float64) float64  { return a / b }
func root(n, x float64) float64 { return math.Pow(x, 1/n) }
func pos(x float64) float64     { return x }
func neg(x float64) float64     { return -x }

func truth(x float64) bool { return x >= 0.5 }

func boolean(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// within reports whether b is strictly within margin of a.
func within(a, b, margin float64) bool {
	return b > a-margin && b < a+margin
}

// monadic wraps f as a function of its first argument. Called with no
// arguments, the function returns zero.
func monadic(f func(float64) float64, zero float64) Func {
	return func(args []float64) float64 {
		if len(args) == 0 {
			return zero
		}
		return f(args[0])
	}
}

var fnSqrt = monadic(math.Sqrt, 1)

// fnLog is the natural logarithm of its first argument, or the logarithm in
// the base of its second.
func fnLog(args []float64) float64 {
	switch len(args) {
	case 0:
		return 1
	case 1:
		return math.Log(args[0])
	default:
		return math.Log(args[0]) / math.Log(args[1])
	}
}

// maxPlaces bounds the places argument of round. The shortest decimal form
// of every float64 has fewer places than this.
const maxPlaces = 400

// fnRound rounds half away from zero, to a number of decimal places if a
// second argument is given. A NaN number of places leaves x unchanged.
func fnRound(args []float64) float64 {
	switch len(args) {
	case 0:
		return 0
	case 1:
		return math.Round(args[0])
	}
	x, n := args[0], args[1]
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(n) {
		return x
	}
	n = math.Max(-maxPlaces, math.Min(maxPlaces, n))
	r, _ := decimal.NewFromFloat(x).Round(int32(n)).Float64()
	return r
}

func fnMax(args []float64) float64 {
	if len(args) == 0 {
		return 0
	}
	r := args[0]
	for _, x := range args[1:] {
		r = math.Max(r, x)
	}
	return r
}

func fnMin(args []float64) float64 {
	if len(args) == 0 {
		return 0
	}
	r := args[0]
	for _, x := range args[1:] {
		r = math.Min(r, x)
	}
	return r
}
