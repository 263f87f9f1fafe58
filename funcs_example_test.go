package equations_test

import (
	"fmt"

	"github.com/zephyrtronium/equations"
)

func ExampleGrammar_Compile() {
	g := equations.NewGrammar().StandardMaths().Variable("r", 1)
	e, err := g.Compile("2πr")
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.4f\n", e.Eval())
	e.SetVar("r", 2)
	fmt.Printf("%.4f\n", e.Eval())
	e.SetVar("r", 0.5)
	fmt.Printf("%.4f\n", e.Eval())

	// Output:
	// 6.2832
	// 12.5664
	// 3.1416
}

func ExampleFunc() {
	nargin := func(args []float64) float64 { return float64(len(args)) }
	g := equations.NewGrammar().Function("nargin", nargin)

	a, _ := g.Compile("nargin()")
	b, _ := g.Compile("nargin(100)")
	c, _ := g.Compile("nargin(3, 2, 1)")
	fmt.Println(a.Eval(), a)
	fmt.Println(b.Eval(), b)
	fmt.Println(c.Eval(), c)

	// Output:
	// 0 (nargin[])
	// 1 (nargin[(100)])
	// 3 (nargin[(3), (2), (1)])
}

func ExampleGrammar_Infix() {
	g := equations.NewGrammar().BasicMaths().Logic()
	g.Variable("x", -4)
	e, _ := g.Compile("x < 0 ? -x : x")
	fmt.Println(e.Eval())

	// Output:
	// 4
}
