// Package equations compiles equations written in a configurable syntax and
// evaluates them as float64.
//
// A Grammar lists the brackets, separator, variables, functions, and
// operators that equations may use. Operators can be prefix, postfix, infix
// with any number of symbols, or bracketed like |x|, and each has a
// precedence and associativity. Nothing is built in, but the BasicMaths,
// StandardMaths, and Logic presets add the usual operators and functions.
//
// Compiling searches for any way to read the whole equation, splitting out
// the loosest-binding operators first, so symbols may overlap freely: "-"
// can be both prefix and binary, and "|" can both open and close. With
// juxtaposition enabled, "2πr" and "a(b+c)" are products.
//
// A compiled Equation looks up its variables and functions every time it is
// evaluated, so it can be compiled once and evaluated for many inputs.
package equations
