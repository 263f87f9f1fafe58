package equations

import "strconv"

// ParseError is an error indicating an equation that could not be compiled.
type ParseError struct {
	// Equation is the equation text after whitespace normalization.
	Equation string
	// DepthExceeded is whether any attempt to parse the equation was cut off
	// by the maximum depth.
	DepthExceeded bool
}

func (err *ParseError) Error() string {
	s := "cannot parse equation " + strconv.Quote(err.Equation)
	if err.DepthExceeded {
		s += " (maximum depth reached)"
	}
	return s
}
