package equations

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'equations'.
func tracer() tracing.Trace {
	return tracing.Select("equations")
}
