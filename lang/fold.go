package lang

import (
	"sync"

	"golang.org/x/text/cases"
)

// A cases.Caser carries transform state and cannot be shared between
// goroutines, so independent sessions draw their own from the pool.
var caserPool = sync.Pool{
	New: func() any {
		c := cases.Fold()

		return &c
	},
}

// Fold returns the canonical spelling of an identifier. Every name lookup
// (variables, functions, built-ins, parameters and external resolvers) is
// performed on folded names.
func Fold(name string) string {
	c, _ := caserPool.Get().(*cases.Caser)
	if c == nil {
		cc := cases.Fold()
		c = &cc
	}

	defer caserPool.Put(c)

	return c.String(name)
}
