//go:build !pprof

package profile

import "iter"

// Enabled reports whether the binary was built with the pprof tag.
const Enabled = false

// Modes yields nothing when built without the pprof tag.
func Modes() iter.Seq[string] {
	return func(func(string) bool) {}
}

func start(string, string, bool) interface{ Stop() } { return ignore{} }
