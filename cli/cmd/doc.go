// Package cmd implements the fatexpr subcommands: eval, fmt, watch, init
// and repl.
//
// Every command builds its [lang.Session] from the shared [Engine] flags and
// reads statement chains from positional arguments, from the files given with
// --file, or from standard input ("-").
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// OrderIdentifier is the kong variable identifier containing the
	// comma-separated resolution orders.
	OrderIdentifier = "orderEnum"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default maximum evaluation depth.
	MaxDepthIdentifier = "maxDepth"
)
