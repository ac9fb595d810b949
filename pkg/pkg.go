// Package pkg holds project metadata shared by the command line and its
// documentation.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the fatexpr module embedded at build
// time. It is printed by the --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It appears in help text and
	// default config and cache paths.
	Name = "fatexpr"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Evaluate chained arithmetic and logical expressions"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
