package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/fatexpr/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the name of the configuration and cache directories.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with
//     [pkg.Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return baseName(id)
	},
)

var (
	debugBinRegexp  = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDotRegex = regexp.MustCompile(`^\.+`)
)

// baseName returns the executable name of path without extension, with the
// basePrefix substitutions applied.
func baseName(path string) string {
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	id = debugBinRegexp.ReplaceAllString(id, pkg.Name)
	id = leadingDotRegex.ReplaceAllString(id, "")

	if id == "" {
		return pkg.Name
	}

	return id
}

// userDir returns the directory named by primary, falling back to fallback
// under the home directory, then to the working directory.
func userDir(primary func() (string, error), fallback string) string {
	if dir, err := primary(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, fallback)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserConfigDir, ".config"), basePrefix())
})

// cacheDir returns the cache directory path used for transient files such as
// the interactive history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserCacheDir, ".cache"), basePrefix())
})

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
