package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fatexpr/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourcesKey struct{}
	outputKey  struct{}
)

// WithOutput returns a new context.Context whose commands write their results
// to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// Sources is the ordered set of statement chain files given on the command
// line. Standard input, if included, is always read last.
type Sources struct {
	paths []string
	stdin io.Reader
}

// IsZero reports whether there are no sources.
func (s *Sources) IsZero() bool {
	return s == nil || (len(s.paths) == 0 && s.stdin == nil)
}

// Paths returns the resolved paths of the regular file sources.
func (s *Sources) Paths() []string {
	if s == nil {
		return nil
	}

	return s.paths
}

// Stdin reports whether standard input is one of the sources.
func (s *Sources) Stdin() bool { return s != nil && s.stdin != nil }

// Open returns a reader over every source in order. Closing it closes every
// opened file.
func (s *Sources) Open() (io.ReadCloser, error) {
	var (
		files   multiCloser
		readers []io.Reader
	)

	for _, path := range s.Paths() {
		f, err := os.Open(path)
		if err != nil {
			_ = files.Close()

			return nil, err
		}

		// A file without a trailing newline must not join its last line to
		// the first line of the next source.
		files = append(files, f)
		readers = append(readers, f, strings.NewReader("\n"))
	}

	if s.Stdin() {
		readers = append(readers, s.stdin)
	}

	return struct {
		io.Reader
		io.Closer
	}{io.MultiReader(readers...), files}, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	errs := make([]error, 0, len(m))

	for _, c := range m {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the [Sources]
// named by paths.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source,
// placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, sourcesKey{}, buildSources(paths, os.Stdin))
}

func buildSources(paths []string, stdin *os.File) *Sources {
	if len(paths) == 0 {
		return nil
	}

	var (
		srcs     Sources
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	if info, err := stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		resolved, key, ok := resolveUnique(path, seen)
		if !ok {
			continue
		}

		// A named path may refer to the same file as stdin.
		if key == stdinKey {
			hasStdin = true

			continue
		}

		srcs.paths = append(srcs.paths, resolved)
	}

	if hasStdin {
		srcs.stdin = stdin
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// resolveUnique resolves path to an absolute path without symlinks and
// reports whether it names a file not already in seen.
func resolveUnique(path string, seen map[fileKey]struct{}) (string, fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", fileKey{}, false
	}

	if _, exists := seen[key]; exists {
		return "", fileKey{}, false
	}

	seen[key] = struct{}{}

	return resolved, key, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourcesFrom retrieves the Sources stored in ctx by WithSourceFiles.
func sourcesFrom(ctx context.Context) *Sources {
	s, _ := ctx.Value(sourcesKey{}).(*Sources)

	return s
}

// readChain returns the statement chain formed by the sources in ctx
// followed by args. Each argument may hold several ";"-separated statements.
func readChain(ctx context.Context, args []string) (string, error) {
	var parts []string

	if src := sourcesFrom(ctx); !src.IsZero() {
		rc, err := src.Open()
		if err != nil {
			return "", ErrReadSource.Wrap(err)
		}
		defer rc.Close()

		text, err := lang.ReadChain(ctx, rc)
		if err != nil {
			return "", err
		}

		if text != "" {
			parts = append(parts, text)
		}
	}

	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			parts = append(parts, arg)
		}
	}

	if len(parts) == 0 {
		return "", ErrNoInput
	}

	return strings.Join(parts, ";"), nil
}
