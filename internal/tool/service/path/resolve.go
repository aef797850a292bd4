package path

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// maxHops bounds the number of symlinks followed while resolving a single path.
const maxHops = 64

// FileSystem is the subset of filesystem calls the resolver needs.
type FileSystem interface {
	Lstat(name string) (os.FileInfo, error)
	Readlink(name string) (string, error)
}

type osFileSystem struct{}

func (osFileSystem) Lstat(name string) (os.FileInfo, error) { return os.Lstat(name) }
func (osFileSystem) Readlink(name string) (string, error)   { return os.Readlink(name) }

// ConfinedPath is a path proven to resolve at or under a Resolver's root.
// The zero value is not usable; values are only produced by Resolver.Confine.
type ConfinedPath struct {
	abs string
	rel string
}

// Abs returns the canonical absolute path.
func (p ConfinedPath) Abs() string { return p.abs }

// Rel returns the slash-separated path relative to the root, "." for the root itself.
func (p ConfinedPath) Rel() string { return p.rel }

// IsRoot reports whether the path is the root directory.
func (p ConfinedPath) IsRoot() bool { return p.rel == "." }

func (p ConfinedPath) String() string { return p.abs }

// Resolver confines caller-supplied paths to a single canonical root.
type Resolver struct {
	root string
	fs   FileSystem
}

// NewResolver canonicalises root and returns a resolver bound to it.
func NewResolver(root string) (*Resolver, error) {
	return NewResolverWithFS(root, osFileSystem{})
}

// NewResolverWithFS is NewResolver with an injected filesystem for path walking.
// The root itself is always canonicalised against the real filesystem.
func NewResolverWithFS(root string, fsys FileSystem) (*Resolver, error) {
	if root == "" {
		return nil, ErrWorkspaceRootNotSet
	}
	canonical, err := CanonicaliseRoot(root)
	if err != nil {
		return nil, err
	}
	return &Resolver{root: canonical, fs: fsys}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// CanonicaliseRoot canonicalises a workspace root path by making it absolute and resolving symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &WorkspaceRootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &WorkspaceRootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &WorkspaceRootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &WorkspaceRootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Confine resolves input against the root with realpath semantics and
// returns it only if the result is the root or lies beneath it.
//
// Relative inputs are joined to the root, absolute inputs are taken as is.
// Symlinks are followed component by component, so a ".." that follows a
// symlink climbs out of the link target rather than the link's directory.
// Components that do not exist are appended without further resolution,
// which lets callers confine paths they are about to create.
func (r *Resolver) Confine(input string) (ConfinedPath, error) {
	if r == nil || r.root == "" {
		return ConfinedPath{}, ErrWorkspaceRootNotSet
	}

	resolved, err := r.realpath(input)
	if err != nil {
		return ConfinedPath{}, &ResolutionError{Input: input, Cause: err}
	}

	if !within(r.root, resolved) {
		return ConfinedPath{}, &OutOfBoundsError{Input: input, Resolved: resolved}
	}

	rel, err := filepath.Rel(r.root, resolved)
	if err != nil {
		return ConfinedPath{}, &OutOfBoundsError{Input: input, Resolved: resolved}
	}

	return ConfinedPath{abs: resolved, rel: filepath.ToSlash(rel)}, nil
}

// realpath canonicalises input relative to the root without requiring the
// final components to exist.
func (r *Resolver) realpath(input string) (string, error) {
	current := r.root
	if filepath.IsAbs(input) {
		current = string(filepath.Separator)
	}

	pending := splitComponents(input)
	hops := 0

	for len(pending) > 0 {
		part := pending[0]
		pending = pending[1:]

		switch part {
		case "", ".":
			continue
		case "..":
			current = filepath.Dir(current)
			continue
		}

		next := filepath.Join(current, part)
		info, err := r.fs.Lstat(next)
		if err != nil {
			if isMissing(err) {
				current = next
				continue
			}
			return "", err
		}

		if info.Mode()&os.ModeSymlink == 0 {
			current = next
			continue
		}

		hops++
		if hops > maxHops {
			return "", ErrSymlinkLoop
		}

		target, err := r.fs.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			current = string(filepath.Separator)
		}
		pending = append(splitComponents(target), pending...)
	}

	return current, nil
}

func splitComponents(p string) []string {
	return strings.Split(filepath.ToSlash(p), "/")
}

// isMissing reports whether err means the component does not exist,
// including the case where an ancestor is a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// within compares whole path segments so that /root-evil is not inside /root.
func within(root, candidate string) bool {
	if candidate == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(candidate, prefix)
}
