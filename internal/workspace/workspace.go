package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Cyclone1070/boxagent/internal/tool/service/git"
)

// ErrSameDirectory is returned when the destination would be the template itself.
var ErrSameDirectory = errors.New("workspace destination overlaps the template")

// ignoreMatcher reports template paths that must not be copied.
type ignoreMatcher interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// fileSystem is what the gitignore loader needs.
type fileSystem interface {
	Stat(path string) (os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
}

// Options controls a materialization.
type Options struct {
	// Template is the directory to copy.
	Template string
	// Dir is the parent workspace directory; the copy lands in
	// Dir/<basename of Template>.
	Dir string
	// Clean removes an existing copy first instead of merging into it.
	Clean bool
	// Verbatim copies everything, including .git and gitignored paths.
	Verbatim bool
}

// Stats counts what a materialization did.
type Stats struct {
	Files   int
	Dirs    int
	Skipped int
}

// Materializer copies a template directory into the workspace.
type Materializer struct {
	fs     fileSystem
	logger *slog.Logger
}

// NewMaterializer creates a Materializer. fs is used to load the template's .gitignore.
func NewMaterializer(fs fileSystem, logger *slog.Logger) *Materializer {
	if fs == nil {
		panic("fs is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Materializer{fs: fs, logger: logger}
}

// Materialize copies opts.Template into opts.Dir and returns the absolute
// path of the copy. Unless opts.Verbatim is set, the .git directory and paths
// matched by the template's .gitignore are skipped. Existing files in the
// copy are overwritten.
func (m *Materializer) Materialize(ctx context.Context, opts Options) (string, Stats, error) {
	var stats Stats

	src, err := filepath.Abs(opts.Template)
	if err != nil {
		return "", stats, fmt.Errorf("resolve template: %w", err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return "", stats, fmt.Errorf("template: %w", err)
	}
	if !info.IsDir() {
		return "", stats, fmt.Errorf("template %s is not a directory", src)
	}

	parent, err := filepath.Abs(opts.Dir)
	if err != nil {
		return "", stats, fmt.Errorf("resolve workspace dir: %w", err)
	}
	dest := filepath.Join(parent, filepath.Base(src))
	if overlaps(src, dest) {
		return "", stats, fmt.Errorf("%w: %s -> %s", ErrSameDirectory, src, dest)
	}

	var matcher ignoreMatcher = copyAll{}
	if !opts.Verbatim {
		if matcher, err = m.loadIgnore(src); err != nil {
			return "", stats, err
		}
	}

	if opts.Clean {
		m.logger.Info("removing existing workspace", "path", dest)
		if err := os.RemoveAll(dest); err != nil {
			return "", stats, fmt.Errorf("clean workspace: %w", err)
		}
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if rel == "." {
			return os.MkdirAll(target, dirMode(info))
		}

		if !opts.Verbatim && d.IsDir() && d.Name() == ".git" {
			stats.Skipped++
			return filepath.SkipDir
		}

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			st, err := os.Stat(path)
			if err != nil {
				m.logger.Warn("skipping dangling symlink", "path", rel)
				stats.Skipped++
				return nil
			}
			if st.IsDir() {
				m.logger.Warn("skipping symlinked directory", "path", rel)
				stats.Skipped++
				return nil
			}
		}

		if matcher.ShouldIgnore(rel, isDir) {
			m.logger.Debug("skipping ignored path", "path", rel)
			stats.Skipped++
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if isDir {
			dinfo, err := d.Info()
			if err != nil {
				return err
			}
			stats.Dirs++
			return os.MkdirAll(target, dirMode(dinfo))
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		stats.Files++
		return nil
	})
	if err != nil {
		return "", stats, fmt.Errorf("copy template: %w", err)
	}

	m.logger.Info("workspace ready", "path", dest, "files", stats.Files, "dirs", stats.Dirs, "skipped", stats.Skipped)
	return dest, stats, nil
}

func (m *Materializer) loadIgnore(src string) (ignoreMatcher, error) {
	matcher, err := git.NewIgnoreMatcher(src, m.fs)
	if err != nil {
		return nil, err
	}
	return matcher, nil
}

// copyAll ignores nothing.
type copyAll struct{}

func (copyAll) ShouldIgnore(string, bool) bool { return false }

// copyFile copies src's content (following symlinks) to dst, keeping the
// permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, st.Mode().Perm())
}

func dirMode(info os.FileInfo) os.FileMode {
	return info.Mode().Perm() | 0o700
}

// overlaps reports whether one path is the other or nested inside it.
func overlaps(a, b string) bool {
	return within(a, b) || within(b, a)
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) && !startsWithDotDot(rel))
}

func startsWithDotDot(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
