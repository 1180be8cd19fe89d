package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Discover resolves opts.Paths into a sorted, de-duplicated list of absolute
// file paths. Directories are walked; hidden entries, vendored directories,
// excluded globs and files with other extensions are skipped. Explicitly
// named files are checked against extensions and excludes only.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	walker := &walker{
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		seen:       make(map[string]struct{}),
		visited:    make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := walker.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}
		if walker.matchesFile(absPath) {
			walker.add(absPath)
		}
	}

	sort.Strings(walker.files)
	return walker.files, nil
}

type walker struct {
	opts       Options
	workDir    string
	extensions []string
	seen       map[string]struct{}
	visited    map[string]struct{}
	files      []string
}

// visit records dir by its resolved path and reports whether it is new.
func (w *walker) visit(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		resolved = dir
	}
	if _, ok := w.visited[resolved]; ok {
		return false
	}
	w.visited[resolved] = struct{}{}
	return true
}

func (w *walker) add(path string) {
	if _, ok := w.seen[path]; ok {
		return
	}
	w.seen[path] = struct{}{}
	w.files = append(w.files, path)
}

func (w *walker) rel(path string) string {
	relPath, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relPath)
}

func (w *walker) walk(ctx context.Context, root string) error {
	if !w.visit(root) {
		return nil
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := w.rel(path)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") ||
				w.isVendored(relPath+"/") ||
				matchesAny(relPath, w.opts.ExcludeGlobs) ||
				!w.visit(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return w.followSymlink(ctx, path)
		}

		if w.matchesFile(path) {
			w.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// followSymlink adds a symlinked file, or walks a symlinked directory when
// FollowSymlinks is set. Broken links are ignored.
func (w *walker) followSymlink(ctx context.Context, path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Unreadable targets are skipped.
	}
	if !info.IsDir() {
		if w.matchesFile(path) {
			w.add(path)
		}
		return nil
	}
	if !w.opts.FollowSymlinks {
		return nil
	}
	return w.walk(ctx, target)
}

func (w *walker) isVendored(relPath string) bool {
	return !w.opts.IncludeVendored && enry.IsVendor(relPath)
}

func (w *walker) matchesFile(path string) bool {
	return hasExtension(path, w.extensions) && !matchesAny(w.rel(path), w.opts.ExcludeGlobs)
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func matchesAny(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchGlob(relPath, pattern) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against a glob. "**" matches any
// number of path segments. A pattern without a slash also matches the base
// name, so "*.txt" excludes text files at any depth.
func matchGlob(relPath, pattern string) bool {
	relPath = filepath.ToSlash(relPath)
	pattern = filepath.ToSlash(pattern)

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		if ok, _ := path.Match(pattern, path.Base(relPath)); ok {
			return true
		}
	}
	return matchSegments(strings.Split(relPath, "/"), strings.Split(pattern, "/"))
}

func matchSegments(parts, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
			return false
		}
		parts, pattern = parts[1:], pattern[1:]
	}
	return len(parts) == 0
}
