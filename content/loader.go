package content

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// LoaderConfig controls how markdown files are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed (default true
	// via NewLoader).
	Recursive bool
}

// Loader walks a filesystem and turns markdown files into Articles.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over the given filesystem rooted at the
// content directory.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{fs: filesystem, pattern: pattern, recursive: cfg.Recursive}
}

// LoadFile reads and parses a single markdown document.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.ToSlash(filepath.Clean(path))

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("content loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("content loader stat %s: %w", rel, err)
	}

	article, err := BuildArticle(rel, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("content loader parse %s: %w", rel, err)
	}
	return article, nil
}

// LoadResult pairs a file path with its parse outcome. Err is set when the
// file could not be parsed; a broken file never aborts the walk.
type LoadResult struct {
	Path    string
	Article *Article
	Err     error
}

// LoadAll discovers markdown files under root and parses each one. Results are
// sorted by file path for deterministic output.
func (l *Loader) LoadAll(ctx context.Context, root string) ([]LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root = filepath.ToSlash(filepath.Clean(root))
	if root == "" {
		root = "."
	}

	var results []LoadResult
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !l.recursive && filepath.Clean(path) != filepath.Clean(root) {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel := filepath.ToSlash(path)
		if !l.matches(rel) {
			return nil
		}
		article, loadErr := l.LoadFile(ctx, rel)
		results = append(results, LoadResult{Path: rel, Article: article, Err: loadErr})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

func (l *Loader) matches(path string) bool {
	var target string
	if strings.Contains(l.pattern, "/") {
		target = path
	} else {
		target = filepath.Base(path)
	}
	ok, err := filepath.Match(l.pattern, target)
	if err != nil {
		return false
	}
	return ok
}
