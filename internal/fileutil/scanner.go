package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directory is one node of a tree walk, handed to the visit callback
type Directory struct {
	// Path is the directory path as reached from the walk root
	Path string
	// RelPath is relative to the walk root ("." for the root itself)
	RelPath string
	// Name is the bare directory name
	Name string
	// Files contains the names of the regular files (or symlinks to regular
	// files) that passed the extension filter, sorted
	Files []string
	// Subdirs contains the names of subdirectories, sorted
	Subdirs []string
}

// WalkOptions configures WalkTree
type WalkOptions struct {
	// Extension keeps only files whose name ends with it (case-sensitive).
	// Empty keeps every file.
	Extension string
	// SkipDir is consulted for every directory, the root included, before its
	// entries are read. Returning true prunes the whole subtree.
	SkipDir func(name, relPath string) bool
}

// WalkResult summarizes a tree walk
type WalkResult struct {
	// Visited counts directories handed to the visit callback
	Visited int
	// Skipped lists the relative paths of pruned directories
	Skipped []string
	// Errors contains non-fatal errors (unreadable subdirectories)
	Errors []error
}

// WalkTree walks root depth-first. Each directory is visited with its own
// files before any of its subdirectories are entered, and entries are
// processed in lexical order, so the visit sequence is stable across runs.
//
// Only regular files are reported; symlinks to regular files count as
// files and symlinks to directories are not followed. A missing or unreadable root is fatal; an
// unreadable subdirectory is recorded in WalkResult.Errors and skipped. An
// error returned by visit aborts the walk and is returned as is.
func WalkTree(root string, opts WalkOptions, visit func(dir *Directory) error) (*WalkResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	result := &WalkResult{
		Skipped: make([]string, 0),
		Errors:  make([]error, 0),
	}

	w := &treeWalker{opts: opts, visit: visit, result: result}
	if err := w.walk(root, ".", filepath.Base(filepath.Clean(root)), true); err != nil {
		return nil, err
	}

	return result, nil
}

type treeWalker struct {
	opts   WalkOptions
	visit  func(dir *Directory) error
	result *WalkResult
}

func (w *treeWalker) walk(path, rel, name string, isRoot bool) error {
	if w.opts.SkipDir != nil && w.opts.SkipDir(name, rel) {
		w.result.Skipped = append(w.result.Skipped, rel)
		return nil
	}

	// os.ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(path)
	if err != nil {
		if isRoot {
			return fmt.Errorf("failed to read directory: %w", err)
		}
		w.result.Errors = append(w.result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
		return nil
	}

	dir := &Directory{
		Path:    path,
		RelPath: rel,
		Name:    name,
		Files:   make([]string, 0),
		Subdirs: make([]string, 0),
	}

	for _, entry := range entries {
		entryName := entry.Name()
		if entry.IsDir() {
			dir.Subdirs = append(dir.Subdirs, entryName)
			continue
		}

		if w.opts.Extension != "" && !strings.HasSuffix(entryName, w.opts.Extension) {
			continue
		}

		// pipes, sockets and devices would block or fail on open
		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(path, entryName))
			if err != nil || !target.Mode().IsRegular() {
				continue
			}
		} else if !entry.Type().IsRegular() {
			continue
		}
		dir.Files = append(dir.Files, entryName)
	}

	w.result.Visited++
	if err := w.visit(dir); err != nil {
		return err
	}

	for _, sub := range dir.Subdirs {
		subRel := sub
		if rel != "." {
			subRel = filepath.Join(rel, sub)
		}
		if err := w.walk(filepath.Join(path, sub), subRel, sub, false); err != nil {
			return err
		}
	}

	return nil
}
