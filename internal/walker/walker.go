// Package walker drives a POI manifest run: it walks a prefab tree, filters
// directories and files by skip pattern, extracts and classifies each prefab
// and renders one report section per directory that produced POIs.
package walker

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grumpygabe/TeragonPOIParser/internal/classifier"
	"github.com/grumpygabe/TeragonPOIParser/internal/fileutil"
	"github.com/grumpygabe/TeragonPOIParser/internal/logger"
	"github.com/grumpygabe/TeragonPOIParser/internal/models"
	"github.com/grumpygabe/TeragonPOIParser/internal/parser"
	"github.com/grumpygabe/TeragonPOIParser/internal/pattern"
	"github.com/grumpygabe/TeragonPOIParser/internal/report"
)

// Options holds the compiled skip lists. A nil matcher skips nothing.
type Options struct {
	SkipDirs  *pattern.Matcher
	SkipFiles *pattern.Matcher
}

// DroppedPoi is a prefab that was found but left out of the manifest
type DroppedPoi struct {
	// Path is the display path of the file, e.g. Prefabs/POIs/cabin_03.xml
	Path string
	// Reason is a *parser.MissingFieldError, *parser.ParseError or
	// *classifier.InvalidSizeError
	Reason error
}

// Result is everything a walk produced
type Result struct {
	// Output is the rendered manifest, sections concatenated in traversal order
	Output string
	// Sections holds the non-empty directory sections in traversal order
	Sections []models.DirectorySection
	Stats    models.RunStats
	Dropped  []DroppedPoi
	// Errors contains non-fatal I/O errors (unreadable files and subdirectories)
	Errors []error
}

// Walker runs the extract, classify and render pipeline over a directory tree
type Walker struct {
	opts Options
	log  logger.Logger
}

// New creates a Walker. A nil log discards all messages.
func New(opts Options, log logger.Logger) *Walker {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Walker{opts: opts, log: log}
}

// Walk processes root and every directory below it that is not pruned.
// A missing or unreadable root is the only fatal condition; per-file and
// per-directory failures are logged and collected in the Result.
func (w *Walker) Walk(root string) (*Result, error) {
	base := filepath.Base(filepath.Clean(root))

	run := &walkRun{
		walker: w,
		base:   base,
		result: &Result{
			Sections: make([]models.DirectorySection, 0),
			Dropped:  make([]DroppedPoi, 0),
			Errors:   make([]error, 0),
		},
	}

	opts := fileutil.WalkOptions{
		Extension: parser.XMLExtension,
		SkipDir:   run.skipDir,
	}

	walked, err := fileutil.WalkTree(root, opts, run.visit)
	if err != nil {
		return nil, err
	}

	run.result.Stats.DirectoriesVisited = walked.Visited
	run.result.Stats.DirectoriesSkipped = len(walked.Skipped)
	for _, walkErr := range walked.Errors {
		w.log.LogError(walkErr.Error())
	}
	run.result.Errors = append(run.result.Errors, walked.Errors...)

	run.result.Output = run.output.String()
	return run.result, nil
}

// Walk is the single-call form: it compiles the skip patterns, walks root
// without logging and returns the rendered manifest. An invalid pattern
// fails before anything is read.
func Walk(root string, dirSkipPatterns, fileSkipPatterns []string) (string, error) {
	dirs, err := pattern.Compile(dirSkipPatterns, "")
	if err != nil {
		return "", err
	}
	files, err := pattern.Compile(fileSkipPatterns, pattern.FileSuffix)
	if err != nil {
		return "", err
	}

	result, err := New(Options{SkipDirs: dirs, SkipFiles: files}, nil).Walk(root)
	if err != nil {
		return "", err
	}
	return result.Output, nil
}

// walkRun carries the state of one Walk call
type walkRun struct {
	walker *Walker
	base   string
	output strings.Builder
	result *Result
}

func (r *walkRun) displayPath(relPath string) string {
	if relPath == "." {
		return r.base
	}
	return filepath.Join(r.base, relPath)
}

func (r *walkRun) skipDir(name, relPath string) bool {
	if _, ok := r.walker.opts.SkipDirs.Match(name); ok {
		r.walker.log.LogInfo(fmt.Sprintf("Skipping directory: %s", r.displayPath(relPath)))
		return true
	}
	return false
}

func (r *walkRun) visit(dir *fileutil.Directory) error {
	log := r.walker.log
	display := r.displayPath(dir.RelPath)
	log.LogInfo(fmt.Sprintf("Entering directory: %s", display))

	section := models.DirectorySection{DisplayPath: display}

	for _, name := range dir.Files {
		if _, ok := r.walker.opts.SkipFiles.Match(name); ok {
			log.LogInfo(fmt.Sprintf("Skipping file: %s", name))
			r.result.Stats.FilesSkipped++
			continue
		}

		poi, err := r.process(filepath.Join(dir.Path, name))
		if err != nil {
			r.recordSkip(filepath.Join(display, name), err)
			continue
		}

		section.Add(poi.Category, classifier.Line(poi))
		r.result.Stats.Count(poi.Category)
	}

	if section.Empty() {
		return nil
	}

	r.output.WriteString(report.RenderSection(&section))
	r.result.Sections = append(r.result.Sections, section)
	log.LogInfo(fmt.Sprintf("%d POIs recorded.", section.Total()))

	return nil
}

func (r *walkRun) process(path string) (*models.ClassifiedPoi, error) {
	rec, err := parser.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return classifier.Classify(rec)
}

// recordSkip accounts for a file that produced no manifest line
func (r *walkRun) recordSkip(display string, err error) {
	log := r.walker.log

	if errors.Is(err, parser.ErrNotAPoi) {
		log.LogDebug(fmt.Sprintf("Not a POI: %s", display))
		r.result.Stats.NotPois++
		return
	}

	var missing *parser.MissingFieldError
	var invalid *classifier.InvalidSizeError
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &missing), errors.As(err, &invalid):
		log.LogWarn(fmt.Sprintf("%s.  Skipping.", err))
		r.result.Stats.Dropped++
	case errors.As(err, &parseErr):
		log.LogWarn(fmt.Sprintf("Could not parse %s: %v.  Skipping.", display, parseErr.Err))
		r.result.Stats.ParseErrors++
	default:
		log.LogError(fmt.Sprintf("%s: %v", display, err))
		r.result.Errors = append(r.result.Errors, fmt.Errorf("%s: %w", display, err))
		return
	}

	r.result.Dropped = append(r.result.Dropped, DroppedPoi{Path: display, Reason: err})
}
