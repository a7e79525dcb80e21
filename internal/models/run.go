package models

import "time"

// RunStats counts what happened during one walk
type RunStats struct {
	DirectoriesVisited int
	DirectoriesSkipped int
	FilesSkipped       int // matched a skip_files pattern
	NotPois            int // root tag was not "prefab"
	Dropped            int // missing fields or non-numeric size
	ParseErrors        int // malformed XML
	City               int
	Wilderness         int
	RwgTiles           int
}

// TotalPois returns the number of POIs written to the manifest
func (s RunStats) TotalPois() int {
	return s.City + s.Wilderness + s.RwgTiles
}

// Count records one POI of the given category
func (s *RunStats) Count(category Category) {
	switch category {
	case CategoryWilderness:
		s.Wilderness++
	case CategoryRwgTile:
		s.RwgTiles++
	default:
		s.City++
	}
}

// RunRecord describes one completed run for the history store
type RunRecord struct {
	ID         string
	RootPath   string
	OutputFile string
	StartedAt  time.Time
	Duration   time.Duration
	Stats      RunStats
	Sections   []SectionSummary
	Dropped    []DroppedEntry
}

// DroppedEntry is a prefab a run left out of the manifest
type DroppedEntry struct {
	Path   string
	Reason string
}

// SectionSummary is the per-directory count kept in the history store
type SectionSummary struct {
	DisplayPath string
	City        int
	Wilderness  int
	RwgTiles    int
}

// Summarize reduces a section to its counts
func (s *DirectorySection) Summarize() SectionSummary {
	return SectionSummary{
		DisplayPath: s.DisplayPath,
		City:        len(s.City),
		Wilderness:  len(s.Wilderness),
		RwgTiles:    len(s.RwgTiles),
	}
}
