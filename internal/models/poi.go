package models

// DefaultAllowedBiomes is used when a prefab carries no AllowedBiomes property
const DefaultAllowedBiomes = "burnt,desert,forest,snow,wasteland"

// Category identifies which manifest block a POI belongs to
type Category int

const (
	// CategoryCity is a regular, hand-placed city POI
	CategoryCity Category = iota
	// CategoryWilderness is a POI placed outside urban tiles
	CategoryWilderness
	// CategoryRwgTile is a street tile used by random world generation
	CategoryRwgTile
)

// String returns the string representation of the Category
func (c Category) String() string {
	switch c {
	case CategoryCity:
		return "city"
	case CategoryWilderness:
		return "wilderness"
	case CategoryRwgTile:
		return "rwg"
	default:
		return "unknown"
	}
}

// RawPoiRecord holds the properties extracted from one prefab XML document
type RawPoiRecord struct {
	Name          string // Filename without the .xml suffix
	Path          string // Source file path (diagnostics only)
	RootTag       string // Root element tag of the document
	Rotation      string // RotationToFaceNorth, optional
	YOffset       string // YOffset, required
	SizeX         string // First PrefabSize component, required
	SizeY         string // Second PrefabSize component, required
	SizeZ         string // Third PrefabSize component, required
	AllowedBiomes string // AllowedBiomes, DefaultAllowedBiomes when absent
	Tags          string // Tags, may be empty
}

// HasSize reports whether all three PrefabSize components are present
func (r *RawPoiRecord) HasSize() bool {
	return r.SizeX != "" && r.SizeY != "" && r.SizeZ != ""
}

// Valid reports whether the record carries every required field
func (r *RawPoiRecord) Valid() bool {
	return r.HasSize() && r.YOffset != ""
}

// ClassifiedPoi is a valid record with its derived category.
// Distance is only meaningful for CategoryWilderness.
type ClassifiedPoi struct {
	Record   RawPoiRecord
	Category Category
	Distance int
}

// DirectorySection aggregates the manifest lines produced by a single
// directory. Subdirectories have their own section.
type DirectorySection struct {
	DisplayPath string
	City        []string
	Wilderness  []string
	RwgTiles    []string
}

// Add appends a serialized line to the list for the given category
func (s *DirectorySection) Add(category Category, line string) {
	switch category {
	case CategoryWilderness:
		s.Wilderness = append(s.Wilderness, line)
	case CategoryRwgTile:
		s.RwgTiles = append(s.RwgTiles, line)
	default:
		s.City = append(s.City, line)
	}
}

// Total returns the number of POIs across all three categories
func (s *DirectorySection) Total() int {
	return len(s.City) + len(s.Wilderness) + len(s.RwgTiles)
}

// Empty reports whether the section holds no POIs
func (s *DirectorySection) Empty() bool {
	return s.Total() == 0
}
