// Package classifier sorts extracted POI records into manifest categories
// and serializes them into the line format Teragon reads.
package classifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
)

// Tag substrings that select a category, checked in this order
const (
	WildernessTag = "wilderness"
	StreetTileTag = "streettile"
)

// Wilderness placement parameters
const (
	DefaultRegion             = "default"
	DefaultRoad               = "gravel"
	LargeWildernessSize       = 120
	LargeWildernessDistance   = 64
	DefaultWildernessDistance = 4
)

// InvalidSizeError reports a size component that is not an integer.
// Only wilderness POIs need numeric sizes.
type InvalidSizeError struct {
	Name  string
	Axis  string
	Value string
	Err   error
}

// Error implements the error interface for InvalidSizeError.
func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("%s has non-numeric PrefabSize %s component %q", e.Name, e.Axis, e.Value)
}

// Unwrap returns the underlying strconv error.
func (e *InvalidSizeError) Unwrap() error {
	return e.Err
}

// Categorize picks the category for a tag string. A tag list containing both
// substrings is wilderness.
func Categorize(tags string) models.Category {
	lower := strings.ToLower(tags)
	switch {
	case strings.Contains(lower, WildernessTag):
		return models.CategoryWilderness
	case strings.Contains(lower, StreetTileTag):
		return models.CategoryRwgTile
	default:
		return models.CategoryCity
	}
}

// WildernessDistance returns the placement distance for a POI footprint
func WildernessDistance(sizeX, sizeZ int) int {
	if max(sizeX, sizeZ) >= LargeWildernessSize {
		return LargeWildernessDistance
	}
	return DefaultWildernessDistance
}

// Classify derives the category (and distance for wilderness POIs) of a
// valid record.
func Classify(rec *models.RawPoiRecord) (*models.ClassifiedPoi, error) {
	poi := &models.ClassifiedPoi{
		Record:   *rec,
		Category: Categorize(rec.Tags),
	}

	if poi.Category == models.CategoryWilderness {
		x, err := parseSize(rec.Name, "x", rec.SizeX)
		if err != nil {
			return nil, err
		}
		z, err := parseSize(rec.Name, "z", rec.SizeZ)
		if err != nil {
			return nil, err
		}
		poi.Distance = WildernessDistance(x, z)
	}

	return poi, nil
}

func parseSize(name, axis, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InvalidSizeError{Name: name, Axis: axis, Value: value, Err: err}
	}
	return n, nil
}

// Line serializes a classified POI.
//
//	wilderness: name;rotation;yoffset;x;y;z;distance;biomes:<biomes>;region:default;road:gravel
//	city, rwg:  name;rotation;yoffset;x;y;z;alone
func Line(poi *models.ClassifiedPoi) string {
	r := &poi.Record
	if poi.Category == models.CategoryWilderness {
		return fmt.Sprintf("%s;%s;%s;%s;%s;%s;%d;biomes:%s;region:%s;road:%s",
			r.Name, r.Rotation, r.YOffset, r.SizeX, r.SizeY, r.SizeZ,
			poi.Distance, r.AllowedBiomes, DefaultRegion, DefaultRoad)
	}
	return fmt.Sprintf("%s;%s;%s;%s;%s;%s;alone",
		r.Name, r.Rotation, r.YOffset, r.SizeX, r.SizeY, r.SizeZ)
}
