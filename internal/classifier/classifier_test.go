package classifier

import (
	"errors"
	"strconv"
	"testing"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func record(tags, x, z string) *models.RawPoiRecord {
	return &models.RawPoiRecord{
		Name:          "poi",
		Rotation:      "2",
		YOffset:       "-1",
		SizeX:         x,
		SizeY:         "15",
		SizeZ:         z,
		AllowedBiomes: models.DefaultAllowedBiomes,
		Tags:          tags,
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		tags string
		want models.Category
	}{
		{"wilderness,forest", models.CategoryWilderness},
		{"WILDERNESS", models.CategoryWilderness},
		{"StreetTile_North", models.CategoryRwgTile},
		{"rwg,streettile", models.CategoryRwgTile},
		{"streettile,wilderness", models.CategoryWilderness},
		{"downtown,industrial", models.CategoryCity},
		{"", models.CategoryCity},
		{"wild", models.CategoryCity},
	}

	for _, tt := range tests {
		t.Run(tt.tags, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.tags))
		})
	}
}

func TestClassifyWildernessDistance(t *testing.T) {
	tests := []struct {
		name string
		x, z string
		want int
	}{
		{"large x", "200", "10", 64},
		{"large z", "10", "200", 64},
		{"small", "50", "50", 4},
		{"boundary 120", "120", "30", 64},
		{"just below", "119", "119", 4},
		{"negative", "-5", "0", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poi, err := Classify(record("wilderness,forest", tt.x, tt.z))
			require.NoError(t, err)
			assert.Equal(t, models.CategoryWilderness, poi.Category)
			assert.Equal(t, tt.want, poi.Distance)
		})
	}
}

func TestClassifyNonNumericSize(t *testing.T) {
	_, err := Classify(record("wilderness", "big", "10"))
	require.Error(t, err)

	var sizeErr *InvalidSizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, "x", sizeErr.Axis)
	assert.Equal(t, "big", sizeErr.Value)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = Classify(record("wilderness", "10", "1.5"))
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, "z", sizeErr.Axis)
}

func TestClassifyNonNumericSizeIgnoredOutsideWilderness(t *testing.T) {
	poi, err := Classify(record("streettile", "big", "x"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRwgTile, poi.Category)

	poi, err = Classify(record("", "big", "x"))
	require.NoError(t, err)
	assert.Equal(t, models.CategoryCity, poi.Category)
	assert.Equal(t, 0, poi.Distance)
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		rec  *models.RawPoiRecord
		want string
	}{
		{
			name: "wilderness",
			rec:  record("wilderness,forest", "200", "40"),
			want: "poi;2;-1;200;15;40;64;biomes:burnt,desert,forest,snow,wasteland;region:default;road:gravel",
		},
		{
			name: "rwg tile",
			rec:  record("StreetTile_North", "42", "42"),
			want: "poi;2;-1;42;15;42;alone",
		},
		{
			name: "city",
			rec:  record("downtown", "30", "30"),
			want: "poi;2;-1;30;15;30;alone",
		},
		{
			name: "empty rotation keeps its field",
			rec: &models.RawPoiRecord{
				Name: "shack", YOffset: "0", SizeX: "5", SizeY: "6", SizeZ: "7",
				AllowedBiomes: "snow", Tags: "Wilderness",
			},
			want: "shack;;0;5;6;7;4;biomes:snow;region:default;road:gravel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poi, err := Classify(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Line(poi))
		})
	}
}

func TestPropertyWildernessDistance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.IntRange(0, 500).Draw(t, "x")
		z := rapid.IntRange(0, 500).Draw(t, "z")

		poi, err := Classify(record("wilderness", strconv.Itoa(x), strconv.Itoa(z)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := DefaultWildernessDistance
		if x >= LargeWildernessSize || z >= LargeWildernessSize {
			want = LargeWildernessDistance
		}
		if poi.Distance != want {
			t.Fatalf("distance(%d,%d) = %d, want %d", x, z, poi.Distance, want)
		}
	})
}

func TestPropertyWildernessWinsOverStreetTile(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-z,_]{0,8}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-z,_]{0,8}`).Draw(t, "suffix")
		tags := prefix + "StreetTile" + suffix + "WilderNess"

		if got := Categorize(tags); got != models.CategoryWilderness {
			t.Fatalf("Categorize(%q) = %v, want wilderness", tags, got)
		}
	})
}
