package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectValidFiles(t *testing.T) {
	dir := t.TempDir()
	city := filepath.Join(dir, "house.xml")
	wild := filepath.Join(dir, "camp.xml")
	writeFile(t, city, prefabXML("RotationToFaceNorth", "1", "YOffset", "-2", "PrefabSize", "10,5,10"))
	writeFile(t, wild, prefabXML("RotationToFaceNorth", "0", "YOffset", "0", "PrefabSize", "30,5,30",
		"Tags", "wilderness", "AllowedBiomes", "desert"))

	out, err := execute(t, "inspect", city, wild)
	require.NoError(t, err)

	assert.Contains(t, out, "[1/2] house.xml")
	assert.Contains(t, out, "✓ city")
	assert.Contains(t, out, "house;1;-2;10;5;10;alone")
	assert.Contains(t, out, "[2/2] camp.xml")
	assert.Contains(t, out, "✓ wilderness")
	assert.Contains(t, out, "camp;0;0;30;5;30;4;biomes:desert;region:default;road:gravel")
	assert.Contains(t, out, "2 of 2 files are valid POIs")
}

func TestInspectReportsSkipReasons(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"blocks.xml":  "<blocks/>",
		"nosize.xml":  prefabXML("YOffset", "0"),
		"broken.xml":  "<prefab>",
		"oddsize.xml": prefabXML("YOffset", "0", "PrefabSize", "a,b,c", "Tags", "wilderness"),
	}
	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		writeFile(t, path, content)
		paths = append(paths, path)
	}
	paths = append(paths, filepath.Join(dir, "missing.xml"))

	out, err := execute(t, append([]string{"inspect"}, paths...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 of 5 files are not valid POIs")

	assert.Contains(t, out, "✗ not a POI: root element is not <prefab>")
	assert.Contains(t, out, "✗ dropped: nosize, prefab has bad or no PrefabSize tag")
	assert.Contains(t, out, "✗ unparsable:")
	assert.Contains(t, out, "✗ dropped: oddsize has non-numeric PrefabSize x component")
	assert.Contains(t, out, "✗ failed to open file:")
	assert.Contains(t, out, "0 of 5 files are valid POIs")
}

func TestInspectRequiresArgs(t *testing.T) {
	_, err := execute(t, "inspect")
	assert.Error(t, err)
}
