// Package parser extracts POI properties from prefab XML definitions.
//
// A prefab document looks like:
//
//	<prefab>
//	  <property name="PrefabSize" value="25, 12, 31" />
//	  <property name="YOffset" value="-4" />
//	  <property name="Tags" value="wilderness,cave" />
//	</prefab>
//
// Only the direct children of the root are read. Each child identifies a
// property by its name attribute and carries the payload in its value
// attribute; the element name itself is not inspected.
package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
	"golang.org/x/net/html/charset"
)

// PrefabRootTag is the root element every POI document carries
const PrefabRootTag = "prefab"

// XMLExtension is the (case-sensitive) suffix of candidate files
const XMLExtension = ".xml"

type prefabDocument struct {
	XMLName    xml.Name
	Properties []prefabProperty `xml:",any"`
}

type prefabProperty struct {
	XMLName xml.Name
	Name    string `xml:"name,attr"`
	Value   string `xml:"value,attr"`
}

// propertySetters maps a property name to its effect on the record.
// Later occurrences overwrite earlier ones.
var propertySetters = map[string]func(rec *models.RawPoiRecord, value string){
	"RotationToFaceNorth": func(rec *models.RawPoiRecord, v string) { rec.Rotation = v },
	"AllowedBiomes":       func(rec *models.RawPoiRecord, v string) { rec.AllowedBiomes = v },
	"PrefabSize":          setPrefabSize,
	"YOffset":             func(rec *models.RawPoiRecord, v string) { rec.YOffset = v },
	"Tags":                func(rec *models.RawPoiRecord, v string) { rec.Tags = v },
}

// setPrefabSize splits "x, y, z". Anything other than three components
// clears the size, even one set by an earlier PrefabSize property.
func setPrefabSize(rec *models.RawPoiRecord, value string) {
	dims := strings.Split(value, ",")
	if len(dims) != 3 {
		rec.SizeX, rec.SizeY, rec.SizeZ = "", "", ""
		return
	}
	rec.SizeX = strings.TrimSpace(dims[0])
	rec.SizeY = strings.TrimSpace(dims[1])
	rec.SizeZ = strings.TrimSpace(dims[2])
}

// PoiName derives the POI name from a filename by dropping the .xml suffix
func PoiName(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), XMLExtension)
}

// ExtractFile opens path and extracts its POI record.
// See Extract for the returned errors.
func ExtractFile(path string) (*models.RawPoiRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return extract(file, PoiName(path), path)
}

// Extract decodes a prefab document from r. name becomes the record name.
//
// Returns ErrNotAPoi when the root element is not <prefab>, *ParseError when
// the input is not well-formed XML, and *MissingFieldError when PrefabSize or
// YOffset is absent or malformed.
func Extract(r io.Reader, name string) (*models.RawPoiRecord, error) {
	return extract(r, name, name+XMLExtension)
}

func extract(r io.Reader, name, path string) (*models.RawPoiRecord, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	root, err := readRoot(decoder)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var doc prefabDocument
	if err := decoder.DecodeElement(&doc, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := readTrailer(decoder); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if doc.XMLName.Space != "" || doc.XMLName.Local != PrefabRootTag {
		return nil, ErrNotAPoi
	}

	rec := &models.RawPoiRecord{
		Name:    name,
		Path:    path,
		RootTag: doc.XMLName.Local,
	}

	for _, prop := range doc.Properties {
		if set, ok := propertySetters[prop.Name]; ok {
			set(rec, prop.Value)
		}
	}

	if !rec.HasSize() {
		return nil, &MissingFieldError{Name: name, RootTag: rec.RootTag, Field: FieldPrefabSize}
	}
	if rec.YOffset == "" {
		return nil, &MissingFieldError{Name: name, RootTag: rec.RootTag, Field: FieldYOffset}
	}

	if rec.AllowedBiomes == "" {
		rec.AllowedBiomes = models.DefaultAllowedBiomes
	}

	return rec, nil
}

// readRoot consumes the prolog and returns the document element's start tag.
// A leading byte order mark is tolerated.
func readRoot(decoder *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := decoder.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.Directive:
			continue
		case xml.CharData:
			if strings.Trim(string(t), " \t\r\n\ufeff") != "" {
				return xml.StartElement{}, errors.New("text before document element")
			}
		}
	}
}

// readTrailer rejects anything after the document element other than
// whitespace, comments and processing instructions.
func readTrailer(decoder *xml.Decoder) error {
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
			continue
		case xml.CharData:
			if strings.TrimSpace(string(t)) == "" {
				continue
			}
		}
		return errors.New("junk after document element")
	}
}
