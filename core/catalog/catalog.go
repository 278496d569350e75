// Package catalog reads unit definitions from catalogue files and adds them
// to a registry.
//
// A catalogue is a YAML or XML document listing units by key, with a name,
// description, tags, aliases, the exponent vector over the registry's unit
// system and a linear scale and offset to base units. Either form may be xz
// compressed. Catalogues are only ever read; nothing is written back.
//
// YAML:
//
//	system: SI
//	units:
//	  - key: ft
//	    name: foot
//	    aliases: [feet]
//	    tags: [length]
//	    exponents: [1, 0, 0, 0, 0, 0, 0]
//	    scale: 0.3048
//
// XML:
//
//	<units system="SI">
//	  <unit key="ft" name="foot">
//	    <alias>feet</alias>
//	    <tag>length</tag>
//	    <exponents>1 0 0 0 0 0 0</exponents>
//	    <scale>0.3048</scale>
//	  </unit>
//	</units>
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
	"github.com/FocuswithJustin/unitconv/core/registry"
	"github.com/FocuswithJustin/unitconv/core/units"
	"github.com/ulikunitz/xz"
)

// Format identifies the encoding of a catalogue.
type Format int

const (
	// FormatAuto detects the format from the file name or content.
	FormatAuto Format = iota
	FormatYAML
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatXML:
		return "xml"
	default:
		return "auto"
	}
}

// Definition is one unit as written in a catalogue.
type Definition struct {
	Key         string
	Name        string
	Description string
	Tags        []string
	Aliases     []string
	Exponents   []float64
	// Scale defaults to 1 when the catalogue omits it.
	Scale  float64
	Offset float64
}

// Catalog is a decoded catalogue.
type Catalog struct {
	// System optionally names the unit system the definitions are written
	// for. When set it must match the registry's system.
	System      string
	Definitions []Definition
}

// xzMagic is the header of an xz stream.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// maxDecompressed caps the size of a decompressed catalogue.
const maxDecompressed = 64 << 20

// Test injection point.
var xzNewReader = xz.NewReader

// Decode decodes a catalogue. Compressed input is detected from its header.
func Decode(data []byte, format Format) (*Catalog, error) {
	if bytes.HasPrefix(data, xzMagic) {
		r, err := xzNewReader(bytes.NewReader(data))
		if err != nil {
			return nil, uerrors.Wrap(err, "opening xz stream")
		}
		plain, err := io.ReadAll(io.LimitReader(r, maxDecompressed+1))
		if err != nil {
			return nil, uerrors.Wrap(err, "decompressing catalogue")
		}
		if len(plain) > maxDecompressed {
			return nil, uerrors.NewValidation("catalogue", fmt.Sprintf("decompressed catalogue exceeds %d bytes", maxDecompressed))
		}
		data = plain
	}

	if format == FormatAuto {
		format = sniff(data)
	}
	switch format {
	case FormatYAML:
		return decodeYAML(data)
	case FormatXML:
		return decodeXML(data)
	}
	return nil, uerrors.NewValidation("format", fmt.Sprintf("unknown catalogue format %d", format))
}

// Read decodes a catalogue from r.
func Read(r io.Reader, format Format) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, uerrors.Wrap(err, "reading catalogue")
	}
	return Decode(data, format)
}

// ReadFile decodes the catalogue at path, choosing the format from the
// extension (".yaml", ".yml" or ".xml", optionally followed by ".xz").
func ReadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, uerrors.Wrapf(err, "reading catalogue %s", path)
	}
	cat, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, uerrors.Wrapf(err, "catalogue %s", path)
	}
	return cat, nil
}

// FormatFromPath returns the format implied by a file name, or FormatAuto.
func FormatFromPath(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), ".xz")
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".xml":
		return FormatXML
	}
	return FormatAuto
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return FormatXML
	}
	return FormatYAML
}

// LoadFile reads the catalogue at path and adds it to c.
func LoadFile(c *registry.Converter, path string) (int, error) {
	cat, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return cat.Apply(c)
}

// Load reads a catalogue from r and adds it to c.
func Load(c *registry.Converter, r io.Reader, format Format) (int, error) {
	cat, err := Read(r, format)
	if err != nil {
		return 0, err
	}
	return cat.Apply(c)
}

// Apply adds every definition to c and returns how many were added. The
// registry's own validation applies, so a key or alias already in use fails.
// Either all definitions are added or none.
func (cat *Catalog) Apply(c *registry.Converter) (int, error) {
	system := c.System()
	if cat.System != "" && cat.System != system.Name() {
		return 0, uerrors.NewIncompatible(cat.System, system.Name(), "catalogue is written for another unit system")
	}

	added := make([]string, 0, len(cat.Definitions))
	rollback := func() {
		for i := len(added) - 1; i >= 0; i-- {
			_ = c.Remove(added[i])
		}
	}

	for _, d := range cat.Definitions {
		entry, err := d.entry(system)
		if err != nil {
			rollback()
			return 0, err
		}
		if err := c.Add(d.Key, entry); err != nil {
			rollback()
			return 0, uerrors.Wrapf(err, "definition %q", d.Key)
		}
		added = append(added, d.Key)
	}
	return len(added), nil
}

func (d Definition) entry(system *units.System) (registry.Entry, error) {
	if d.Key == "" {
		return registry.Entry{}, uerrors.NewValidation("key", "definition has no key")
	}
	if len(d.Exponents) != system.BaseCount() {
		return registry.Entry{}, uerrors.NewValidation("exponents",
			fmt.Sprintf("definition %q has %d exponents, system %s has %d bases",
				d.Key, len(d.Exponents), system.Name(), system.BaseCount()))
	}
	u, err := units.NewLinear(system, d.Exponents, d.Scale, d.Offset,
		units.WithIdentifier(d.Key), units.WithName(d.Name))
	if err != nil {
		return registry.Entry{}, uerrors.Wrapf(err, "definition %q", d.Key)
	}
	return registry.Entry{
		Unit:        u,
		Name:        d.Name,
		Description: d.Description,
		Tags:        d.Tags,
		Aliases:     d.Aliases,
	}, nil
}
