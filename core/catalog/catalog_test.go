package catalog

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
	"github.com/FocuswithJustin/unitconv/core/registry"
	"github.com/FocuswithJustin/unitconv/core/units"
	"github.com/ulikunitz/xz"
)

const sampleYAML = `system: SI
units:
  - key: furlong
    name: furlong
    description: an eighth of a mile
    tags: [length, imperial]
    aliases: [furlongs]
    exponents: [1, 0, 0, 0, 0, 0, 0]
    scale: 201.168
  - key: fortnight
    name: fortnight
    tags: [time]
    exponents: [0, 1, 0, 0, 0, 0, 0]
    scale: 1209600
`

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<units system="SI">
  <unit key="furlong" name="furlong">
    <description>an eighth of a mile</description>
    <tag>length</tag>
    <tag>imperial</tag>
    <alias>furlongs</alias>
    <exponents>1 0 0 0 0 0 0</exponents>
    <scale>201.168</scale>
  </unit>
  <unit key="fortnight" name="fortnight">
    <tag>time</tag>
    <exponents>0 1 0 0 0 0 0</exponents>
    <scale>1209600</scale>
  </unit>
</units>
`

func newConverter(t *testing.T) *registry.Converter {
	t.Helper()
	c, err := registry.New(units.SI())
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	for _, base := range []struct {
		key string
		exp []float64
	}{
		{"m", []float64{1, 0, 0, 0, 0, 0, 0}},
		{"s", []float64{0, 1, 0, 0, 0, 0, 0}},
	} {
		u := units.MustLinear(units.SI(), base.exp, 1, 0, units.WithIdentifier(base.key))
		if err := c.Add(base.key, registry.Entry{Unit: u, Name: base.key}); err != nil {
			t.Fatalf("Add(%s): %v", base.key, err)
		}
	}
	return c
}

func compress(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter: %v", err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

// TestDecodeFormats verifies both encodings decode to the same definitions.
func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format Format
	}{
		{"yaml explicit", []byte(sampleYAML), FormatYAML},
		{"yaml sniffed", []byte(sampleYAML), FormatAuto},
		{"xml explicit", []byte(sampleXML), FormatXML},
		{"xml sniffed", []byte(sampleXML), FormatAuto},
		{"yaml xz", compress(t, sampleYAML), FormatAuto},
		{"xml xz", compress(t, sampleXML), FormatXML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Decode(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if cat.System != "SI" {
				t.Errorf("System = %q, want SI", cat.System)
			}
			if len(cat.Definitions) != 2 {
				t.Fatalf("got %d definitions, want 2", len(cat.Definitions))
			}

			f := cat.Definitions[0]
			if f.Key != "furlong" || f.Name != "furlong" || f.Description != "an eighth of a mile" {
				t.Errorf("furlong = %+v", f)
			}
			if strings.Join(f.Tags, ",") != "length,imperial" {
				t.Errorf("Tags = %v", f.Tags)
			}
			if strings.Join(f.Aliases, ",") != "furlongs" {
				t.Errorf("Aliases = %v", f.Aliases)
			}
			if f.Scale != 201.168 || f.Offset != 0 {
				t.Errorf("scale, offset = %v, %v", f.Scale, f.Offset)
			}
			if len(f.Exponents) != 7 || f.Exponents[0] != 1 {
				t.Errorf("Exponents = %v", f.Exponents)
			}
		})
	}
}

// TestDecodeDefaultScale verifies an omitted scale means 1.
func TestDecodeDefaultScale(t *testing.T) {
	yamlData := "units:\n  - key: x\n    exponents: [0, 0, 0, 0, 0, 0, 0]\n"
	xmlData := `<units><unit key="x"><exponents>0 0 0 0 0 0 0</exponents></unit></units>`

	for name, data := range map[string]string{"yaml": yamlData, "xml": xmlData} {
		cat, err := Decode([]byte(data), FormatAuto)
		if err != nil {
			t.Fatalf("%s: Decode: %v", name, err)
		}
		if got := cat.Definitions[0].Scale; got != 1 {
			t.Errorf("%s: Scale = %v, want 1", name, got)
		}
		if cat.System != "" {
			t.Errorf("%s: System = %q, want empty", name, cat.System)
		}
	}
}

// TestDecodeErrors verifies malformed catalogues are rejected.
func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"bad yaml", "units: [", FormatYAML},
		{"yaml missing key", "units:\n  - name: nothing\n", FormatYAML},
		{"bad xml", "<units><unit key=\"a\"></units>", FormatXML},
		{"xml wrong root", "<catalogue/>", FormatXML},
		{"xml missing key", "<units><unit name=\"a\"/></units>", FormatXML},
		{"xml bad exponent", "<units><unit key=\"a\"><exponents>1 x</exponents></unit></units>", FormatXML},
		{"xml bad scale", "<units><unit key=\"a\"><scale>big</scale></unit></units>", FormatXML},
		{"unknown format", "units: []", Format(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.format); err == nil {
				t.Error("expected error")
			}
		})
	}
}

// TestDecodeYAMLLineNumbers verifies YAML errors point at the offending item.
func TestDecodeYAMLLineNumbers(t *testing.T) {
	data := "units:\n  - key: a\n    exponents: [0, 0, 0, 0, 0, 0, 0]\n  - name: b\n"
	_, err := Decode([]byte(data), FormatYAML)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error %q does not mention line 4", err)
	}
}

// TestApply verifies definitions become usable registry entries.
func TestApply(t *testing.T) {
	c := newConverter(t)
	n, err := Load(c, strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Errorf("added %d, want 2", n)
	}

	got, err := c.Convert(1, "furlongs/fortnight", "m/s")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := 201.168 / 1209600
	if math.Abs(got-want) > 1e-15 {
		t.Errorf("1 furlong/fortnight = %v m/s, want %v", got, want)
	}

	e, err := c.Get("furlongs")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Description != "an eighth of a mile" {
		t.Errorf("Description = %q", e.Description)
	}
}

// TestApplyAllOrNothing verifies a failing definition leaves the registry
// unchanged.
func TestApplyAllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		cat  Catalog
		want error
	}{
		{
			name: "duplicate of existing key",
			cat: Catalog{Definitions: []Definition{
				{Key: "furlong", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 201.168},
				{Key: "m", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 1},
			}},
			want: uerrors.ErrDuplicateKey,
		},
		{
			name: "duplicate within catalogue",
			cat: Catalog{Definitions: []Definition{
				{Key: "furlong", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 201.168},
				{Key: "league", Aliases: []string{"furlong"}, Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 4828.032},
			}},
			want: uerrors.ErrDuplicateKey,
		},
		{
			name: "wrong exponent count",
			cat: Catalog{Definitions: []Definition{
				{Key: "furlong", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 201.168},
				{Key: "bad", Exponents: []float64{1}, Scale: 1},
			}},
			want: uerrors.ErrInvalidInput,
		},
		{
			name: "zero scale",
			cat: Catalog{Definitions: []Definition{
				{Key: "furlong", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 201.168},
				{Key: "bad", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}},
			}},
			want: uerrors.ErrInvalidInput,
		},
		{
			name: "other system",
			cat: Catalog{System: "CGS", Definitions: []Definition{
				{Key: "furlong", Exponents: []float64{1, 0, 0, 0, 0, 0, 0}, Scale: 201.168},
			}},
			want: uerrors.ErrIncompatibleUnits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newConverter(t)
			n, err := tt.cat.Apply(c)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply error = %v, want %v", err, tt.want)
			}
			if n != 0 {
				t.Errorf("added = %d, want 0", n)
			}
			if c.Len() != 2 {
				t.Errorf("Len = %d, want 2", c.Len())
			}
			if c.IsDefined("furlong") {
				t.Error("furlong should have been rolled back")
			}
		})
	}
}

// TestLoadFile verifies files are read by extension, compressed or not.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"units.yaml":   []byte(sampleYAML),
		"units.xml.xz": compress(t, sampleXML),
	}

	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			c := newConverter(t)
			n, err := LoadFile(c, path)
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if n != 2 || !c.IsDefined("fortnight") {
				t.Errorf("added %d, fortnight defined = %v", n, c.IsDefined("fortnight"))
			}
		})
	}

	if _, err := LoadFile(newConverter(t), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestFormatFromPath verifies extension detection.
func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"units.yaml", FormatYAML},
		{"units.YML", FormatYAML},
		{"units.yaml.xz", FormatYAML},
		{"dir/units.xml", FormatXML},
		{"units.xml.xz", FormatXML},
		{"units.txt", FormatAuto},
		{"units", FormatAuto},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// TestDecodeXZError verifies a corrupt xz stream is reported.
func TestDecodeXZError(t *testing.T) {
	data := append(append([]byte(nil), xzMagic...), 0xFF, 0xFF, 0xFF)
	if _, err := Decode(data, FormatAuto); err == nil {
		t.Error("expected error for corrupt xz stream")
	}

	orig := xzNewReader
	defer func() { xzNewReader = orig }()
	xzNewReader = func(io.Reader) (*xz.Reader, error) {
		return nil, errors.New("mock xz failure")
	}
	if _, err := Decode(compress(t, sampleYAML), FormatAuto); err == nil || !strings.Contains(err.Error(), "mock xz failure") {
		t.Errorf("error = %v, want mock xz failure", err)
	}
}
