package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	catalogRoot = xpath.MustCompile("/units")
	catalogUnit = xpath.MustCompile("/units/unit")
)

// decodeXML parses catalogue data in XML format.
//
// The document is read with xmlquery, which uses encoding/xml and does not
// resolve external entities.
func decodeXML(data []byte) (*Catalog, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, uerrors.Wrap(err, "parsing XML")
	}

	root := xmlquery.QuerySelector(doc, catalogRoot)
	if root == nil {
		return nil, uerrors.NewValidation("xml", "missing <units> root element")
	}

	cat := &Catalog{System: strings.TrimSpace(root.SelectAttr("system"))}
	for i, n := range xmlquery.QuerySelectorAll(doc, catalogUnit) {
		d, err := xmlDefinition(n)
		if err != nil {
			return nil, uerrors.Wrapf(err, "unit %d", i+1)
		}
		cat.Definitions = append(cat.Definitions, d)
	}
	return cat, nil
}

func xmlDefinition(n *xmlquery.Node) (Definition, error) {
	d := Definition{
		Key:         strings.TrimSpace(n.SelectAttr("key")),
		Name:        strings.TrimSpace(n.SelectAttr("name")),
		Description: childText(n, "description"),
		Tags:        childTexts(n, "tag"),
		Aliases:     childTexts(n, "alias"),
		Scale:       1,
	}
	if d.Key == "" {
		return Definition{}, uerrors.NewValidation("key", "unit has no key attribute")
	}

	for _, field := range strings.Fields(childText(n, "exponents")) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Definition{}, uerrors.NewValidation("exponents",
				fmt.Sprintf("unit %q: %q is not a number", d.Key, field))
		}
		d.Exponents = append(d.Exponents, v)
	}

	var err error
	if d.Scale, err = childNumber(n, "scale", 1); err != nil {
		return Definition{}, uerrors.Wrapf(err, "unit %q", d.Key)
	}
	if d.Offset, err = childNumber(n, "offset", 0); err != nil {
		return Definition{}, uerrors.Wrapf(err, "unit %q", d.Key)
	}
	return d, nil
}

func childText(n *xmlquery.Node, name string) string {
	c := n.SelectElement(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

func childTexts(n *xmlquery.Node, name string) []string {
	var out []string
	for _, c := range n.SelectElements(name) {
		if text := strings.TrimSpace(c.InnerText()); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func childNumber(n *xmlquery.Node, name string, fallback float64) (float64, error) {
	text := childText(n, name)
	if text == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, uerrors.NewValidation(name, fmt.Sprintf("%q is not a number", text))
	}
	return v, nil
}
