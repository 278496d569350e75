package registry

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// Field names an entry attribute that Search can match against.
type Field string

const (
	FieldKey         Field = "key"
	FieldName        Field = "name"
	FieldTags        Field = "tags"
	FieldDescription Field = "description"
)

// AllFields lists every searchable field.
var AllFields = []Field{FieldKey, FieldName, FieldTags, FieldDescription}

// ParseFields parses a comma-separated list of field names.
func ParseFields(s string) ([]Field, error) {
	var fields []Field
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f := Field(part)
		if !slices.Contains(AllFields, f) {
			return nil, invalidField(part)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func invalidField(name string) error {
	return &uerrors.ValidationError{
		Field:   "search fields",
		Message: fmt.Sprintf("unknown field %q, expected one of key, name, tags, description", name),
		Err:     uerrors.ErrInvalidSearchField,
	}
}

// SearchOptions narrows a search.
type SearchOptions struct {
	// HideAliases reports each entry once, under its primary key.
	HideAliases bool
	// Fields restricts matching to these fields; empty means all of them.
	Fields []Field
	// FilterByTags keeps only entries carrying at least one of these tags.
	FilterByTags []string
}

// Row is one search result.
type Row struct {
	Key         string
	Name        string
	Tags        []string
	Exponents   []float64
	Description string
}

// Search returns the entries matching pattern in definition order.
//
// A pattern containing "*" is a wildcard matched against the whole field,
// where any run of "*" matches any text. Other patterns match as substrings.
// Matching is case-insensitive in both cases.
func (c *Converter) Search(pattern string, opts SearchOptions) ([]Row, error) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = AllFields
	}
	for _, f := range fields {
		if !slices.Contains(AllFields, f) {
			return nil, invalidField(string(f))
		}
	}
	match := compilePattern(pattern)

	var rows []Row
	for _, r := range c.records {
		if !hasAnyTag(r.entry.Tags, opts.FilterByTags) {
			continue
		}
		keys := r.names()
		if opts.HideAliases {
			keys = keys[:1]
		}
		for _, key := range keys {
			if !matchesEntry(match, key, r.entry, fields) {
				continue
			}
			rows = append(rows, Row{
				Key:         key,
				Name:        r.entry.Name,
				Tags:        append([]string(nil), r.entry.Tags...),
				Exponents:   r.entry.Unit.Exponents(),
				Description: r.entry.Description,
			})
		}
	}
	return rows, nil
}

func matchesEntry(match func(string) bool, key string, e Entry, fields []Field) bool {
	for _, f := range fields {
		switch f {
		case FieldKey:
			if match(key) {
				return true
			}
		case FieldName:
			if match(e.Name) {
				return true
			}
		case FieldDescription:
			if match(e.Description) {
				return true
			}
		case FieldTags:
			if slices.ContainsFunc(e.Tags, match) {
				return true
			}
		}
	}
	return false
}

func hasAnyTag(tags, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, t := range tags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

func compilePattern(pattern string) func(string) bool {
	if !strings.Contains(pattern, "*") {
		needle := strings.ToLower(pattern)
		return func(s string) bool {
			return strings.Contains(strings.ToLower(s), needle)
		}
	}

	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re := regexp.MustCompile(`(?is)^` + strings.Join(parts, ".*") + `$`)
	return re.MatchString
}
