package units

import (
	"fmt"
	"strings"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// System is an ordered, fixed-size set of named base dimensions.
// A System is immutable once created.
type System struct {
	name        string
	description string
	bases       []string
}

// NewSystem creates a system of units from an ordered list of base-dimension
// names. At least one base is required.
func NewSystem(name string, bases ...string) (*System, error) {
	if len(bases) == 0 {
		return nil, uerrors.NewValidation("bases", "a unit system needs at least one base dimension")
	}
	for i, b := range bases {
		if strings.TrimSpace(b) == "" {
			return nil, uerrors.NewValidation("bases", fmt.Sprintf("base %d has an empty name", i))
		}
	}
	return &System{
		name:  name,
		bases: append([]string(nil), bases...),
	}, nil
}

// SI returns the International System of Units with its seven base units in
// the order: length (m), time (s), amount of substance (mol), electric
// current (A), temperature (K), luminous intensity (cd), mass (kg).
func SI() *System {
	return &System{
		name:        "SI",
		description: "International System of Units",
		bases:       []string{"m", "s", "mol", "A", "K", "cd", "kg"},
	}
}

// WithDescription returns a copy of s carrying the given description.
func (s *System) WithDescription(description string) *System {
	c := *s
	c.description = description
	return &c
}

// Name returns the short name of the system.
func (s *System) Name() string { return s.name }

// Description returns the free-form description of the system.
func (s *System) Description() string { return s.description }

// BaseCount returns the number of base dimensions.
func (s *System) BaseCount() int { return len(s.bases) }

// Bases returns a copy of the ordered base-dimension names.
func (s *System) Bases() []string { return append([]string(nil), s.bases...) }

// Equal reports whether two systems declare the same ordered base names.
// Names and descriptions are not compared.
func (s *System) Equal(other *System) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s == other {
		return true
	}
	if len(s.bases) != len(other.bases) {
		return false
	}
	for i := range s.bases {
		if s.bases[i] != other.bases[i] {
			return false
		}
	}
	return true
}

func (s *System) String() string {
	var sb strings.Builder
	if s.name != "" {
		sb.WriteString(s.name)
		sb.WriteString(" ")
	}
	sb.WriteString("[")
	sb.WriteString(strings.Join(s.bases, ", "))
	sb.WriteString("]")
	if s.description != "" {
		sb.WriteString(" - ")
		sb.WriteString(s.description)
	}
	return sb.String()
}
