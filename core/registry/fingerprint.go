package registry

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the hex BLAKE3 digest of the converter's catalogue:
// the system bases and, in definition order, every entry's keys, metadata,
// exponents and conversion parameters. Two converters built from the same
// definitions share a fingerprint.
//
// Units with custom conversion functions contribute only their kind, so
// catalogues that differ solely in those functions hash the same.
func (c *Converter) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString("system\t")
	sb.WriteString(strings.Join(c.system.Bases(), ","))
	sb.WriteByte('\n')

	for _, r := range c.records {
		t := r.entry.Unit.Transform()
		fields := []string{
			strings.Join(r.names(), ","),
			r.entry.Name,
			r.entry.Description,
			strings.Join(r.entry.Tags, ","),
			formatFloats(r.entry.Unit.Exponents()),
			t.Kind.String(),
			strconv.FormatFloat(t.Scale, 'g', -1, 64),
			strconv.FormatFloat(t.Offset, 'g', -1, 64),
		}
		sb.WriteString(strings.Join(fields, "\t"))
		sb.WriteByte('\n')
	}

	sum := blake3.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
