// Package registry stores named unit definitions and converts quantities
// between unit expressions built from them.
//
// Every entry has a primary key and any number of aliases. Keys and aliases
// share one namespace: each lookup string resolves to exactly one entry.
// Expressions passed to Unit, Convert and friends are parsed by unitexpr with
// this registry as the atomic-unit table.
//
// A Converter is not synchronised. Concurrent reads are safe; mutations (Add,
// AddAlias, Remove) must be serialised by the caller against all other use.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FocuswithJustin/unitconv/core/cache"
	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
	"github.com/FocuswithJustin/unitconv/core/unitexpr"
	"github.com/FocuswithJustin/unitconv/core/units"
)

// Entry describes one unit held by a Converter.
type Entry struct {
	Unit        units.Unit
	Name        string
	Description string
	Tags        []string
	// Aliases are alternate lookup strings for the unit. On entries returned
	// by the Converter they list every alias currently defined.
	Aliases []string
}

func (e Entry) clone() Entry {
	e.Tags = append([]string(nil), e.Tags...)
	e.Aliases = append([]string(nil), e.Aliases...)
	return e
}

// record is the shared value behind a primary key and all its aliases.
type record struct {
	key   string
	entry Entry
}

func (r *record) names() []string {
	return append([]string{r.key}, r.entry.Aliases...)
}

// Option configures a Converter.
type Option func(*Converter)

// WithAlgebra sets the algebra used when parsing and converting.
func WithAlgebra(a units.Algebra) Option {
	return func(c *Converter) { c.algebra = a }
}

// WithLogger sets the logger. Mutations and cache hits are logged at debug
// level. A nil logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithCacheSize sets how many parsed expressions are memoised. Zero disables
// the cache.
func WithCacheSize(n int) Option {
	return func(c *Converter) { c.cacheSize = n }
}

// Converter is a keyed collection of units on a single unit system.
type Converter struct {
	system    *units.System
	algebra   units.Algebra
	logger    *slog.Logger
	cacheSize int

	parser *unitexpr.Parser
	cache  *cache.ExpressionCache

	lookup  map[string]*record
	records []*record
}

// New creates an empty converter for units of system.
func New(system *units.System, opts ...Option) (*Converter, error) {
	if system == nil {
		return nil, uerrors.NewValidation("system", "unit system is required")
	}
	c := &Converter{
		system:    system,
		algebra:   units.DefaultAlgebra(),
		cacheSize: cache.DefaultConfig().MaxSize,
		lookup:    make(map[string]*record),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.cache = cache.NewExpressionCache(c.cacheSize)
	c.parser = unitexpr.NewParser(
		unitexpr.LookupFunc(c.lookupUnit),
		unitexpr.WithAlgebra(c.algebra),
		unitexpr.WithSystem(system),
	)
	return c, nil
}

// System returns the unit system shared by every entry.
func (c *Converter) System() *units.System { return c.system }

// Algebra returns the algebra used for parsing and conversion.
func (c *Converter) Algebra() units.Algebra { return c.algebra }

// Len returns the number of entries, not counting aliases.
func (c *Converter) Len() int { return len(c.records) }

func (c *Converter) lookupUnit(token string) (units.Unit, bool) {
	r, ok := c.lookup[token]
	if !ok {
		return nil, false
	}
	return r.entry.Unit, true
}

// Add stores e under key. The key and every alias must be simple unit
// identifiers not already in use; on any failure the converter is left
// unchanged.
func (c *Converter) Add(key string, e Entry) error {
	if e.Unit == nil {
		return uerrors.NewValidation("unit", fmt.Sprintf("entry %q has no unit", key))
	}
	if !e.Unit.System().Equal(c.system) {
		return uerrors.NewIncompatible(key, c.system.Name(), "unit system differs from the converter's")
	}

	names := append([]string{key}, e.Aliases...)
	if err := c.checkNames(key, names); err != nil {
		return err
	}

	r := &record{key: key, entry: e.clone()}
	for _, n := range names {
		c.lookup[n] = r
	}
	c.records = append(c.records, r)
	c.cache.Purge()
	c.logger.Debug("unit added", "key", key, "aliases", len(e.Aliases))
	return nil
}

// AddAlias adds alternate lookup strings for the entry that key resolves to.
// Either all aliases are added or none.
func (c *Converter) AddAlias(key string, aliases ...string) error {
	r, ok := c.lookup[key]
	if !ok {
		return uerrors.NewNotFound("unit", key)
	}
	if err := c.checkNames(r.key, aliases); err != nil {
		return err
	}

	for _, a := range aliases {
		c.lookup[a] = r
	}
	r.entry.Aliases = append(r.entry.Aliases, aliases...)
	c.cache.Purge()
	c.logger.Debug("aliases added", "key", r.key, "aliases", aliases)
	return nil
}

// checkNames validates names that are about to be bound to owner.
func (c *Converter) checkNames(owner string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !unitexpr.IsSimple(n) {
			return uerrors.NewValidation("key", fmt.Sprintf("%q is not a simple unit identifier", n))
		}
		if existing, ok := c.lookup[n]; ok {
			return uerrors.NewDuplicateKey(n, existing.key)
		}
		if seen[n] {
			return uerrors.NewDuplicateKey(n, owner)
		}
		seen[n] = true
	}
	return nil
}

// Remove deletes the entry that key resolves to, together with its primary
// key and all aliases. key may itself be an alias.
func (c *Converter) Remove(key string) error {
	r, ok := c.lookup[key]
	if !ok {
		return uerrors.NewNotFound("unit", key)
	}
	for _, n := range r.names() {
		delete(c.lookup, n)
	}
	for i, other := range c.records {
		if other == r {
			c.records = append(c.records[:i], c.records[i+1:]...)
			break
		}
	}
	c.cache.Purge()
	c.logger.Debug("unit removed", "key", r.key, "requested", key)
	return nil
}

// Get returns a copy of the entry that key (or an alias) resolves to.
func (c *Converter) Get(key string) (Entry, error) {
	r, ok := c.lookup[key]
	if !ok {
		return Entry{}, uerrors.NewNotFound("unit", key)
	}
	return r.entry.clone(), nil
}

// PrimaryKey returns the primary key of the entry that key resolves to.
func (c *Converter) PrimaryKey(key string) (string, bool) {
	r, ok := c.lookup[key]
	if !ok {
		return "", false
	}
	return r.key, true
}

// Aliases returns every lookup string of the entry that key resolves to,
// primary key first.
func (c *Converter) Aliases(key string) ([]string, error) {
	r, ok := c.lookup[key]
	if !ok {
		return nil, uerrors.NewNotFound("unit", key)
	}
	return r.names(), nil
}

// Keys returns every lookup string in definition order: each primary key is
// followed by its aliases.
func (c *Converter) Keys() []string {
	keys := make([]string, 0, len(c.lookup))
	for _, r := range c.records {
		keys = append(keys, r.names()...)
	}
	return keys
}

// Unit parses expr into a unit built from this converter's entries.
func (c *Converter) Unit(expr string) (units.Unit, error) {
	u, hit, err := c.cache.Resolve(strings.TrimSpace(expr), c.parser.Parse)
	if err != nil {
		return nil, err
	}
	if hit {
		c.logger.Debug("parsed unit cache hit", "expression", expr)
	}
	return u, nil
}

// IsDefined reports whether every atomic unit in expr is defined. Malformed
// expressions are not defined.
func (c *Converter) IsDefined(expr string) bool {
	comps, err := unitexpr.Components(expr)
	if err != nil {
		return false
	}
	for token := range comps {
		if _, ok := c.lookup[token]; !ok {
			return false
		}
	}
	return true
}

// IsConvertible reports whether all the given expressions are mutually
// convertible. It fails if any expression cannot be parsed.
func (c *Converter) IsConvertible(first, second string, more ...string) (bool, error) {
	base, err := c.Unit(first)
	if err != nil {
		return false, err
	}
	for _, expr := range append([]string{second}, more...) {
		u, err := c.Unit(expr)
		if err != nil {
			return false, err
		}
		if !c.algebra.IsConvertible(base, u) {
			return false, nil
		}
	}
	return true, nil
}

// Convert converts value from the unit expression from to the expression to.
func (c *Converter) Convert(value float64, from, to string) (float64, error) {
	src, dst, err := c.pair(from, to)
	if err != nil {
		return 0, err
	}
	v, err := c.algebra.Convert(src, value, units.To, dst)
	return v, relabel(err, from, to)
}

// ConvertSlice converts each of values. The result has the same length.
func (c *Converter) ConvertSlice(values []float64, from, to string) ([]float64, error) {
	src, dst, err := c.pair(from, to)
	if err != nil {
		return nil, err
	}
	out, err := c.algebra.ConvertSlice(src, values, units.To, dst)
	return out, relabel(err, from, to)
}

func (c *Converter) pair(from, to string) (units.Unit, units.Unit, error) {
	src, err := c.Unit(from)
	if err != nil {
		return nil, nil, err
	}
	dst, err := c.Unit(to)
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// relabel names incompatibility errors after the expressions the caller used.
func relabel(err error, from, to string) error {
	var ie *uerrors.IncompatibleError
	if errors.As(err, &ie) {
		return uerrors.NewIncompatible(from, to, ie.Reason)
	}
	return err
}
