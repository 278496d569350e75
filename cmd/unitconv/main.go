// Command unitconv is the CLI for the unit converter.
// It converts quantities between unit expressions and browses the catalogue
// of defined units.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/unitconv/core/catalog"
	"github.com/FocuswithJustin/unitconv/core/registry"
	"github.com/FocuswithJustin/unitconv/core/unitexpr"
	"github.com/FocuswithJustin/unitconv/core/units"
	"github.com/FocuswithJustin/unitconv/internal/logging"
	"github.com/FocuswithJustin/unitconv/internal/validation"
)

const version = "0.1.0"

// maxSuggestions is how many similar keys info offers for an unknown unit.
const maxSuggestions = 5

// cli defines the command-line interface for unitconv.
type cli struct {
	// Global flags
	LogLevel     string   `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn"`
	LogFormat    string   `name:"log-format" help:"Log format" default:"text" enum:"text,json"`
	Catalogs     []string `name:"catalog" help:"Additional unit catalogue (YAML or XML, optionally xz compressed); repeatable" sep:"none"`
	ConstantMath string   `name:"constant-math" help:"How bare numbers combine with units (disable, unit-based, quantity-based)" default:"disable" enum:"disable,unit-based,quantity-based"`

	Convert ConvertCmd `cmd:"" aliases:"c" help:"Convert a quantity from one unit to another"`
	Info    InfoCmd    `cmd:"" aliases:"i" help:"Display information about a unit"`
	Search  SearchCmd  `cmd:"" aliases:"s" help:"Search the units available in the converter"`
	Catalog CatalogCmd `cmd:"" help:"Summarise the loaded unit catalogue"`
	Version VersionCmd `cmd:"" aliases:"v" help:"Print version information"`
}

// CLI holds the parsed command line.
var CLI cli

// settings are the global options an app is built from.
type settings struct {
	LogLevel     string
	LogFormat    string
	Catalogs     []string
	ConstantMath string
}

func (c *cli) settings() settings {
	return settings{
		LogLevel:     c.LogLevel,
		LogFormat:    c.LogFormat,
		Catalogs:     c.Catalogs,
		ConstantMath: c.ConstantMath,
	}
}

// app is the state shared by every command of one invocation.
type app struct {
	ctx       context.Context
	converter *registry.Converter
	out       io.Writer
}

// newApp configures logging, builds the SI converter and loads any extra
// catalogues. Results go to out and logs to logOut.
func newApp(ctx context.Context, s settings, out, logOut io.Writer) (*app, error) {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(s.LogFormat)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format, logOut)
	ctx = logging.WithRequestID(ctx, logging.NewRequestID())

	convention, err := units.ParseConvention(s.ConstantMath)
	if err != nil {
		return nil, err
	}
	logging.DebugContext(ctx, "settings",
		"log_level", s.LogLevel,
		"log_format", s.LogFormat,
		"constant_math", convention.String(),
		"catalogs", len(s.Catalogs),
	)
	conv, err := registry.NewSI(
		registry.WithAlgebra(units.Algebra{Convention: convention}),
		registry.WithLogger(logging.LoggerFromContext(ctx)),
	)
	if err != nil {
		return nil, fmt.Errorf("building unit converter: %w", err)
	}

	for _, path := range s.Catalogs {
		if err := validation.ValidateCatalogPath(path); err != nil {
			return nil, fmt.Errorf("invalid catalogue path: %w", err)
		}
		n, err := catalog.LoadFile(conv, path)
		if err != nil {
			return nil, fmt.Errorf("loading catalogue: %w", err)
		}
		logging.CatalogLoaded(ctx, path, n, conv.Fingerprint())
	}

	return &app{ctx: ctx, converter: conv, out: out}, nil
}

// ConvertCmd converts a quantity between units.
type ConvertCmd struct {
	Quantity string `arg:"" help:"Number or comma-separated list of numbers to convert"`
	From     string `name:"from" short:"f" required:"" help:"Unit the quantity is expressed in"`
	To       string `name:"to" short:"t" required:"" help:"Unit to convert the quantity to"`
}

func (c *ConvertCmd) Run(a *app) error {
	for _, unit := range []string{c.From, c.To} {
		if err := validation.ValidateExpression(unit); err != nil {
			return fmt.Errorf("invalid unit %q: %w", unit, err)
		}
		if !a.converter.IsDefined(unit) {
			return fmt.Errorf("cannot perform unit conversion: unit %q has not been defined in the unit converter", unit)
		}
	}

	values, err := parseQuantity(c.Quantity)
	if err != nil {
		return err
	}

	start := time.Now()
	converted, err := a.converter.ConvertSlice(values, c.From, c.To)
	if err != nil {
		logging.CommandError(a.ctx, "convert", err, "from", c.From, "to", c.To)
		return fmt.Errorf("cannot perform unit conversion: %w", err)
	}
	logging.Conversion(a.ctx, c.From, c.To, len(values), time.Since(start))

	fmt.Fprintln(a.out, formatQuantity(converted))
	return nil
}

// parseQuantity parses a number or a comma-separated list of numbers.
func parseQuantity(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid format %q of quantity to convert: quantity must either be a number or a comma-separated list of numbers", s)
		}
		values[i] = v
	}
	return values, nil
}

func formatQuantity(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// InfoCmd displays details about one unit.
type InfoCmd struct {
	Unit string `arg:"" help:"The unit about which to display detailed information"`
}

func (c *InfoCmd) Run(a *app) error {
	if err := validation.ValidateExpression(c.Unit); err != nil {
		return fmt.Errorf("invalid unit %q: %w", c.Unit, err)
	}
	if !unitexpr.IsSimple(c.Unit) {
		return fmt.Errorf("unit %q is a compound unit: detailed information can only be shown for simple units", c.Unit)
	}

	entry, err := a.converter.Get(c.Unit)
	if err != nil {
		similar := a.converter.ClosestKeys(c.Unit, maxSuggestions)
		logging.WarnContext(a.ctx, "unit_not_found", "unit", c.Unit, "suggestions", similar)
		return fmt.Errorf("unit %q has not been defined in the unit converter: the most similar available units are: [%s]",
			c.Unit, strings.Join(similar, ", "))
	}
	aliases, err := a.converter.Aliases(c.Unit)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%-18s%s\n", "Unit ID:", c.Unit)
	fmt.Fprintf(a.out, "%-18s%s\n", "Name:", entry.Name)
	fmt.Fprintf(a.out, "%-18s%s\n", "Description:", entry.Description)
	fmt.Fprintf(a.out, "%-18s%s\n", "Tags:", strings.Join(entry.Tags, ", "))
	fmt.Fprintf(a.out, "%-18s%s\n", "Aliases:", strings.Join(aliases, ", "))
	fmt.Fprintf(a.out, "%-18s%s\n", "Unit definition:", entry.Unit)
	return nil
}

// SearchCmd searches the catalogue.
type SearchCmd struct {
	Term         string `arg:"" help:"Search term. Use a wildcard ('*' or '**') to match any string"`
	SearchFields string `name:"search-fields" default:"key,name,tags,description" help:"Comma-separated fields to search (key, name, tags, description)"`
	FilterByTags string `name:"filter-by-tags" help:"Only show units with at least one of these comma-separated tags"`
	HideAliases  bool   `name:"hide-aliases" help:"Show each unit once, under its primary key"`
}

func (c *SearchCmd) Run(a *app) error {
	fields, err := registry.ParseFields(c.SearchFields)
	if err != nil {
		return err
	}

	var tags []string
	if c.FilterByTags != "" {
		for _, t := range strings.Split(c.FilterByTags, ",") {
			tags = append(tags, strings.TrimSpace(t))
		}
	}

	rows, err := a.converter.Search(c.Term, registry.SearchOptions{
		HideAliases:  c.HideAliases,
		Fields:       fields,
		FilterByTags: tags,
	})
	if err != nil {
		return err
	}
	logging.InfoContext(a.ctx, "search", "term", c.Term, "fields", c.SearchFields, "results", len(rows))
	if len(rows) == 0 {
		fmt.Fprintf(a.out, "No units found matching %q\n", c.Term)
		return nil
	}

	fmt.Fprintf(a.out, "%-12s %-30s %-24s %-24s %s\n", "KEY", "NAME", "TAGS", "EXPONENTS", "DESCRIPTION")
	fmt.Fprintf(a.out, "%-12s %-30s %-24s %-24s %s\n", "---", "----", "----", "---------", "-----------")
	for _, r := range rows {
		fmt.Fprintf(a.out, "%-12s %-30s %-24s %-24s %s\n",
			r.Key, r.Name, strings.Join(r.Tags, ","), formatExponents(r.Exponents), r.Description)
	}
	fmt.Fprintf(a.out, "\n%d result(s)\n", len(rows))
	return nil
}

func formatExponents(exps []float64) string {
	parts := make([]string, len(exps))
	for i, e := range exps {
		parts[i] = strconv.FormatFloat(e, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// CatalogCmd summarises the loaded catalogue.
type CatalogCmd struct {
	Keys bool `help:"List every key, each primary key followed by its aliases"`
}

func (c *CatalogCmd) Run(a *app) error {
	system := a.converter.System()
	fmt.Fprintf(a.out, "%-14s%s (%s)\n", "System:", system.Name(), strings.Join(system.Bases(), ", "))
	fmt.Fprintf(a.out, "%-14s%d\n", "Units:", a.converter.Len())
	fmt.Fprintf(a.out, "%-14s%d\n", "Keys:", len(a.converter.Keys()))
	fmt.Fprintf(a.out, "%-14s%s\n", "Fingerprint:", a.converter.Fingerprint())

	if c.Keys {
		fmt.Fprintln(a.out)
		seen := make(map[string]bool)
		for _, key := range a.converter.Keys() {
			if seen[key] {
				continue
			}
			names, err := a.converter.Aliases(key)
			if err != nil {
				return err
			}
			for _, n := range names {
				seen[n] = true
			}
			fmt.Fprintf(a.out, "  %s\n", strings.Join(names, ", "))
		}
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	fmt.Fprintf(a.out, "unitconv version %s\n", version)
	return nil
}

// valueFlags are the flags that consume the next argument.
var valueFlags = map[string]bool{
	"--log-level": true, "--log-format": true, "--catalog": true, "--constant-math": true,
	"-f": true, "--from": true, "-t": true, "--to": true,
	"--search-fields": true, "--filter-by-tags": true,
}

// negativeQuantities moves positional quantities that start with a hyphen,
// such as "-40" or "-40,0", behind a "--" terminator so the parser does not
// read them as short flags. Arguments already after "--" and values of
// flags are left alone.
func negativeQuantities(args []string) []string {
	var kept, moved []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			kept = append(kept, args[i:]...)
			break
		}
		if i > 0 && valueFlags[args[i-1]] {
			kept = append(kept, arg)
			continue
		}
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			if _, err := parseQuantity(arg); err == nil {
				moved = append(moved, arg)
				continue
			}
		}
		kept = append(kept, arg)
	}
	if len(moved) == 0 {
		return kept
	}
	for _, arg := range kept {
		if arg == "--" {
			return append(kept, moved...)
		}
	}
	return append(append(kept, "--"), moved...)
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("unitconv"),
		kong.Description("Convert quantities between units and search the unit catalogue"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx, err := parser.Parse(negativeQuantities(os.Args[1:]))
	parser.FatalIfErrorf(err)
	a, err := newApp(context.Background(), CLI.settings(), os.Stdout, os.Stderr)
	ctx.FatalIfErrorf(err)
	err = ctx.Run(a)
	ctx.FatalIfErrorf(err)
}
