// Command citewise abbreviates and shortens journal and conference
// names and prunes unnecessary fields from BibTeX databases.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/citewise/citewise/core/bibtex"
	"github.com/citewise/citewise/core/ltwa"
	"github.com/citewise/citewise/core/normalize"
	"github.com/citewise/citewise/core/process"
	"github.com/citewise/citewise/internal/config"
	"github.com/citewise/citewise/internal/logging"
	"github.com/citewise/citewise/internal/ui"
)

const version = "1.0.0"

// CLI defines the command-line interface for citewise.
type CLI struct {
	Bib []string `arg:"" help:".bib file(s) to process" type:"existingfile"`

	Outfile      string           `short:"o" default:"output.bib" help:"Name of output file" type:"path"`
	Quiet        bool             `short:"q" help:"Suppress printing the changes to the console"`
	NoAbbrev     bool             `short:"n" help:"Skip the abbreviation step"`
	IgnoreOrder  bool             `help:"Ignore any ordering in conference titles, e.g. '3rd'"`
	IgnoreAnnual bool             `help:"Ignore any 'Annual' in conference titles"`
	IgnoreProc   bool             `xor:"proc" help:"Ignore any 'Proceedings' prefix in conference titles"`
	RemoveProc   bool             `xor:"proc" help:"Remove 'Proceedings' prefix from conference titles"`
	LtwaTable    string           `help:"Custom abbreviation table (plain, gzip, or xz TSV)" type:"existingfile"`
	LogLevel     string           `default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	Version      kong.VersionFlag `help:"Print version information"`
}

func (c *CLI) Run() error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logging.InitLogger(level, logging.FormatText)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts := normalize.Options{
		Abbreviate:    !c.NoAbbrev,
		Proceedings:   normalize.PolicyEnforce,
		StripOrdinals: !c.IgnoreOrder,
		StripAnnual:   !c.IgnoreAnnual,
	}
	switch {
	case c.IgnoreProc:
		opts.Proceedings = normalize.PolicyIgnore
	case c.RemoveProc:
		opts.Proceedings = normalize.PolicyRemove
	}

	engine, err := openEngine(c.LtwaTable, cfg)
	if err != nil {
		return err
	}
	logging.Debug("abbreviation table loaded", "rules", engine.Rules())

	enabled := cfg.ColorEnabled() && !termenv.EnvNoColor() && isatty.IsTerminal(os.Stdout.Fd())
	palette, err := ui.NewPalette(os.Stdout, cfg.UI.Colors, enabled)
	if err != nil {
		return err
	}

	db := bibtex.NewDatabase()
	for _, path := range c.Bib {
		if err := parseInto(db, path); err != nil {
			return err
		}
	}

	// Create the output up front so a write-permission problem surfaces
	// before any entry is processed.
	out, err := os.Create(c.Outfile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	proc := process.New(engine, opts, palette, os.Stdout, c.Quiet)
	proc.Database(db)

	if err := db.Write(out); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Outfile, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Outfile, err)
	}
	logging.Debug("database written", "entries", len(db.Entries), "outfile", c.Outfile)
	return nil
}

// openEngine picks the abbreviation table: an explicit flag wins over
// the configured table, which wins over the embedded one.
func openEngine(flagPath string, cfg *config.Config) (*ltwa.Engine, error) {
	switch {
	case flagPath != "":
		return ltwa.NewFromFile(flagPath)
	case cfg.LTWA.Table != "":
		return ltwa.NewFromFile(cfg.LTWA.Table)
	default:
		return ltwa.New()
	}
}

func parseInto(db *bibtex.Database, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return db.Parse(f, path)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("citewise"),
		kong.Description("Abbreviate and shorten journal and conference names and prune unnecessary fields from one or more .bib database(s)"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": version},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
