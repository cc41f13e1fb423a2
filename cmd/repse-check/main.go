// repse-check: REPSE supplier checklist MCP server
//
// A quick guide to validate whether an outsourcing supplier complies with
// the REPSE registry: answer the checklist, get a risk tier and export the
// answers as CSV.
//
// Usage:
//
//	repse-check serve                        # Start MCP server (stdio transport)
//	repse-check export --answers 1=yes,2=no  # Score answers and write the CSV
//	repse-check items                        # Print the checklist
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/config"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/export"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/logger"
	repseserver "github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:], os.Stdout, os.Stderr)
	case "items":
		err = runItems(os.Args[2:], os.Stdout)
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("repse-check v%s\n", repseserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errs.CodeOf(err) == errs.CodeConfiguration {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runServe(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "config file (default: ./repse.yaml when present)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return errs.WrapConfiguration(err, "logger")
	}

	s, _, cleanup, err := repseserver.New(repseserver.Options{Config: cfg, Logger: log})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// stdout belongs to the MCP transport; logs go to stderr.
	return server.ServeStdio(s)
}

func runExport(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "config file (default: ./repse.yaml when present)")
	answers := fs.StringP("answers", "a", "", "answers as <item>=<value> pairs, e.g. 1=yes,2=no (unlisted items stay unanswered)")
	dir := fs.StringP("out", "o", "", "output directory (overrides export.dir)")
	filename := fs.String("filename", "", "CSV file name (overrides export.filename)")
	sqlitePath := fs.String("sqlite", "", "also append a snapshot to this SQLite file (overrides export.sqlite)")
	toStdout := fs.Bool("stdout", false, "write the CSV to stdout instead of a file")
	notes := fs.Bool("notes", false, "add an empty Notas column")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dir != "" {
		cfg.Export.Dir = *dir
	}
	if *filename != "" {
		cfg.Export.Filename = *filename
	}
	if *sqlitePath != "" {
		cfg.Export.SQLite = *sqlitePath
	}
	if fs.Changed("notes") {
		cfg.Export.NotesColumn = *notes
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e, err := cfg.NewEngine()
	if err != nil {
		return err
	}
	if *answers != "" {
		parsed, err := checklist.ParseAnswers(*answers)
		if err != nil {
			return err
		}
		if err := e.SetResponses(parsed); err != nil {
			return err
		}
	}

	snap := export.NewSnapshot(e, time.Now())
	opts := export.CSVOptions{NotesColumn: cfg.Export.NotesColumn}

	if *toStdout {
		if err := export.WriteCSV(stdout, snap.Rows, opts); err != nil {
			return err
		}
	} else {
		path, err := export.WriteCSVFile(cfg.Export.Dir, cfg.Export.Filename, snap.Rows, opts)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "CSV: %s\n", path)
	}

	if cfg.Export.SQLite != "" {
		id, err := export.WriteSQLite(context.Background(), cfg.Export.SQLite, snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "SQLite: %s (evaluación #%d)\n", cfg.Export.SQLite, id)
	}

	r := snap.Result
	fmt.Fprintf(stderr, "%s | Total: %d / %d (%.1f%%) | Contestadas: %d / %d\n",
		r.Copy.Label, r.Compliant, r.Total, r.Percentage, r.Answered, r.Total)
	return nil
}

func runItems(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("items", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "config file (default: ./repse.yaml when present)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	def, table, err := cfg.Resolve()
	if err != nil {
		return err
	}

	for _, it := range def.Items() {
		fmt.Fprintln(stdout, it.Label())
		if it.Note != "" {
			fmt.Fprintf(stdout, "   %s\n", it.Note)
		}
		if it.ReferenceURL != "" {
			fmt.Fprintf(stdout, "   %s\n", it.ReferenceURL)
		}
	}
	fmt.Fprintf(stdout, "\n%s\n", table.Describe())
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `repse-check v%s: REPSE supplier checklist

Usage:
  repse-check serve   [-c config]                 Start the MCP server (stdio transport)
  repse-check export  [-c config] -a 1=yes,2=no   Score answers and write the CSV
                      [-o dir] [--filename name] [--sqlite path] [--stdout] [--notes]
  repse-check items   [-c config]                 Print the checklist and tier bands
  repse-check version

Configuration:
  repse.yaml in the working directory, .env, or REPSE_* variables
  (REPSE_CHECKLIST_VARIANT=a|b, REPSE_CHECKLIST_MODE=tristate|checkbox,
  REPSE_EXPORT_DIR, REPSE_EXPORT_SQLITE, REPSE_LOG_LEVEL, ...).

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "repse-check": {
        "command": "repse-check",
        "args": ["serve"]
      }
    }
  }
`, repseserver.Version)
}
