// Package commands implements the simport subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fieldstack/simport/internal/config"
	"github.com/fieldstack/simport/internal/csvio"
	"github.com/fieldstack/simport/internal/engine"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert platform exports to the simPRO template",
		Long: `Convert one or more CSV or XLSX exports to the simPRO import template.

With no arguments, every export in the input directory is converted. Each
input produces exactly one output next to it (or in --output-dir): the
mapped template file when the export validates, or a row-granular error
report when it does not. The exit code is non-zero when any file was
rejected or unreadable.`,
		Example: `  # Convert a single export
  simport convert products.csv

  # Convert everything in ./exports into ./ready
  simport convert --input-dir ./exports --output-dir ./ready`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args)
		},
	}
}

// fileResult is one row of the convert summary.
type fileResult struct {
	Input    string
	Status   string // "mapped", "errors" or "failed"
	Rows     int
	Findings int
	Output   string
	Err      error
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := config.FromContext(cmd.Context())
	logger := config.LoggerFromContext(cmd.Context())
	eng := engine.New(cfg.Schema(), logger)

	inputs := args
	if len(inputs) == 0 {
		found, err := findExports(cfg.InputDir)
		if err != nil {
			return err
		}
		inputs = found
	}
	if len(inputs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No exports found in %s\n", cfg.InputDir)
		return nil
	}

	results := make([]fileResult, 0, len(inputs))
	for _, path := range inputs {
		results = append(results, convertFile(eng, logger, path, cfg.OutputDir))
	}

	renderSummary(cmd, results)

	var rejected, failed int
	for _, res := range results {
		switch res.Status {
		case "errors":
			rejected++
		case "failed":
			failed++
		}
	}
	if rejected+failed > 0 {
		return fmt.Errorf("%d of %d file(s) did not convert cleanly (%d rejected, %d unreadable)",
			rejected+failed, len(results), rejected, failed)
	}
	return nil
}

// convertFile runs the pipeline for one input and writes the artifact. It is
// shared by convert and watch.
func convertFile(eng *engine.Engine, logger *slog.Logger, path, outputDir string) fileResult {
	res := fileResult{Input: path}

	in, err := os.Open(path)
	if err != nil {
		res.Status, res.Err = "failed", err
		return res
	}
	defer func() { _ = in.Close() }()

	headers, rows, err := csvio.Read(in, path)
	if err != nil {
		res.Status, res.Err = "failed", err
		return res
	}

	artifact, stats := eng.Process(headers, rows)
	res.Rows = stats.InputRows
	res.Findings = stats.FindingCount

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(path)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		res.Status, res.Err = "failed", err
		return res
	}
	res.Output = filepath.Join(dir, csvio.ArtifactFilename(path, artifact))

	out, err := os.Create(res.Output)
	if err != nil {
		res.Status, res.Err = "failed", err
		return res
	}
	defer func() { _ = out.Close() }()

	if err := csvio.WriteArtifact(out, artifact); err != nil {
		res.Status, res.Err = "failed", err
		return res
	}

	if _, ok := artifact.(engine.ErrorReport); ok {
		res.Status = "errors"
		logger.Warn("export rejected", "input", path, "report", res.Output, "findings", res.Findings)
	} else {
		res.Status = "mapped"
		logger.Debug("export converted", "input", path, "output", res.Output, "rows", res.Rows)
	}
	return res
}

// findExports returns the convertible files in a directory, skipping
// anything this tool generated itself.
func findExports(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isExportName(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// isExportName reports whether a filename is a convertible export.
func isExportName(name string) bool {
	if csvio.IsArtifactName(name) {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xlsm", ".xls":
		return true
	}
	return false
}

// renderSummary prints one table row per converted file. Styled on a
// terminal, plain ASCII when piped.
func renderSummary(cmd *cobra.Command, results []fileResult) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{"File", "Result", "Rows", "Findings", "Output"})
	for _, res := range results {
		detail := res.Output
		if res.Err != nil {
			detail = res.Err.Error()
		}
		t.AppendRow(table.Row{filepath.Base(res.Input), res.Status, res.Rows, res.Findings, detail})
	}
	t.Render()
}
