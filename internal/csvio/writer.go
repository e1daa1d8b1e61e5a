package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fieldstack/simport/internal/engine"
)

// Suffixes appended to the input's base name when writing an artifact. The
// suffix is how clients tell an error report from a template file.
const (
	templateSuffix = "_simpro_template.csv"
	errorsSuffix   = "_errors.csv"
)

// errorReportHeader is the fixed header of rendered error reports.
var errorReportHeader = []string{"row", "field", "error"}

// WriteArtifact renders an artifact as CSV prefixed with a UTF-8 BOM, which
// keeps Excel from mangling the encoding when the file is double-clicked.
func WriteArtifact(w io.Writer, a engine.Artifact) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	switch art := a.(type) {
	case engine.MappedOutput:
		if err := cw.Write(art.Header); err != nil {
			return err
		}
		for _, row := range art.Rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	case engine.ErrorReport:
		if err := cw.Write(errorReportHeader); err != nil {
			return err
		}
		for _, f := range art.Findings {
			if err := cw.Write([]string{strconv.Itoa(f.Row), f.Field, f.Message}); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown artifact type %T", a)
	}

	cw.Flush()
	return cw.Error()
}

// IsArtifactName reports whether a filename looks like something this tool
// generated. Directory scans and watchers use it to avoid re-ingesting their
// own output.
func IsArtifactName(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, templateSuffix) || strings.HasSuffix(base, errorsSuffix)
}

// ArtifactFilename derives the download name for an artifact from the input
// filename: base + "_simpro_template.csv" for accepted files, base +
// "_errors.csv" for rejected ones.
func ArtifactFilename(inputName string, a engine.Artifact) string {
	base := strings.TrimSuffix(filepath.Base(inputName), filepath.Ext(inputName))
	if base == "" || base == "." {
		base = "input"
	}
	if _, rejected := a.(engine.ErrorReport); rejected {
		return base + errorsSuffix
	}
	return base + templateSuffix
}
