// Package csvio decodes uploaded spreadsheets into raw headers and rows, and
// renders pipeline artifacts back to CSV. It owns the messy-encoding edge of
// the system so the engine only ever sees decoded strings.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read decodes an uploaded file into a raw header row and data rows. The
// filename's extension selects the decoder: .xlsx/.xlsm/.xls go through the
// spreadsheet parser, everything else is treated as CSV. Exports that are
// not valid UTF-8 are re-decoded as Latin-1, the usual culprit for legacy
// e-commerce platforms. Ragged rows are allowed and every cell is trimmed;
// the engine decides later whether the values are acceptable.
func Read(r io.Reader, filename string) (headers []string, rows [][]string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls":
		return readExcel(data, filename)
	default:
		return readCSV(data, filename)
	}
}

func readCSV(data []byte, filename string) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, nil, fmt.Errorf("decoding %s: %w", filename, err)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1 // ragged source rows are the validator's problem
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", filename)
	}

	return trimAll(records[0]), trimRows(records[1:]), nil
}

func readExcel(data []byte, filename string) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%s has no sheets", filename)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q of %s: %w", sheets[0], filename, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s has no header row", filename)
	}

	return trimAll(records[0]), trimRows(records[1:]), nil
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

func trimRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = trimAll(row)
	}
	return out
}
