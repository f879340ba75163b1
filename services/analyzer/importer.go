package analyzer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"asnatlas/lib/asn"

	"github.com/antzucaro/matchr"
	"github.com/xuri/excelize/v2"
)

// Table is a loaded spreadsheet: a header row plus data rows. How the file
// and column were chosen (flags, prompts) is the caller's concern.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// LoadTable reads a .csv, .xlsx or .xls file. The first row is treated as
// the header row.
func LoadTable(path string) (*Table, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = loadCSV(path)
	case ".xlsx", ".xls":
		rows, err = loadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv, .xlsx or .xls", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s contains no rows", path)
	}

	return &Table{
		Path:    path,
		Headers: rows[0],
		Rows:    rows[1:],
	}, nil
}

func loadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func loadExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s contains no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ResolveColumn turns a selector — a 1-based index or a header name — into
// a column index. When the name is unknown the error carries close-match
// suggestions.
func (t *Table) ResolveColumn(selector string) (int, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return 0, fmt.Errorf("empty column selector")
	}

	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(t.Headers) {
			return 0, fmt.Errorf("column number must be between 1 and %d", len(t.Headers))
		}
		return n - 1, nil
	}

	for i, header := range t.Headers {
		if header == selector {
			return i, nil
		}
	}

	if similar := t.similarColumns(selector); len(similar) > 0 {
		return 0, fmt.Errorf(
			"column %q not found, did you mean: %s",
			selector, strings.Join(similar, ", "),
		)
	}
	return 0, fmt.Errorf("column %q not found", selector)
}

// substring matches first, then JaroWinkler similarity
func (t *Table) similarColumns(selector string) []string {
	var similar []string
	lower := strings.ToLower(selector)
	for _, header := range t.Headers {
		h := strings.ToLower(header)
		if h != "" && (strings.Contains(h, lower) || strings.Contains(lower, h)) {
			similar = append(similar, header)
		}
	}
	if len(similar) > 0 {
		return similar
	}

	for _, header := range t.Headers {
		if matchr.JaroWinkler(lower, strings.ToLower(header), false) > 0.85 {
			similar = append(similar, header)
		}
	}
	return similar
}

// ExtractASNs normalizes and validates every value in the column,
// deduplicating while preserving first-occurrence order. The second return
// value counts entries that failed validation.
func (t *Table) ExtractASNs(column int) ([]string, int) {
	seen := map[string]struct{}{}
	var asns []string
	invalid := 0

	for _, row := range t.Rows {
		if column >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[column])
		if value == "" {
			continue
		}

		normalized, ok := asn.Normalize(value)
		if !ok || !asn.IsValid(normalized) {
			invalid++
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		asns = append(asns, normalized)
	}
	return asns, invalid
}
