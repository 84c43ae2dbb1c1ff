// Package ingest reads raw spreadsheet exports into loosely-typed row maps.
// Rows carry whatever columns the upload had; the column mapper is the only
// component allowed to interpret them.
package ingest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cognicore/aduana/pkg/aduana/internalerr"
)

// Row is one spreadsheet row keyed by lowercased, trimmed header name.
type Row map[string]string

// ReadWorkbook reads the first sheet of an xlsx file. The first row is the
// header; header names are trimmed and lowercased so mapping lookups are
// case-insensitive. Cells beyond the header width are ignored, missing
// trailing cells read as empty strings.
func ReadWorkbook(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			var v string
			if i < len(cells) {
				v = strings.TrimSpace(cells[i])
			}
			if v != "" {
				empty = false
			}
			row[h] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// LoadDir concatenates every .xlsx workbook in dir, in file-name order, into
// one batch. Returns ErrNoInputFiles when the directory holds none.
func LoadDir(dir string) ([]Row, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", internalerr.ErrNoInputFiles, dir)
	}
	sort.Strings(matches)

	var all []Row
	for _, path := range matches {
		rows, err := ReadWorkbook(path)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	return all, nil
}

// Headers returns the union of column names across a batch, sorted. Used by
// mapping validation to report what the upload actually contains.
func Headers(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for h := range r {
			seen[h] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
