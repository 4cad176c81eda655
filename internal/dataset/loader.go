// Package dataset loads the publication corpus and examiner roster from CSV
// exports and holds them as an immutable in-memory snapshot for the
// recommendation pipeline.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/helixir/examiner-recommendation-service/internal/domain"
)

// Corpus CSV column names, as produced by a Scopus export. Columns beyond
// these are ignored.
const (
	colAuthorNames    = "Author full names"
	colAuthorIDs      = "Author(s) ID"
	colAbstract       = "Abstract"
	colAuthorKeywords = "Author Keywords"
	colIndexKeywords  = "Index Keywords"
)

// Roster CSV column names. AuthorID and Name are required; Department is
// optional.
const (
	colRosterID         = "Auth-ID"
	colRosterName       = "Name"
	colRosterDepartment = "Department"
)

// LoadCorpus parses a publication corpus CSV. The first row must be a header
// containing at least the five named Scopus columns. Empty optional cells
// become nil so that "absent" stays distinguishable from an empty string
// downstream.
func LoadCorpus(r io.Reader) ([]domain.CorpusRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	cols, err := columnIndex(header, []string{
		colAuthorNames, colAuthorIDs, colAbstract, colAuthorKeywords, colIndexKeywords,
	})
	if err != nil {
		return nil, fmt.Errorf("corpus header: %w", err)
	}

	var records []domain.CorpusRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read corpus row %d: %w", len(records)+2, err)
		}
		records = append(records, domain.CorpusRecord{
			AuthorNames:    cell(row, cols[colAuthorNames]),
			AuthorIDs:      optCell(row, cols[colAuthorIDs]),
			Abstract:       cell(row, cols[colAbstract]),
			AuthorKeywords: optCell(row, cols[colAuthorKeywords]),
			IndexKeywords:  optCell(row, cols[colIndexKeywords]),
		})
	}
	return records, nil
}

// LoadRoster parses the examiner roster CSV. Rows that are entirely blank or
// whose identifier does not parse are skipped; skipped is the count of such
// rows, for data-quality reporting.
func LoadRoster(r io.Reader) (entries []domain.RosterEntry, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read roster header: %w", err)
	}
	cols, err := columnIndex(header, []string{colRosterID, colRosterName})
	if err != nil {
		return nil, 0, fmt.Errorf("roster header: %w", err)
	}
	deptIdx := indexOf(header, colRosterDepartment)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read roster row %d: %w", len(entries)+skipped+2, err)
		}
		if blankRow(row) {
			skipped++
			continue
		}
		id, ok := domain.ParseAuthorID(cell(row, cols[colRosterID]))
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, domain.RosterEntry{
			AuthorID:   id,
			Name:       cell(row, cols[colRosterName]),
			Department: cell(row, deptIdx),
		})
	}
	return entries, skipped, nil
}

// columnIndex maps each required column name to its position in the header.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for _, name := range required {
		i := indexOf(header, name)
		if i < 0 {
			return nil, fmt.Errorf("%w: missing column %q", domain.ErrInvalidInput, name)
		}
		idx[name] = i
	}
	return idx, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// cell returns the trimmed value at idx, or "" when the row is short or the
// column is absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// optCell returns nil for short rows and empty cells, so absence survives as
// an explicit marker.
func optCell(row []string, idx int) *string {
	v := cell(row, idx)
	if v == "" {
		return nil
	}
	return &v
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
