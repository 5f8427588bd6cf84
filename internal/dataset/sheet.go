package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Sheet is a schemaless CSV: the deidentify and backfill jobs operate
// on whatever columns the input carries, and the folder statistics
// sheet grows columns as files introduce them.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// ReadSheet loads an entire CSV file with its header.
func ReadSheet(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[Dataset] failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("[Dataset] failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Sheet{}, nil
	}
	return &Sheet{Header: records[0], Rows: records[1:]}, nil
}

// WriteSheet writes header and rows to path, creating parent
// directories as needed.
func WriteSheet(path string, s *Sheet) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[Dataset] failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(s.Header) > 0 {
		if err := w.Write(s.Header); err != nil {
			return fmt.Errorf("[Dataset] failed to write %s: %w", path, err)
		}
	}
	if err := w.WriteAll(s.Rows); err != nil {
		return fmt.Errorf("[Dataset] failed to write %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// Column returns the index of the named header column, or -1.
func (s *Sheet) Column(name string) int {
	for i, h := range s.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// AddColumn appends a column with the given values, padding short rows.
// Value count beyond the row count is ignored.
func (s *Sheet) AddColumn(name string, values []string) {
	s.Header = append(s.Header, name)
	for i := range s.Rows {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		for len(s.Rows[i]) < len(s.Header)-1 {
			s.Rows[i] = append(s.Rows[i], "")
		}
		s.Rows[i] = append(s.Rows[i], v)
	}
}

// Cell returns the value at row i, column name, or "" when absent.
func (s *Sheet) Cell(i int, name string) string {
	col := s.Column(name)
	if col < 0 || i >= len(s.Rows) || col >= len(s.Rows[i]) {
		return ""
	}
	return s.Rows[i][col]
}
