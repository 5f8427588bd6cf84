package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// ReadCSV loads every row of a struct-tagged CSV file.
func ReadCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[Dataset] failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if err == gocsv.ErrEmptyCSVFile {
			return nil, nil
		}
		return nil, fmt.Errorf("[Dataset] failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// WriteCSV writes rows (header included) to path, creating parent
// directories as needed.
func WriteCSV[T any](path string, rows []T) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[Dataset] failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("[Dataset] failed to write %s: %w", path, err)
	}
	return nil
}

// AppendCSV appends rows to path, writing the header only when the file
// is new. Used by the scrub worker's incremental CSV output.
func AppendCSV[T any](path string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if !FileExists(path) {
		return WriteCSV(path, rows)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("[Dataset] failed to open %s for append: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalWithoutHeaders(&rows, f); err != nil {
		return fmt.Errorf("[Dataset] failed to append to %s: %w", path, err)
	}
	return nil
}

// CountRows returns the number of data rows in a CSV file, excluding
// the header. Missing files count as zero so summary jobs can sweep
// partially collected cities.
func CountRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("[Dataset] failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	count := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("[Dataset] failed to read %s: %w", path, err)
		}
		count++
	}
	if count > 0 {
		count--
	}
	return count, nil
}

// FileSizeMB returns the file size in megabytes.
func FileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("[Dataset] failed to stat %s: %w", path, err)
	}
	return float64(info.Size()) / (1024 * 1024), nil
}
