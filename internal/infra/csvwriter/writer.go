// Package csvwriter implements the tabular output collaborator. It opens a
// destination file, writes an optional header and the data rows, and reports
// how many data rows were written.
package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Writer writes delimited output artifacts to a fixed destination path.
type Writer struct {
	path string
}

// New creates a Writer targeting the given file path. The file is created
// (or truncated) on each Write call.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the destination path of the artifact.
func (w *Writer) Path() string {
	return w.path
}

// Write creates the destination file and writes the header followed by all
// rows. With a non-empty header the header line is always written, even when
// there are no rows; with no header and no rows the file is left empty.
// It returns the number of data rows written.
func (w *Writer) Write(header []string, rows [][]string) (int, error) {
	f, err := os.Create(w.path) // #nosec G304 -- destination comes from operator configuration
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", w.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	cw := csv.NewWriter(f)

	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	count := 0
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return count, fmt.Errorf("write row %d: %w", count+1, err)
		}
		count++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return count, fmt.Errorf("flush %s: %w", w.path, err)
	}
	if err := f.Close(); err != nil {
		return count, fmt.Errorf("close %s: %w", w.path, err)
	}
	return count, nil
}
