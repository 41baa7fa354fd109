// pkg/reader/reader.go
package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// txtDelimiters are probed in order for .txt files; the first delimiter
// that yields more than one column wins.
var txtDelimiters = []rune{',', '\t', '|', ';'}

// ParseError indicates an unreadable file or an unsupported format.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error reading file %s: %s: %v", filepath.Base(e.Path), e.Reason, e.Err)
	}
	return fmt.Sprintf("error reading file %s: %s", filepath.Base(e.Path), e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SupportedExtension reports whether the file extension is one the
// reader accepts (.xlsx, .xls, .csv, .txt).
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls", ".csv", ".txt":
		return true
	default:
		return false
	}
}

// FileReader parses uploaded sales exports into raw tables.
type FileReader struct {
	logger *zap.Logger
}

// NewFileReader creates a new FileReader instance
func NewFileReader(logger *zap.Logger) (*FileReader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &FileReader{logger: logger}, nil
}

// Read parses the file at path into a raw table, dispatching on extension.
func (r *FileReader) Read(path string) (*model.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		table *model.Table
		err   error
	)

	switch ext {
	case ".xlsx":
		table, err = r.readXLSX(path)
	case ".xls":
		table, err = r.readXLS(path)
	case ".csv":
		table, err = r.readDelimited(path, ',')
	case ".txt":
		table, err = r.readTXT(path)
	default:
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("unsupported file format: %s", ext)}
	}

	if err != nil {
		return nil, err
	}

	r.logger.Info("Parsed uploaded file",
		zap.String("file", filepath.Base(path)),
		zap.String("format", ext),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)))

	return table, nil
}

// readDelimited parses a character-separated file with one header row.
func (r *FileReader) readDelimited(path string, delimiter rune) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = delimiter
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "malformed delimited data", Err: err}
	}

	if len(records) == 0 {
		return nil, &ParseError{Path: path, Reason: "file contains no header row"}
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.TrimSpace(col)
	}

	return &model.Table{Columns: columns, Rows: records[1:]}, nil
}

// readTXT probes the common delimiters in order and accepts the first
// that produces more than one column.
func (r *FileReader) readTXT(path string) (*model.Table, error) {
	for _, delimiter := range txtDelimiters {
		table, err := r.readDelimited(path, delimiter)
		if err != nil {
			continue
		}
		if len(table.Columns) > 1 {
			r.logger.Debug("Detected TXT delimiter",
				zap.String("file", filepath.Base(path)),
				zap.String("delimiter", string(delimiter)))
			return table, nil
		}
	}

	return nil, &ParseError{Path: path, Reason: "could not parse TXT file with common delimiters"}
}
