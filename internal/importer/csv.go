package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one CSV data row with its 1-based line number in the source file
// (line 1 is the header).
type Row struct {
	Fields map[string]string
	Line   int
}

// ParseCSV reads an entire CSV stream into header and rows. A UTF-8 BOM is
// tolerated, header cells are trimmed, and short records are accepted with
// the missing trailing columns absent from the row map.
func ParseCSV(r io.Reader) ([]string, []Row, error) {
	br := bufio.NewReader(r)
	stripUTF8BOM(br)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("csv is missing a header row")
		}
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		line++

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				fields[col] = record[i]
			}
		}
		rows = append(rows, Row{Fields: fields, Line: line})
	}

	return header, rows, nil
}

// stripUTF8BOM discards a leading byte order mark if present.
func stripUTF8BOM(r *bufio.Reader) {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
}

// MissingHeaders returns the required headers absent from the parsed
// header row, in required order. An empty result means the file is
// importable.
func MissingHeaders(header, required []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, req := range required {
		if _, ok := present[req]; !ok {
			missing = append(missing, req)
		}
	}
	return missing
}
