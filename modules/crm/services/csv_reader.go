package services

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rsmhq/rsm/pkg/serrors"
)

// File-level failures are the only fatal import errors; everything at row
// level is reported as data.
var (
	ErrMissingFile       = serrors.NewError("CRM_FILE_FORMAT", "File not found.")
	ErrUnreadableHeaders = serrors.NewError("CRM_FILE_FORMAT", "Unable to read CSV headers.")
)

// normalizeHeader makes header matching case- and separator-insensitive:
// "Customer Phone", "customer-phone" and "customer_phone" all collapse to
// "customerphone". No fuzzy matching beyond that.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(h)
}

// csvReader walks a CSV stream applying a canonical-field header mapping.
// Columns whose header matches no alias are dropped from every row.
type csvReader struct {
	r      *csv.Reader
	fields []string
	line   int
}

// newCSVReader consumes the header row and resolves each column against the
// alias table. First matching alias wins per column.
func newCSVReader(r io.Reader, aliases map[string][]string) (*csvReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if err != nil {
		return nil, ErrUnreadableHeaders
	}

	normalized := make(map[string]string)
	for field, names := range aliases {
		for _, alias := range names {
			normalized[normalizeHeader(alias)] = field
		}
	}

	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = normalized[normalizeHeader(h)]
	}

	return &csvReader{r: cr, fields: fields, line: 1}, nil
}

// Next returns the mapped, trimmed values of the next non-empty row together
// with its 1-indexed line number. ok is false once the stream is exhausted;
// malformed trailing data ends iteration the same way.
func (c *csvReader) Next() (map[string]string, int, bool) {
	for {
		record, err := c.r.Read()
		if err != nil {
			return nil, 0, false
		}
		c.line++

		empty := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		data := make(map[string]string)
		for i, cell := range record {
			if i >= len(c.fields) || c.fields[i] == "" {
				continue
			}
			data[c.fields[i]] = strings.TrimSpace(cell)
		}
		return data, c.line, true
	}
}
