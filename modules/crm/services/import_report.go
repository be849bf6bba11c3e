package services

// FailedRow captures one rejected import row. Never persisted; returned once
// per import call.
type FailedRow struct {
	LineNumber int               `json:"line_number"`
	RowData    map[string]string `json:"row_data"`
	Errors     []string          `json:"errors"`
}

type DuplicateRow struct {
	LineNumber int               `json:"line_number"`
	RowData    map[string]string `json:"row_data"`
	Reason     string            `json:"reason"`
}

// ImportReport is the aggregate outcome of one import call. Counts always
// equal the lengths of their lists.
type ImportReport struct {
	ImportedCount  int              `json:"imported_count"`
	ImportedData   []map[string]any `json:"imported_data"`
	FailedCount    int              `json:"failed_count"`
	FailedRows     []FailedRow      `json:"failed_rows"`
	DuplicateCount int              `json:"duplicate_count"`
	DuplicateRows  []DuplicateRow   `json:"duplicate_rows"`
}

func newImportReport() ImportReport {
	return ImportReport{
		ImportedData:  []map[string]any{},
		FailedRows:    []FailedRow{},
		DuplicateRows: []DuplicateRow{},
	}
}

func (r *ImportReport) addImported(record map[string]any) {
	r.ImportedData = append(r.ImportedData, record)
	r.ImportedCount++
}

func (r *ImportReport) addFailed(line int, data map[string]string, errs []string) {
	r.FailedRows = append(r.FailedRows, FailedRow{LineNumber: line, RowData: data, Errors: errs})
	r.FailedCount++
}

func (r *ImportReport) addDuplicate(line int, data map[string]string, reason string) {
	r.DuplicateRows = append(r.DuplicateRows, DuplicateRow{LineNumber: line, RowData: data, Reason: reason})
	r.DuplicateCount++
}
