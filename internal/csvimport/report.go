package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/hagigaapp/hagiga-server/internal/domain"
)

// WriteReport streams a job's failed rows as CSV: a "row" and "reason"
// column followed by the union of field names seen across the error
// rows, in stable (sorted) order. The output is meant to be fixed up in
// a spreadsheet and re-uploaded.
func WriteReport(w io.Writer, job *domain.ImportJob) error {
	fieldSet := make(map[string]bool)
	for _, er := range job.ErrorRows {
		for k := range er.Row {
			fieldSet[k] = true
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for k := range fieldSet {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	cw := csv.NewWriter(w)

	header := append([]string{"row", "reason"}, fields...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, er := range job.ErrorRows {
		record := make([]string, 0, len(header))
		record = append(record, strconv.Itoa(er.RowIndex), er.Reason)
		for _, f := range fields {
			record = append(record, er.Row[f])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
