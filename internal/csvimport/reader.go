package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/hagigaapp/hagiga-server/internal/domain"
)

// ErrEmptyFile is returned when the uploaded file has no header row.
var ErrEmptyFile = errors.New("file is empty")

// FileRows streams the records of a CSV source as Rows. The first
// record is taken as the header. Ragged records are tolerated (short
// rows leave trailing columns unset, long rows drop the excess). Fully
// blank records are skipped and do not count toward maxRows.
//
// A read error or exceeding maxRows (0 = unlimited) terminates the
// sequence with a non-nil error; callers must treat that as fatal for
// the whole batch.
func FileRows(r io.Reader, maxRows int) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true

		headers, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				yield(nil, ErrEmptyFile)
			} else {
				yield(nil, fmt.Errorf("read header: %w", err))
			}
			return
		}

		count := 0
		for {
			record, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read row: %w", err))
				return
			}

			row := NewRow(headers, record)
			if row.IsEmpty() {
				continue
			}

			count++
			if maxRows > 0 && count > maxRows {
				yield(nil, fmt.Errorf("too many rows: limit is %d", maxRows))
				return
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}

// MapRows adapts a slice of raw string maps (a JSON request body) into
// a row sequence. Blank entries are skipped, mirroring FileRows.
func MapRows(rows []map[string]string, maxRows int) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		count := 0
		for _, m := range rows {
			row := RowFromMap(m)
			if row.IsEmpty() {
				continue
			}

			count++
			if maxRows > 0 && count > maxRows {
				yield(nil, fmt.Errorf("too many rows: limit is %d", maxRows))
				return
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}

// RetryRows replays the failed rows of a finished job, in their
// original order, as a fresh row source.
func RetryRows(job *domain.ImportJob) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for _, er := range job.ErrorRows {
			if !yield(RowFromMap(er.Row), nil) {
				return
			}
		}
	}
}
