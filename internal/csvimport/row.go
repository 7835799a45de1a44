// Package csvimport implements the guest-list import pipeline: parsing
// uploaded CSV files, normalizing loosely-spelled columns into guest
// records, validating them, and persisting the batch with per-row error
// tracking so failed rows can be fixed and retried.
package csvimport

import (
	"github.com/hagigaapp/hagiga-server/internal/normalize"
)

// Row is one record of an uploaded guest list, keyed by canonicalized
// column name. Headers are canonicalized at construction (trimmed,
// lowercased, whitespace runs collapsed to "_"), so "Full Name",
// "full_name" and " FULL  NAME " all land on the same key and spelling
// differences never leak past this boundary.
type Row map[string]string

// NewRow builds a Row from a CSV header and a matching record. Extra
// record fields beyond the header are dropped; missing ones stay unset.
func NewRow(headers, record []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i >= len(record) {
			break
		}
		key := normalize.HeaderKey(h)
		if key == "" {
			continue
		}
		row[key] = record[i]
	}
	return row
}

// RowFromMap builds a Row from an arbitrary string map, canonicalizing
// every key. Used for JSON row sources and stored error rows.
func RowFromMap(m map[string]string) Row {
	row := make(Row, len(m))
	for k, v := range m {
		key := normalize.HeaderKey(k)
		if key == "" {
			continue
		}
		row[key] = v
	}
	return row
}

// Get returns the first non-empty value among the given canonical keys.
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}

// IsEmpty reports whether every value on the row is blank. Spreadsheet
// exports commonly trail off with a few fully empty lines.
func (r Row) IsEmpty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
