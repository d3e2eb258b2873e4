// Package dataset reads the CSV exports consumed by the allocation engine:
// the seniority roster, the weekly route export, the charter list, the bid
// form and the optional force reject list.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrMissingColumns is returned when a table lacks required headers.
var ErrMissingColumns = errors.New("dataset: missing columns")

// table is a parsed CSV file addressed by header name.
type table struct {
	name   string
	header []string
	index  map[string]int
	rows   [][]string
}

// readTable parses r. Input that is not valid UTF-8 is decoded as
// ISO-8859-1, the encoding spreadsheet exports fall back to.
func readTable(name string, r io.Reader, required ...string) (*table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", name, err)
		}
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingColumns, strings.Join(required, ", "))
	}
	t := &table{name: name, header: records[0], index: make(map[string]int)}
	for i, h := range t.header {
		h = strings.TrimSpace(h)
		t.header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingColumns, strings.Join(missing, ", "))
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// get returns the trimmed value of col in row, or "" when absent.
func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// NormalizeID strips the ".0" suffix spreadsheets add to numeric IDs, so
// "11.0" and "11" name the same trip.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i > 0 && strings.Trim(s[i+1:], "0") == "" {
		if _, err := strconv.ParseInt(s[:i], 10, 64); err == nil {
			return s[:i]
		}
	}
	return s
}

// parseBool accepts the usual spreadsheet spellings of yes and no.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "n", "no", "false", "f":
		return false, nil
	case "1", "y", "yes", "true", "t", "x":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// parseCount parses a whole number, accepting "2.0".
func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int(f), nil
}
