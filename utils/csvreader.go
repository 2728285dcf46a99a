package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCSVWithHeader maps every data row by the lower-cased header names of the first row.
func ParseCSVWithHeader(r io.Reader) ([]map[string]string, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := Map(rows[0], func(h string) string { return strings.ToLower(strings.TrimSpace(h)) })
	out := make([]map[string]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+2, len(row), len(header))
		}
		item := make(map[string]string, len(header))
		for j, name := range header {
			item[name] = strings.TrimSpace(row[j])
		}
		out = append(out, item)
	}
	return out, nil
}
