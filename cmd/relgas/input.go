package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/relgas/matrix"
)

// readDissimilarities parses a CSV matrix of dissimilarities, one object per
// row. Blank cells are rejected; rows must have equal length.
func readDissimilarities(r io.Reader, delimiter, comment rune) (*matrix.Dense, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.Comment = comment
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		rows[i] = make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			rows[i][j] = v
		}
	}

	return matrix.NewDenseFrom(rows)
}
