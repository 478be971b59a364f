package tfidf

import "math"

// Matrix is a labeled documents x vocabulary table of weights.
type Matrix struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Round returns a copy with every value rounded to the given number of decimal places.
func (m Matrix) Round(places int) Matrix {
	scale := math.Pow(10, float64(places))

	values := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]float64, len(row))
		for j, v := range row {
			values[i][j] = math.Round(v*scale) / scale
		}
	}

	return Matrix{
		Rows:    append([]string(nil), m.Rows...),
		Columns: append([]string(nil), m.Columns...),
		Values:  values,
	}
}

// Column returns the index of term, or -1.
func (m Matrix) Column(term string) int {
	for i, c := range m.Columns {
		if c == term {
			return i
		}
	}
	return -1
}
