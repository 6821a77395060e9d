package domain

// Matrix is a square, directed cost matrix indexed by stop index.
// Asymmetric values are legal and honored exactly; no symmetry is assumed.
// A Matrix is constructed once per optimization run and read-only afterwards.
type Matrix [][]float64

// Valid reports whether the matrix is a well-formed n×n non-negative matrix.
func (m Matrix) Valid(n int) bool {
	if n <= 0 || len(m) != n {
		return false
	}
	for _, row := range m {
		if len(row) != n {
			return false
		}
		for _, v := range row {
			if v < 0 {
				return false
			}
		}
	}
	return true
}
