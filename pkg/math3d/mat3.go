package math3d

// Mat3 is a 3x3 matrix stored in column-major order, matching Mat4.
//
// Memory layout (indices):
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromRows builds a matrix whose rows are r0, r1, r2.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0.X, r1.X, r2.X,
		r0.Y, r1.Y, r2.Y,
		r0.Z, r1.Z, r2.Z,
	}
}

// Skew returns the skew-symmetric cross-product matrix K of v,
// satisfying K * p == v × p for any vector p.
func Skew(v Vec3) Mat3 {
	return Mat3FromRows(
		V3(0, -v.Z, v.Y),
		V3(v.Z, 0, -v.X),
		V3(-v.Y, v.X, 0),
	)
}

// Add returns the matrix sum a + b.
//
//nolint:st1016 // a+b naming convention is clearer for matrix operations
func (a Mat3) Add(b Mat3) Mat3 {
	var m Mat3
	for i := range m {
		m[i] = a[i] + b[i]
	}
	return m
}

// Scale returns the matrix scaled by s.
func (m Mat3) Scale(s float64) Mat3 {
	var out Mat3
	for i := range out {
		out[i] = m[i] * s
	}
	return out
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Get returns the element at (row, col).
func (m Mat3) Get(row, col int) float64 {
	return m[row+col*3]
}
