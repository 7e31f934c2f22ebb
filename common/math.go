package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the world-space up reference used when building camera bases.
var WorldUp = mgl32.Vec3{0, 1, 0}

// degenerateEpsilon is the squared length below which a vector is treated as zero.
const degenerateEpsilon = 1e-12

// IsFinite reports whether f is neither NaN nor an infinity.
//
// Parameters:
//   - f: the value to check
//
// Returns:
//   - bool: true if f is a finite number
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// IsFiniteVec3 reports whether every component of v is finite.
//
// Parameters:
//   - v: the vector to check
//
// Returns:
//   - bool: true if all three components are finite
func IsFiniteVec3(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// IsZeroVec3 reports whether v is too short to be normalized reliably.
//
// Parameters:
//   - v: the vector to check
//
// Returns:
//   - bool: true if the squared length of v is below the degenerate threshold
func IsZeroVec3(v mgl32.Vec3) bool {
	return v.Dot(v) < degenerateEpsilon
}

// Orthonormalize returns the rows of m re-orthonormalized with Gram-Schmidt.
// Row 0 keeps its direction, row 1 is made perpendicular to row 0, and row 2 is
// rebuilt as row0 x row1 so the result is a proper rotation (determinant +1).
//
// Parameters:
//   - m: a matrix whose rows are approximately an orthonormal basis
//
// Returns:
//   - mgl32.Mat3: the corrected matrix
func Orthonormalize(m mgl32.Mat3) mgl32.Mat3 {
	r0 := m.Row(0).Normalize()
	r1 := m.Row(1)
	r1 = r1.Sub(r0.Mul(r0.Dot(r1))).Normalize()
	r2 := r0.Cross(r1)

	// Keep the recomputed third row on the same side as the original one so a
	// badly drifted matrix is not flipped through the origin.
	if r2.Dot(m.Row(2)) < 0 {
		r1 = r1.Mul(-1)
		r2 = r2.Mul(-1)
	}
	return mgl32.Mat3FromRows(r0, r1, r2)
}

// OrthonormalityError measures how far m is from orthonormal as the infinity norm
// (maximum absolute row sum) of m·mᵀ − I.
//
// Parameters:
//   - m: the matrix to measure
//
// Returns:
//   - float32: zero for an exact rotation, growing with drift
func OrthonormalityError(m mgl32.Mat3) float32 {
	d := m.Mul3(m.Transpose()).Sub(mgl32.Ident3())
	var norm float32
	for i := range 3 {
		row := d.Row(i)
		sum := math32.Abs(row[0]) + math32.Abs(row[1]) + math32.Abs(row[2])
		if sum > norm {
			norm = sum
		}
	}
	return norm
}

// LookAtBasis builds a right-handed orthonormal basis whose third row points
// along dir, using WorldUp as the up reference. When dir is parallel to WorldUp
// the first row falls back to world +X.
//
// Parameters:
//   - dir: the view direction (need not be normalized, must not be zero)
//
// Returns:
//   - mgl32.Mat3: rows (x, y, z) with z = normalize(dir) and x cross y = z
func LookAtBasis(dir mgl32.Vec3) mgl32.Mat3 {
	z := dir.Normalize()
	x := WorldUp.Cross(z)
	if IsZeroVec3(x) {
		x = mgl32.Vec3{1, 0, 0}
	} else {
		x = x.Normalize()
	}
	y := z.Cross(x)
	return mgl32.Mat3FromRows(x, y, z)
}

// RotateRows applies the rotation rot to every row of m, treating each row as a
// world-space vector.
//
// Parameters:
//   - m: the matrix whose rows are rotated
//   - rot: the rotation to apply
//
// Returns:
//   - mgl32.Mat3: the matrix with rotated rows
func RotateRows(m mgl32.Mat3, rot mgl32.Mat3) mgl32.Mat3 {
	return mgl32.Mat3FromRows(
		rot.Mul3x1(m.Row(0)),
		rot.Mul3x1(m.Row(1)),
		rot.Mul3x1(m.Row(2)),
	)
}
