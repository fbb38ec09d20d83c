package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := FromBasisRows(V3(1, 0, 0), V3(0, 0, 1), V3(0, -1, 0))

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec3Dir(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(FromBasisRows(V3(1, 0, 0), V3(0, 0, 1), V3(0, -1, 0)))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3Dir(v)
	}
}

func BenchmarkMat3Mul(b *testing.B) {
	m1 := Skew(V3(1, 2, 3))
	m2 := Identity3()

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}
