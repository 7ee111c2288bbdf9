package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	neg := make([]float32, len(v))
	for i, x := range v {
		neg[i] = -x
	}

	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", v, v, 1},
		{"opposite", v, neg, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", []float32{1, 2, 3}, []float32{1, 2}, 0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
		{"scaled", []float32{1, 2}, []float32{10, 20}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosineSimilarityDoesNotAllocate(t *testing.T) {
	a := make([]float32, 1536)
	b := make([]float32, 1536)
	for i := range a {
		a[i] = float32(i%7) + 1
		b[i] = float32(i%5) + 1
	}
	allocs := testing.AllocsPerRun(100, func() {
		_ = CosineSimilarity(a, b)
	})
	assert.Zero(t, allocs)
}

func BenchmarkCosineSimilarity(b *testing.B) {
	x := make([]float32, 1536)
	y := make([]float32, 1536)
	for i := range x {
		x[i] = float32(i%13) * 0.1
		y[i] = float32(i%11) * 0.1
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = CosineSimilarity(x, y)
	}
}
