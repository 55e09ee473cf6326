package deform

import (
	"testing"

	"gonum.org/v1/gonum/blas/blas32"
)

// benchField builds a batch of n identical mid-resolution tendroids.
func benchField(b *testing.B, exec Executor, n int) *Batch {
	b.Helper()
	batch := NewBatch(exec)
	shape := TendroidParams{Radius: 6, Length: 100, MaxAmplitude: 0.8, BulgeWidth: 0.9}
	mesh := NewCylinder(shape.Radius, shape.Length, 24, 48)
	for i := 0; i < n; i++ {
		if err := batch.Register(i, "bench", i, mesh.Vertices, shape); err != nil {
			b.Fatal(err)
		}
	}
	if err := batch.Build(); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < n; i++ {
		batch.UpdateState(EntityState{
			ID:           i,
			BubbleY:      float32(i%100) + 10,
			BubbleRadius: 9,
			WaveDX:       2,
			WaveDZ:       0.6,
			BendAngle:    0.2,
			BendAxisX:    1,
		})
	}
	return batch
}

// Benchmark full-field deform on the calling goroutine
func BenchmarkDeformSerial(b *testing.B) {
	batch := benchField(b, Serial{}, 200)
	defer batch.Close()

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		batch.DeformAll()
	}
}

// Benchmark full-field deform on the worker pool
func BenchmarkDeformParallel(b *testing.B) {
	batch := benchField(b, NewParallel(0, 0), 200)
	defer batch.Close()

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		batch.DeformAll()
	}
}

// Benchmark wave offset add with a scalar loop (baseline for the kernel's
// last step, split into per-axis arrays)
func BenchmarkWaveAddScalar(b *testing.B) {
	size := 200 * 24 * 49
	xs := make([]float32, size)
	heights := make([]float32, size)
	for i := range heights {
		heights[i] = float32(i%49) / 48
	}
	dx := float32(2)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for i := range xs {
			xs[i] += dx * heights[i]
		}
	}
}

// Benchmark wave offset add with blas32
func BenchmarkWaveAddBLAS(b *testing.B) {
	size := 200 * 24 * 49
	xs := make([]float32, size)
	heights := make([]float32, size)
	for i := range heights {
		heights[i] = float32(i%49) / 48
	}
	dx := float32(2)

	vx := blas32.Vector{N: size, Inc: 1, Data: xs}
	vh := blas32.Vector{N: size, Inc: 1, Data: heights}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		blas32.Axpy(dx, vh, vx) // xs += dx * heights
	}
}
