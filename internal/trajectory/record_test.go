package trajectory

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-weigel/relorbit/internal/spacetime"
)

func sampleAt(tau float64) Sample {
	st := make(spacetime.State, spacetime.StateDim)
	st[spacetime.CoordT] = 2 * tau
	st[spacetime.CoordR] = 10 + tau
	st[spacetime.CoordTheta] = math.Pi / 2
	return Sample{Tau: tau, T: 2 * tau, State: st}
}

func TestRecordAppendAndAccess(t *testing.T) {
	rec := NewRecord()
	for i := 0; i < 5; i++ {
		rec.Append(sampleAt(float64(i)))
	}

	require.Equal(t, 5, rec.Len())
	assert.Equal(t, 3.0, rec.At(3).Tau)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, 4.0, last.Tau)
}

func TestRecordOrderedByProperTime(t *testing.T) {
	rec := NewRecord()
	for i := 0; i < 100; i++ {
		rec.Append(sampleAt(float64(i) * 0.1))
	}

	prev := math.Inf(-1)
	it := rec.Iter()
	for s, ok := it.Next(); ok; s, ok = it.Next() {
		require.Greater(t, s.Tau, prev)
		prev = s.Tau
	}
}

func TestRecordSealed(t *testing.T) {
	rec := NewRecord()
	rec.Append(sampleAt(0))
	rec.Seal()
	rec.Seal() // idempotent

	require.True(t, rec.Sealed())
	assert.Panics(t, func() { rec.Append(sampleAt(1)) })
}

func TestIteratorRestartable(t *testing.T) {
	rec := NewRecord()
	for i := 0; i < 3; i++ {
		rec.Append(sampleAt(float64(i)))
	}

	it := rec.Iter()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
	}

	it.Reset()
	s, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 0.0, s.Tau)
}

func TestIteratorCatchesUpWithProducer(t *testing.T) {
	rec := NewRecord()
	it := rec.Iter()

	_, ok := it.Next()
	require.False(t, ok)

	// Samples appended after the iterator drained become visible on
	// the next call, the contract the live view relies on.
	rec.Append(sampleAt(0))
	s, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 0.0, s.Tau)
}

func TestConcurrentReadWhileAppending(t *testing.T) {
	rec := NewRecord()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			rec.Append(sampleAt(float64(i)))
		}
		rec.Seal()
	}()

	// Consumer races the producer; it must only ever observe a prefix
	// in increasing order.
	it := rec.Iter()
	seen := 0
	prev := math.Inf(-1)
	for seen < 1000 {
		s, ok := it.Next()
		if !ok {
			continue
		}
		require.Greater(t, s.Tau, prev)
		prev = s.Tau
		seen++
	}
	wg.Wait()
}

func TestProjections(t *testing.T) {
	rec := NewRecord()
	for i := 0; i < 4; i++ {
		rec.Append(sampleAt(float64(i)))
	}

	radii := rec.Radii()
	require.Len(t, radii, 4)
	assert.Equal(t, 10.0, radii[0])
	assert.Equal(t, 13.0, radii[3])

	td := rec.TimeDilation()
	require.Len(t, td, 4)
	assert.Equal(t, [2]float64{2, 4}, td[2])
}

func TestWarningsCount(t *testing.T) {
	rec := NewRecord()
	for i := 0; i < 4; i++ {
		s := sampleAt(float64(i))
		s.Warning = i%2 == 0
		rec.Append(s)
	}
	assert.Equal(t, 2, rec.Warnings())
}

func TestSphericalToCartesian(t *testing.T) {
	x, y, z := SphericalToCartesian(2, math.Pi/2, 0)
	assert.InDelta(t, 2, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 0, z, 1e-12)

	x, y, z = SphericalToCartesian(3, 0, 1.234)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 3, z, 1e-12)
}

func TestCartesianVelocityCircular(t *testing.T) {
	// Equatorial circular motion at phi=0: velocity is purely +y.
	st := make(spacetime.State, spacetime.StateDim)
	st[spacetime.CoordR] = 5
	st[spacetime.CoordTheta] = math.Pi / 2
	st[spacetime.VelPhi] = 0.1
	s := Sample{State: st}

	vx, vy, vz := CartesianVelocity(s)
	assert.InDelta(t, 0, vx, 1e-12)
	assert.InDelta(t, 0.5, vy, 1e-12)
	assert.InDelta(t, 0, vz, 1e-12)
}
