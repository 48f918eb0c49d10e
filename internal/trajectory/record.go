package trajectory

import (
	"sync"

	"github.com/m-weigel/relorbit/internal/spacetime"
)

// Sample is one accepted integration step: the state tagged with proper
// time and the coordinate time it carries, plus the measured
// normalization drift at that point.
type Sample struct {
	Tau   float64
	T     float64
	State spacetime.State
	Drift float64
	// Warning marks samples whose drift exceeded the soft tolerance.
	Warning bool
}

// Record is the append-only trajectory of a single particle, ordered by
// strictly increasing proper time. The producing integrator appends
// while consumers may concurrently iterate what has been appended so
// far; once sealed the record never changes again.
type Record struct {
	mu      sync.RWMutex
	samples []Sample
	sealed  bool
}

func NewRecord() *Record {
	return &Record{samples: make([]Sample, 0, 1024)}
}

// Append adds a sample. Appending to a sealed record is a programming
// error in the producer and panics.
func (r *Record) Append(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic("trajectory: append to sealed record")
	}
	r.samples = append(r.samples, s)
}

// Seal marks the record complete. Idempotent.
func (r *Record) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func (r *Record) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

func (r *Record) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.samples)
}

// At returns the i-th sample.
func (r *Record) At(i int) Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.samples[i]
}

// Last returns the most recent sample and false when the record is
// still empty.
func (r *Record) Last() (Sample, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.samples) == 0 {
		return Sample{}, false
	}
	return r.samples[len(r.samples)-1], true
}

// Iter returns a restartable iterator positioned before the first
// sample. Iterators may be created at any time, including while the
// integrator is still appending; Next reports false when it catches up
// with the producer, and can be called again later.
func (r *Record) Iter() *Iterator {
	return &Iterator{rec: r}
}

// Radii projects the radial coordinate over the recorded samples.
func (r *Record) Radii() []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.State[spacetime.CoordR]
	}
	return out
}

// TimeDilation projects the (tau, t) pairs of the record, the input for
// a time-dilation analysis: t grows faster than tau deep in the well.
func (r *Record) TimeDilation() [][2]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([][2]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = [2]float64{s.Tau, s.T}
	}
	return out
}

// Warnings counts drift-flagged samples.
func (r *Record) Warnings() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.samples {
		if s.Warning {
			n++
		}
	}
	return n
}

// Iterator walks a Record in proper-time order.
type Iterator struct {
	rec  *Record
	next int
}

// Next returns the next sample, or false when the iterator has reached
// the current end of the record.
func (it *Iterator) Next() (Sample, bool) {
	it.rec.mu.RLock()
	defer it.rec.mu.RUnlock()
	if it.next >= len(it.rec.samples) {
		return Sample{}, false
	}
	s := it.rec.samples[it.next]
	it.next++
	return s, true
}

// Reset rewinds the iterator to the start of the record.
func (it *Iterator) Reset() {
	it.next = 0
}
