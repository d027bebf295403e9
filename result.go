package simtrace

import (
	"iter"

	"github.com/arloliu/simtrace/encoding"
)

// Result is the value history of one element.
//
// Ticks and Values are parallel. Values[i] is nil when the element recorded
// nothing at Ticks[i]; otherwise its type depends on the element:
//
//   - integer, float, bool, char, string and enum scalars: see package encoding
//   - structs: encoding.Record
//   - contiguous containers: []encoding.Record, oldest first
//   - sparse containers: []encoding.Record with one slot per bucket, nil when empty
type Result struct {
	Path   string  `json:"path"`
	Ticks  []int64 `json:"ticks"`
	Values []any   `json:"values"`
}

// Len returns the number of ticks in the result.
func (r *Result) Len() int {
	return len(r.Ticks)
}

// At returns the value recorded at tick.
func (r *Result) At(tick int64) (any, bool) {
	for i, t := range r.Ticks {
		if t == tick {
			return r.Values[i], r.Values[i] != nil
		}
	}

	return nil, false
}

// All returns an iterator over (tick, value) pairs, including ticks without a
// recorded value.
func (r *Result) All() iter.Seq2[int64, any] {
	return func(yield func(int64, any) bool) {
		for i, t := range r.Ticks {
			if !yield(t, r.Values[i]) {
				return
			}
		}
	}
}

// Records returns an iterator over the struct values of the result, skipping
// ticks without a value. It yields nothing for non-struct elements.
func (r *Result) Records() iter.Seq2[int64, encoding.Record] {
	return func(yield func(int64, encoding.Record) bool) {
		for i, t := range r.Ticks {
			rec, ok := r.Values[i].(encoding.Record)
			if !ok {
				continue
			}
			if !yield(t, rec) {
				return
			}
		}
	}
}
