package simtrace

import "fmt"

// TickRange is an inclusive range of ticks. A negative bound leaves that side
// of the range open.
type TickRange struct {
	From int64
	To   int64
}

// Range returns the inclusive range [from, to].
func Range(from, to int64) *TickRange {
	return &TickRange{From: from, To: to}
}

// At returns the range holding only tick.
func At(tick int64) *TickRange {
	return &TickRange{From: tick, To: tick}
}

// Since returns the range of every tick >= from.
func Since(from int64) *TickRange {
	return &TickRange{From: from, To: -1}
}

// Contains reports whether tick lies in the range. A nil range contains every tick.
func (r *TickRange) Contains(tick int64) bool {
	if r == nil {
		return true
	}

	return (r.From < 0 || tick >= r.From) && (r.To < 0 || tick <= r.To)
}

func (r *TickRange) bounds() (int64, int64) {
	if r == nil {
		return -1, -1
	}

	return r.From, r.To
}

func (r *TickRange) String() string {
	from, to := r.bounds()
	f, t := "*", "*"
	if from >= 0 {
		f = fmt.Sprint(from)
	}
	if to >= 0 {
		t = fmt.Sprint(to)
	}

	return "[" + f + ", " + t + "]"
}
