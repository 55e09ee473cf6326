package deform

// Executor runs a range-partitioned loop body over [0, n).
// Dispatch returns only after every index has been processed, and fn must
// only write state owned by its own [lo, hi) range.
type Executor interface {
	Dispatch(n int, fn func(lo, hi int))
	Close()
}

// Serial runs the whole range in the calling goroutine.
type Serial struct{}

// Dispatch implements Executor.
func (Serial) Dispatch(n int, fn func(lo, hi int)) {
	if n > 0 {
		fn(0, n)
	}
}

// Close implements Executor.
func (Serial) Close() {}
