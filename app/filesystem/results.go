package filesystem

import (
	"errors"
	"os"
	"syscall"
)

// Result is the outcome of a single item of a batch operation
type Result struct {
	Path string
	Err  error
}

// Results collects per-item outcomes of copy, move and restore
type Results []Result

// Add appends the outcome for path and returns the new slice
func (r Results) Add(path string, err error) Results {
	return append(r, Result{Path: path, Err: err})
}

// Merge appends all outcomes of other
func (r Results) Merge(other Results) Results {
	return append(r, other...)
}

// Failed returns all items that have an error
func (r Results) Failed() Results {
	var failed Results
	for _, res := range r {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether no item failed
func (r Results) OK() bool {
	return len(r.Failed()) == 0
}

// Err joins all item errors, nil if everything succeeded
func (r Results) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

func isCrossDevice(err *os.LinkError) bool {
	return errors.Is(err.Err, syscall.EXDEV)
}
