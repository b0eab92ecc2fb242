package derive

import (
	"runtime"
	"sync"

	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/zap"
)

// outcome is the derivation of records[index].
type outcome struct {
	index  int
	facets *Facets
	err    error
}

// DeriveAll derives every record on a pool of workers and passes the facets
// to fn in input order. Records whose polymer cannot be built are logged and
// skipped. An error from fn stops the pool and is returned.
// If workers <= 0, runtime.NumCPU() is used.
func (d *Deriver) DeriveAll(records []*linear.Seq, workers int, fn func(*Facets) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(len(records), 1))

	done := make(chan struct{})
	outcomes := d.startPool(records, workers, done)

	err := emitInOrder(len(records), outcomes, func(o outcome) error {
		if o.err != nil {
			d.logger.Warn("failed to derive record",
				zap.String("id", records[o.index].Name()),
				zap.Error(o.err))
			return nil
		}
		return fn(o.facets)
	})

	close(done)
	for range outcomes {
	}
	return err
}

// startPool feeds record indexes to workers until every record is handed
// out or done is closed. The returned channel closes once all workers exit.
func (d *Deriver) startPool(records []*linear.Seq, workers int, done <-chan struct{}) <-chan outcome {
	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range records {
			select {
			case indexes <- i:
			case <-done:
				return
			}
		}
	}()

	outcomes := make(chan outcome, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				f, err := d.Derive(records[i])
				select {
				case outcomes <- outcome{index: i, facets: f, err: err}:
				case <-done:
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()
	return outcomes
}

// emitInOrder calls fn for outcomes 0..n-1 in index order, holding early
// arrivals until the gap before them fills.
func emitInOrder(n int, outcomes <-chan outcome, fn func(outcome) error) error {
	held := make([]*outcome, n)
	next := 0
	for o := range outcomes {
		o := o
		held[o.index] = &o
		for next < n && held[next] != nil {
			if err := fn(*held[next]); err != nil {
				return err
			}
			held[next] = nil
			next++
		}
	}
	return nil
}
