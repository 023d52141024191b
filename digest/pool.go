package digest

import (
	"sync"

	"golang.org/x/net/context"

	"github.com/nci/geodigest/metrics"
)

// concLimiter caps the number of in-flight digestions.
type concLimiter struct {
	*sync.WaitGroup
	pool chan struct{}
}

func newConcLimiter(cLevel int) *concLimiter {
	var wg sync.WaitGroup
	return &concLimiter{&wg, make(chan struct{}, cLevel)}
}

func (c *concLimiter) increase() {
	c.Add(1)
	c.pool <- struct{}{}
}

func (c *concLimiter) decrease() {
	<-c.pool
	c.Done()
}

// Result pairs one input path with its digestion outcome.
type Result struct {
	Path string
	Meta *Metadata
	Err  error
}

// Pool digests many files concurrently. Each file still goes through
// the strictly sequential digestor search on its own; files never
// share a metadata record.
type Pool struct {
	Digester *Digester
	Size     int
	Log      metrics.Logger
}

func NewPool(d *Digester, size int, logger metrics.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{Digester: d, Size: size, Log: logger}
}

// DigestAll processes all paths and returns results in input order.
// A failure on one file does not affect the others; a canceled context
// marks the files not yet started with the context error.
func (p *Pool) DigestAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	limiter := newConcLimiter(p.Size)

	for i, path := range paths {
		select {
		case <-ctx.Done():
			results[i] = Result{Path: path, Err: ctx.Err()}
			continue
		default:
		}

		limiter.increase()
		go func(i int, path string) {
			defer limiter.decrease()

			collector := metrics.NewCollector(p.Log, path)
			meta, err := p.Digester.Digest(ctx, path)
			results[i] = Result{Path: path, Meta: meta, Err: err}

			if meta != nil {
				collector.Info.Filesize = meta.Filesize
				collector.Info.DSType = meta.DSType
				collector.Info.Driver = meta.Driver
			}
			if err != nil {
				collector.Info.Status = KindOf(err).String()
				collector.Info.Error = err.Error()
			}
			collector.Log()
		}(i, path)
	}

	limiter.Wait()
	return results
}
