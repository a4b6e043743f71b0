package generator

import (
	"context"
	"sort"
	"sync"

	"github.com/gnana997/propdoc/pkg/util"
)

// GenerateAll runs Generate over paths on a bounded worker pool. Failures are
// logged and counted; successful results are returned sorted by source path.
func (g *Generator) GenerateAll(ctx context.Context, paths []string) ([]*Result, int) {
	if len(paths) == 0 {
		return nil, 0
	}

	numWorkers := util.WorkersFor(len(paths))
	jobs := make(chan string, numWorkers*2)

	type outcome struct {
		result *Result
		path   string
		err    error
	}
	outcomes := make(chan outcome, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				res, err := g.Generate(ctx, path)
				outcomes <- outcome{result: res, path: path, err: err}
			}
		}()
	}

	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(outcomes)
		}()
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	var results []*Result
	failed := 0
	for o := range outcomes {
		if o.err != nil {
			g.logger.Error("generation failed", "file", o.path, "error", o.err)
			failed++
			continue
		}
		results = append(results, o.result)
	}
	// Paths never handed to a worker count as failures too.
	if skipped := len(paths) - len(results) - failed; skipped > 0 {
		failed += skipped
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].SourcePath < results[j].SourcePath
	})
	return results, failed
}
