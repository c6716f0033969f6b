package sim

import (
	"context"
	"fmt"
	"sync"
)

// Build assembles one independent simulator together with its run config.
type Build func() (*Simulator, Config, error)

// RunBatch runs every build concurrently. Results keep the order of builds;
// the first failure, by index, is returned.
func RunBatch(ctx context.Context, builds []Build) ([]*Result, error) {
	results := make([]*Result, len(builds))
	errs := make([]error, len(builds))

	var wg sync.WaitGroup
	for i, build := range builds {
		wg.Add(1)
		go func(idx int, build Build) {
			defer wg.Done()

			s, cfg, err := build()
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i, build)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}

	return results, nil
}
