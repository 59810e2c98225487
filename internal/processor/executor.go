package processor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Execute runs every processor in its own goroutine and waits for all of
// them. The first failure cancels the context shared by the others. A panic
// inside a processor is returned as an error naming it.
func Execute(ctx context.Context, procs ...Processor) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range procs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("processor %s panicked: %v", p.Name(), r)
				}
			}()
			if err := p.Run(gctx); err != nil {
				return fmt.Errorf("processor %s: %w", p.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
