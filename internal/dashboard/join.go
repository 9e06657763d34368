package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// branch is one concurrent fetch. run stores its own result and reports failure.
type branch struct {
	source string
	run    func(ctx context.Context) error
}

// outcome is the settled result of a branch.
type outcome struct {
	source string
	err    error
}

// settleAll runs every branch concurrently and waits for all of them,
// returning one outcome per branch in branch order. Branch errors never
// cancel siblings; a panicking branch settles as a failure.
func settleAll(ctx context.Context, branches []branch) []outcome {
	outcomes := make([]outcome, len(branches))

	var g errgroup.Group
	for i, b := range branches {
		g.Go(func() error {
			outcomes[i] = outcome{source: b.source, err: runBranch(ctx, b)}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func runBranch(ctx context.Context, b branch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s fetch panicked: %v", b.source, r)
		}
	}()
	return b.run(ctx)
}
