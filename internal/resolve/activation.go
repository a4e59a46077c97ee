package resolve

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/forgelink/forgelink/internal/objfile"
)

// SeedFunc emits the initial WorkItems for one file into the owning
// group's LocalWorkQueue. It may also call shared.SendWork for
// cross-group seeds (e.g. a file that directly requests a symbol defined
// in another group); that is routed normally because slots already exist
// by the time activation runs.
type SeedFunc func(ctx context.Context, file *objfile.FileLayout, gs *GroupState, shared *SharedResources)

// activate seeds every GroupState in parallel and publishes each to the
// ready queue once seeding completes, one goroutine per group under an
// errgroup: first error cancels the remaining seeds and aborts the run
// before any pool goroutine starts.
func activate(ctx context.Context, groups []*GroupState, seed SeedFunc, shared *SharedResources) error {
	eg, ctx := errgroup.WithContext(ctx)

	for _, gs := range groups {
		gs := gs

		eg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 8192)
					n := runtime.Stack(stack, false)
					err = &PanicError{Payload: r, Stack: stack[:n]}
				}
			}()

			for _, file := range gs.Files {
				if err := ctx.Err(); err != nil {
					return err
				}

				seed(ctx, file, gs, shared)
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	for _, gs := range groups {
		shared.readyWorkers <- gs
	}

	return nil
}
