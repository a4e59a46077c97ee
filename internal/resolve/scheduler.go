package resolve

import (
	"context"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/forgelink/forgelink/internal/logging"
	"github.com/forgelink/forgelink/internal/objfile"
	"github.com/forgelink/forgelink/internal/symdb"
)

var log = logging.GetContextLoggerFunc("resolve")

// ProcessFunc implements the semantics of one WorkItem. It may push items
// for the same group onto queue, request cross-group delivery through
// shared.SendWork, and append errors through the returned error (the
// scheduler itself calls shared.ReportError on ProcessFunc's behalf so a
// single failure can't be forgotten by a careless implementation). It
// must never block on I/O or park a goroutine.
type ProcessFunc func(ctx context.Context, item WorkItem, gs *GroupState, queue *LocalWorkQueue, shared *SharedResources) error

// PanicError wraps a recovered panic from inside a pool goroutine or
// activation: caught at the pool boundary, triggers shutdown, then
// re-surfaced rather than silently swallowed.
type PanicError struct {
	Payload any
	Stack   []byte
}

func (e *PanicError) Error() string {
	return errors.Errorf("panic in scheduler: %v\n%s", e.Payload, e.Stack).Error()
}

// Scheduler drives groups to completion across a fixed goroutine pool: a
// ready-worker queue, per-group slots, a two-step idle-park with
// mandatory re-poll, and a panic barrier that never strands a parked
// goroutine.
type Scheduler struct {
	threads int
	process ProcessFunc
	metrics *Metrics
}

// NewScheduler builds a Scheduler with the given pool size (clamped to at
// least 1) and item-processing callback.
func NewScheduler(threads int, process ProcessFunc, metrics *Metrics) *Scheduler {
	if threads < 1 {
		threads = 1
	}

	return &Scheduler{threads: threads, process: process, metrics: metrics}
}

// Result is what Run returns: every GroupState reclaimed from its slot
// (in group-id order) plus the aggregated error collection, if any.
type Result struct {
	Groups []*GroupState
	Err    error
}

// Run activates every group, drives them to quiescence, and returns their
// harvested GroupStates plus any accumulated errors. ctx cancellation is
// honored only up to the point activation finishes: a running pool cannot
// be preempted mid-item.
func (s *Scheduler) Run(ctx context.Context, groups []*GroupState, seed SeedFunc, layoutsByGroup [][]*objfile.FileLayout) Result {
	symbols := symdb.New(ctx, layoutsByGroup)
	shared := newSharedResources(len(groups), s.threads, symbols, s.metrics)

	if err := activate(ctx, groups, seed, shared); err != nil {
		return Result{Groups: groups, Err: err}
	}

	var wg sync.WaitGroup

	wg.Add(s.threads)

	for i := 0; i < s.threads; i++ {
		go func(workerNum int) {
			defer wg.Done()
			s.driverLoop(ctx, workerNum, shared)
		}(i)
	}

	wg.Wait()

	return Result{Groups: reclaim(shared), Err: shared.Errors()}
}

// driverLoop is the per-goroutine scheduler driver: pop ready work, run it
// to local quiescence, and otherwise execute the two-step idle protocol
// until shutdown makes done true.
func (s *Scheduler) driverLoop(ctx context.Context, workerNum int, shared *SharedResources) {
	defer s.panicBarrier(shared)()

	log(ctx).Debugf("worker %d starting", workerNum)
	defer log(ctx).Debugf("worker %d exiting", workerNum)

	idle := false

	var myWake chan struct{}

	for !shared.done.isSet() {
		select {
		case gs := <-shared.readyWorkers:
			idle = false
			s.runWorker(ctx, gs, shared)

			continue
		default:
		}

		if shared.done.isSet() {
			return
		}

		if !idle {
			myWake = make(chan struct{})

			select {
			case shared.idleThreads <- myWake:
				idle = true
				shared.metrics.parked()
				// Mandatory re-poll: a producer may have pushed work
				// between our failed pop above and this registration.
				// We must loop immediately instead of parking, or a
				// SendWork call that raced us would have found no
				// handle of ours in idleThreads and never woken us.
				continue
			default:
				// idleThreads is full: we are the last non-idle thread
				// and readyWorkers was just observed empty. All work is
				// complete.
				if shared.done.set() {
					s.drainIdleThreads(shared)
				}

				return
			}
		}

		// Registered idle and still nothing to do: actually park, blocking
		// only on our own wake handle. Racing this receive against
		// readyWorkers would let us win a direct delivery without our
		// idleThreads registration ever being popped, leaving a stale
		// token behind that inflates the idle count past the number of
		// threads truly idle — exactly the count the quiescence argument
		// depends on. The next loop iteration's non-blocking readyWorkers
		// pop picks up work delivered this way instead.
		<-myWake
		idle = false
	}
}

// runWorker alternates draining the local queue and checking for inbound
// cross-group work until gs is quiescent and parked, or an item error or
// shutdown ends its run early.
func (s *Scheduler) runWorker(ctx context.Context, gs *GroupState, shared *SharedResources) {
	shared.metrics.workerStarted()
	defer shared.metrics.workerStopped()

	slot := shared.slots[gs.ID]

	for {
		for {
			if shared.done.isSet() {
				// Shutdown (e.g. a panic elsewhere): stop mid-drain so the
				// pool joins even if this group keeps producing work.
				slot.forcePark(gs)

				return
			}

			item, ok := gs.Queue.Pop()
			if !ok {
				break
			}

			shared.metrics.itemProcessed(item.Kind)

			if err := s.process(ctx, item, gs, &gs.Queue, shared); err != nil {
				shared.ReportError(gs.ID, item, err)
				slot.forcePark(gs)

				return
			}
		}

		batch := slot.parkOrHandoff(gs)
		if batch == nil {
			return
		}

		gs.Queue.AbsorbBatch(batch)
	}
}

// reclaim pulls every GroupState back out of its slot after the pool has
// joined, in group-id order, so the caller-visible result is deterministic.
func reclaim(shared *SharedResources) []*GroupState {
	out := make([]*GroupState, 0, len(shared.slots))

	for _, slot := range shared.slots {
		gs := slot.take()
		if gs != nil {
			out = append(out, gs)
		}
	}

	return out
}

func (s *Scheduler) drainIdleThreads(shared *SharedResources) {
	for {
		select {
		case wake := <-shared.idleThreads:
			close(wake)
		default:
			return
		}
	}
}

// panicBarrier recovers a panic from inside one pool goroutine, triggers
// shutdown so no other goroutine is left parked, and records the panic
// as a *PanicError in the shared error sink rather than
// letting it escape the pool and crash the whole process.
func (s *Scheduler) panicBarrier(shared *SharedResources) func() {
	return func() {
		r := recover()
		if r == nil {
			return
		}

		shared.metrics.panicRecovered()

		stack := make([]byte, 8192)
		n := runtime.Stack(stack, false)

		pe := &PanicError{Payload: r, Stack: stack[:n]}

		shared.errMu.Lock()
		shared.errs = multierr.Append(shared.errs, pe)
		shared.errMu.Unlock()

		if shared.done.set() {
			s.drainIdleThreads(shared)
		}
	}
}
