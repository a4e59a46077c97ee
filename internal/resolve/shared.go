package resolve

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/forgelink/forgelink/internal/symdb"
)

// ItemError pairs a processing failure with the WorkItem and group that
// produced it, so the caller-visible errors collection is actionable
// rather than a bag of bare errors.
type ItemError struct {
	GroupID int
	Item    WorkItem
	Err     error
}

func (e *ItemError) Error() string {
	return e.Err.Error()
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// SharedResources is the process-wide coordination object for one
// scheduler run: the ready-worker queue, the idle-thread queue, the
// shutdown flag, the error sink, and the immutable handles every
// goroutine needs (symbol database, metrics). One instance is
// created before the pool starts and discarded after it joins.
type SharedResources struct {
	slots []*WorkerSlot

	readyWorkers chan *GroupState
	idleThreads  chan chan struct{}

	done shutdownFlag

	errMu sync.Mutex
	errs  error

	symbols *symdb.Database
	metrics *Metrics
}

func newSharedResources(numGroups, numThreads int, symbols *symdb.Database, metrics *Metrics) *SharedResources {
	slots := make([]*WorkerSlot, numGroups)
	for i := range slots {
		slots[i] = &WorkerSlot{}
	}

	idleCap := numThreads - 1
	if idleCap < 0 {
		idleCap = 0
	}

	return &SharedResources{
		slots:        slots,
		readyWorkers: make(chan *GroupState, numGroups),
		idleThreads:  make(chan chan struct{}, idleCap),
		symbols:      symbols,
		metrics:      metrics,
	}
}

// Symbols returns the immutable symbol database handle.
func (s *SharedResources) Symbols() *symdb.Database {
	return s.symbols
}

// SendWork delivers item to targetGroup, re-publishing its GroupState to
// the ready queue and waking an idle thread if it was parked. An
// out-of-range targetGroup is a programmer-invariant violation and
// panics rather than silently dropping work.
func (s *SharedResources) SendWork(targetGroup int, item WorkItem) {
	if targetGroup < 0 || targetGroup >= len(s.slots) {
		panic("resolve: SendWork to out-of-range group id")
	}

	if stolen := s.slots[targetGroup].deposit(item); stolen != nil {
		s.readyWorkers <- stolen

		select {
		case wake := <-s.idleThreads:
			close(wake)
			s.metrics.unparked()
		default:
			// No idle thread registered right now: every pool goroutine
			// is active and will poll readyWorkers before it can
			// register idle, so no wakeup is owed.
		}
	}
}

// ReportError appends err into the shared, mutex-protected error sink.
// Non-fatal: other groups continue running.
func (s *SharedResources) ReportError(groupID int, item WorkItem, err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	s.errs = multierr.Append(s.errs, &ItemError{GroupID: groupID, Item: item, Err: err})
	s.metrics.errorReported()
}

// Errors returns the aggregated error collection accumulated so far.
func (s *SharedResources) Errors() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	return s.errs
}

// shutdownFlag wraps an atomic.Bool behind a sync.Once-guarded setter so
// shutdown is idempotent no matter how many goroutines call it
// concurrently (panic path and normal termination path can race).
type shutdownFlag struct {
	once sync.Once
	flag atomic.Bool
}

func (f *shutdownFlag) isSet() bool {
	return f.flag.Load()
}

func (f *shutdownFlag) set() (first bool) {
	f.once.Do(func() {
		f.flag.Store(true)
		first = true
	})

	return first
}
