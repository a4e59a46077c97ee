package resolve

import "sync"

// WorkerSlot is the per-group mailbox coordinating ownership of a
// GroupState and any cross-group work deposited for it while it is
// running or parked.
//
// Invariant: at all times, the GroupState for this slot's group is in
// exactly one of: (i) slot.worker (parked), (ii) the scheduler's
// readyWorkers channel, (iii) a pool goroutine's local variable
// (currently running). Nothing outside this file and scheduler.go ever
// reads or writes slot.worker or slot.work.
type WorkerSlot struct {
	mu     sync.Mutex
	work   []WorkItem
	worker *GroupState
}

// parkOrHandoff is Phase B of a worker run. If the slot has no pending
// inbound work it stores gs back into the slot (parked until a future
// deposit steals it out again) and returns nil. Otherwise it leaves gs with
// the caller and returns the whole pending batch, emptying the slot's
// buffer, so the caller re-drains instead of parking — the caller holds no
// lock across this call, it inspects the return.
func (s *WorkerSlot) parkOrHandoff(gs *GroupState) []WorkItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		// A GroupState is never parked twice without being taken out in
		// between: this would mean two goroutines believed they owned
		// the same group. Programmer-invariant violation; fatal.
		panic("resolve: slot already holds a parked worker")
	}

	if len(s.work) == 0 {
		s.worker = gs
		return nil
	}

	batch := s.work
	s.work = nil

	return batch
}

// forcePark stores gs back into the slot unconditionally, even if work is
// already pending. This is the error-path exit from draining a group's
// queue: an item error stops the current run without draining whatever
// arrived concurrently, trusting that a future deposit will steal gs back
// out and re-publish it, the same as for any other parked group.
func (s *WorkerSlot) forcePark(gs *GroupState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		panic("resolve: slot already holds a parked worker")
	}

	s.worker = gs
}

// deposit adds item to the slot's inbound buffer and, if a GroupState was
// parked here, steals it out so the caller can re-publish it to
// readyWorkers. The caller is responsible for the ready-queue push and
// idle-thread wakeup afterward.
func (s *WorkerSlot) deposit(item WorkItem) (stolen *GroupState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.work = append(s.work, item)

	if s.worker != nil {
		stolen = s.worker
		s.worker = nil
	}

	return stolen
}

// take removes and returns a parked GroupState, used only when reclaiming
// every slot after the pool has joined.
func (s *WorkerSlot) take() *GroupState {
	s.mu.Lock()
	defer s.mu.Unlock()

	gs := s.worker
	s.worker = nil

	return gs
}
