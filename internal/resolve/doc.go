// Package resolve implements the symbol-resolution and section-loading
// phase of the linker: given a set of groups of already-parsed input
// object files, it discovers which sections must appear in the final
// output by transitively following symbol references and relocations.
//
// The hard part is the scheduler: a fixed pool of goroutines that balances
// an irregular, data-dependent DAG of cross-group work without a central
// coordinator, detects quiescence without polling, and tolerates a
// panicking work item without stranding a parked goroutine. See doc
// comments on Scheduler, WorkerSlot and SharedResources for the protocol.
package resolve
