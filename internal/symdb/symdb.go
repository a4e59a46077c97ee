// Package symdb is the process-wide symbol database handed to every group
// as an immutable (definition-lookup) / atomically-updated (flag) handle.
//
// It is deliberately simple: a read-mostly map from symbol to the group
// that defines it, built once before the pool starts, plus a mutex-guarded
// per-symbol flag table updated as the scheduler discovers that a symbol
// is live, copy-relocated, or requested for dynamic export.
package symdb

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/forgelink/forgelink/internal/logging"
	"github.com/forgelink/forgelink/internal/objfile"
)

var log = logging.GetContextLoggerFunc("symdb")

// Flags records what has happened to a symbol so far.
type Flags struct {
	Live          bool
	CopyRelocated bool
	DynamicExport bool
}

// Database maps every global symbol to the group that defines it and
// tracks per-symbol resolution flags.
type Database struct {
	// RunID is a random identifier generated once per Database (one per
	// scheduler run). It plays no role in scheduling, and no log line in
	// this module includes it.
	RunID uuid.UUID

	defs map[objfile.SymbolID]int // symbol -> defining group id

	mu    sync.Mutex
	flags map[objfile.SymbolID]*Flags
}

// New builds a Database from the defining group of every symbol in
// layouts, keyed by group index matching the caller's GroupState slice.
func New(ctx context.Context, layoutsByGroup [][]*objfile.FileLayout) *Database {
	db := &Database{
		RunID: uuid.New(),
		defs:  map[objfile.SymbolID]int{},
		flags: map[objfile.SymbolID]*Flags{},
	}

	for groupID, layouts := range layoutsByGroup {
		for _, fl := range layouts {
			for id := range fl.Symbols {
				if existing, ok := db.defs[id]; ok && existing != groupID {
					log(ctx).Warnf("symbol %v defined in both group %v and group %v; keeping first", id, existing, groupID)
					continue
				}

				db.defs[id] = groupID
			}
		}
	}

	return db
}

// DefiningGroup returns the group id that defines sym, and whether it was
// found at all (an undefined symbol is reported as an item error by the
// caller, not treated as a scheduler-level fault).
func (db *Database) DefiningGroup(sym objfile.SymbolID) (int, bool) {
	g, ok := db.defs[sym]
	return g, ok
}

// MarkLive records that sym has been resolved and must be kept live,
// returning whether this is the first time it was marked (callers use
// this to avoid re-enqueuing work for an already-live symbol).
func (db *Database) MarkLive(sym objfile.SymbolID) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	f := db.flagsLocked(sym)
	if f.Live {
		return false
	}

	f.Live = true

	return true
}

// MarkCopyRelocated records that sym has been copy-relocated, returning
// whether this is the first time.
func (db *Database) MarkCopyRelocated(sym objfile.SymbolID) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	f := db.flagsLocked(sym)
	if f.CopyRelocated {
		return false
	}

	f.CopyRelocated = true

	return true
}

// MarkDynamicExport records that sym was requested for the dynamic symbol
// table, returning whether this is the first time.
func (db *Database) MarkDynamicExport(sym objfile.SymbolID) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	f := db.flagsLocked(sym)
	if f.DynamicExport {
		return false
	}

	f.DynamicExport = true

	return true
}

// Snapshot returns a copy of the flags recorded for sym.
func (db *Database) Snapshot(sym objfile.SymbolID) Flags {
	db.mu.Lock()
	defer db.mu.Unlock()

	return *db.flagsLocked(sym)
}

func (db *Database) flagsLocked(sym objfile.SymbolID) *Flags {
	f, ok := db.flags[sym]
	if !ok {
		f = &Flags{}
		db.flags[sym] = f
	}

	return f
}
