// Package groupname assigns human-readable, deterministic display names to
// groups for logs and reports. Names are never used in scheduling logic —
// groups are addressed everywhere else by their plain integer id.
package groupname

import (
	"math/rand"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
)

var mu sync.Mutex

// Name returns a deterministic two-word petname for groupID. The same id
// always yields the same name within a process, which keeps diagnostic
// output reproducible across runs over identical input.
//
// golang-petname draws from the global math/rand source rather than
// accepting an injected one, so determinism is obtained by reseeding that
// source under a package-level lock before each call.
func Name(groupID int) string {
	mu.Lock()
	defer mu.Unlock()

	rand.Seed(int64(groupID) + 1) //nolint:staticcheck // deterministic seeding is the point here

	return petname.Generate(2, "-")
}
