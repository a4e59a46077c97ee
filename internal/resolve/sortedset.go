package resolve

import "github.com/petar/GoLLRB/llrb"

// sortedSet is a deterministic, insertion-order-independent set of string
// identifiers, backed by a left-leaning red-black tree. It exists so the
// final report lists loaded sections and exported symbols in a stable
// order regardless of which goroutine happened to discover them first,
// without re-sorting a slice on every harvest.
type sortedSet struct {
	tree *llrb.LLRB
}

type stringItem string

func (s stringItem) Less(than llrb.Item) bool {
	return s < than.(stringItem)
}

func newSortedSet() *sortedSet {
	return &sortedSet{tree: llrb.New()}
}

// Add inserts id, reporting whether it was new.
func (s *sortedSet) Add(id string) bool {
	item := stringItem(id)
	if s.tree.Has(item) {
		return false
	}

	s.tree.ReplaceOrInsert(item)

	return true
}

// Len reports the number of distinct ids added.
func (s *sortedSet) Len() int {
	return s.tree.Len()
}

// Items returns every id in ascending order.
func (s *sortedSet) Items() []string {
	out := make([]string, 0, s.tree.Len())

	s.tree.AscendGreaterOrEqual(stringItem(""), func(i llrb.Item) bool {
		out = append(out, string(i.(stringItem)))
		return true
	})

	return out
}
