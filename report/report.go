// Package report renders the outcome of a resolve run: a per-group text
// summary for a terminal, a JSON document for tooling, and an optional
// verbose dump of every accumulator for debugging.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/alecthomas/units"
	"github.com/fatih/color"
	"github.com/sanity-io/litter"
	"go.uber.org/multierr"

	"github.com/forgelink/forgelink/internal/groupname"
	"github.com/forgelink/forgelink/internal/resolve"
)

// GroupReport is the JSON-serializable summary of one GroupState.
type GroupReport struct {
	GroupID               int      `json:"groupId"`
	GroupName             string   `json:"groupName"`
	GlobalSymbolsResolved int      `json:"globalSymbolsResolved"`
	SymbolsCopyRelocated  int      `json:"symbolsCopyRelocated"`
	LoadedSections        []string `json:"loadedSections"`
	ExportedSymbols       []string `json:"exportedSymbols"`
}

// Report is the full, JSON-serializable outcome of one run.
type Report struct {
	Groups []GroupReport `json:"groups"`
	Errors []string      `json:"errors,omitempty"`
}

// Build converts the scheduler's raw Result into a Report, sorted by
// group id regardless of the order groups were reclaimed in.
func Build(result resolve.Result) Report {
	groups := make([]GroupReport, len(result.Groups))

	for i, gs := range result.Groups {
		groups[i] = GroupReport{
			GroupID:               gs.ID,
			GroupName:             groupname.Name(gs.ID),
			GlobalSymbolsResolved: gs.Acc.GlobalSymbolsResolved,
			SymbolsCopyRelocated:  gs.Acc.SymbolsCopyRelocated,
			LoadedSections:        gs.Acc.LoadedSections(),
			ExportedSymbols:       gs.Acc.ExportedSymbols(),
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].GroupID < groups[j].GroupID })

	var errs []string

	for _, e := range multierr.Errors(result.Err) {
		errs = append(errs, e.Error())
	}

	return Report{Groups: groups, Errors: errs}
}

// WriteJSON encodes r to w as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

// WriteText renders r as a human-readable, colorized report, suppressing
// the per-group LoadedSections line for groups whose total byte estimate
// (len(id) summed across loaded sections, a stand-in for real section
// size) falls under threshold.
func WriteText(w io.Writer, r Report, threshold units.Base2Bytes) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	for _, g := range r.Groups {
		fmt.Fprintf(w, "%s %d (%s): %s resolved, %s copy-relocated, %d sections, %d dynamic exports\n",
			bold("group"), g.GroupID, g.GroupName,
			green(g.GlobalSymbolsResolved),
			green(g.SymbolsCopyRelocated),
			len(g.LoadedSections),
			len(g.ExportedSymbols),
		)

		if units.Base2Bytes(sectionWeight(g.LoadedSections)) < threshold {
			continue
		}

		fmt.Fprintf(w, "  sections: %v\n", g.LoadedSections)
	}

	if len(r.Errors) == 0 {
		return
	}

	fmt.Fprintf(w, "%s (%d)\n", red("errors"), len(r.Errors))

	for _, e := range r.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}

// WriteVerbose dumps every field of r with sanity-io/litter, for
// debugging a run whose summary doesn't explain itself.
func WriteVerbose(w io.Writer, r Report) {
	litter.Config.Writer = w
	litter.Dump(r)
}

func sectionWeight(sections []string) int {
	total := 0
	for _, s := range sections {
		total += len(s)
	}

	return total
}
