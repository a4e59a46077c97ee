package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/forgelink/forgelink/internal/groupname"
	"github.com/forgelink/forgelink/internal/resolve"
	"github.com/forgelink/forgelink/report"
)

func sampleResult() resolve.Result {
	gs1 := resolve.NewGroupState(1, nil)
	gs1.MarkSectionLoaded("text.main")
	gs1.Acc.GlobalSymbolsResolved = 2

	gs0 := resolve.NewGroupState(0, nil)
	gs0.MarkSectionLoaded("text.helper")

	return resolve.Result{
		Groups: []*resolve.GroupState{gs1, gs0},
		Err:    multierr.Append(nil, assertError("boom")),
	}
}

type assertError string

func (e assertError) Error() string { return string(e) }

func TestBuildSortsByGroupID(t *testing.T) {
	r := report.Build(sampleResult())

	require.Len(t, r.Groups, 2)
	require.Equal(t, 0, r.Groups[0].GroupID)
	require.Equal(t, 1, r.Groups[1].GroupID)
	require.Equal(t, []string{"boom"}, r.Errors)
	require.Equal(t, groupname.Name(0), r.Groups[0].GroupName)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	r := report.Build(sampleResult())

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, r))

	var decoded report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, r, decoded)
}

func TestWriteTextDoesNotPanic(t *testing.T) {
	r := report.Build(sampleResult())

	var buf bytes.Buffer
	report.WriteText(&buf, r, 0)

	require.NotEmpty(t, buf.String())
}
