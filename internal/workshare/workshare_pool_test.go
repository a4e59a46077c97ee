package workshare_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/internal/workshare"
)

func TestProcessAllRunsEveryRequest(t *testing.T) {
	pool := workshare.NewPool(4)
	defer pool.Close()

	var sum int64

	reqs := make([]interface{}, 10)
	for i := range reqs {
		reqs[i] = int64(i + 1)
	}

	pool.ProcessAll(func(_ *workshare.Pool, request interface{}) {
		atomic.AddInt64(&sum, request.(int64))
	}, reqs)

	require.EqualValues(t, 55, sum)
}

func TestProcessRunsInlineWithZeroWorkers(t *testing.T) {
	pool := workshare.NewPool(0)
	defer pool.Close()

	ran := false

	pool.Process(func(_ *workshare.Pool, _ interface{}) {
		ran = true
	}, nil)

	require.True(t, ran)
}
