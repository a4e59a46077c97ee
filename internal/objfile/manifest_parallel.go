package objfile

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/forgelink/forgelink/internal/workshare"
)

// LoadManifestsParallel loads every manifest in paths using a bounded
// worker pool (parallelism workers; 0 runs loads inline, one after
// another, on the calling goroutine) and concatenates their groups in path order, so a link can
// span several manifests — one per compilation unit, say — without the
// caller managing the fan-out itself.
func LoadManifestsParallel(paths []string, parallelism int) (*Manifest, error) {
	pool := workshare.NewPool(parallelism)
	defer pool.Close()

	type loaded struct {
		m   *Manifest
		err error
	}

	results := make([]loaded, len(paths))
	reqs := make([]interface{}, len(paths))

	for i := range paths {
		reqs[i] = i
	}

	pool.ProcessAll(func(_ *workshare.Pool, request interface{}) {
		i := request.(int)

		m, err := LoadManifest(paths[i])
		results[i] = loaded{m: m, err: errors.Wrapf(err, "error loading manifest %q", paths[i])}
	}, reqs)

	merged := &Manifest{}

	var errs error

	for _, r := range results {
		if r.m == nil {
			errs = multierr.Append(errs, r.err)
			continue
		}

		merged.Groups = append(merged.Groups, r.m.Groups...)
	}

	if errs != nil {
		return nil, errs
	}

	return merged, nil
}
