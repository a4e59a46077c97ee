package runlock_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgelink/forgelink/internal/runlock"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	dir := t.TempDir()

	lock, err := runlock.Acquire(dir)
	require.NoError(t, err)
	require.NotNil(t, lock)

	require.NoError(t, lock.Release())
}

func TestAcquireFailsWhenAlreadyHeld(t *testing.T) {
	dir := t.TempDir()

	first, err := runlock.Acquire(dir)
	require.NoError(t, err)

	defer first.Release() //nolint:errcheck

	_, err = runlock.Acquire(dir)
	require.Error(t, err)
}

func TestReleaseOnNilIsNoop(t *testing.T) {
	var lock *runlock.Lock

	require.NoError(t, lock.Release())
}
