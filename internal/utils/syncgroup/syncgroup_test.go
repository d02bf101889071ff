package syncgroup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestGroup_Throttling(t *testing.T) {
	require := require.New(t)

	const limit = 2
	var running, peak int32
	g, _ := New(context.Background(), WithThrottling(limit))
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			current := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
	}

	require.NoError(g.Wait())
	require.LessOrEqual(atomic.LoadInt32(&peak), int32(limit))
}

func TestGroup_FirstError(t *testing.T) {
	require := require.New(t)

	errFailure := xerrors.New("failure")
	g, ctx := New(context.Background())
	g.Go(func() error {
		return errFailure
	})
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	err := g.Wait()
	require.Error(err)
	require.True(xerrors.Is(err, errFailure))
}
