package browse

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer(t *testing.T) {
	t.Run("Should run only the last scheduled callback after the quiet period", func(t *testing.T) {
		mock := clock.NewMock()
		d := NewDebouncer(mock, 500*time.Millisecond)
		var first, last atomic.Int32

		d.Reschedule(func() { first.Add(1) })
		mock.Add(300 * time.Millisecond)
		d.Reschedule(func() { last.Add(1) })
		mock.Add(300 * time.Millisecond)
		assert.True(t, d.Pending())
		mock.Add(200 * time.Millisecond)

		require.Eventually(t, func() bool { return last.Load() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(0), first.Load())
		assert.False(t, d.Pending())
	})

	t.Run("Should drop the callback on cancel", func(t *testing.T) {
		mock := clock.NewMock()
		d := NewDebouncer(mock, 100*time.Millisecond)
		var calls atomic.Int32

		d.Reschedule(func() { calls.Add(1) })
		d.Cancel()
		mock.Add(time.Second)

		assert.Never(t, func() bool { return calls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
		assert.False(t, d.Pending())
	})

	t.Run("Should default the quiet period", func(t *testing.T) {
		d := NewDebouncer(nil, 0)
		assert.Equal(t, DefaultQuietPeriod, d.Wait())
	})
}
