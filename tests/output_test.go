package tests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wreed4/ppool"
)

// The scenario from the package contract: task 0 is slowest, task 1 fastest,
// task 2 in between. Completion order is B, C, A; the stream must still read
// A, B, C.
func TestBuffered_OutputInSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	delays := []time.Duration{60 * time.Millisecond, 0, 30 * time.Millisecond}
	tokens := []string{"A", "B", "C"}

	done := make([]time.Time, len(tokens))
	res, err := ppool.Map(ctx, []int{0, 1, 2}, func(_ context.Context, w io.Writer, i int) (int, error) {
		time.Sleep(delays[i])
		_, _ = io.WriteString(w, tokens[i]+"\n")
		done[i] = time.Now()
		return i, nil
	}, ppool.WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, res)
	require.Equal(t, "A\nB\nC\n", out.String())

	// Sanity: completion really was out of order, so the stream order came
	// from the release logic, not from scheduling luck.
	require.True(t, done[1].Before(done[0]), "task 1 should finish before task 0")
	require.True(t, done[2].Before(done[0]), "task 2 should finish before task 0")
}

func TestBuffered_BlocksAreContiguous(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	// Each task writes several chunks with pauses in between, so that in
	// passthrough mode the chunks of concurrent tasks would interleave.
	const tasks, chunks = 4, 3
	items := make([]int, tasks)
	for i := range items {
		items[i] = i
	}
	_, err := ppool.Map(ctx, items, func(_ context.Context, w io.Writer, i int) (int, error) {
		for c := 0; c < chunks; c++ {
			fmt.Fprintf(w, "task%d-chunk%d\n", i, c)
			time.Sleep(5 * time.Millisecond)
		}
		return i, nil
	}, ppool.WithOutput(&out))
	require.NoError(t, err)

	var want strings.Builder
	for i := 0; i < tasks; i++ {
		for c := 0; c < chunks; c++ {
			fmt.Fprintf(&want, "task%d-chunk%d\n", i, c)
		}
	}
	require.Equal(t, want.String(), out.String())
}

func TestBuffered_FlushWaitsForEarlierTask(t *testing.T) {
	ctx := context.Background()
	var out syncBuffer

	release := make(chan struct{})
	written := make(chan struct{})

	// Sampled while task 0 is still running; task 1's block must not have
	// reached the stream yet.
	var earlyLen atomic.Int64

	go func() {
		<-written
		earlyLen.Store(int64(out.Len()))
		close(release)
	}()

	_, err := ppool.Map(ctx, []int{0, 1}, func(_ context.Context, w io.Writer, i int) (int, error) {
		if i == 0 {
			<-release
			_, _ = io.WriteString(w, "first\n")
			return i, nil
		}
		_, _ = io.WriteString(w, "second\n")
		close(written)
		return i, nil
	}, ppool.WithOutput(&out))
	require.NoError(t, err)
	require.Zero(t, earlyLen.Load(), "task 1 flushed before task 0 finished")
	require.Equal(t, "first\nsecond\n", out.String())
}

func TestUnbuffered_ImmediatePassthrough(t *testing.T) {
	ctx := context.Background()
	var out syncBuffer

	// Force completion (and write) order 1 then 0; without buffering the
	// stream keeps that order.
	gate := make(chan struct{})
	_, err := ppool.Map(ctx, []int{0, 1}, func(_ context.Context, w io.Writer, i int) (int, error) {
		if i == 0 {
			<-gate
		}
		fmt.Fprintf(w, "token-%d\n", i)
		if i == 1 {
			close(gate)
		}
		return i, nil
	}, ppool.WithOutput(&out), ppool.WithUnbuffered())
	require.NoError(t, err)
	require.Equal(t, "token-1\ntoken-0\n", out.String())
}

func TestUnbuffered_AllWritesArriveUntorn(t *testing.T) {
	ctx := context.Background()
	var out syncBuffer

	const tasks = 8
	items := make([]int, tasks)
	for i := range items {
		items[i] = i
	}
	_, err := ppool.Map(ctx, items, func(_ context.Context, w io.Writer, i int) (int, error) {
		fmt.Fprintf(w, "line-%d\n", i)
		return i, nil
	}, ppool.WithOutput(&out), ppool.WithUnbuffered())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	sort.Strings(lines)
	want := make([]string, 0, tasks)
	for i := 0; i < tasks; i++ {
		want = append(want, fmt.Sprintf("line-%d", i))
	}
	require.Equal(t, want, lines, "stream must be a permutation of whole writes")
}
