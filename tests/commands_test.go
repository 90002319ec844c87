package tests

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wreed4/ppool"
)

func shellCommand(script string) ppool.Command {
	return ppool.Command{Name: "sh", Args: []string{"-c", script}}
}

func TestMapCommands_OutputInInputOrder(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	// Earlier commands sleep longer, so completion order is reversed.
	items := []int{0, 1, 2}
	res, err := ppool.MapCommands(ctx, items, func(i int) ppool.Command {
		return shellCommand(fmt.Sprintf("sleep 0.0%d; echo cmd-%d", (2-i)*3, i))
	}, ppool.WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, "cmd-0\ncmd-1\ncmd-2\n", out.String())
	require.Len(t, res, 3)
	for _, r := range res {
		require.Zero(t, r.ExitCode)
	}
}

func TestMapCommands_NonZeroExitIsTaggedFailure(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	res, err := ppool.MapCommands(ctx, []int{0, 1, 2}, func(i int) ppool.Command {
		if i == 1 {
			return shellCommand("echo failing; exit 7")
		}
		return shellCommand(fmt.Sprintf("echo ok-%d", i))
	}, ppool.WithOutput(&out))

	require.Error(t, err)
	idx, ok := ppool.ExtractTaskIndex(err)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	// Exit codes are recorded per position; the failed command's output is
	// still flushed in its correct slot.
	require.Equal(t, []ppool.ExecResult{{ExitCode: 0}, {ExitCode: 7}, {ExitCode: 0}}, res)
	require.Equal(t, "ok-0\nfailing\nok-2\n", out.String())
}

func TestMapCommands_StderrCapturedWithStdout(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	_, err := ppool.MapCommands(ctx, []int{0}, func(int) ppool.Command {
		return shellCommand("echo out; echo err 1>&2")
	}, ppool.WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, "out\nerr\n", out.String())
}

func TestMapCommands_GoroutinePoolSupervision(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	res, err := ppool.MapCommands(ctx, []int{0, 1}, func(i int) ppool.Command {
		return shellCommand(fmt.Sprintf("echo via-threads-%d", i))
	}, ppool.WithOutput(&out), ppool.WithGoroutinePool())
	require.NoError(t, err)
	require.Equal(t, "via-threads-0\nvia-threads-1\n", out.String())
	require.Len(t, res, 2)
}

func TestMapCommands_Foreground(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	res, err := ppool.MapCommands(ctx, []int{0, 1}, func(i int) ppool.Command {
		return shellCommand(fmt.Sprintf("echo fg-%d", i))
	}, ppool.WithOutput(&out), ppool.WithForeground())
	require.NoError(t, err)
	require.Equal(t, "fg-0\nfg-1\n", out.String())
	require.Len(t, res, 2)
}

func TestMapCommands_MissingProgram(t *testing.T) {
	ctx := context.Background()
	res, err := ppool.MapCommands(ctx, []int{0}, func(int) ppool.Command {
		return ppool.Command{Name: "definitely-not-a-real-program-xyz"}
	}, ppool.WithOutput(io.Discard))

	require.Error(t, err)
	require.Len(t, res, 1)
	require.Equal(t, -1, res[0].ExitCode)
}

func TestRunCommands_Empty(t *testing.T) {
	res, err := ppool.RunCommands(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, res)
}
