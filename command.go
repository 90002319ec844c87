package ppool

import (
	"context"
	"io"
	"os/exec"
)

// Command describes one external program invocation. It is the transferable
// unit of work accepted by the process-backed pool: unlike a Go function, a
// command can execute outside the calling process.
type Command struct {
	// Name is the program to run, resolved via PATH when not absolute.
	Name string
	// Args are the program arguments, excluding the program name itself.
	Args []string
	// Dir is the working directory; empty means the calling process's.
	Dir string
	// Env is the child environment; nil inherits the parent environment.
	Env []string
}

// ExecResult is the per-command outcome returned by MapCommands.
type ExecResult struct {
	// ExitCode is the process exit code; -1 if the process did not run or
	// was terminated by a signal.
	ExitCode int
}

// commandRunner binds a Command to the pool contracts. It implements both
// Runner (in-process supervision, used by the goroutine-backed pool) and
// Execer (used by the process-backed pool); both paths run the same child
// process with its output wired to the task sink.
type commandRunner struct {
	spec Command
	cmd  *exec.Cmd
}

// Command builds the child process once and memoizes it so the exit state
// can be read back after completion.
func (cr *commandRunner) Command(ctx context.Context) *exec.Cmd {
	if cr.cmd == nil {
		cmd := exec.CommandContext(ctx, cr.spec.Name, cr.spec.Args...)
		cmd.Dir = cr.spec.Dir
		cmd.Env = cr.spec.Env
		cr.cmd = cmd
	}
	return cr.cmd
}

func (cr *commandRunner) Run(ctx context.Context, out io.Writer) error {
	cmd := cr.Command(ctx)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

func (cr *commandRunner) result() ExecResult {
	if cr.cmd == nil || cr.cmd.ProcessState == nil {
		return ExecResult{ExitCode: -1}
	}
	return ExecResult{ExitCode: cr.cmd.ProcessState.ExitCode()}
}
