// Command ppool runs one external command per input line in parallel while
// keeping the combined output readable: each command's output is printed as
// one contiguous block, blocks appearing in input order.
//
// Usage:
//
//	seq 1 20 | ppool [flags] command [args...]
//
// Occurrences of {} in the command arguments are replaced by the input line;
// without a {} the line is appended as the final argument.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/wreed4/ppool"
)

var failClr = color.New(color.FgRed, color.Bold)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		workers = flag.Uint("j", 0, "maximum concurrent commands (0 means one worker per input)")
		unbuf   = flag.Bool("u", false, "forward output immediately instead of grouping it in input order")
		fg      = flag.Bool("fg", false, "run commands sequentially on the calling thread")
		threads = flag.Bool("threads", false, "supervise commands from the goroutine pool instead of the process pool")
		perSec  = flag.Float64("rate", 0, "maximum command starts per second (0 disables pacing)")
		burst   = flag.Int("burst", 1, "burst size for -rate")
		summary = flag.Bool("summary", false, "print a per-command exit status table after the run")
		verbose = flag.Bool("v", false, "verbose diagnostics on stderr")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: ppool [flags] command [args...]  (input lines on stdin)")
		flag.PrintDefaults()
		return 2
	}
	template := flag.Args()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, "ppool:", err)
			return 2
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck

	lines, err := readLines(os.Stdin)
	if err != nil {
		failClr.Fprintln(os.Stderr, "ppool: reading stdin:", err)
		return 2
	}
	logger.Info("inputs read", zap.Int("count", len(lines)))

	opts := []ppool.Option{}
	if *workers > 0 {
		opts = append(opts, ppool.WithMaxWorkers(*workers))
	}
	if *unbuf {
		opts = append(opts, ppool.WithUnbuffered())
	}
	if *fg {
		opts = append(opts, ppool.WithForeground())
	}
	if *threads {
		opts = append(opts, ppool.WithGoroutinePool())
	}
	if *perSec > 0 {
		opts = append(opts, ppool.WithRateLimit(*perSec, *burst))
	}

	results, err := ppool.MapCommands(context.Background(), lines, func(line string) ppool.Command {
		name, args := expand(template, line)
		logger.Debug("command queued", zap.String("name", name), zap.Strings("args", args))
		return ppool.Command{Name: name, Args: args}
	}, opts...)
	if err != nil && results == nil {
		// Pool-level or configuration failure, fatal before completion.
		failClr.Fprintln(os.Stderr, "ppool:", err)
		return 2
	}

	failures := 0
	for i, r := range results {
		if r.ExitCode != 0 {
			failures++
			failClr.Fprintf(os.Stderr, "ppool: command %d (%s) exited with %d\n", i, lines[i], r.ExitCode)
		}
	}
	logger.Info("run finished",
		zap.Int("commands", len(results)),
		zap.Int("failures", failures),
	)

	if *summary {
		renderSummary(lines, results)
	}

	if failures > 0 {
		return 1
	}
	return 0
}

func readLines(f *os.File) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// expand substitutes the input line into the command template. Every {} in
// the template is replaced; a template without {} gets the line appended.
func expand(template []string, line string) (name string, args []string) {
	substituted := false
	out := make([]string, 0, len(template))
	for _, t := range template {
		if strings.Contains(t, "{}") {
			substituted = true
			t = strings.ReplaceAll(t, "{}", line)
		}
		out = append(out, t)
	}
	if !substituted {
		out = append(out, line)
	}
	return out[0], out[1:]
}

func renderSummary(lines []string, results []ppool.ExecResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Input", "Exit", "Status")
	for i, r := range results {
		status := "ok"
		if r.ExitCode != 0 {
			status = "failed"
		}
		_ = table.Append(strconv.Itoa(i), lines[i], strconv.Itoa(r.ExitCode), status)
	}
	if err := table.Render(); err != nil {
		failClr.Fprintln(os.Stderr, "ppool: rendering summary:", err)
	}
}
