// Package shell implements CORE B's Shell Loop and sequence execution
// (spec §4.B3): running &&/||-joined pipelines, backgrounding whole
// sequences, and driving the read-parse-dispatch REPL.
package shell

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"coroshell/internal/jobs"
	"coroshell/internal/parse"
	"coroshell/internal/pipeline"
	"coroshell/internal/plan"

	"golang.org/x/sys/unix"
)

// ReexecSequenceFlag is the argv[1] marker cmd/coroshell recognizes to
// run exactly one re-parsed command line in the background, standing in
// for the forked child of spec §4.B3's execute_background_command.
const ReexecSequenceFlag = "--coroshell-internal-sequence"

// RunSequence executes one parsed command line's pipelines left to
// right, short-circuiting on &&/||, marking the plan's final pipeline as
// the one redirection applies to (spec §4.B3's canonical rule: always
// the last pipeline in the plan, relying on short-circuiting to decide
// whether it actually runs). takeForeground controls whether each
// pipeline may claim the controlling terminal — false when this sequence
// is itself already running inside a backgrounded child.
func RunSequence(runner *pipeline.Runner, cl *parse.CommandLine, lastStatus int, allowExit, takeForeground bool) (status int, shouldExit bool) {
	p := plan.Build(cl.Exprs)
	status = lastStatus

	for i, cmds := range p.Pipelines {
		if i > 0 {
			switch p.Operators[i-1] {
			case plan.And:
				if status != 0 {
					continue
				}
			case plan.Or:
				if status == 0 {
					continue
				}
			}
		}

		isLast := i == len(p.Pipelines)-1
		res := runner.Run(cmds, cl, isLast, allowExit, takeForeground, status)
		status = res.Code

		if res.ShouldExit {
			return status, true
		}
	}

	return status, false
}

// RunBackground forks the whole sequence into a detached child process
// that runs it with allowExit=false, registers the child's pid in the
// background set, and returns 0 immediately without waiting (spec §4.B3
// / solution.cpp's execute_background_command). Go cannot re-fork the
// running process safely once goroutines exist, so the child is a fresh
// invocation of the shell's own binary re-parsing the same line, the
// same self-reexec idiom pipeline.buildCmd uses for a piped cd/exit.
func RunBackground(line string, lastStatus int, jobSet *jobs.Set) int {
	self, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fork:", err)
		return 1
	}

	c := exec.Command(self, ReexecSequenceFlag, strconv.Itoa(lastStatus), line)
	// Stdin left nil: exec.Cmd connects a nil Stdin to /dev/null, which
	// is exactly spec §4.B3's "background children [don't read from the
	// controlling terminal]" requirement.
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.SysProcAttr = &unix.SysProcAttr{Setpgid: true}

	if err := c.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "fork:", err)
		return 1
	}
	jobSet.Add(c.Process.Pid)
	return 0
}
