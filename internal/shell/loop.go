package shell

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"coroshell/internal/history"
	"coroshell/internal/jobs"
	"coroshell/internal/parse"
	"coroshell/internal/pipeline"

	"github.com/peterh/liner"
)

// Loop drives the read-parse-dispatch cycle (spec §4.B3, §6). Grounded
// on solution.cpp's run_shell_loop (parser-error recovery: print and
// continue rather than abort) and the teacher's internal/repl/repl.go
// (SIGINT forwarding to the foreground pgid via a dedicated goroutine).
type Loop struct {
	Runner   *pipeline.Runner
	Fg       *pipeline.Foreground
	Jobs     *jobs.Set
	History  *history.Store
	Log      *log.Logger
	lastCode int
}

// RunInteractive drives the loop with a liner-backed prompt, history and
// Ctrl-C-aborts-line editing (oh's internal/ui pattern), appending every
// accepted line to durable history.
func (lp *Loop) RunInteractive() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if lp.History != nil {
		for _, cmd := range lp.History.Recent(1000) {
			line.AppendHistory(cmd)
		}
	}

	installSIGINTForwarding(lp.Fg)

	for {
		input, err := line.Prompt("coroshell> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			lp.Log.Println("prompt:", err)
			break
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		line.AppendHistory(trimmed)
		if lp.History != nil {
			if _, err := lp.History.Add(trimmed); err != nil {
				lp.Log.Println("history:", err)
			}
		}

		if lp.dispatch(trimmed) {
			break
		}
		lp.Jobs.Reap()
	}

	lp.Jobs.ReapAll()
	return lp.lastCode
}

// RunChunked drives the loop over raw stdin in 1 KiB chunks with no
// prompt, for non-interactive input (a pipe or redirected script),
// matching spec §6 / solution.cpp's run_shell_loop exactly: read, split
// on newlines, dispatch, repeat until EOF.
func (lp *Loop) RunChunked(in io.Reader) int {
	r := bufio.NewReaderSize(in, 1024)

	for {
		input, err := r.ReadString('\n')
		if len(input) > 0 {
			if lp.dispatchChunk(input) {
				break
			}
		}
		if err != nil {
			break
		}
	}

	lp.Jobs.ReapAll()
	return lp.lastCode
}

func (lp *Loop) dispatchChunk(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	done := lp.dispatch(trimmed)
	lp.Jobs.Reap()
	return done
}

// dispatch parses and runs one line, reporting whether the shell should
// now exit. Parser errors are printed and the line skipped, never
// fatal (spec §7's "Core B never aborts the shell on a command failure").
func (lp *Loop) dispatch(line string) bool {
	cl, err := parse.Parse(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	if len(cl.Exprs) == 0 {
		return false
	}

	if cl.IsBackground {
		lp.lastCode = RunBackground(line, lp.lastCode, lp.Jobs)
		return false
	}

	status, shouldExit := RunSequence(lp.Runner, cl, lp.lastCode, true, true)
	lp.lastCode = status
	return shouldExit
}
