package pipeline

import (
	"fmt"
	"os"
	"strconv"

	"coroshell/internal/parse"
)

// cdPath implements get_cd_path (solution.cpp): zero args uses $HOME
// (failing if unset or empty); one arg uses it verbatim.
func cdPath(cmd *parse.Command) (string, bool) {
	if len(cmd.Args) == 0 {
		home, ok := os.LookupEnv("HOME")
		return home, ok && home != ""
	}
	return cmd.Args[0], true
}

// changeDirectory implements change_directory (solution.cpp): runs in
// whichever process calls it (the shell itself for a same-process
// builtin cd, or a re-exec'd child for a piped cd), per spec §4.B2.
func changeDirectory(cmd *parse.Command) int {
	path, ok := cdPath(cmd)
	if !ok {
		fmt.Fprintln(os.Stderr, "cd: HOME not set")
		return 1
	}
	if err := os.Chdir(path); err != nil {
		fmt.Fprintf(os.Stderr, "cd: %s: %s\n", path, errnoText(err))
		return 1
	}
	return 0
}

func errnoText(err error) string {
	if pe, ok := err.(*os.PathError); ok {
		return pe.Err.Error()
	}
	return err.Error()
}

// exitCode implements get_exit_code/parse_exit_code (solution.cpp): no
// arg reuses lastStatus; one arg must be a decimal integer in [0,255].
func exitCode(cmd *parse.Command, lastStatus int) (int, bool) {
	if len(cmd.Args) == 0 {
		return lastStatus, true
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil || n < 0 || n > 255 {
		return 0, false
	}
	return n, true
}

// ChildCD is run by a re-exec'd child standing in for a forked process
// that would otherwise just chdir and _exit (spec §4.B2 step 2: "cd runs
// the chdir and _exit with its status" — a no-op on the shell's own cwd,
// intentionally, since it is a separate process either way).
func ChildCD(cmd *parse.Command) int {
	return changeDirectory(cmd)
}

// ChildExit is run by a re-exec'd child standing in for a forked process
// that would otherwise just _exit with the parsed/defaulted code.
func ChildExit(cmd *parse.Command, lastStatus int) int {
	code, ok := exitCode(cmd, lastStatus)
	if !ok {
		arg := ""
		if len(cmd.Args) > 0 {
			arg = cmd.Args[0]
		}
		fmt.Fprintf(os.Stderr, "exit: invalid exit code: %s\n", arg)
		return 1
	}
	return code
}

// tryBuiltin implements handle_single_builtin (solution.cpp) for a
// single-command pipeline: exit only terminates the shell when allowExit
// holds and the final pipeline has no file redirection (spec §4.B2); cd
// always runs in-process, with its stdout temporarily redirected if this
// is the last pipeline and it has file redirection, for semantic parity
// with an external command even though cd itself writes nothing.
func tryBuiltin(cmd *parse.Command, cl *parse.CommandLine, isLastPipeline, allowExit bool, lastStatus int) (ExecResult, bool) {
	if cmd.Exe == "exit" && allowExit && cl.OutType == parse.OutStdout {
		code, ok := exitCode(cmd, lastStatus)
		if !ok {
			fmt.Fprintln(os.Stderr, "exit: invalid exit code")
			return ExecResult{Code: 1}, true
		}
		return ExecResult{Code: code, ShouldExit: true}, true
	}

	if cmd.Exe == "cd" {
		var restore func()
		if isLastPipeline && cl.OutType != parse.OutStdout {
			f, err := openRedirect(cl)
			if err != nil {
				fmt.Fprintln(os.Stderr, "open:", err)
				return ExecResult{Code: 1}, true
			}
			restore = redirectStdoutTo(f)
		}
		code := changeDirectory(cmd)
		if restore != nil {
			restore()
		}
		return ExecResult{Code: code}, true
	}

	return ExecResult{}, false
}
