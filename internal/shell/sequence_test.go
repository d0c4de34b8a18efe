package shell

import (
	"os"
	"path/filepath"
	"testing"

	"coroshell/internal/parse"
	"coroshell/internal/pipeline"
)

func newTestRunner() *pipeline.Runner {
	return pipeline.NewRunner(pipeline.NewForeground())
}

func TestRunSequenceAndShortCircuitsOnFailure(t *testing.T) {
	cl, err := parse.Parse("/bin/false && /bin/true")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	status, shouldExit := RunSequence(newTestRunner(), cl, 0, false, false)
	if shouldExit {
		t.Fatal("want shouldExit false")
	}
	if status == 0 {
		t.Fatal("want nonzero status, /bin/true must not have run")
	}
}

func TestRunSequenceOrShortCircuitsOnSuccess(t *testing.T) {
	cl, err := parse.Parse("/bin/true || /bin/false")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	status, shouldExit := RunSequence(newTestRunner(), cl, 0, false, false)
	if shouldExit {
		t.Fatal("want shouldExit false")
	}
	if status != 0 {
		t.Fatalf("want status 0, got %d", status)
	}
}

func TestRunSequenceExitStopsSequence(t *testing.T) {
	cl, err := parse.Parse("exit 7 && /bin/true")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	status, shouldExit := RunSequence(newTestRunner(), cl, 0, true, false)
	if !shouldExit {
		t.Fatal("want shouldExit true")
	}
	if status != 7 {
		t.Fatalf("want status 7, got %d", status)
	}
}

func TestRunSequenceCdRunsInProcess(t *testing.T) {
	// A single-command "cd" pipeline is handled entirely in-process by
	// tryBuiltin (no child spawned), so it is safe to exercise directly
	// here, unlike a piped/background "cd" or "exit" which self-reexecs
	// the shell's own binary and belongs in an integration test instead.
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	defer os.Chdir(start)

	dir := t.TempDir()
	cl, err := parse.Parse("cd " + dir)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	status, shouldExit := RunSequence(newTestRunner(), cl, 0, true, false)
	if shouldExit || status != 0 {
		t.Fatalf("got status=%d shouldExit=%v", status, shouldExit)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	resolvedCwd, _ := filepath.EvalSymlinks(cwd)
	if resolvedCwd != resolved {
		t.Fatalf("want cwd %s, got %s", resolved, resolvedCwd)
	}
}
