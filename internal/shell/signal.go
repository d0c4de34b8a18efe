package shell

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"coroshell/internal/pipeline"
)

// installSIGINTForwarding mirrors the teacher's repl.Run goroutine: the
// shell process itself never dies on Ctrl-C. If a pipeline currently
// owns the terminal, SIGINT is relayed to its process group; otherwise
// only a newline is printed (liner's own Ctrl-C-aborts-line handles the
// idle-prompt case, spec §4.B3).
func installSIGINTForwarding(fg *pipeline.Foreground) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	go func() {
		for range sig {
			if fg.Get() > 0 {
				fg.SignalForeground(unix.SIGINT)
			} else {
				fmt.Print("\n")
			}
		}
	}()
}
