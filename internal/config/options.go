// Package config parses coroshell's startup options. Grounded almost
// directly on michaelmacinnis-oh's internal/system/options/options.go:
// docopt for the usage grammar, go-isatty to decide whether stdin is a
// terminal (and therefore whether to run the interactive, liner-backed
// loop or the plain chunked-stdin loop spec §6 describes).
package config

import (
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

const usage = `coroshell

Usage:
  coroshell [-m] [SCRIPT]
  coroshell [-m] -c COMMAND
  coroshell -h
  coroshell -v

Options:
  -c, --command=COMMAND  Run the specified command line and exit.
  -m, --monitor          Accepted and recorded; has no effect on execution.
  -h, --help             Display this help.
  -v, --version          Print coroshell's version.
`

// Options is the result of parsing argv.
type Options struct {
	Command     string
	Script      string
	Interactive bool
	Monitor     bool
}

// Parse parses argv (normally os.Args[1:]) per the usage grammar above.
// docopt.ParseDoc, like the teacher's, always reads os.Args[1:] itself,
// so Parse swaps it in for the duration of the call.
func Parse(argv []string) (Options, error) {
	saved := os.Args
	os.Args = append([]string{saved[0]}, argv...)
	defer func() { os.Args = saved }()

	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		return Options{}, err
	}

	var o Options
	o.Command, _ = opts.String("--command")
	o.Script, _ = opts.String("SCRIPT")
	o.Monitor, _ = opts.Bool("--monitor")

	o.Interactive = o.Command == "" && o.Script == "" && isatty.IsTerminal(os.Stdin.Fd())
	return o, nil
}
