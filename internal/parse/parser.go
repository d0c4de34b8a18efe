package parse

import (
	"fmt"
	"strings"
)

// ErrSyntax is returned by Parse for input the tokenizer cannot make
// sense of. Spec §4.B1 requires malformed sequences to "terminate the
// current pipeline gracefully" rather than crash; ErrSyntax is reserved
// for cases that cannot even be tokenized (an unterminated redirection
// operator with no target).
type ErrSyntax struct{ Msg string }

func (e *ErrSyntax) Error() string { return "parse error: " + e.Msg }

// Parse tokenizes and parses one input line into a CommandLine. It
// mirrors the teacher's (myshell) Fields-based tokenizing and
// trailing-&/>/>>'s redirection-token handling, widened to also
// recognize |, && and || (spec §6's recognised operators).
func Parse(line string) (*CommandLine, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return &CommandLine{}, nil
	}

	cl := &CommandLine{OutType: OutStdout}

	if fields[len(fields)-1] == "&" {
		cl.IsBackground = true
		fields = fields[:len(fields)-1]
	}

	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		cl.Exprs = append(cl.Exprs, Expression{
			Type: ExprCommand,
			Cmd:  &Command{Exe: cur[0], Args: append([]string(nil), cur[1:]...)},
		})
		cur = nil
	}

	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		switch tok {
		case "|":
			flush()
			cl.Exprs = append(cl.Exprs, Expression{Type: ExprPipe})
		case "&&":
			flush()
			cl.Exprs = append(cl.Exprs, Expression{Type: ExprAnd})
		case "||":
			flush()
			cl.Exprs = append(cl.Exprs, Expression{Type: ExprOr})
		case ">", ">>":
			if i+1 >= len(fields) {
				return nil, &ErrSyntax{Msg: fmt.Sprintf("%q with no target file", tok)}
			}
			if tok == ">" {
				cl.OutType = OutFileNew
			} else {
				cl.OutType = OutFileAppend
			}
			cl.OutFile = fields[i+1]
			i++
		default:
			cur = append(cur, tok)
		}
	}
	flush()

	return cl, nil
}
