// Package plan implements CORE B's AST→Plan step (spec §4.B1): splitting
// a CommandLine's flat expression list into pipelines joined by &&/||.
package plan

import "coroshell/internal/parse"

// Operator is the logical connective between two consecutive pipelines.
type Operator int

const (
	And Operator = iota
	Or
)

// Plan is the output of Build: a sequence of pipelines and the operators
// joining them, with len(Operators) == len(Pipelines)-1 (or both empty).
type Plan struct {
	Pipelines [][]*parse.Command
	Operators []Operator
}

// Build walks exprs left to right, accumulating consecutive Commands
// separated by Pipe into one pipeline; on And/Or it closes the current
// pipeline and records the operator. Malformed sequences never error,
// per spec §4.B1: a Pipe not followed by a command ends the current
// pipeline and the rest of exprs is ignored; an operator with no
// pipeline after it is dropped.
func Build(exprs []parse.Expression) Plan {
	var p Plan
	var cur []*parse.Command

	flush := func() {
		if len(cur) > 0 {
			p.Pipelines = append(p.Pipelines, cur)
		}
		cur = nil
	}

	i := 0
	for i < len(exprs) {
		e := exprs[i]
		switch e.Type {
		case parse.ExprCommand:
			cur = append(cur, e.Cmd)
			i++
		case parse.ExprPipe:
			// A Pipe is only meaningful between two commands; if it
			// isn't followed by one, stop the pipeline here rather
			// than treating the stray token as more input (spec
			// §4.B1's "terminate the current pipeline gracefully").
			if i+1 >= len(exprs) || exprs[i+1].Type != parse.ExprCommand {
				i = len(exprs)
				continue
			}
			i++
		case parse.ExprAnd:
			flush()
			p.Operators = append(p.Operators, And)
			i++
		case parse.ExprOr:
			flush()
			p.Operators = append(p.Operators, Or)
			i++
		}
	}
	flush()

	// A trailing operator with nothing after it has no matching
	// pipeline; drop it so len(Operators) == len(Pipelines)-1 holds.
	if len(p.Pipelines) == 0 {
		p.Operators = nil
	} else if len(p.Operators) >= len(p.Pipelines) {
		p.Operators = p.Operators[:len(p.Pipelines)-1]
	}

	return p
}
