package plan

import (
	"testing"

	"coroshell/internal/parse"
)

func cmdExpr(exe string) parse.Expression {
	return parse.Expression{Type: parse.ExprCommand, Cmd: &parse.Command{Exe: exe}}
}

func opExpr(t parse.ExprType) parse.Expression {
	return parse.Expression{Type: t}
}

func TestSinglePipeline(t *testing.T) {
	exprs := []parse.Expression{cmdExpr("ls"), opExpr(parse.ExprPipe), cmdExpr("grep")}
	p := Build(exprs)

	if len(p.Pipelines) != 1 || len(p.Pipelines[0]) != 2 {
		t.Fatalf("got %+v", p)
	}
	if len(p.Operators) != 0 {
		t.Fatalf("want no operators, got %+v", p.Operators)
	}
}

func TestAndOrSplitsPipelines(t *testing.T) {
	exprs := []parse.Expression{
		cmdExpr("make"), opExpr(parse.ExprAnd),
		cmdExpr("make"), opExpr(parse.ExprOr),
		cmdExpr("echo"),
	}
	p := Build(exprs)

	if len(p.Pipelines) != 3 {
		t.Fatalf("want 3 pipelines, got %d: %+v", len(p.Pipelines), p.Pipelines)
	}
	if len(p.Operators) != 2 || p.Operators[0] != And || p.Operators[1] != Or {
		t.Fatalf("got %+v", p.Operators)
	}
}

func TestTrailingOperatorIsDropped(t *testing.T) {
	exprs := []parse.Expression{cmdExpr("ls"), opExpr(parse.ExprAnd)}
	p := Build(exprs)

	if len(p.Pipelines) != 1 {
		t.Fatalf("want 1 pipeline, got %+v", p.Pipelines)
	}
	if len(p.Operators) != 0 {
		t.Fatalf("want operators trimmed to empty, got %+v", p.Operators)
	}
}

func TestOnlyOperatorYieldsEmptyPlan(t *testing.T) {
	exprs := []parse.Expression{opExpr(parse.ExprAnd)}
	p := Build(exprs)

	if len(p.Pipelines) != 0 || len(p.Operators) != 0 {
		t.Fatalf("want empty plan, got %+v", p)
	}
}

func TestTrailingPipeTerminatesPipelineGracefully(t *testing.T) {
	exprs := []parse.Expression{cmdExpr("ls"), opExpr(parse.ExprPipe)}
	p := Build(exprs)

	if len(p.Pipelines) != 1 || len(p.Pipelines[0]) != 1 {
		t.Fatalf("got %+v", p.Pipelines)
	}
}

func TestInvariantOperatorsCountAlwaysOneLess(t *testing.T) {
	cases := [][]parse.Expression{
		{},
		{cmdExpr("ls")},
		{cmdExpr("ls"), opExpr(parse.ExprAnd), cmdExpr("pwd")},
		{opExpr(parse.ExprOr), opExpr(parse.ExprAnd)},
	}
	for _, exprs := range cases {
		p := Build(exprs)
		if len(p.Pipelines) == 0 {
			if len(p.Operators) != 0 {
				t.Fatalf("empty pipelines but operators %+v", p.Operators)
			}
			continue
		}
		if len(p.Operators) != len(p.Pipelines)-1 {
			t.Fatalf("invariant broken for %+v: %+v", exprs, p)
		}
	}
}
