package callgraph

import (
	"context"
	"testing"

	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/testutil"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

func TestLiteralCallsResolve(t *testing.T) {
	program := testutil.Program("DRIVER",
		testutil.Division("PROCEDURE DIVISION", 1, 30,
			testutil.Paragraph("MAIN", 2, 15,
				testutil.Call("SUBPROG1", "WS-REC", "WS-STATUS"),
				testutil.Call("SUBPROG2"),
			),
			testutil.Paragraph("CLEANUP", 16, 30,
				testutil.Call("SUBPROG1"),
			),
		),
	)

	report, issues, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}

	if got := report.Metrics.TotalCalls; got != 3 {
		t.Errorf("TotalCalls = %d, want 3", got)
	}
	if got := report.Callees["MAIN"]; len(got) != 2 {
		t.Errorf("Callees[MAIN] = %v, want two programs", got)
	}

	first := report.Edges[0]
	if first.Caller != "MAIN" || first.Callee != "SUBPROG1" || first.Verb != "CALL" {
		t.Errorf("edge 0 = %+v", first)
	}
	if len(first.Using) != 2 || first.Using[0] != "WS-REC" {
		t.Errorf("edge 0 using = %v, want [WS-REC WS-STATUS]", first.Using)
	}

	if got := report.Metrics.AverageCallsPerCaller; got != 1.5 {
		t.Errorf("AverageCallsPerCaller = %f, want 1.5", got)
	}
}

func TestDynamicCallUnresolved(t *testing.T) {
	program := testutil.Program("DYNAMIC",
		testutil.Division("PROCEDURE DIVISION", 1, 10,
			testutil.Paragraph("MAIN", 2, 10,
				testutil.Stmt("CALL", testutil.Attrs{"program_name": "WS-PROG-NAME"}),
			),
		),
	)

	report, issues, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(report.Edges) != 0 {
		t.Errorf("Edges = %v, want none for a dynamic call", report.Edges)
	}
	if len(report.Unresolved) != 1 || report.Unresolved[0].Operand != "WS-PROG-NAME" {
		t.Fatalf("Unresolved = %v, want the dynamic operand recorded", report.Unresolved)
	}

	found := false
	for _, iss := range issues {
		if iss.Kind == models.IssueUnresolvedCall && iss.Severity == models.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("dynamic call not surfaced as unresolved-call warning")
	}
}

func TestEndpointsAndDepth(t *testing.T) {
	program := testutil.Program("CHAIN",
		testutil.Division("PROCEDURE DIVISION", 1, 20,
			testutil.Paragraph("MAIN", 2, 10,
				testutil.Call("STEP1"),
			),
			// STEP1 is also a paragraph here that calls further down, which
			// models a program calling itself through a second member.
			testutil.Paragraph("STEP1", 11, 20,
				testutil.Call("STEP2"),
			),
		),
	)

	report, _, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if got := report.EntryPoints; len(got) != 1 || got[0] != "MAIN" {
		t.Errorf("EntryPoints = %v, want [MAIN]", got)
	}
	if got := report.LeafNodes; len(got) != 1 || got[0] != "STEP2" {
		t.Errorf("LeafNodes = %v, want [STEP2]", got)
	}
	if got := report.Metrics.MaxCallDepth; got != 2 {
		t.Errorf("MaxCallDepth = %d, want 2", got)
	}
}

func TestDepthIntoCycleNotUnderstated(t *testing.T) {
	// ALPHA -> BETA -> GAMMA -> ALPHA plus DELTA -> GAMMA. The longest
	// chain is DELTA -> GAMMA -> ALPHA -> BETA; a depth cached while the
	// cycle cut was active must not shorten it.
	program := testutil.Program("CYCLEDEPTH",
		testutil.Division("PROCEDURE DIVISION", 1, 40,
			testutil.Paragraph("ALPHA", 2, 10, testutil.Call("BETA")),
			testutil.Paragraph("BETA", 11, 20, testutil.Call("GAMMA")),
			testutil.Paragraph("GAMMA", 21, 30, testutil.Call("ALPHA")),
			testutil.Paragraph("DELTA", 31, 40, testutil.Call("GAMMA")),
		),
	)

	report, _, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := report.Metrics.MaxCallDepth; got != 3 {
		t.Errorf("MaxCallDepth = %d, want 3", got)
	}
}

func TestRecursiveCallTerminates(t *testing.T) {
	program := testutil.Program("SELFCALL",
		testutil.Division("PROCEDURE DIVISION", 1, 10,
			testutil.Paragraph("SELFCALL", 2, 10,
				testutil.Call("SELFCALL"),
			),
		),
	)

	report, _, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := report.Metrics.MaxCallDepth; got != 1 {
		t.Errorf("MaxCallDepth = %d, want 1 with the cycle cut", got)
	}
}
