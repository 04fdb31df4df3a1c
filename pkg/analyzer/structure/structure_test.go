package structure

import (
	"context"
	"testing"

	"github.com/hiroakinsm/cobol-analyzer-sub001/internal/testutil"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

func TestAnalyzeHierarchy(t *testing.T) {
	program := testutil.Program("PAYROLL",
		testutil.Division("IDENTIFICATION DIVISION", 1, 4),
		testutil.Division("ENVIRONMENT DIVISION", 5, 8),
		testutil.Division("DATA DIVISION", 9, 20,
			testutil.Section("WORKING-STORAGE SECTION", 10, 20),
		),
		testutil.Division("PROCEDURE DIVISION", 21, 60,
			testutil.Section("MAIN-SECTION", 22, 40,
				testutil.Paragraph("MAIN-PARA", 23, 30,
					testutil.Move("WS-A", "WS-B"),
					testutil.Perform("SUB-PARA"),
				),
				testutil.Paragraph("SUB-PARA", 31, 40,
					testutil.Stmt("DISPLAY", nil),
				),
			),
		),
	)

	report, issues, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("Analyze() issues = %v, want none", issues)
	}

	if got := report.Metrics.TotalDivisions; got != 4 {
		t.Errorf("TotalDivisions = %d, want 4", got)
	}
	if got := report.Metrics.TotalSections; got != 2 {
		t.Errorf("TotalSections = %d, want 2", got)
	}
	if got := report.Metrics.TotalParagraphs; got != 2 {
		t.Errorf("TotalParagraphs = %d, want 2", got)
	}
	if got := report.Metrics.TotalStatements; got != 3 {
		t.Errorf("TotalStatements = %d, want 3", got)
	}
	if got := report.StatementMix["MOVE"]; got != 1 {
		t.Errorf("StatementMix[MOVE] = %d, want 1", got)
	}

	var main models.ParagraphInfo
	for _, p := range report.Paragraphs {
		if p.Name == "MAIN-PARA" {
			main = p
		}
	}
	if main.ParentSection != "MAIN-SECTION" {
		t.Errorf("MAIN-PARA parent section = %q, want MAIN-SECTION", main.ParentSection)
	}
	if main.Size != 7 {
		t.Errorf("MAIN-PARA size = %d, want 7", main.Size)
	}
}

func TestAnalyzeMissingProcedureDivision(t *testing.T) {
	program := testutil.Program("BROKEN",
		testutil.Division("IDENTIFICATION DIVISION", 1, 4),
		testutil.Division("DATA DIVISION", 5, 10),
	)

	report, issues, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	found := false
	for _, iss := range issues {
		if iss.Kind == models.IssueStructuralViolation && iss.Subject == "PROCEDURE DIVISION" {
			found = true
		}
	}
	if !found {
		t.Error("missing PROCEDURE DIVISION not reported as structural violation")
	}
	if got := report.Metrics.TotalDivisions; got != 2 {
		t.Errorf("TotalDivisions = %d, want 2 (only divisions actually present)", got)
	}
}

func TestAnalyzeMisorderedDivisions(t *testing.T) {
	program := testutil.Program("MISORDERED",
		testutil.Division("IDENTIFICATION DIVISION", 1, 4),
		testutil.Division("PROCEDURE DIVISION", 5, 20),
		testutil.Division("DATA DIVISION", 21, 30),
	)

	_, issues, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	found := false
	for _, iss := range issues {
		if iss.Kind == models.IssueStructuralViolation && iss.Severity == models.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("misordered divisions not reported, issues = %v", issues)
	}
}

func TestAnalyzeDuplicateDivision(t *testing.T) {
	program := testutil.Program("DUP",
		testutil.Division("IDENTIFICATION DIVISION", 1, 4),
		testutil.Division("IDENTIFICATION DIVISION", 5, 8),
		testutil.Division("PROCEDURE DIVISION", 9, 20),
	)

	_, issues, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	found := false
	for _, iss := range issues {
		if iss.Kind == models.IssueStructuralViolation && iss.Message == "duplicate IDENTIFICATION DIVISION" {
			found = true
		}
	}
	if !found {
		t.Errorf("duplicate division not reported, issues = %v", issues)
	}
}

func TestAnalyzeParagraphDirectlyUnderDivision(t *testing.T) {
	program := testutil.Program("FLAT",
		testutil.Division("IDENTIFICATION DIVISION", 1, 2),
		testutil.Division("PROCEDURE DIVISION", 3, 10,
			testutil.Paragraph("ONLY-PARA", 4, 10,
				testutil.Stmt("DISPLAY", nil),
			),
		),
	)

	report, _, err := New().Analyze(context.Background(), program)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := report.Metrics.TotalParagraphs; got != 1 {
		t.Fatalf("TotalParagraphs = %d, want 1", got)
	}
	if got := report.Paragraphs[0].ParentSection; got != "" {
		t.Errorf("ParentSection = %q, want empty for implicit section", got)
	}
}
