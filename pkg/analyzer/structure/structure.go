// Package structure derives the division/section/paragraph hierarchy and
// its sizing from a parsed program.
package structure

import (
	"context"
	"fmt"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/ast"
	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// requiredOrder is the mandated division sequence. IDENTIFICATION and
// PROCEDURE are mandatory; the others only constrain order when present.
var requiredOrder = []string{
	"IDENTIFICATION DIVISION",
	"ENVIRONMENT DIVISION",
	"DATA DIVISION",
	"PROCEDURE DIVISION",
}

var mandatory = map[string]bool{
	"IDENTIFICATION DIVISION": true,
	"PROCEDURE DIVISION":      true,
}

// Analyzer builds structural records in a single depth-first pass.
type Analyzer struct{}

// New creates a structural analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze walks the tree once and returns the structural report. A
// missing or misordered division is recorded as an issue, never an error:
// analysis proceeds on whatever structure exists.
func (a *Analyzer) Analyze(ctx context.Context, program *ast.Program) (*models.StructureReport, []models.Issue, error) {
	report := &models.StructureReport{
		ProgramName:  program.Name,
		StatementMix: make(map[string]int),
	}
	var issues []models.Issue

	for div := range ast.NodesByKind(program.Root, ast.KindDivision) {
		info := models.DivisionInfo{
			Name:      div.Name(),
			StartLine: div.Line,
			EndLine:   div.EndLine(),
		}
		info.Size = info.EndLine - info.StartLine

		for _, child := range div.Children {
			switch child.Kind {
			case ast.KindSection:
				info.SectionCount++
				report.Sections = append(report.Sections, a.sectionInfo(child, info.Name, report))
			case ast.KindParagraph:
				// Paragraphs directly under a division belong to an
				// implicit unnamed section.
				report.Paragraphs = append(report.Paragraphs, a.paragraphInfo(child, "", info.Name, report))
			}
		}
		info.StatementCount = countStatements(div)
		report.Divisions = append(report.Divisions, info)
	}

	issues = append(issues, validateDivisions(report.Divisions)...)
	report.Metrics = computeMetrics(report, program)
	return report, issues, nil
}

func (a *Analyzer) sectionInfo(sec *ast.Node, division string, report *models.StructureReport) models.SectionInfo {
	info := models.SectionInfo{
		Name:           sec.Name(),
		ParentDivision: division,
		StartLine:      sec.Line,
		EndLine:        sec.EndLine(),
	}
	info.Size = info.EndLine - info.StartLine

	for _, child := range sec.Children {
		if child.Kind == ast.KindParagraph {
			info.ParagraphCount++
			report.Paragraphs = append(report.Paragraphs, a.paragraphInfo(child, info.Name, division, report))
		}
	}
	info.StatementCount = countStatements(sec)
	return info
}

func (a *Analyzer) paragraphInfo(para *ast.Node, section, division string, report *models.StructureReport) models.ParagraphInfo {
	info := models.ParagraphInfo{
		Name:           para.Name(),
		ParentSection:  section,
		ParentDivision: division,
		StartLine:      para.Line,
		EndLine:        para.EndLine(),
	}
	info.Size = info.EndLine - info.StartLine

	for stmt := range ast.Statements(para) {
		info.StatementCount++
		verb := stmt.Attr("statement_type")
		if verb == "" {
			verb = string(ast.StmtOther)
		}
		report.StatementMix[verb]++
		report.Statements = append(report.Statements, models.StatementInfo{
			Verb:            verb,
			Line:            stmt.Line,
			ParentParagraph: info.Name,
		})
	}
	return info
}

// validateDivisions checks presence of mandatory divisions and the
// relative order of whichever divisions exist.
func validateDivisions(divisions []models.DivisionInfo) []models.Issue {
	var issues []models.Issue

	position := make(map[string]int, len(divisions))
	for i, d := range divisions {
		if _, dup := position[d.Name]; dup {
			issues = append(issues, models.Issue{
				Kind:     models.IssueStructuralViolation,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("duplicate %s", d.Name),
				Subject:  d.Name,
				Line:     d.StartLine,
			})
			continue
		}
		position[d.Name] = i
	}

	for _, name := range requiredOrder {
		if _, ok := position[name]; !ok && mandatory[name] {
			issues = append(issues, models.Issue{
				Kind:     models.IssueStructuralViolation,
				Severity: models.SeverityError,
				Message:  fmt.Sprintf("%s is missing", name),
				Subject:  name,
			})
		}
	}

	for i := 0; i < len(requiredOrder)-1; i++ {
		for j := i + 1; j < len(requiredOrder); j++ {
			earlier, hasEarlier := position[requiredOrder[i]]
			later, hasLater := position[requiredOrder[j]]
			if hasEarlier && hasLater && earlier > later {
				issues = append(issues, models.Issue{
					Kind:     models.IssueStructuralViolation,
					Severity: models.SeverityWarning,
					Message:  fmt.Sprintf("%s must come before %s", requiredOrder[i], requiredOrder[j]),
					Subject:  requiredOrder[i],
				})
			}
		}
	}
	return issues
}

func countStatements(root *ast.Node) int {
	count := 0
	for range ast.Statements(root) {
		count++
	}
	return count
}

func computeMetrics(report *models.StructureReport, program *ast.Program) models.StructureMetrics {
	m := models.StructureMetrics{
		TotalDivisions:  len(report.Divisions),
		TotalSections:   len(report.Sections),
		TotalParagraphs: len(report.Paragraphs),
		TotalStatements: len(report.Statements),
		StructureDepth:  ast.Depth(program.Root),
	}
	if n := len(report.Sections); n > 0 {
		total := 0
		for _, s := range report.Sections {
			total += s.Size
		}
		m.AverageSectionSize = float64(total) / float64(n)
	}
	if n := len(report.Paragraphs); n > 0 {
		total := 0
		for _, p := range report.Paragraphs {
			total += p.Size
		}
		m.AverageParagraphSize = float64(total) / float64(n)
	}
	return m
}
