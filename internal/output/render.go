package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/models"
)

// RenderResult builds the renderable report for one analysis result.
func RenderResult(result *models.AnalysisResult) Renderable {
	report := &Report{
		Title: fmt.Sprintf("%s (%s)", result.ProgramName, result.Status),
		Data:  result,
	}

	if result.Structure != nil {
		report.Sections = append(report.Sections, structureTable(result.Structure))
	}
	if result.ControlFlow != nil {
		report.Sections = append(report.Sections, flowSection(result.ControlFlow))
	}
	if result.Data != nil {
		report.Sections = append(report.Sections, dataSection(result.Data))
	}
	if result.CallGraph != nil {
		report.Sections = append(report.Sections, callTable(result.CallGraph))
	}
	if result.Metrics != nil {
		report.Sections = append(report.Sections, metricsTable(result.Metrics))
	}
	if result.Quality != nil {
		report.Sections = append(report.Sections, qualitySections(result.Quality)...)
	}
	if len(result.Issues) > 0 {
		report.Sections = append(report.Sections, issuesTable(result.Issues))
	}
	if len(result.Errors) > 0 {
		report.Sections = append(report.Sections, &Section{
			Title:   "Analysis Errors",
			Content: strings.Join(result.Errors, "\n"),
		})
	}
	return report
}

func structureTable(s *models.StructureReport) Renderable {
	rows := [][]string{
		{"Divisions", fmt.Sprintf("%d", s.Metrics.TotalDivisions)},
		{"Sections", fmt.Sprintf("%d", s.Metrics.TotalSections)},
		{"Paragraphs", fmt.Sprintf("%d", s.Metrics.TotalParagraphs)},
		{"Statements", fmt.Sprintf("%d", s.Metrics.TotalStatements)},
		{"Avg paragraph size", fmt.Sprintf("%.1f", s.Metrics.AverageParagraphSize)},
		{"Structure depth", fmt.Sprintf("%d", s.Metrics.StructureDepth)},
	}
	return NewTable("Structure", []string{"Metric", "Value"}, rows, s)
}

func flowSection(f *models.ControlFlowReport) Renderable {
	rows := [][]string{
		{"Cyclomatic complexity", fmt.Sprintf("%d", f.Metrics.CyclomaticComplexity)},
		{"Decision points", fmt.Sprintf("%d", f.Metrics.DecisionPoints)},
		{"Max nesting depth", fmt.Sprintf("%d", f.Metrics.MaxNestingDepth)},
		{"GO TO statements", fmt.Sprintf("%d", f.Metrics.GotoCount)},
		{"Cycles", fmt.Sprintf("%d", len(f.Cycles))},
		{"Entry points", strings.Join(f.EntryPoints, ", ")},
		{"Exit points", strings.Join(f.ExitPoints, ", ")},
	}
	return NewTable("Control Flow", []string{"Metric", "Value"}, rows, f)
}

func dataSection(d *models.DataReport) Renderable {
	rows := [][]string{
		{"Data items", fmt.Sprintf("%d", d.Metrics.TotalItems)},
		{"Max level depth", fmt.Sprintf("%d", d.Metrics.MaxDepth)},
		{"REDEFINES", fmt.Sprintf("%d", d.Metrics.RedefinesCount)},
		{"Flow edges", fmt.Sprintf("%d", d.Metrics.TotalFlows)},
		{"Graph density", fmt.Sprintf("%.4f", d.Metrics.GraphDensity)},
		{"Critical items", strings.Join(d.CriticalItems, ", ")},
	}
	return NewTable("Data", []string{"Metric", "Value"}, rows, d)
}

func callTable(c *models.CallGraphReport) Renderable {
	rows := make([][]string, 0, len(c.Edges))
	for _, e := range c.Edges {
		rows = append(rows, []string{e.Caller, e.Verb, e.Callee, fmt.Sprintf("%d", len(e.Using))})
	}
	for _, u := range c.Unresolved {
		rows = append(rows, []string{u.Caller, "CALL", fmt.Sprintf("<dynamic: %s>", u.Operand), ""})
	}
	return NewTable("Calls", []string{"Caller", "Verb", "Callee", "Params"}, rows, c)
}

func metricsTable(m *models.MetricsReport) Renderable {
	values := m.Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, fmt.Sprintf("%.2f", values[name])})
	}
	for _, name := range m.Unavailable {
		rows = append(rows, []string{name, "unavailable"})
	}
	return NewTable("Metrics", []string{"Metric", "Value"}, rows, m)
}

func qualitySections(q *models.QualityReport) []Renderable {
	evalRows := make([][]string, 0, len(q.Evaluations))
	for _, ev := range q.Evaluations {
		evalRows = append(evalRows, []string{
			ev.MetricName,
			fmt.Sprintf("%.2f", ev.ActualValue),
			fmt.Sprintf("%.2f", ev.BenchmarkValue),
			fmt.Sprintf("%.2f", ev.Score),
			string(ev.Level),
		})
	}
	sections := []Renderable{
		NewTable(
			fmt.Sprintf("Quality (overall %.2f)", q.OverallScore),
			[]string{"Metric", "Actual", "Target", "Score", "Level"},
			evalRows, q,
		),
	}

	if len(q.Recommendations) > 0 {
		recRows := make([][]string, 0, len(q.Recommendations))
		for _, rec := range q.Recommendations {
			recRows = append(recRows, []string{string(rec.Severity), rec.Metric, rec.Suggestion})
		}
		sections = append(sections, NewTable("Recommendations", []string{"Severity", "Metric", "Suggestion"}, recRows, q.Recommendations))
	}
	return sections
}

func issuesTable(issues []models.Issue) Renderable {
	rows := make([][]string, 0, len(issues))
	for _, iss := range issues {
		line := ""
		if iss.Line > 0 {
			line = fmt.Sprintf("%d", iss.Line)
		}
		rows = append(rows, []string{string(iss.Severity), string(iss.Kind), iss.Message, line})
	}
	return NewTable("Issues", []string{"Severity", "Kind", "Message", "Line"}, rows, issues)
}
