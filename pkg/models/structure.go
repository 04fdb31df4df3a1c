package models

// DivisionInfo describes one COBOL division. Sections are referenced by
// name through SectionInfo.ParentDivision, not embedded.
type DivisionInfo struct {
	Name           string `json:"name"`
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	Size           int    `json:"size"`
	SectionCount   int    `json:"section_count"`
	StatementCount int    `json:"statement_count"`
}

// SectionInfo describes one section within a division.
type SectionInfo struct {
	Name           string `json:"name"`
	ParentDivision string `json:"parent_division"`
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	Size           int    `json:"size"`
	ParagraphCount int    `json:"paragraph_count"`
	StatementCount int    `json:"statement_count"`
}

// ParagraphInfo describes one paragraph within a section.
type ParagraphInfo struct {
	Name           string `json:"name"`
	ParentSection  string `json:"parent_section"`
	ParentDivision string `json:"parent_division"`
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	Size           int    `json:"size"`
	StatementCount int    `json:"statement_count"`
}

// StatementInfo is one statement occurrence, recorded flat for the
// per-verb inventory.
type StatementInfo struct {
	Verb            string `json:"verb"`
	Line            int    `json:"line"`
	ParentParagraph string `json:"parent_paragraph,omitempty"`
}

// StructureMetrics aggregates sizing over the whole program.
type StructureMetrics struct {
	TotalDivisions       int     `json:"total_divisions"`
	TotalSections        int     `json:"total_sections"`
	TotalParagraphs      int     `json:"total_paragraphs"`
	TotalStatements      int     `json:"total_statements"`
	AverageSectionSize   float64 `json:"average_section_size"`
	AverageParagraphSize float64 `json:"average_paragraph_size"`
	StructureDepth       int     `json:"structure_depth"`
}

// StructureReport is the structural analyzer's result.
type StructureReport struct {
	ProgramName  string         `json:"program_name"`
	Divisions    []DivisionInfo `json:"divisions"`
	Sections     []SectionInfo  `json:"sections"`
	Paragraphs   []ParagraphInfo `json:"paragraphs"`
	Statements   []StatementInfo `json:"statements"`
	StatementMix map[string]int `json:"statement_mix"`
	Metrics      StructureMetrics `json:"metrics"`
}
