package report

import "encoding/json"

// Analysis is the structured result of a report validation pass.
type Analysis struct {
	DocumentationAnalysis FindingSet        `json:"documentationAnalysis"`
	LegalElements         ElementFindings   `json:"legalElements"`
	InvestigativeQuality  StepFindings      `json:"investigativeQuality"`
	CourtPreparation      CourtFindings     `json:"courtPreparation"`
	OverallAssessment     OverallAssessment `json:"overallAssessment"`
}

type FindingSet struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

type ElementFindings struct {
	SatisfiedElements []string `json:"satisfiedElements"`
	MissingElements   []string `json:"missingElements"`
	Recommendations   []string `json:"recommendations"`
}

type StepFindings struct {
	CompletedSteps  []string `json:"completedSteps"`
	MissingSteps    []string `json:"missingSteps"`
	Recommendations []string `json:"recommendations"`
}

type CourtFindings struct {
	Strengths       []string `json:"strengths"`
	Vulnerabilities []string `json:"vulnerabilities"`
	Recommendations []string `json:"recommendations"`
}

type OverallAssessment struct {
	// ReportScore is a 1-10 rating; json.Number tolerates both integral
	// and fractional model output.
	ReportScore   json.Number `json:"reportScore"`
	PrimaryIssues []string    `json:"primaryIssues"`
	NextSteps     []string    `json:"nextSteps"`
}

// elementsPayload is the wire shape of a generated crime-element response.
type elementsPayload struct {
	Elements       []string `json:"elements"`
	CalcrimExample []string `json:"calcrim_example"`
}
