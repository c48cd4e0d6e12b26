package models

import "time"

// Display types recorded on an analysis snapshot. The type is fixed at
// generation time so revisiting the results view reproduces the same report
// class even if the entitlement changes afterwards.
const (
	DisplayFull = "full"
	DisplayFree = "free"
)

// PlatformReport is the per-platform slice of an analysis.
type PlatformReport struct {
	Name  string `json:"name"`
	Risk  int    `json:"risk"`
	Posts int    `json:"posts"`
}

// CategoryReport scores one assessment category.
type CategoryReport struct {
	Name string `json:"name"`
	Risk int    `json:"risk"`
}

// FlaggedItem is a single piece of content the analysis called out.
type FlaggedItem struct {
	Platform string `json:"platform"`
	Content  string `json:"content"`
	Risk     string `json:"risk"`
	Date     string `json:"date"`
}

// AnalysisReport is one generated visa-risk assessment.
type AnalysisReport struct {
	ID             string           `json:"id"`
	OverallRisk    int              `json:"overallRisk"`
	ApprovalChance int              `json:"approvalChance"`
	PostsAnalyzed  int              `json:"postsAnalyzed"`
	FlaggedItems   int              `json:"flaggedItems"`
	Platforms      []PlatformReport `json:"platforms"`
	Categories     []CategoryReport `json:"categories"`
	FlaggedContent []FlaggedItem    `json:"flaggedContent"`
}

// AnalysisSnapshot caches the most recent report on the user record along
// with the entitlement level it was generated under.
type AnalysisSnapshot struct {
	Report       AnalysisReport `json:"data"`
	Date         time.Time      `json:"date"`
	IsPaidResult bool           `json:"isPaidResult"`
	DisplayType  string         `json:"displayType"`
	Platforms    []string       `json:"platforms"`
}

// RiskLevel bands a numeric risk score into the label shown to users.
func RiskLevel(risk int) string {
	switch {
	case risk < 30:
		return "Low"
	case risk < 60:
		return "Moderate"
	default:
		return "High"
	}
}
