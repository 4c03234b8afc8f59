// Copyright 2026 MIRI Project. All rights reserved.

// Package types defines shared data structures for the MIRI investigation
// pipeline: the action under review, the search strategy, and the extracted
// legal evidence.
package types

import "strings"

// Source identifies one legal document database on the national law service.
type Source string

const (
	// SourceLaw covers Acts and Decrees: prohibitions, permissions,
	// obligations, and penalties.
	SourceLaw Source = "law"

	// SourceAdmRul covers administrative rules: numeric thresholds,
	// approval criteria, and procedures.
	SourceAdmRul Source = "admrul"

	// SourcePrec covers court precedents: case-law interpretation and
	// judicial standards.
	SourcePrec Source = "prec"
)

// AllSources lists every database in default priority order.
func AllSources() []Source {
	return []Source{SourceLaw, SourceAdmRul, SourcePrec}
}

// Action is one atomic actor/action/object triple describing a single
// legally relevant behavior. One Action seeds one evidence run.
type Action struct {
	Actor  string `json:"actor" yaml:"actor"`
	Action string `json:"action" yaml:"action"`
	Object string `json:"object" yaml:"object"`
}

// Context renders the action with its actor and object for analysis prompts.
func (a Action) Context() string {
	return "[" + a.Actor + "] " + a.Action + " (대상: " + a.Object + ")"
}

// Scenario groups the actions extracted from one consultation case.
type Scenario struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Actions []Action `json:"actions" yaml:"actions"`
}

// SearchStrategy is the planned ordering of databases and supplementary
// keywords for one Action.
type SearchStrategy struct {
	Rationale     string   `json:"rationale" yaml:"rationale"`
	Databases     []Source `json:"databases" yaml:"databases"`
	FocusKeywords []string `json:"focus_keywords" yaml:"focus_keywords"`
}

// Targets reports whether the strategy includes the given database.
func (s SearchStrategy) Targets(src Source) bool {
	for _, db := range s.Databases {
		if db == src {
			return true
		}
	}
	return false
}

// DefaultStrategy requests all three databases with no extra keywords.
// Used whenever strategy planning fails: the pipeline never blocks on it.
func DefaultStrategy(reason string) SearchStrategy {
	return SearchStrategy{Rationale: reason, Databases: AllSources()}
}

// ReviewStatus classifies how a clause bears on the action under review.
// The canonical taxonomy is English; Korean model output is translated at
// the parse boundary by ParseStatus.
type ReviewStatus string

const (
	StatusProhibited  ReviewStatus = "Prohibited"
	StatusPermitted   ReviewStatus = "Permitted"
	StatusConditional ReviewStatus = "Conditional"
	StatusNeutral     ReviewStatus = "Neutral"
	StatusAmbiguous   ReviewStatus = "Ambiguous"
)

// statusAliases maps language variants the judgment service emits to the
// canonical taxonomy.
var statusAliases = map[string]ReviewStatus{
	"prohibited":  StatusProhibited,
	"금지":          StatusProhibited,
	"permitted":   StatusPermitted,
	"허용":          StatusPermitted,
	"conditional": StatusConditional,
	"조건부":         StatusConditional,
	"neutral":     StatusNeutral,
	"중립":          StatusNeutral,
	"ambiguous":   StatusAmbiguous,
	"불명확":         StatusAmbiguous,
}

// ParseStatus normalizes a raw status string to the canonical taxonomy.
// Unrecognized values map to Ambiguous so a review is never dropped for a
// spelling the model invented.
func ParseStatus(raw string) ReviewStatus {
	if s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusAmbiguous
}

// DocumentReview is one extracted legal finding tied to a specific source
// document and clause. Reviews with StatusNeutral are discarded at the
// point of creation and never reach an evidence set.
type DocumentReview struct {
	LawName   string       `json:"law_name" yaml:"law_name"`
	KeyClause string       `json:"key_clause" yaml:"key_clause"`
	Status    ReviewStatus `json:"status" yaml:"status"`
	Summary   string       `json:"summary" yaml:"summary"`
	URL       string       `json:"url,omitempty" yaml:"url,omitempty"`
}

// DedupKey identifies a review for deduplication. Two reviews citing the
// same clause of the same law are the same piece of evidence regardless of
// which URL they were fetched through.
func (r DocumentReview) DedupKey() string {
	return r.LawName + "-" + r.KeyClause
}

// Line renders the review as a single display line for the downstream
// verdict step.
func (r DocumentReview) Line() string {
	return "- " + r.LawName + " " + r.KeyClause + ": " + r.Summary
}

// LegalEvidence is the Investigator's final output: one display line per
// surviving review plus the unique source URLs backing them.
type LegalEvidence struct {
	RelevantLaws []string `json:"relevant_laws" yaml:"relevant_laws"`
	References   []string `json:"references" yaml:"references"`
	Summary      string   `json:"summary" yaml:"summary"`
}
