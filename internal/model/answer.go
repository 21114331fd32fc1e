package model

import "time"

// AnswerValue is the closed set of QA checklist verdicts. Wire values match
// what the review UI sends.
type AnswerValue string

const (
	AnswerYes           AnswerValue = "yes"
	AnswerNo            AnswerValue = "no"
	AnswerRefused       AnswerValue = "refused" // caller refused to provide the information
	AnswerNotApplicable AnswerValue = "na"
)

// Valid reports whether v is one of the four recognized verdicts
func (v AnswerValue) Valid() bool {
	switch v {
	case AnswerYes, AnswerNo, AnswerRefused, AnswerNotApplicable:
		return true
	}
	return false
}

// Evaluation is the persisted QA record for one call: the last saved
// (committed) answer per question id.
type Evaluation struct {
	CallID    string                 `json:"callId" bson:"_id"`
	Answers   map[string]AnswerValue `json:"answers" bson:"answers"`
	UpdatedAt time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// ComplianceSummary counts "yes" committed answers against the applicable
// question total for a call.
type ComplianceSummary struct {
	Met   int `json:"met"`
	Total int `json:"total"`
}
