package model

import "time"

// CallTypeAll is the wildcard tag matching every call type
const CallTypeAll = "All"

// Question is a QA checklist entry from the catalog.
// OriginalQuestion is the immutable text as first authored; EditedQuestion
// is the display text reviewers may refine.
type Question struct {
	ID                  string    `json:"id" bson:"_id,omitempty"`
	OriginalQuestion    string    `json:"originalQuestion" bson:"originalQuestion"`
	EditedQuestion      string    `json:"editedQuestion" bson:"editedQuestion"`
	QuestionDescription string    `json:"questionDescription" bson:"questionDescription"`
	CallTypes           []string  `json:"type" bson:"type"`
	Evidence            string    `json:"evidence,omitempty" bson:"evidence,omitempty"`
	Confidence          int       `json:"confidence,omitempty" bson:"confidence,omitempty"` // 0-100, supplied by the analysis service
	Position            int       `json:"position" bson:"position"`                         // catalog display order
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
}

// Prompt returns the display text, falling back to the original wording
func (q *Question) Prompt() string {
	if q.EditedQuestion != "" {
		return q.EditedQuestion
	}
	return q.OriginalQuestion
}

// AppliesTo reports whether the question is applicable to a call type,
// either by direct tag match or the "All" wildcard.
func (q *Question) AppliesTo(callType string) bool {
	for _, t := range q.CallTypes {
		if t == CallTypeAll || t == callType {
			return true
		}
	}
	return false
}
