package model

import "time"

type CoachingStatus string

const (
	CoachingPending    CoachingStatus = "pending"
	CoachingInProgress CoachingStatus = "in-progress"
	CoachingCompleted  CoachingStatus = "completed"
)

type CoachingPriority string

const (
	PriorityLow    CoachingPriority = "low"
	PriorityMedium CoachingPriority = "medium"
	PriorityHigh   CoachingPriority = "high"
)

// ActionItem is one checkbox on a coaching task
type ActionItem struct {
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

// CoachingTask is a follow-up assignment created from a call evaluation
type CoachingTask struct {
	ID                  string           `json:"id" bson:"_id,omitempty"`
	CallTakerID         string           `json:"callTakerId" bson:"callTakerId"`
	CallTakerName       string           `json:"callTakerName" bson:"callTakerName"`
	CallID              string           `json:"callId,omitempty" bson:"callId,omitempty"` // evaluation the task was generated from
	FocusArea           string           `json:"focusArea" bson:"focusArea"`
	DueDate             time.Time        `json:"dueDate" bson:"dueDate"`
	Status              CoachingStatus   `json:"status" bson:"status"`
	Priority            CoachingPriority `json:"priority" bson:"priority"`
	IssueDescription    string           `json:"issueDescription" bson:"issueDescription"`
	CoachingSuggestions []string         `json:"coachingSuggestions" bson:"coachingSuggestions"`
	ActionItems         []ActionItem     `json:"actionItems" bson:"actionItems"`
	CreatedDate         time.Time        `json:"createdDate" bson:"createdDate"`
	CompletedDate       *time.Time       `json:"completedDate,omitempty" bson:"completedDate,omitempty"`
	CompletionNotes     string           `json:"completionNotes,omitempty" bson:"completionNotes,omitempty"`
}

// Progress returns completed and total action item counts
func (t *CoachingTask) Progress() (done, total int) {
	for _, item := range t.ActionItems {
		if item.Completed {
			done++
		}
	}
	return done, len(t.ActionItems)
}
