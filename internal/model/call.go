package model

import "time"

// CallStatus tracks a recording through the transcription pipeline
type CallStatus string

const (
	CallQueued     CallStatus = "queued"
	CallProcessing CallStatus = "processing"
	CallProcessed  CallStatus = "processed"
	CallFailed     CallStatus = "failed"
)

// Valid reports whether s is one of the pipeline statuses
func (s CallStatus) Valid() bool {
	switch s {
	case CallQueued, CallProcessing, CallProcessed, CallFailed:
		return true
	}
	return false
}

// Sentiment is the analyzed tone of a call
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Call is one recorded dispatch interaction under review
type Call struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	FileName       string     `json:"fileName" bson:"fileName"`
	Dispatcher     string     `json:"dispatcher" bson:"dispatcher"`
	Language       string     `json:"language" bson:"language"`
	Model          string     `json:"model" bson:"model"`
	CallType       string     `json:"callType" bson:"callType"`
	Submitted      time.Time  `json:"submitted" bson:"submitted"`
	Processed      *time.Time `json:"processed,omitempty" bson:"processed,omitempty"`
	Duration       string     `json:"duration" bson:"duration"` // mm:ss as shown in listings
	Status         CallStatus `json:"status" bson:"status"`
	Sentiment      Sentiment  `json:"sentiment" bson:"sentiment"`
	SentimentScore int        `json:"sentimentScore" bson:"sentimentScore"`
	GradeScore     *int       `json:"gradeScore,omitempty" bson:"gradeScore,omitempty"`
	Summary        string     `json:"summary" bson:"summary"`
	Transcript     string     `json:"transcript" bson:"transcript"`
}

// IsReviewable reports whether the call has a transcript worth grading
func (c *Call) IsReviewable() bool {
	return c.Status == CallProcessed && c.Transcript != ""
}

// CallActivity is the trimmed listing row for the recent-activity feed
type CallActivity struct {
	ID         string     `json:"id"`
	FileName   string     `json:"fileName"`
	Dispatcher string     `json:"dispatcher"`
	CallType   string     `json:"callType"`
	Status     CallStatus `json:"status"`
	Submitted  time.Time  `json:"submitted"`
	Duration   string     `json:"duration"`
}

// Activity projects a call onto its feed row
func (c *Call) Activity() CallActivity {
	return CallActivity{
		ID:         c.ID,
		FileName:   c.FileName,
		Dispatcher: c.Dispatcher,
		CallType:   c.CallType,
		Status:     c.Status,
		Submitted:  c.Submitted,
		Duration:   c.Duration,
	}
}
