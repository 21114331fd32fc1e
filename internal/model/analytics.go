package model

import "time"

// TypeCount is one slice of the calls-by-type breakdown chart
type TypeCount struct {
	CallType string `json:"type" bson:"_id"`
	Count    int    `json:"count" bson:"count"`
}

// VolumePoint is one bucket of the call-volume-over-time chart
type VolumePoint struct {
	Bucket string `json:"time" bson:"_id"` // e.g. "14:00" or "Jan 15"
	Calls  int    `json:"calls" bson:"calls"`
}

// TrendDirection describes a dispatcher's recent score movement
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// DispatcherStats is one leaderboard row
type DispatcherStats struct {
	Rank       int            `json:"rank"`
	Name       string         `json:"name"`
	TotalCalls int            `json:"totalCalls"`
	AvgScore   float64        `json:"avgScore"`
	Trend      TrendDirection `json:"trend"`
}

// DashboardStats is the headline summary block
type DashboardStats struct {
	TotalCalls     int       `json:"totalCalls"`
	ProcessedCalls int       `json:"processedCalls"`
	FailedCalls    int       `json:"failedCalls"`
	AvgGradeScore  float64   `json:"avgGradeScore"`
	GeneratedAt    time.Time `json:"generatedAt"`
}
