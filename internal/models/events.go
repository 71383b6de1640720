package models

// EventSummary is one entry from the cluster's latest-events feed.
type EventSummary struct {
	EventSeriesID string `json:"eventSeriesId"`
	EventType     string `json:"eventType"`
	ObjectName    string `json:"objectName"`
}

// EventDetail is the full record for one event series (one backup job run).
type EventDetail struct {
	ObjectName      string      `json:"objectName"`
	ObjectID        string      `json:"objectId"`
	Location        string      `json:"location"`
	Status          string      `json:"status"`
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	Duration        string      `json:"duration"` // free-text, e.g. "2 hours 30 minutes 53 seconds"
	LogicalSize     int64       `json:"logicalSize"`
	DataTransferred int64       `json:"dataTransferred"`
	Throughput      int64       `json:"throughput"`
	EventDetailList []EventStep `json:"eventDetailList"`
}

// EventStep is one step within an event series.
type EventStep struct {
	EventName string `json:"eventName"`
	Time      string `json:"time"`
	EventInfo string `json:"eventInfo"` // JSON-encoded parameter blob
}

// StatusSuccess is the event status that yields a report row; every other
// status is skipped.
const StatusSuccess = "Success"
