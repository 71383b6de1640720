package models

import "time"

// Async request states reported by the cluster.
const (
	RequestQueued    = "QUEUED"
	RequestRunning   = "RUNNING"
	RequestSucceeded = "SUCCEEDED"
	RequestFailed    = "FAILED"
)

// SQLDatabase is a protected SQL database known to the cluster.
type SQLDatabase struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	InstanceName        string `json:"instanceName"`
	RecoveryModel       string `json:"recoveryModel"`
	LatestRecoveryPoint string `json:"latestRecoveryPoint"` // RFC 3339
}

// AsyncRequest is the cluster's handle for a long-running job.
type AsyncRequest struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// RestoreResult holds the outcome of a database restore run.
type RestoreResult struct {
	DatabaseID   string
	RequestID    string
	RecoveryTime string
	Status       string
	Duration     time.Duration
}
