// Package models contains the data structures used throughout cdmctl.
package models

import "time"

// Config holds the complete configuration for a cdmctl run.
type Config struct {
	Cluster   ClusterConfig
	Report    ReportConfig
	Restore   *RestoreConfig   // nil if not configured
	Provision *ProvisionConfig // nil if not configured
}

// ClusterConfig holds connection settings for the CDM cluster management API.
type ClusterConfig struct {
	Address  string
	Username string
	Password string
	Timeout  time.Duration
}

// ReportConfig holds backup-event report settings.
type ReportConfig struct {
	Limit     int    // how many latest events to pull
	EventType string // e.g. "Backup"
	Output    string // CSV output path
}

// RestoreConfig holds SQL database restore settings.
type RestoreConfig struct {
	Instance     string
	Database     string
	RecoveryTime string        // RFC 3339; empty means latest recovery point
	PollInterval time.Duration // how often to poll the async request
	PollTimeout  time.Duration // max time to wait for the request
}

// ProvisionConfig holds bulk NAS share provisioning settings.
type ProvisionConfig struct {
	Input           string // path to the shares CSV file
	FilesetTemplate string // fileset template name
	SLADomain       string // SLA domain name
	Username        string // share access credentials
	Password        string
}
