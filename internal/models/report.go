package models

// EventReportRow is one CSV record for a successful backup event. Rows are
// built once and never mutated afterwards; the report accumulates them in
// event-retrieval order.
type EventReportRow struct {
	ObjectName string
	Location   string
	StartTime  string
	EndTime    string
	Status     string
	ObjectID   string

	// Raw byte counts straight from the event, plus human-readable variants.
	LogicalSize         int64
	LogicalSizeText     string
	DataTransferred     int64
	DataTransferredText string
	Throughput          int64
	ThroughputText      string

	// Each duration is carried both as zero-padded HH:MM:SS text and as
	// minutes rounded to 3 decimal places. Fetch, copy and verification come
	// from the fetch-completion step; when that step is absent from the event
	// the clock strings are empty and the minutes are zero.
	TotalClock    string
	TotalMinutes  float64
	ScanClock     string
	ScanMinutes   float64
	FetchClock    string
	FetchMinutes  float64
	CopyClock     string
	CopyMinutes   float64
	VerifyClock   string
	VerifyMinutes float64
}

// ReportResult summarizes one report run.
type ReportResult struct {
	EventsSeen int // events pulled from the cluster
	RowsBuilt  int // successful events that produced a row
	OutputPath string
}
