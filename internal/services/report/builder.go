package report

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/tlindner/cdmctl/internal/models"
)

// FetchCompleteEvent is the step that carries the fetch, copy and
// verification durations in its parameter blob.
const FetchCompleteEvent = "Fileset.BackupFetchComplete"

// stepDurations holds the sub-interval duration texts reported by the
// fetch-completion step.
type stepDurations struct {
	Fetch        string
	Copy         string
	Verification string
}

// fetchEventInfo is the JSON-encoded parameter blob of the fetch-completion
// step.
type fetchEventInfo struct {
	Message string `json:"message"`
	Params  struct {
		FetchDuration        string `json:"fetchDuration"`
		CopyDuration         string `json:"copyDuration"`
		VerificationDuration string `json:"verificationDuration"`
	} `json:"params"`
}

// Builder turns event-detail records into report rows.
type Builder struct {
	logger zerolog.Logger
}

// NewBuilder creates a report row builder.
func NewBuilder(logger zerolog.Logger) *Builder {
	return &Builder{logger: logger}
}

// BuildRow produces one EventReportRow for a successful event. Events whose
// status is not "Success" are skipped silently and yield (nil, nil). Building
// a row never mutates the input, and identical input always yields an
// identical row.
func (b *Builder) BuildRow(detail models.EventDetail) (*models.EventReportRow, error) {
	if detail.Status != models.StatusSuccess {
		b.logger.Debug().
			Str("object", detail.ObjectName).
			Str("status", detail.Status).
			Msg("skipping event without Success status")
		return nil, nil
	}

	total := ParseDuration(detail.Duration)

	row := &models.EventReportRow{
		ObjectName: detail.ObjectName,
		Location:   detail.Location,
		StartTime:  detail.StartTime,
		EndTime:    detail.EndTime,
		Status:     detail.Status,
		ObjectID:   detail.ObjectID,

		LogicalSize:         detail.LogicalSize,
		LogicalSizeText:     FormatBytes(detail.LogicalSize),
		DataTransferred:     detail.DataTransferred,
		DataTransferredText: FormatBytes(detail.DataTransferred),
		Throughput:          detail.Throughput,
		ThroughputText:      FormatBytes(detail.Throughput),

		TotalClock:   total.Clock(),
		TotalMinutes: roundMinutes(total.ToMinutes()),
	}

	steps, err := b.extractStepDurations(detail)
	if err != nil {
		return nil, err
	}
	if steps == nil {
		// The fetch-completion step is missing from the event. The
		// step-derived fields stay explicitly unset (empty clocks, zero
		// minutes) rather than inheriting values from any earlier event.
		b.logger.Warn().
			Str("object", detail.ObjectName).
			Str("object_id", detail.ObjectID).
			Msg("event has no fetch-completion step, leaving step durations unset")
		return row, nil
	}

	fetch := ParseDuration(steps.Fetch)
	copied := ParseDuration(steps.Copy)
	verify := ParseDuration(steps.Verification)

	row.FetchClock = fetch.Clock()
	row.FetchMinutes = roundMinutes(fetch.ToMinutes())
	row.CopyClock = copied.Clock()
	row.CopyMinutes = roundMinutes(copied.ToMinutes())
	row.VerifyClock = verify.Clock()
	row.VerifyMinutes = roundMinutes(verify.ToMinutes())

	scan, err := Subtract(total, fetch)
	if err != nil {
		// Fetch outlasted the whole job according to the event's own
		// numbers. Keep the row but zero the scan pair instead of rendering
		// a negative interval.
		b.logger.Warn().
			Str("object", detail.ObjectName).
			Str("total", detail.Duration).
			Str("fetch", steps.Fetch).
			Msg("fetch duration exceeds total duration, zeroing scan duration")
		row.ScanClock = Components{}.Clock()
		row.ScanMinutes = 0
		return row, nil
	}

	row.ScanClock = scan.Clock()
	row.ScanMinutes = roundMinutes(total.ToMinutes() - fetch.ToMinutes())

	return row, nil
}

// extractStepDurations finds the fetch-completion step in the event's step
// list and decodes its parameter blob. A missing step returns (nil, nil):
// absence is an explicit state the caller handles, not an error.
func (b *Builder) extractStepDurations(detail models.EventDetail) (*stepDurations, error) {
	for _, step := range detail.EventDetailList {
		if step.EventName != FetchCompleteEvent {
			continue
		}

		var info fetchEventInfo
		if err := json.Unmarshal([]byte(step.EventInfo), &info); err != nil {
			return nil, fmt.Errorf("decoding %s event info: %w", FetchCompleteEvent, err)
		}

		return &stepDurations{
			Fetch:        info.Params.FetchDuration,
			Copy:         info.Params.CopyDuration,
			Verification: info.Params.VerificationDuration,
		}, nil
	}
	return nil, nil
}

// roundMinutes rounds fractional minutes to 3 decimal places.
func roundMinutes(m float64) float64 {
	return math.Round(m*1000) / 1000
}
