package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tlindner/cdmctl/internal/models"
)

// csvHeader mirrors the EventReportRow field order.
var csvHeader = []string{
	"ObjectName",
	"Location",
	"StartTime",
	"EndTime",
	"Status",
	"ObjectID",
	"LogicalSize",
	"LogicalSizeText",
	"DataTransferred",
	"DataTransferredText",
	"Throughput",
	"ThroughputText",
	"TotalClock",
	"TotalMinutes",
	"ScanClock",
	"ScanMinutes",
	"FetchClock",
	"FetchMinutes",
	"CopyClock",
	"CopyMinutes",
	"VerifyClock",
	"VerifyMinutes",
}

func record(row models.EventReportRow) []string {
	return []string{
		row.ObjectName,
		row.Location,
		row.StartTime,
		row.EndTime,
		row.Status,
		row.ObjectID,
		strconv.FormatInt(row.LogicalSize, 10),
		row.LogicalSizeText,
		strconv.FormatInt(row.DataTransferred, 10),
		row.DataTransferredText,
		strconv.FormatInt(row.Throughput, 10),
		row.ThroughputText,
		row.TotalClock,
		formatMinutes(row.TotalMinutes),
		row.ScanClock,
		formatMinutes(row.ScanMinutes),
		row.FetchClock,
		formatMinutes(row.FetchMinutes),
		row.CopyClock,
		formatMinutes(row.CopyMinutes),
		row.VerifyClock,
		formatMinutes(row.VerifyMinutes),
	}
}

// formatMinutes renders minute values as written to the CSV: up to 3 decimal
// places, no trailing zeros.
func formatMinutes(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// WriteCSV writes the header and one record per row, in order.
func WriteCSV(w io.Writer, rows []models.EventReportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("writing row for %s: %w", row.ObjectName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the report to path, creating parent directories as
// needed.
func WriteCSVFile(path string, rows []models.EventReportRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the operator's config
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
