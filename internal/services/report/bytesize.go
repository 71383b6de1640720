package report

import (
	"fmt"
	"math"
	"strconv"
)

// byteUnit is one decimal magnitude step. Thresholds are strict: a value must
// exceed the threshold to be rendered in that unit, so exactly 1000 stays "B".
type byteUnit struct {
	threshold int64
	suffix    string
}

// Largest unit first; the first threshold the value strictly exceeds wins.
var byteUnits = []byteUnit{
	{1_000_000_000_000_000, "PB"},
	{1_000_000_000_000, "TB"},
	{1_000_000_000, "GB"},
	{1_000_000, "MB"},
	{1_000, "KB"},
}

// FormatBytes renders a raw byte count as a human-readable string using
// decimal (base-10) units, rounded to 2 decimal places with trailing zeros
// trimmed: 1500 -> "1.5 KB", 2500000000 -> "2.5 GB". Values at or below 1000
// render as the raw count with a "B" suffix.
func FormatBytes(n int64) string {
	for _, u := range byteUnits {
		if n > u.threshold {
			v := math.Round(float64(n)/float64(u.threshold)*100) / 100
			return strconv.FormatFloat(v, 'f', -1, 64) + " " + u.suffix
		}
	}
	return fmt.Sprintf("%d B", n)
}
