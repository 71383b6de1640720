// Package report builds the backup-event timing report: it parses the
// free-text durations the event log emits, derives scan durations, formats
// byte counts, and writes one CSV row per successful event.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Components holds a parsed duration broken into its textual units.
type Components struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// durationToken matches one "<number> <unit>" pair in a free-text duration.
var durationToken = regexp.MustCompile(`(\d+)\s*([A-Za-z]+)`)

// unitAliases maps every unit spelling the event log uses to a canonical unit.
var unitAliases = map[string]string{
	"day": "day", "days": "day",
	"hr": "hour", "hrs": "hour", "hour": "hour", "hours": "hour",
	"min": "minute", "mins": "minute", "minute": "minute", "minutes": "minute",
	"sec": "second", "secs": "second", "second": "second", "seconds": "second",
}

// ParseDuration tokenizes a free-text elapsed-time string such as
// "3 days 2 hours 30 minutes 53 seconds" into unit components. The first
// occurrence of each unit wins, an absent unit is zero, and tokens that are
// not a known unit are ignored. It never fails: unparseable text is simply a
// zero duration.
func ParseDuration(text string) Components {
	var c Components
	seen := map[string]bool{}

	for _, m := range durationToken.FindAllStringSubmatch(text, -1) {
		unit, ok := unitAliases[strings.ToLower(m[2])]
		if !ok || seen[unit] {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seen[unit] = true

		switch unit {
		case "day":
			c.Days = n
		case "hour":
			c.Hours = n
		case "minute":
			c.Minutes = n
		case "second":
			c.Seconds = n
		}
	}

	return c
}

// ToMinutes returns the duration as fractional minutes.
func (c Components) ToMinutes() float64 {
	return float64(c.Days)*1440 + float64(c.Hours)*60 + float64(c.Minutes) + float64(c.Seconds)/60
}

// Clock renders the duration as zero-padded HH:MM:SS. Days are folded into
// the hour field, which is NOT capped at 24: a 30-hour event renders as
// "30:00:00". This is an elapsed time, not a wall-clock time.
func (c Components) Clock() string {
	hours := c.Hours + c.Days*24
	return fmt.Sprintf("%02d:%02d:%02d", hours, c.Minutes, c.Seconds)
}

// Subtract computes total minus sub component-wise, borrowing from the next
// larger unit where needed (seconds from minutes, minutes from hours). Days
// are folded into hours first, so the result carries hours only. It returns
// an error when sub exceeds total, i.e. the event reported a fetch phase
// longer than the whole job.
func Subtract(total, sub Components) (Components, error) {
	hours := (total.Hours + total.Days*24) - (sub.Hours + sub.Days*24)
	minutes := total.Minutes - sub.Minutes
	seconds := total.Seconds - sub.Seconds

	if seconds < 0 {
		seconds += 60
		minutes--
	}
	if minutes < 0 {
		minutes += 60
		hours--
	}
	if hours < 0 {
		return Components{}, fmt.Errorf("duration %q shorter than subtracted %q", total.Clock(), sub.Clock())
	}

	return Components{Hours: hours, Minutes: minutes, Seconds: seconds}, nil
}
