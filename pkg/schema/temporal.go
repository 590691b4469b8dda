package schema

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern     = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`)
)

func validateDate(raw string) Result {
	if !datePattern.MatchString(raw) {
		return Invalid("Date must be in YYYY-MM-DD format")
	}
	return checkCalendarDate(raw)
}

// checkCalendarDate builds the date and compares the normalized fields with the input,
// which rejects values like 2025-02-30 that time.Date would roll over.
func checkCalendarDate(raw string) Result {
	year, _ := strconv.Atoi(raw[0:4])
	month, _ := strconv.Atoi(raw[5:7])
	day, _ := strconv.Atoi(raw[8:10])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return Invalid("Invalid date")
	}
	return Valid()
}

func validateTime(raw string) Result {
	if !timePattern.MatchString(raw) {
		return Invalid("Time must be in HH:MM:SS format")
	}
	return checkClock(raw)
}

func checkClock(raw string) Result {
	parts := strings.Split(raw, ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.Atoi(parts[2])

	switch {
	case hours > 23:
		return Invalid("Hours must be between 00 and 23")
	case minutes > 59:
		return Invalid("Minutes must be between 00 and 59")
	case seconds > 59:
		return Invalid("Seconds must be between 00 and 59")
	}
	return Valid()
}

func validateDateTime(raw string) Result {
	if !dateTimePattern.MatchString(raw) {
		return Invalid("DateTime must be in YYYY-MM-DDTHH:MM:SS format")
	}
	datePart, timePart, _ := strings.Cut(raw, "T")
	if res := checkCalendarDate(datePart); !res.OK() {
		return res
	}
	return checkClock(timePart)
}
