package student

import (
	"strconv"
	"strings"
)

// Band classifies a record value for display.
type Band int

const (
	BandNone Band = iota
	BandAbsence
	BandExcellent
	BandGood
	BandSatisfactory
	BandPoor
)

func (b Band) String() string {
	switch b {
	case BandAbsence:
		return "absence"
	case BandExcellent:
		return "excellent"
	case BandGood:
		return "good"
	case BandSatisfactory:
		return "satisfactory"
	case BandPoor:
		return "bad"
	default:
		return ""
	}
}

// missedToken and the null-attendance codes mark a skipped session.
const missedToken = "пропуск"

var nullAttendanceCodes = []string{"н", "н/я"}

// IsAbsence reports whether a record value marks a missed session.
func IsAbsence(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	if strings.Contains(v, missedToken) {
		return true
	}
	for _, code := range nullAttendanceCodes {
		if v == code {
			return true
		}
	}
	return false
}

// ParseGrade extracts the numeric grade from a record value.
func ParseGrade(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" || IsAbsence(v) {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Classify maps a record value to its display band.
func Classify(value string) Band {
	if IsAbsence(value) {
		return BandAbsence
	}
	n, ok := ParseGrade(value)
	if !ok {
		return BandNone
	}
	switch {
	case n >= 4.5:
		return BandExcellent
	case n >= 3.5:
		return BandGood
	case n >= 2.5:
		return BandSatisfactory
	case n >= 2.0:
		return BandPoor
	default:
		return BandNone
	}
}
