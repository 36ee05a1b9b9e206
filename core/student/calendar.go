package student

import (
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

type (
	// Cell is one slot of a month grid. Leading placeholder cells (Day == 0)
	// pad the first week so day 1 lands on its weekday column.
	Cell struct {
		Day   int    `json:"day"`
		Has   bool   `json:"has_record"`
		Value string `json:"value,omitempty"`
		Class string `json:"class,omitempty"`
	}

	// CalendarMonth is one month of the grid with derived counts.
	CalendarMonth struct {
		Key      string     `json:"key"` // YYYY-MM, zero-padded
		Year     int        `json:"year"`
		Month    time.Month `json:"month"`
		Days     int        `json:"days"`
		Offset   int        `json:"offset"` // Monday-first weekday of day 1
		Cells    []Cell     `json:"cells"`
		Grades   int        `json:"grades"`
		Absences int        `json:"absences"`
	}

	// Calendar is the derived month/day structure; never mutated in place,
	// rebuilt whenever the underlying records change.
	Calendar struct {
		Months []CalendarMonth `json:"months"`
	}
)

type datedValue struct {
	day   int
	value string
}

// BuildCalendar buckets a flat list of dated records into a month-keyed,
// day-indexed grid. Records whose dates do not parse as YYYY-MM-DD are
// skipped. Empty input yields an empty grid.
func BuildCalendar(records []DatedRecord) Calendar {
	byMonth := make(map[string][]datedValue)
	for _, rec := range records {
		d, err := time.Parse(dateLayout, rec.Date)
		if err != nil {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		byMonth[key] = append(byMonth[key], datedValue{day: d.Day(), value: rec.Value})
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys) // zero-padded keys make lexicographic == chronological

	cal := Calendar{Months: make([]CalendarMonth, 0, len(keys))}
	for _, key := range keys {
		cal.Months = append(cal.Months, buildMonth(key, byMonth[key]))
	}
	return cal
}

func buildMonth(key string, recs []datedValue) CalendarMonth {
	var year, month int
	fmt.Sscanf(key, "%d-%d", &year, &month)

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) + 6) % 7 // Monday-first

	// day -> value lookup; a later record for the same day wins
	dayValues := make(map[int]string, len(recs))
	for _, rec := range recs {
		dayValues[rec.day] = rec.value
	}

	m := CalendarMonth{
		Key:    key,
		Year:   year,
		Month:  time.Month(month),
		Days:   days,
		Offset: offset,
		Cells:  make([]Cell, 0, offset+days),
	}
	for i := 0; i < offset; i++ {
		m.Cells = append(m.Cells, Cell{})
	}
	for day := 1; day <= days; day++ {
		cell := Cell{Day: day}
		if value, ok := dayValues[day]; ok {
			cell.Has = true
			cell.Value = value
			cell.Class = Classify(value).String()
		}
		m.Cells = append(m.Cells, cell)
	}

	// counts are per record, not per day cell
	for _, rec := range recs {
		switch {
		case IsAbsence(rec.value):
			m.Absences++
		default:
			if _, ok := ParseGrade(rec.value); ok {
				m.Grades++
			}
		}
	}
	return m
}
