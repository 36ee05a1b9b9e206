package student

import (
	"reflect"
	"testing"
	"time"
)

func TestBuildCalendar(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		cal := BuildCalendar(nil)
		if len(cal.Months) != 0 {
			t.Errorf("len(Months) = %d, want 0", len(cal.Months))
		}
	})

	t.Run("invalid dates are skipped", func(t *testing.T) {
		cal := BuildCalendar([]DatedRecord{
			{Date: "not-a-date", Value: "5"},
			{Date: "2024-13-40", Value: "5"},
			{Date: "05.01.2024", Value: "5"},
			{Date: "2024-01-05", Value: "5"},
		})
		if len(cal.Months) != 1 {
			t.Fatalf("len(Months) = %d, want 1", len(cal.Months))
		}
		if cal.Months[0].Grades != 1 {
			t.Errorf("Grades = %d, want 1", cal.Months[0].Grades)
		}
	})

	t.Run("single month grid", func(t *testing.T) {
		// 2024-01-01 is a Monday
		cal := BuildCalendar([]DatedRecord{
			{Date: "2024-01-05", Value: "5"},
			{Date: "2024-01-06", Value: "н"},
			{Date: "2024-01-07", Value: "Пропуск занятия"},
			{Date: "2024-01-05", Value: "3"}, // later record for the same day wins
		})
		if len(cal.Months) != 1 {
			t.Fatalf("len(Months) = %d, want 1", len(cal.Months))
		}
		m := cal.Months[0]
		if m.Key != "2024-01" {
			t.Errorf("Key = %q, want %q", m.Key, "2024-01")
		}
		if m.Year != 2024 || m.Month != time.January {
			t.Errorf("Year/Month = %d/%v, want 2024/January", m.Year, m.Month)
		}
		if m.Days != 31 || m.Offset != 0 {
			t.Errorf("Days/Offset = %d/%d, want 31/0", m.Days, m.Offset)
		}
		if len(m.Cells) != 31 {
			t.Fatalf("len(Cells) = %d, want 31", len(m.Cells))
		}

		day5 := m.Cells[4]
		if !day5.Has || day5.Value != "3" || day5.Class != "satisfactory" {
			t.Errorf("day 5 cell = %+v, want value 3 / satisfactory", day5)
		}
		day6 := m.Cells[5]
		if day6.Class != "absence" {
			t.Errorf("day 6 class = %q, want absence", day6.Class)
		}
		if empty := m.Cells[0]; empty.Has || empty.Value != "" {
			t.Errorf("day 1 cell = %+v, want no record", empty)
		}

		// counts are per record: 2 grades, 2 absences
		if m.Grades != 2 || m.Absences != 2 {
			t.Errorf("Grades/Absences = %d/%d, want 2/2", m.Grades, m.Absences)
		}
	})

	t.Run("leading cells pad to Monday-first weekday", func(t *testing.T) {
		// 2024-02-01 is a Thursday; leap February
		cal := BuildCalendar([]DatedRecord{{Date: "2024-02-10", Value: "4"}})
		m := cal.Months[0]
		if m.Days != 29 || m.Offset != 3 {
			t.Errorf("Days/Offset = %d/%d, want 29/3", m.Days, m.Offset)
		}
		if len(m.Cells) != 32 {
			t.Fatalf("len(Cells) = %d, want 32", len(m.Cells))
		}
		for i := 0; i < 3; i++ {
			if m.Cells[i].Day != 0 {
				t.Errorf("Cells[%d].Day = %d, want 0", i, m.Cells[i].Day)
			}
		}
		if m.Cells[3].Day != 1 {
			t.Errorf("Cells[3].Day = %d, want 1", m.Cells[3].Day)
		}
	})

	t.Run("months sort chronologically across years", func(t *testing.T) {
		cal := BuildCalendar([]DatedRecord{
			{Date: "2024-01-15", Value: "5"},
			{Date: "2023-12-20", Value: "4"},
			{Date: "2023-09-01", Value: "3"},
		})
		wantKeys := []string{"2023-09", "2023-12", "2024-01"}
		keys := make([]string, 0, len(cal.Months))
		for _, m := range cal.Months {
			keys = append(keys, m.Key)
		}
		if !reflect.DeepEqual(keys, wantKeys) {
			t.Errorf("keys = %v, want %v", keys, wantKeys)
		}
	})

	t.Run("rebuild is deterministic", func(t *testing.T) {
		records := []DatedRecord{
			{Date: "2024-01-05", Value: "5"},
			{Date: "2024-02-06", Value: "н"},
		}
		if !reflect.DeepEqual(BuildCalendar(records), BuildCalendar(records)) {
			t.Error("BuildCalendar() is not deterministic for the same input")
		}
	})
}
