package student

// Student is the profile keyed by the FIO display string.
type Student struct {
	ID        int    `json:"id"`
	FIO       string `json:"fio"`
	GroupID   int    `json:"group_id"`
	GroupName string `json:"group_name,omitempty"`
	Stats     *Stats `json:"stats,omitempty"`

	// host-supplied metadata, present only when the launch environment
	// carried a parseable user payload
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Stats is the cross-subject summary merged into the profile.
type Stats struct {
	TotalSubjects int     `json:"total_subjects"`
	TotalLessons  int     `json:"total_lessons"`
	Grades        int     `json:"grades"`
	Absences      int     `json:"absences"`
	Attendance    float64 `json:"attendance"`
	AverageGrade  float64 `json:"average_grade"`
}

type Subject struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	GroupID int          `json:"group_id"`
	Stats   SubjectStats `json:"stats"`
}

type SubjectStats struct {
	Total      int      `json:"total"`
	Grades     int      `json:"grades"`
	Absences   int      `json:"absences"`
	Attendance float64  `json:"attendance"`
	Final      *float64 `json:"final,omitempty"`
}

// DatedRecord is a single date-keyed grade or absence observation.
// Value is a numeric grade, an absence marker, or empty.
type DatedRecord struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Value string `json:"value"`
}

// GradesData is the per-subject record set as served by the remote service:
// a flat ordered list plus the service's own month buckets.
type GradesData struct {
	Subject  Subject                  `json:"subject"`
	Grades   []DatedRecord            `json:"grades"`
	Calendar map[string][]DatedRecord `json:"calendar"`
}

// SubjectRating is one row of the per-subject ranking breakdown.
type SubjectRating struct {
	SubjectID            int     `json:"subject_id"`
	Name                 string  `json:"name"`
	AverageGrade         float64 `json:"average_grade"`
	Attendance           float64 `json:"attendance"`
	PositionByGrade      int     `json:"position_by_grade"`
	PositionByAttendance int     `json:"position_by_attendance"`
	OverallPosition      int     `json:"overall_position"`
}
