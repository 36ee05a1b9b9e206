package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/vvladislovv/GreMiuv/core/ranking"
	"github.com/vvladislovv/GreMiuv/core/student"
)

type SessionRequest struct {
	StartParam string `json:"start_param" validate:"max=512"`
}

func (r *SessionRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type SessionResponse struct {
	Status  string `json:"status"` // resolved | unresolved
	FIO     string `json:"fio,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

type MeResponse struct {
	Student  *student.Student  `json:"student"`
	Subjects []student.Subject `json:"subjects"`
}

type CalendarQuery struct {
	SubjectID int `query:"subject_id" json:"subject_id" validate:"required,gt=0"`
}

func (q *CalendarQuery) Validate(validate *validator.Validate) error {
	return validate.Struct(q)
}

type GroupRatingResponse struct {
	GroupID   int                    `json:"group_id"`
	ByGrade   []ranking.GradeEntry   `json:"by_grade"`
	ByAbsence []ranking.AbsenceEntry `json:"by_absence"`
}
