package schedule

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasa-app/darasa/core"
)

// Type is the closed set of class kinds.
type Type string

const (
	TypeLecture  Type = "lecture"
	TypePractice Type = "practice"
	TypeLab      Type = "lab"
)

var AllTypes = []Type{TypeLecture, TypePractice, TypeLab}

func (t Type) IsValid() bool {
	switch t {
	case TypeLecture, TypePractice, TypeLab:
		return true
	}
	return false
}

// Schedule is a single scheduled class occurrence.
type Schedule struct {
	ID        string `json:"id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Subject   string `json:"subject"`
	TeacherID string `json:"teacher_id"`
	Group     string `json:"group"`
	Classroom string `json:"classroom"`
	Type      Type   `json:"type"`

	// TeacherName is populated by read paths (join against users); never stored.
	TeacherName string `json:"teacher_name,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewSchedule contains information needed to create a Schedule.
type NewSchedule struct {
	Date      string `json:"date" validate:"required,dateymd"`
	StartTime string `json:"start_time" validate:"required,timehm"`
	EndTime   string `json:"end_time" validate:"required,timehm"`
	Subject   string `json:"subject" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Group     string `json:"group" validate:"required"`
	Classroom string `json:"classroom" validate:"required"`
	Type      Type   `json:"type" validate:"required,scheduletype"`
}

func (ns *NewSchedule) Validate(validate *validator.Validate) error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Group = core.CleanString(ns.Group)
	ns.Classroom = core.CleanString(ns.Classroom)
	return validate.Struct(ns)
}

// QueryFilter applies an AND operation on available fields.
type QueryFilter struct {
	Group     string `query:"group"`
	TeacherID string `query:"teacher_id"`
	Date      string `query:"date"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Group == "" && qf.TeacherID == "" && qf.Date == ""
}

func (qf *QueryFilter) Clean() {
	qf.Group = core.CleanString(qf.Group)
	qf.TeacherID = core.CleanString(qf.TeacherID)
	qf.Date = core.CleanString(qf.Date)
}

// Validators

var (
	typeTag  = "scheduletype"
	typeText = "invalid schedule type"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}

// typeValidation checks that the provided type is a member of AllTypes.
func typeValidation(fl validator.FieldLevel) bool {
	return Type(fl.Field().String()).IsValid()
}
