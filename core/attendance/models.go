package attendance

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasa-app/darasa/core"
)

// Status is the closed set of marks a student can receive for a class.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

var AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLate}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Record is one student's mark for one schedule occurrence on one calendar
// date. At most one Record exists per (StudentID, ScheduleID, Date); the
// storage layer enforces this with a unique constraint.
type Record struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	ScheduleID string `json:"schedule_id"`
	// Date is the calendar day the class was held, as `YYYY-MM-DD`. It is
	// independent of the schedule's own date so a schedule entry can recur
	// across weeks.
	Date   string `json:"date"`
	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`

	// StudentName is populated by read paths (join against users); never stored.
	StudentName string `json:"student_name,omitempty"`

	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Entry is one element of a bulk-replace submission.
type Entry struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    Status `json:"status" validate:"required,attstatus"`
	Notes     string `json:"notes"`
}

// Validators

var (
	statusTag  = "attstatus"
	statusText = "invalid attendance status"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

// statusValidation checks that the provided status is a member of AllStatuses.
func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).IsValid()
}
