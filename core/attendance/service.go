package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/schedule"
)

var (
	// errors
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrDuplicateRecord  = errors.New("an attendance record already exists for this student, schedule and date")

	errEntriesRequired = errors.New("attendance entries are required")
	errBadDate         = errors.New("date must be in YYYY-MM-DD format")
	errBadStatus       = errors.New(statusText)
)

const dateLayout = "2006-01-02"

type (
	Repository interface {
		// QueryStudentRecords returns a student's records ordered by date
		// descending, optionally narrowed to an exact date ("" = all).
		// An unknown student yields an empty slice, not an error.
		QueryStudentRecords(ctx context.Context, studentID, date string) ([]Record, error)
		// QueryScheduleRecords returns a schedule's records ordered by
		// student name ascending. An unknown schedule yields an empty slice.
		QueryScheduleRecords(ctx context.Context, scheduleID string) ([]Record, error)
		// ReplaceForScheduleDate atomically deletes every record scoped to
		// (scheduleID, date) and inserts recs in their place, returning the
		// inserted records. A concurrent writer racing on the same scope
		// surfaces as ErrDuplicateRecord.
		ReplaceForScheduleDate(ctx context.Context, scheduleID, date string, recs []Record) ([]Record, error)
	}

	// SummaryCache caches per-student summaries; all methods are best-effort.
	SummaryCache interface {
		GetSummary(ctx context.Context, studentID string) (Summary, bool)
		SetSummary(ctx context.Context, studentID string, s Summary)
		InvalidateSummaries(ctx context.Context, studentIDs ...string)
	}

	Service interface {
		RecordsForStudent(ctx context.Context, studentID, date string) ([]Record, error)
		RecordsForSchedule(ctx context.Context, scheduleID string) ([]Record, error)
		// Replace replaces the full roster for one (scheduleID, date) scope.
		Replace(ctx context.Context, scheduleID, date string, entries []Entry) ([]Record, error)
		StudentSummary(ctx context.Context, studentID string) (Summary, error)
	}

	// MarkedEvent is the payload published on core.EventAttendanceMarked.
	MarkedEvent struct {
		ScheduleID string
		Date       string
		Records    int
	}

	service struct {
		repo      Repository
		schedRepo schedule.Repository
		cache     SummaryCache // optional
		broker    *core.Broker // optional
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, schedRepo schedule.Repository, cache SummaryCache, broker *core.Broker) Service {
	return &service{
		repo:      repo,
		schedRepo: schedRepo,
		cache:     cache,
		broker:    broker,
	}
}

func (svc *service) RecordsForStudent(ctx context.Context, studentID, date string) ([]Record, error) {
	date = core.CleanString(date)
	if date != "" {
		if err := checkDate(date); err != nil {
			return nil, err
		}
	}
	return svc.repo.QueryStudentRecords(ctx, core.CleanString(studentID), date)
}

func (svc *service) RecordsForSchedule(ctx context.Context, scheduleID string) ([]Record, error) {
	return svc.repo.QueryScheduleRecords(ctx, core.CleanString(scheduleID))
}

func (svc *service) Replace(ctx context.Context, scheduleID, date string, entries []Entry) ([]Record, error) {
	scheduleID = core.CleanString(scheduleID)
	date = core.CleanString(date)

	if len(entries) == 0 {
		return nil, core.NewValidationError(errEntriesRequired, core.FieldError{Field: "records", Error: errEntriesRequired.Error()})
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.StudentID == "" {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
		}
		if !e.Status.IsValid() {
			return nil, core.NewValidationError(errBadStatus, core.FieldError{Field: "status", Error: errBadStatus.Error()})
		}
	}

	// referential check: the scope must point at an existing schedule
	if _, err := svc.schedRepo.GetSchedule(ctx, scheduleID); err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return nil, ErrScheduleNotFound
		}
		return nil, errors.Wrap(err, "resolving schedule")
	}

	// a student may appear at most once per submission; last one wins
	entries = dedupeLastWins(entries)

	now := time.Now().UTC()
	recs := make([]Record, 0, len(entries))
	for _, e := range entries {
		recs = append(recs, Record{
			ID:         uuid.New().String(),
			StudentID:  e.StudentID,
			ScheduleID: scheduleID,
			Date:       date,
			Status:     e.Status,
			Notes:      e.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	// students dropped from a prior submission of this scope lose their
	// records, so their cached summaries must go too
	var prior []Record
	if svc.cache != nil {
		prior, _ = svc.repo.QueryScheduleRecords(ctx, scheduleID)
	}

	inserted, err := svc.repo.ReplaceForScheduleDate(ctx, scheduleID, date, recs)
	if err != nil {
		return nil, err
	}

	if svc.cache != nil {
		seen := make(map[string]struct{}, len(inserted)+len(prior))
		ids := make([]string, 0, len(inserted)+len(prior))
		for _, rec := range inserted {
			if _, ok := seen[rec.StudentID]; !ok {
				seen[rec.StudentID] = struct{}{}
				ids = append(ids, rec.StudentID)
			}
		}
		for _, rec := range prior {
			if rec.Date != date {
				continue
			}
			if _, ok := seen[rec.StudentID]; !ok {
				seen[rec.StudentID] = struct{}{}
				ids = append(ids, rec.StudentID)
			}
		}
		svc.cache.InvalidateSummaries(ctx, ids...)
	}
	if svc.broker != nil {
		svc.broker.Publish(core.EventAttendanceMarked, MarkedEvent{
			ScheduleID: scheduleID,
			Date:       date,
			Records:    len(inserted),
		})
	}
	return inserted, nil
}

func (svc *service) StudentSummary(ctx context.Context, studentID string) (Summary, error) {
	studentID = core.CleanString(studentID)
	if svc.cache != nil {
		if s, ok := svc.cache.GetSummary(ctx, studentID); ok {
			return s, nil
		}
	}

	recs, err := svc.repo.QueryStudentRecords(ctx, studentID, "")
	if err != nil {
		return Summary{}, err
	}
	s := Summarize(recs)

	if svc.cache != nil {
		svc.cache.SetSummary(ctx, studentID, s)
	}
	return s, nil
}

func checkDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil || len(date) != len(dateLayout) {
		return core.NewValidationError(errBadDate, core.FieldError{Field: "date", Error: errBadDate.Error()})
	}
	return nil
}

// dedupeLastWins keeps the last entry per student, preserving the order in
// which students first appeared.
func dedupeLastWins(entries []Entry) []Entry {
	seen := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i, ok := seen[e.StudentID]; ok {
			out[i] = e
			continue
		}
		seen[e.StudentID] = len(out)
		out = append(out, e)
	}
	return out
}
