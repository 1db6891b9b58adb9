package dummydb

import (
	"context"
	"sort"

	"github.com/darasa-app/darasa/core/attendance"
)

type attendanceRepository struct {
	db    *attendanceTable
	users *userTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance, users: db.user}
}

func (repo *attendanceRepository) QueryStudentRecords(_ context.Context, studentID, date string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.StudentID != studentID {
			continue
		}
		if date != "" && rec.Date != date {
			continue
		}
		out := *rec
		out.StudentName = repo.studentName(out.StudentID)
		recs = append(recs, out)
	}

	// most recent first
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date > recs[j].Date })
	return recs, nil
}

func (repo *attendanceRepository) QueryScheduleRecords(_ context.Context, scheduleID string) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.ScheduleID != scheduleID {
			continue
		}
		out := *rec
		out.StudentName = repo.studentName(out.StudentID)
		recs = append(recs, out)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].StudentName < recs[j].StudentName })
	return recs, nil
}

func (repo *attendanceRepository) ReplaceForScheduleDate(_ context.Context, scheduleID, date string, recs []attendance.Record) ([]attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// delete the whole scope first, then insert; both under one lock so
	// readers never observe the in-between state
	for id, rec := range repo.db.table {
		if rec.ScheduleID == scheduleID && rec.Date == date {
			delete(repo.db.table, id)
		}
	}

	type key struct{ student, sched, date string }
	seen := make(map[key]struct{}, len(recs))

	inserted := make([]attendance.Record, 0, len(recs))
	for _, rec := range recs {
		k := key{rec.StudentID, rec.ScheduleID, rec.Date}
		if _, ok := seen[k]; ok {
			return nil, attendance.ErrDuplicateRecord
		}
		seen[k] = struct{}{}

		stored := rec
		stored.StudentName = "" // join field, not stored
		repo.db.table[stored.ID] = &stored

		rec.StudentName = repo.studentName(rec.StudentID)
		inserted = append(inserted, rec)
	}
	return inserted, nil
}

func (repo *attendanceRepository) studentName(studentID string) string {
	repo.users.RLock()
	defer repo.users.RUnlock()
	if usr, ok := repo.users.table[studentID]; ok {
		return usr.Name
	}
	return ""
}
