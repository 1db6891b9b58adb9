package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/attendance"
)

type attendanceRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	ScheduleID  string    `db:"schedule_id"`
	Date        string    `db:"date"`
	Status      string    `db:"status"`
	Notes       string    `db:"notes"`
	StudentName string    `db:"student_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r attendanceRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:          r.ID,
		StudentID:   r.StudentID,
		ScheduleID:  r.ScheduleID,
		Date:        r.Date,
		Status:      attendance.Status(r.Status),
		Notes:       r.Notes,
		StudentName: r.StudentName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const attendanceSelect = `
SELECT a.id, a.student_id, a.schedule_id, a.date, a.status, a.notes, a.created_at, a.updated_at,
       COALESCE(u.name, '') AS student_name
FROM attendance_records a
LEFT JOIN users u ON u.id = a.student_id`

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) QueryStudentRecords(ctx context.Context, studentID, date string) ([]attendance.Record, error) {
	query := attendanceSelect + ` WHERE a.student_id = $1`
	args := []interface{}{studentID}
	if date != "" {
		query += ` AND a.date = $2`
		args = append(args, date)
	}
	query += ` ORDER BY a.date DESC`

	rows := make([]attendanceRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying student records")
	}
	return toRecords(rows), nil
}

func (repo *attendanceRepository) QueryScheduleRecords(ctx context.Context, scheduleID string) ([]attendance.Record, error) {
	query := attendanceSelect + ` WHERE a.schedule_id = $1 ORDER BY student_name ASC`

	rows := make([]attendanceRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, errors.Wrap(err, "querying schedule records")
	}
	return toRecords(rows), nil
}

// ReplaceForScheduleDate swaps the (scheduleID, date) scope for recs in a
// single transaction; readers see either the old roster or the new one. The
// unique (student_id, schedule_id, date) constraint guards against a writer
// racing on the same scope.
func (repo *attendanceRepository) ReplaceForScheduleDate(ctx context.Context, scheduleID, date string, recs []attendance.Record) ([]attendance.Record, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE schedule_id = $1 AND date = $2`, scheduleID, date)
	if err != nil {
		return nil, errors.Wrap(err, "clearing attendance scope")
	}

	query := `
INSERT INTO attendance_records (id, student_id, schedule_id, date, status, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, rec := range recs {
		_, err = tx.ExecContext(ctx, query,
			rec.ID, rec.StudentID, rec.ScheduleID, rec.Date, rec.Status, rec.Notes,
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, attendance.ErrDuplicateRecord
			}
			return nil, errors.Wrap(err, "inserting attendance record")
		}
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, attendance.ErrDuplicateRecord
		}
		return nil, errors.Wrap(err, "committing attendance replace")
	}
	return repo.queryScope(ctx, scheduleID, date)
}

func (repo *attendanceRepository) queryScope(ctx context.Context, scheduleID, date string) ([]attendance.Record, error) {
	query := attendanceSelect + ` WHERE a.schedule_id = $1 AND a.date = $2 ORDER BY student_name ASC`

	rows := make([]attendanceRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, scheduleID, date); err != nil {
		return nil, errors.Wrap(err, "querying attendance scope")
	}
	return toRecords(rows), nil
}

func toRecords(rows []attendanceRow) []attendance.Record {
	recs := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toRecord())
	}
	return recs
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
