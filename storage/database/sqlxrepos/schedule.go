package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/schedule"
)

type scheduleRow struct {
	ID          string    `db:"id"`
	Date        string    `db:"date"`
	StartTime   string    `db:"start_time"`
	EndTime     string    `db:"end_time"`
	Subject     string    `db:"subject"`
	TeacherID   string    `db:"teacher_id"`
	Group       string    `db:"study_group"`
	Classroom   string    `db:"classroom"`
	Type        string    `db:"type"`
	TeacherName string    `db:"teacher_name"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r scheduleRow) toSchedule() schedule.Schedule {
	return schedule.Schedule{
		ID:          r.ID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Subject:     r.Subject,
		TeacherID:   r.TeacherID,
		Group:       r.Group,
		Classroom:   r.Classroom,
		Type:        schedule.Type(r.Type),
		TeacherName: r.TeacherName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const scheduleSelect = `
SELECT s.id, s.date, s.start_time, s.end_time, s.subject, s.teacher_id, s.study_group,
       s.classroom, s.type, s.created_at, s.updated_at,
       COALESCE(u.name, '') AS teacher_name
FROM schedules s
LEFT JOIN users u ON u.id = s.teacher_id`

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	query := `
INSERT INTO schedules (id, date, start_time, end_time, subject, teacher_id, study_group, classroom, type, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.db.ExecContext(ctx, query,
		sched.ID, sched.Date, sched.StartTime, sched.EndTime, sched.Subject,
		sched.TeacherID, sched.Group, sched.Classroom, sched.Type,
		sched.CreatedAt, sched.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "inserting schedule")
	}
	return repo.GetSchedule(ctx, sched.ID)
}

func (repo *scheduleRepository) GetSchedule(ctx context.Context, id string) (schedule.Schedule, error) {
	var row scheduleRow
	if err := repo.db.GetContext(ctx, &row, scheduleSelect+` WHERE s.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrNotFound
		}
		return schedule.Schedule{}, errors.Wrap(err, "getting schedule")
	}
	return row.toSchedule(), nil
}

func (repo *scheduleRepository) QuerySchedules(ctx context.Context, filter *schedule.QueryFilter) ([]schedule.Schedule, error) {
	query := scheduleSelect

	var clauses []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Group != "" {
			clauses = append(clauses, "s.study_group = "+arg(filter.Group))
		}
		if filter.TeacherID != "" {
			clauses = append(clauses, "s.teacher_id = "+arg(filter.TeacherID))
		}
		if filter.Date != "" {
			clauses = append(clauses, "s.date = "+arg(filter.Date))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY s.date ASC, s.start_time ASC"

	rows := make([]scheduleRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}

	scheds := make([]schedule.Schedule, 0, len(rows))
	for _, row := range rows {
		scheds = append(scheds, row.toSchedule())
	}
	return scheds, nil
}

func (repo *scheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	// attendance rows follow via ON DELETE CASCADE
	res, err := repo.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return schedule.ErrNotFound
	}
	return nil
}
