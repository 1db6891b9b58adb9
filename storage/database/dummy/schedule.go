package dummydb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core/schedule"
)

type scheduleRepository struct {
	db    *scheduleTable
	users *userTable
	att   *attendanceTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule, users: db.user, att: db.attendance}
}

func (repo *scheduleRepository) CreateSchedule(_ context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// the id column is the primary key; callers assign it
	if sched.ID == "" {
		return schedule.Schedule{}, errors.New("invalid input syntax for type uuid")
	}
	stored := sched
	stored.TeacherName = "" // join field, not stored
	repo.db.table[stored.ID] = &stored

	sched.TeacherName = repo.teacherName(sched.TeacherID)
	return sched, nil
}

func (repo *scheduleRepository) GetSchedule(_ context.Context, id string) (schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sched, ok := repo.db.table[id]
	if !ok {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	out := *sched
	out.TeacherName = repo.teacherName(out.TeacherID)
	return out, nil
}

func (repo *scheduleRepository) QuerySchedules(_ context.Context, filter *schedule.QueryFilter) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	scheds := make([]schedule.Schedule, 0, len(repo.db.table))
	for _, sched := range repo.db.table {
		if filter != nil {
			if filter.Group != "" && sched.Group != filter.Group {
				continue
			}
			if filter.TeacherID != "" && sched.TeacherID != filter.TeacherID {
				continue
			}
			if filter.Date != "" && sched.Date != filter.Date {
				continue
			}
		}
		out := *sched
		out.TeacherName = repo.teacherName(out.TeacherID)
		scheds = append(scheds, out)
	}

	sort.Slice(scheds, func(i, j int) bool {
		if scheds[i].Date != scheds[j].Date {
			return scheds[i].Date < scheds[j].Date
		}
		return scheds[i].StartTime < scheds[j].StartTime
	})
	return scheds, nil
}

func (repo *scheduleRepository) DeleteSchedule(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return schedule.ErrNotFound
	}
	delete(repo.db.table, id)

	// cascade, as the FK does in SQL
	repo.att.Lock()
	defer repo.att.Unlock()
	for recID, rec := range repo.att.table {
		if rec.ScheduleID == id {
			delete(repo.att.table, recID)
		}
	}
	return nil
}

func (repo *scheduleRepository) teacherName(teacherID string) string {
	repo.users.RLock()
	defer repo.users.RUnlock()
	if usr, ok := repo.users.table[teacherID]; ok {
		return usr.Name
	}
	return ""
}
