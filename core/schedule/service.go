package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
)

var ErrNotFound = errors.New("schedule not found")

type (
	Repository interface {
		CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
		GetSchedule(ctx context.Context, id string) (Schedule, error)
		// QuerySchedules applies AND operation on available QueryFilter fields,
		// ordered by date then start time ascending.
		QuerySchedules(ctx context.Context, filter *QueryFilter) ([]Schedule, error)
		// DeleteSchedule removes the schedule; attendance records scoped to it
		// are removed with it.
		DeleteSchedule(ctx context.Context, id string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewSchedule) (Schedule, error)
		GetByID(ctx context.Context, id string) (Schedule, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Schedule, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo   Repository
		broker *core.Broker // optional
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, broker *core.Broker) Service {
	return &service{repo: repo, broker: broker}
}

func (svc *service) Create(ctx context.Context, ns NewSchedule) (Schedule, error) {
	now := time.Now().UTC()
	sched, err := svc.repo.CreateSchedule(ctx, Schedule{
		ID:        uuid.NewString(),
		Date:      ns.Date,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
		Subject:   ns.Subject,
		TeacherID: ns.TeacherID,
		Group:     ns.Group,
		Classroom: ns.Classroom,
		Type:      ns.Type,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Schedule{}, err
	}
	if svc.broker != nil {
		svc.broker.Publish(core.EventScheduleCreated, sched)
	}
	return sched, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Schedule, error) {
	return svc.repo.GetSchedule(ctx, core.CleanString(id))
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Schedule, error) {
	return svc.repo.QuerySchedules(ctx, filter)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteSchedule(ctx, core.CleanString(id))
}
