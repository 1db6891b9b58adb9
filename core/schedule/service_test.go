package schedule

import (
	"context"
	"testing"
)

// fakeRepo records what the service hands to the storage layer.
type fakeRepo struct {
	created []Schedule
}

func (r *fakeRepo) CreateSchedule(_ context.Context, sched Schedule) (Schedule, error) {
	r.created = append(r.created, sched)
	return sched, nil
}
func (r *fakeRepo) GetSchedule(_ context.Context, _ string) (Schedule, error) {
	return Schedule{}, ErrNotFound
}
func (r *fakeRepo) QuerySchedules(_ context.Context, _ *QueryFilter) ([]Schedule, error) {
	return nil, nil
}
func (r *fakeRepo) DeleteSchedule(_ context.Context, _ string) error { return nil }

func TestService_Create(t *testing.T) {
	repo := new(fakeRepo)
	svc := NewService(repo, nil)

	sched, err := svc.Create(context.Background(), NewSchedule{
		Date:      "2024-01-15",
		StartTime: "10:00",
		EndTime:   "11:30",
		Subject:   "Algorithms",
		TeacherID: "t1",
		Group:     "G1",
		Classroom: "Room 101",
		Type:      TypeLecture,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// the storage layer stores the primary key verbatim
	if sched.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if len(repo.created) != 1 || repo.created[0].ID != sched.ID {
		t.Errorf("repository received ID %q; want %q", repo.created[0].ID, sched.ID)
	}
	if sched.CreatedAt.IsZero() || sched.UpdatedAt.IsZero() {
		t.Error("Create() timestamps not set")
	}
}
