package user

import (
	"context"
	"testing"

	"github.com/darasa-app/darasa/core"
)

// fakeRepo records what the service hands to the storage layer.
type fakeRepo struct {
	created []User
}

func (r *fakeRepo) CheckEmailUniqueness(_ context.Context, _ string, _ ...User) error { return nil }
func (r *fakeRepo) CreateUser(_ context.Context, usr User) (User, error) {
	r.created = append(r.created, usr)
	return usr, nil
}
func (r *fakeRepo) GetUser(_ context.Context, _ GetFilter) (User, error) {
	return User{}, ErrNotFound
}
func (r *fakeRepo) QueryUsers(_ context.Context, _ *QueryFilter, _ []core.DBOrdering) ([]User, error) {
	return nil, nil
}
func (r *fakeRepo) UpdateUser(_ context.Context, usr User, _ *bool) (User, error) { return usr, nil }
func (r *fakeRepo) DeleteUsersByID(_ context.Context, _ ...string) error          { return nil }

func TestService_Create(t *testing.T) {
	repo := new(fakeRepo)
	svc := NewService(repo, nil, &core.Config{})

	usr, err := svc.Create(context.Background(), NewUser{
		Name:     "John Doe",
		Email:    "john@test.cd",
		Password: "Sup3r.Secret!",
		Role:     RoleStudent,
		Group:    "G1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// the storage layer stores the primary key verbatim
	if usr.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if len(repo.created) != 1 || repo.created[0].ID != usr.ID {
		t.Errorf("repository received ID %q; want %q", repo.created[0].ID, usr.ID)
	}
	if !usr.Active() {
		t.Error("Create() user is not active")
	}
	if err = usr.CheckPassword("Sup3r.Secret!"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}
	if usr.CreatedAt.IsZero() || usr.UpdatedAt.IsZero() {
		t.Error("Create() timestamps not set")
	}
}
