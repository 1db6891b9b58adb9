package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/darasa-app/darasa/core/news"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
)

const seedPassword = "ChangeMe.123"

// seed wipes the database and loads development fixtures: a handful of
// users, one week of schedules and a few announcements.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	for _, table := range []string{"attendance_records", "news", "schedules", "users"} {
		if _, err := cli.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	newUser := func(name, email string, role user.Role, group string) (user.User, error) {
		usr := user.User{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			Role:      role,
			Group:     group,
			CreatedAt: now,
			UpdatedAt: now,
		}
		usr.SetActive(true)
		if err := usr.SetPassword(seedPassword); err != nil {
			return user.User{}, err
		}
		return cli.usrRepo.CreateUser(ctx, usr)
	}

	if _, err := newUser("John Doe", "student@school.example", user.RoleStudent, "Frontend-2024"); err != nil {
		return err
	}
	teacher1, err := newUser("Peter Parker", "teacher@school.example", user.RoleTeacher, "")
	if err != nil {
		return err
	}
	admin, err := newUser("System Administrator", "admin@school.example", user.RoleAdmin, "")
	if err != nil {
		return err
	}
	if _, err = newUser("Mary Major", "student2@school.example", user.RoleStudent, "Frontend-2024"); err != nil {
		return err
	}
	teacher2, err := newUser("Anna Smith", "teacher2@school.example", user.RoleTeacher, "")
	if err != nil {
		return err
	}

	scheds := []schedule.Schedule{
		{Date: "2024-01-15", StartTime: "10:00", EndTime: "11:30", Subject: "React Native", TeacherID: teacher1.ID, Group: "Frontend-2024", Classroom: "Room 101", Type: schedule.TypeLecture},
		{Date: "2024-01-15", StartTime: "12:00", EndTime: "13:30", Subject: "JavaScript Advanced", TeacherID: teacher2.ID, Group: "Frontend-2024", Classroom: "Room 102", Type: schedule.TypePractice},
		{Date: "2024-01-16", StartTime: "09:00", EndTime: "10:30", Subject: "TypeScript", TeacherID: teacher1.ID, Group: "Frontend-2024", Classroom: "Room 201", Type: schedule.TypeLecture},
		{Date: "2024-01-16", StartTime: "11:00", EndTime: "12:30", Subject: "Node.js", TeacherID: teacher2.ID, Group: "Backend-2024", Classroom: "Room 103", Type: schedule.TypeLab},
	}
	for _, sched := range scheds {
		sched.ID = uuid.NewString()
		sched.CreatedAt = now
		sched.UpdatedAt = now
		if _, err = cli.schedRepo.CreateSchedule(ctx, sched); err != nil {
			return err
		}
	}

	items := []news.News{
		{
			Title:        "Welcome to the new school year!",
			Content:      "We are pleased to welcome all students and teachers to the new school year. Good luck with your studies and teaching!",
			AuthorID:     admin.ID,
			TargetGroups: []string{"Frontend-2024", "Backend-2024", "Design-2024"},
		},
		{
			Title:    "Schedule announcement",
			Content:  "Please note: Friday classes start one hour later due to maintenance work.",
			AuthorID: admin.ID,
		},
	}
	for _, n := range items {
		n.ID = uuid.NewString()
		n.CreatedAt = now
		n.UpdatedAt = now
		if _, err = cli.newsRepo.CreateNews(ctx, n); err != nil {
			return err
		}
	}

	logger.Println("fixtures loaded")
	return nil
}
