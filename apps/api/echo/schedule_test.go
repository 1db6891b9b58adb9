package echoapi

import (
	"net/http"
	"testing"

	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
)

func TestScheduleAPI_query(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	other := createTestUser(t, deps.usrRepo, "Other", "other@test.cd", "", user.RoleTeacher, "")
	student := createTestUser(t, deps.usrRepo, "Student", "stu@test.cd", "", user.RoleStudent, "G1")

	createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-16")
	createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")
	createTestSchedule(t, deps.schedRepo, other.ID, "G2", "2024-01-15")

	token := getToken(t, student)

	tests := []struct {
		name        string
		path        string
		wantResults int
	}{
		{name: "all, ordered by date", path: "/v1/schedule", wantResults: 3},
		{name: "group filter", path: "/v1/schedule?group=G1", wantResults: 2},
		{name: "teacher filter", path: "/v1/schedule?teacher_id=" + other.ID, wantResults: 1},
		{name: "date filter", path: "/v1/schedule?date=2024-01-16", wantResults: 1},
		{name: "no match", path: "/v1/schedule?group=G9", wantResults: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			deps.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
			}
			var scheds []schedule.Schedule
			env := decodeData(t, rec, "schedules", &scheds)
			if env.Results == nil || *env.Results != tt.wantResults {
				t.Errorf("results = %v; want %d", env.Results, tt.wantResults)
			}
			for i := 1; i < len(scheds); i++ {
				if scheds[i-1].Date > scheds[i].Date {
					t.Errorf("schedules out of date order: %s > %s", scheds[i-1].Date, scheds[i].Date)
				}
			}
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/schedule")
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d; want 401", rec.Code)
		}
	})
}

func TestScheduleAPI_create(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	student := createTestUser(t, deps.usrRepo, "Student", "stu@test.cd", "", user.RoleStudent, "G1")

	body := marshalObj(t, map[string]string{
		"date":       "2024-01-15",
		"start_time": "10:00",
		"end_time":   "11:30",
		"subject":    "Algorithms",
		"teacher_id": teacher.ID,
		"group":      "G1",
		"classroom":  "Room 101",
		"type":       "lecture",
	})

	t.Run("student forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schedule", getToken(t, student), body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d; want 403", rec.Code)
		}
	})

	t.Run("teacher creates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/schedule", getToken(t, teacher), body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
		}
		var sched schedule.Schedule
		decodeData(t, rec, "schedule", &sched)
		if sched.ID == "" || sched.Type != schedule.TypeLecture {
			t.Errorf("schedule = %+v", sched)
		}
		if sched.TeacherName != "Teacher" {
			t.Errorf("TeacherName = %q; want Teacher", sched.TeacherName)
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		bad := marshalObj(t, map[string]string{"date": "15/01/2024", "type": "seminar"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/schedule", getToken(t, teacher), bad)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d; want 400 (body: %s)", rec.Code, rec.Body.String())
		}
	})
}

func TestScheduleAPI_destroy(t *testing.T) {
	deps := setupServer(t)

	admin := createTestUser(t, deps.usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, "")
	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	alice := createTestUser(t, deps.usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, "G1")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")

	// attendance for the schedule goes with it
	body := markBody(t, sched.ID, "2024-01-15", [3]string{alice.ID, "present", ""})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", getToken(t, teacher), body)
	deps.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("mark failed: %s", rec.Body.String())
	}

	t.Run("teacher forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/schedule/"+sched.ID, getToken(t, teacher))
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d; want 403", rec.Code)
		}
	})

	t.Run("admin deletes, cascade", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/schedule/"+sched.ID, getToken(t, admin))
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/student/"+alice.ID, getToken(t, alice))
		deps.server.ServeHTTP(rec, req)
		var recs []interface{}
		decodeData(t, rec, "attendance", &recs)
		if len(recs) != 0 {
			t.Errorf("len(recs) = %d; want 0 after cascade", len(recs))
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/schedule/nope", getToken(t, admin))
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %d; want 404", rec.Code)
		}
	})
}
