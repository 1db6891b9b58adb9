package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasa-app/darasa/core/attendance"
	"github.com/darasa-app/darasa/core/user"
)

func markBody(t *testing.T, scheduleID, date string, marks ...[3]string) []byte {
	t.Helper()
	records := make([]map[string]string, 0, len(marks))
	for _, m := range marks {
		rec := map[string]string{
			"student_id":  m[0],
			"schedule_id": scheduleID,
			"date":        date,
			"status":      m[1],
		}
		if m[2] != "" {
			rec["notes"] = m[2]
		}
		records = append(records, rec)
	}
	return marshalObj(t, map[string]interface{}{"records": records})
}

func TestAttendanceAPI_markGuards(t *testing.T) {
	deps := setupServer(t)

	student := createTestUser(t, deps.usrRepo, "Student", "stu@test.cd", "", user.RoleStudent, "G1")
	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")

	body := markBody(t, sched.ID, "2024-01-15", [3]string{student.ID, "present", ""})

	t.Run("anonymous", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/attendance/mark", body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d; want 401", rec.Code)
		}
	})

	t.Run("student forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", getToken(t, student), body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d; want 403", rec.Code)
		}
	})

	t.Run("teacher allowed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", getToken(t, teacher), body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Errorf("code = %d; want 201 (body: %s)", rec.Code, rec.Body.String())
		}
	})
}

func TestAttendanceAPI_markValidation(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	student := createTestUser(t, deps.usrRepo, "Student", "stu@test.cd", "", user.RoleStudent, "G1")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")
	sched2 := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-16")
	token := getToken(t, teacher)

	tests := []struct {
		name     string
		body     []byte
		wantCode int
	}{
		{
			name:     "empty records",
			body:     marshalObj(t, map[string]interface{}{"records": []interface{}{}}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad status",
			body:     markBody(t, sched.ID, "2024-01-15", [3]string{student.ID, "sick", ""}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad date",
			body:     markBody(t, sched.ID, "15/01/2024", [3]string{student.ID, "present", ""}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "mixed scopes",
			body: marshalObj(t, map[string]interface{}{"records": []map[string]string{
				{"student_id": student.ID, "schedule_id": sched.ID, "date": "2024-01-15", "status": "present"},
				{"student_id": student.ID, "schedule_id": sched2.ID, "date": "2024-01-16", "status": "present"},
			}}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown schedule",
			body:     markBody(t, "00000000-0000-0000-0000-000000000000", "2024-01-15", [3]string{student.ID, "present", ""}),
			wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", token, tt.body)
			deps.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d; want %d (body: %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if env := decodeEnvelope(t, rec); env.Status != "error" {
				t.Errorf("status = %q; want error", env.Status)
			}
		})
	}
}

func TestAttendanceAPI_markDefaultsUnmarkedToAbsent(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	alice := createTestUser(t, deps.usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, "G1")
	bob := createTestUser(t, deps.usrRepo, "Bob", "bob@test.cd", "", user.RoleStudent, "G1")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")

	body := markBody(t, sched.ID, "2024-01-15", [3]string{alice.ID, "present", ""})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", getToken(t, teacher), body)
	deps.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d; want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var recs []attendance.Record
	env := decodeData(t, rec, "attendance", &recs)
	if env.Results == nil || *env.Results != 2 {
		t.Errorf("results = %v; want 2", env.Results)
	}
	statuses := make(map[string]attendance.Status, len(recs))
	for _, r := range recs {
		statuses[r.StudentID] = r.Status
	}
	if statuses[alice.ID] != attendance.StatusPresent {
		t.Errorf("alice = %s; want present", statuses[alice.ID])
	}
	if statuses[bob.ID] != attendance.StatusAbsent {
		t.Errorf("bob = %s; want absent", statuses[bob.ID])
	}
}

func TestAttendanceAPI_markReplacesScope(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	alice := createTestUser(t, deps.usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, "G1")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")
	token := getToken(t, teacher)

	mark := func(status string) {
		t.Helper()
		body := markBody(t, sched.ID, "2024-01-15", [3]string{alice.ID, status, ""})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", token, body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d; want 201 (body: %s)", rec.Code, rec.Body.String())
		}
	}

	mark("late")
	mark("present") // re-marking replaces, never duplicates

	recs, err := deps.attRepo.QueryStudentRecords(context.Background(), alice.ID, "2024-01-15")
	if err != nil {
		t.Fatalf("QueryStudentRecords() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d; want 1", len(recs))
	}
	if recs[0].Status != attendance.StatusPresent {
		t.Errorf("status = %s; want present", recs[0].Status)
	}
}

func TestAttendanceAPI_studentRecordsAndSummary(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	alice := createTestUser(t, deps.usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, "G1")
	token := getToken(t, alice)

	sched1 := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")
	sched2 := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-16")

	teacherToken := getToken(t, teacher)
	for _, m := range []struct{ schedID, date, status string }{
		{sched1.ID, "2024-01-15", "present"},
		{sched2.ID, "2024-01-16", "late"},
	} {
		body := markBody(t, m.schedID, m.date, [3]string{alice.ID, m.status, ""})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", teacherToken, body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("mark failed: %s", rec.Body.String())
		}
	}

	t.Run("all records, newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/student/"+alice.ID, token)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
		}
		var recs []attendance.Record
		env := decodeData(t, rec, "attendance", &recs)
		if env.Results == nil || *env.Results != 2 {
			t.Fatalf("results = %v; want 2", env.Results)
		}
		if recs[0].Date != "2024-01-16" || recs[1].Date != "2024-01-15" {
			t.Errorf("dates = %s, %s; want newest first", recs[0].Date, recs[1].Date)
		}
	})

	t.Run("date filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/attendance/student/%s?date=2024-01-15", alice.ID), token)
		deps.server.ServeHTTP(rec, req)
		var recs []attendance.Record
		decodeData(t, rec, "attendance", &recs)
		if len(recs) != 1 || recs[0].Date != "2024-01-15" {
			t.Errorf("recs = %+v; want single 2024-01-15 record", recs)
		}
	})

	t.Run("unknown student is empty, not an error", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/student/unknown", token)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d; want 200", rec.Code)
		}
		var recs []attendance.Record
		env := decodeData(t, rec, "attendance", &recs)
		if len(recs) != 0 || env.Results == nil || *env.Results != 0 {
			t.Errorf("recs = %+v; want empty", recs)
		}
	})

	t.Run("summary", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/student/"+alice.ID+"/summary", token)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
		}
		var s attendance.Summary
		decodeData(t, rec, "summary", &s)
		want := attendance.Summary{Total: 2, Present: 1, Late: 1, AttendanceRate: 50}
		if s != want {
			t.Errorf("summary = %+v; want %+v", s, want)
		}
	})
}

func TestAttendanceAPI_scheduleRecords(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	// created out of name order on purpose
	zoe := createTestUser(t, deps.usrRepo, "Zoe", "zoe@test.cd", "", user.RoleStudent, "G1")
	alice := createTestUser(t, deps.usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, "G1")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")
	token := getToken(t, teacher)

	body := markBody(t, sched.ID, "2024-01-15",
		[3]string{zoe.ID, "present", ""},
		[3]string{alice.ID, "late", ""},
	)
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", token, body)
	deps.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("mark failed: %s", rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/schedule/"+sched.ID, token)
	deps.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	var recs []attendance.Record
	decodeData(t, rec, "attendance", &recs)
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d; want 2", len(recs))
	}
	if recs[0].StudentName != "Alice" || recs[1].StudentName != "Zoe" {
		t.Errorf("ordering = %s, %s; want by student name", recs[0].StudentName, recs[1].StudentName)
	}
}

func TestAttendanceAPI_export(t *testing.T) {
	deps := setupServer(t)

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	alice := createTestUser(t, deps.usrRepo, "Alice", "alice@test.cd", "", user.RoleStudent, "G1")
	sched := createTestSchedule(t, deps.schedRepo, teacher.ID, "G1", "2024-01-15")
	token := getToken(t, teacher)

	body := markBody(t, sched.ID, "2024-01-15", [3]string{alice.ID, "present", ""})
	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance/mark", token, body)
	deps.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("mark failed: %s", rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/schedule/"+sched.ID+"/export", token)
	deps.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q; want %q", ct, xlsxContentType)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty workbook body")
	}

	t.Run("students may not export", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/schedule/"+sched.ID+"/export", getToken(t, alice))
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d; want 403", rec.Code)
		}
	})
}
