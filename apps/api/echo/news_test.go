package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/darasa-app/darasa/core/news"
	"github.com/darasa-app/darasa/core/user"
	emailsvc "github.com/darasa-app/darasa/services/email"
)

func TestNewsAPI_create(t *testing.T) {
	deps := setupServer(t)
	emailsvc.ClearSentMessages()

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	student := createTestUser(t, deps.usrRepo, "Student One", "stu1@test.cd", "", user.RoleStudent, "G1")
	createTestUser(t, deps.usrRepo, "Student Two", "stu2@test.cd", "", user.RoleStudent, "G2")

	body := marshalObj(t, map[string]interface{}{
		"title":         "Exam week",
		"content":       "Midterms start Monday.",
		"target_groups": []string{"G1"},
	})

	t.Run("student forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/news", getToken(t, student), body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d; want 403", rec.Code)
		}
	})

	t.Run("teacher publishes, author from token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/news", getToken(t, teacher), body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d (body: %s)", rec.Code, rec.Body.String())
		}
		var item news.News
		decodeData(t, rec, "news", &item)
		if item.ID == "" || item.AuthorID != teacher.ID {
			t.Errorf("news = %+v", item)
		}
		if item.AuthorName != "Teacher" {
			t.Errorf("AuthorName = %q; want Teacher", item.AuthorName)
		}
	})

	t.Run("targeted students get mail", func(t *testing.T) {
		// the broadcast runs off the request path
		deadline := time.Now().Add(2 * time.Second)
		for {
			msgs := emailsvc.GetSentMessages()
			if len(msgs) > 0 {
				msg := msgs[len(msgs)-1]
				if len(msg.To) != 1 || msg.To[0] != student.Email {
					t.Errorf("To = %v; want [%s]", msg.To, student.Email)
				}
				if msg.Subject != "Exam week" {
					t.Errorf("Subject = %q", msg.Subject)
				}
				return
			}
			if time.Now().After(deadline) {
				t.Fatal("no broadcast email sent")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		bad := marshalObj(t, map[string]string{"title": "No content"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/news", getToken(t, teacher), bad)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d; want 400", rec.Code)
		}
	})
}

func TestNewsAPI_query(t *testing.T) {
	deps := setupServer(t)
	emailsvc.ClearSentMessages()

	teacher := createTestUser(t, deps.usrRepo, "Teacher", "tea@test.cd", "", user.RoleTeacher, "")
	student := createTestUser(t, deps.usrRepo, "Student", "stu@test.cd", "", user.RoleStudent, "G1")
	token := getToken(t, teacher)

	publish := func(title string, groups []string) {
		t.Helper()
		body := marshalObj(t, map[string]interface{}{
			"title":         title,
			"content":       "content",
			"target_groups": groups,
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/news", token, body)
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("publishing %q: %s", title, rec.Body.String())
		}
	}
	publish("For everyone", nil)
	publish("For G1", []string{"G1"})
	publish("For G2", []string{"G2"})

	titles := func(items []news.News) []string {
		out := make([]string, len(items))
		for i, n := range items {
			out[i] = n.Title
		}
		return out
	}

	t.Run("all, newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/news", getToken(t, student))
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		var items []news.News
		env := decodeData(t, rec, "news", &items)
		if env.Results == nil || *env.Results != 3 {
			t.Fatalf("results = %v; want 3", env.Results)
		}
		want := []string{"For G2", "For G1", "For everyone"}
		for i, title := range titles(items) {
			if title != want[i] {
				t.Errorf("items[%d] = %q; want %q", i, title, want[i])
			}
		}
	})

	t.Run("group sees its own plus untargeted", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/news/group/G1", getToken(t, student))
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d", rec.Code)
		}
		var items []news.News
		env := decodeData(t, rec, "news", &items)
		if env.Results == nil || *env.Results != 2 {
			t.Fatalf("results = %v; want 2 (got %v)", env.Results, titles(items))
		}
		for _, title := range titles(items) {
			if title == "For G2" {
				t.Error("G2-only announcement leaked into G1 feed")
			}
		}
	})

	t.Run("unknown group sees untargeted only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/news/group/G9", getToken(t, student))
		deps.server.ServeHTTP(rec, req)
		var items []news.News
		env := decodeData(t, rec, "news", &items)
		if env.Results == nil || *env.Results != 1 || items[0].Title != "For everyone" {
			t.Errorf("items = %v", titles(items))
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/news")
		deps.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d; want 401", rec.Code)
		}
	})
}
