package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	"github.com/google/uuid"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/attendance"
	"github.com/darasa-app/darasa/core/news"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
	emailsvc "github.com/darasa-app/darasa/services/email"
	dummydb "github.com/darasa-app/darasa/storage/database/dummy"
)

type testDeps struct {
	server    Server
	db        *dummydb.DB
	usrRepo   user.Repository
	schedRepo schedule.Repository
	attRepo   attendance.Repository
	newsRepo  news.Repository
	usrSvc    user.Service
	broker    *core.Broker
}

// testLogger drops everything; handler tests assert on responses, not logs.
type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		AppName:   "Darasa",
		SecretKey: "secret",
		Server: core.ServerConfig{
			Host:                      "localhost",
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
	}
}

func setupServer(t *testing.T) *testDeps {
	t.Helper()

	conf := testConfig()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setupServer() failed: %v", err)
	}

	usrRepo := dummydb.NewUserRepository(db)
	schedRepo := dummydb.NewScheduleRepository(db)
	attRepo := dummydb.NewAttendanceRepository(db)
	newsRepo := dummydb.NewNewsRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	logger := testLogger{}
	broker := core.NewBroker()

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	schedSvc := schedule.NewService(schedRepo, broker)
	newsSvc := news.NewService(newsRepo, usrSvc, mailSvc, broker, logger)
	attSvc := attendance.NewService(attRepo, schedRepo, nil, broker)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		ScheduleSvc:   schedSvc,
		NewsSvc:       newsSvc,
		AttendanceSvc: attSvc,
		Validate:      validate,
		Translator:    translator,
	})

	return &testDeps{
		server:    server,
		db:        db,
		usrRepo:   usrRepo,
		schedRepo: schedRepo,
		attRepo:   attRepo,
		newsRepo:  newsRepo,
		usrSvc:    usrSvc,
		broker:    broker,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createTestUser(t *testing.T, repo user.Repository, name, email, pwd string, role user.Role, group string) user.User {
	t.Helper()
	now := time.Now().UTC()
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
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createTestUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createTestUser() failed: %v", err)
	}
	return usr
}

func createTestSchedule(t *testing.T, repo schedule.Repository, teacherID, group, date string) schedule.Schedule {
	t.Helper()
	now := time.Now().UTC()
	sched, err := repo.CreateSchedule(context.Background(), schedule.Schedule{
		ID:        uuid.NewString(),
		Date:      date,
		StartTime: "10:00",
		EndTime:   "11:30",
		Subject:   "Algorithms",
		TeacherID: teacherID,
		Group:     group,
		Classroom: "Room 101",
		Type:      schedule.TypeLecture,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createTestSchedule() failed: %v", err)
	}
	return sched
}

// envelope mirrors the success/error response shapes for assertions.
type envelope struct {
	Status  string          `json:"status"`
	Results *int            `json:"results"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, key string, into interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	var data map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decoding data: %v (body: %s)", err, rec.Body.String())
	}
	raw, ok := data[key]
	if !ok {
		t.Fatalf("data key %q missing (body: %s)", key, rec.Body.String())
	}
	if err := json.Unmarshal(raw, into); err != nil {
		t.Fatalf("decoding data.%s: %v", key, err)
	}
	return env
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}
