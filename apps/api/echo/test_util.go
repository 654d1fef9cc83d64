package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/academiplan/backend/core"
	"github.com/academiplan/backend/core/attendance"
	"github.com/academiplan/backend/core/subject"
	"github.com/academiplan/backend/core/user"
	dummymail "github.com/academiplan/backend/services/email/dummy"
	dummydb "github.com/academiplan/backend/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testServices struct {
	usrSvc user.ServiceInterface
	subSvc subject.ServiceInterface
	attSvc attendance.ServiceInterface
}

// testLogger drops everything; handler tests assert on responses, not logs.
type testLogger struct{}

func (testLogger) Enable(bool)                        {}
func (testLogger) Debug(string, ...interface{})       {}
func (testLogger) Info(string, ...interface{})        {}
func (testLogger) Warn(string, ...interface{})        {}
func (testLogger) Error(string, ...interface{})       {}
func (testLogger) Fatal(msg string, _ ...interface{}) {}

func newTestServer(t *testing.T) (Server, testServices) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestServer(): %v", err)
	}

	conf := &core.Config{
		TestMode:        true,
		Env:             "TEST",
		AppName:         "AcademiPlan",
		SecretKey:       []byte("secret"),
		FrontendBaseURL: "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
	svcs := testServices{
		usrSvc: user.NewService(dummydb.NewUserRepository(db), dummymail.NewService(), conf),
		subSvc: subject.NewService(dummydb.NewSubjectRepository(db)),
		attSvc: attendance.NewService(dummydb.NewAttendanceRepository(db)),
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         testLogger{},
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		UserSvc:        svcs.usrSvc,
		SubjectSvc:     svcs.subSvc,
		AttendanceSvc:  svcs.attSvc,
	})
	return app, svcs
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

func registerUser(t *testing.T, svc user.ServiceInterface, uname, pwd string) user.User {
	usr, err := svc.Register(context.Background(), user.NewUser{Username: uname, Password: pwd})
	if err != nil {
		t.Fatalf("registerUser(): %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func createSubject(t *testing.T, svc subject.ServiceInterface, userID string, ns subject.NewSubject) subject.ProjectedSubject {
	sub, err := svc.Create(context.Background(), userID, ns)
	if err != nil {
		t.Fatalf("createSubject(): %v", err)
	}
	return sub
}

func markAttendance(t *testing.T, svc attendance.ServiceInterface, userID, subjectID, status string) attendance.Event {
	ev, err := svc.Mark(context.Background(), userID, attendance.MarkAttendance{SubjectID: subjectID, Status: status})
	if err != nil {
		t.Fatalf("markAttendance(): %v", err)
	}
	return ev
}

func intPtr(i int) *int { return &i }

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
