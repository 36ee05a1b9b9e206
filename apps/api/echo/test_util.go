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

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/vvladislovv/GreMiuv/core"
	"github.com/vvladislovv/GreMiuv/core/identity"
	"github.com/vvladislovv/GreMiuv/core/ranking"
	"github.com/vvladislovv/GreMiuv/core/student"
	"github.com/vvladislovv/GreMiuv/storage/database/inmem"
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

// fakeBackend stands in for the remote grade-book service. Unset hooks fail
// the calling test.
type fakeBackend struct {
	t *testing.T

	studentByFIO     func(fio string) (student.Student, error)
	subjects         func(fio string) ([]student.Subject, error)
	stats            func(fio string) (student.Stats, error)
	grades           func(fio string, subjectID int) (student.GradesData, error)
	subjectsRatings  func(fio string) ([]student.SubjectRating, error)
	fioByHostSession func(initData string) (identity.HostIdentity, error)
	gradesRating     func(groupID int) ([]ranking.GradeEntry, error)
	absencesRating   func(groupID int) ([]ranking.AbsenceEntry, error)
}

var (
	_ student.Client  = (*fakeBackend)(nil)
	_ identity.Lookup = (*fakeBackend)(nil)
	_ ranking.Fetcher = (*fakeBackend)(nil)
)

func (f *fakeBackend) StudentByFIO(_ context.Context, fio string) (student.Student, error) {
	if f.studentByFIO == nil {
		f.t.Fatal("unexpected StudentByFIO call")
	}
	return f.studentByFIO(fio)
}

func (f *fakeBackend) Subjects(_ context.Context, fio string) ([]student.Subject, error) {
	if f.subjects == nil {
		f.t.Fatal("unexpected Subjects call")
	}
	return f.subjects(fio)
}

func (f *fakeBackend) Stats(_ context.Context, fio string) (student.Stats, error) {
	if f.stats == nil {
		f.t.Fatal("unexpected Stats call")
	}
	return f.stats(fio)
}

func (f *fakeBackend) Grades(_ context.Context, fio string, subjectID int) (student.GradesData, error) {
	if f.grades == nil {
		f.t.Fatal("unexpected Grades call")
	}
	return f.grades(fio, subjectID)
}

func (f *fakeBackend) SubjectsRatings(_ context.Context, fio string) ([]student.SubjectRating, error) {
	if f.subjectsRatings == nil {
		f.t.Fatal("unexpected SubjectsRatings call")
	}
	return f.subjectsRatings(fio)
}

func (f *fakeBackend) FIOByHostSession(_ context.Context, initData string) (identity.HostIdentity, error) {
	if f.fioByHostSession == nil {
		f.t.Fatal("unexpected FIOByHostSession call")
	}
	return f.fioByHostSession(initData)
}

func (f *fakeBackend) GradesRating(_ context.Context, groupID int) ([]ranking.GradeEntry, error) {
	if f.gradesRating == nil {
		f.t.Fatal("unexpected GradesRating call")
	}
	return f.gradesRating(groupID)
}

func (f *fakeBackend) AbsencesRating(_ context.Context, groupID int) ([]ranking.AbsenceEntry, error) {
	if f.absencesRating == nil {
		f.t.Fatal("unexpected AbsencesRating call")
	}
	return f.absencesRating(groupID)
}

func newTestConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Gremiuv",
		SecretKey: "secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: 10 * time.Minute,
			SessionIdleDelta:   30 * time.Minute,
		},
	}
}

func newTestServer(t *testing.T, backend *fakeBackend) *Server {
	backend.t = t

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	return NewServer(ServerDeps{
		Conf:       newTestConfig(),
		Logger:     core.NopLogger{},
		Lookup:     backend,
		Store:      inmem.NewHostIdentityRepository(),
		StudentSvc: student.NewService(backend),
		Rankings:   ranking.NewCache(backend, time.Minute),
		Validate:   validate,
		Translator: translator,
	})
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

func getToken(t *testing.T, sessionID, fio string) string {
	claims := GetSessionClaims(sessionID, fio)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
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

func jsonDiff(b1, b2 []byte) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(b1)),
		B:        difflib.SplitLines(string(b2)),
		FromFile: "got",
		ToFile:   "want",
		Context:  2,
	})
	return diff
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data mismatch:\n%s", jsonDiff(rec.Body.Bytes(), tt.wantData))
	}
}
