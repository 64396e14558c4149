package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-registration-service/internal/adapter/db/postgres"
	"user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/adapter/gin/router"
	"user-registration-service/internal/usecase/auth"
	"user-registration-service/internal/usecase/profile"
	"user-registration-service/pkg/token"
)

// fakePhotoStore keeps uploaded blobs in memory and signs URLs with a fixed
// prefix so responses can be asserted against stored keys.
type fakePhotoStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{objects: map[string][]byte{}}
}

func (f *fakePhotoStore) Upload(_ context.Context, r io.Reader, name, _ string) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	key := fmt.Sprintf("user-photos/%d-%s", f.seq, name)
	f.objects[key] = body
	return key, nil
}

func (f *fakePhotoStore) Delete(_ context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, locator)
	return nil
}

func (f *fakePhotoStore) SignedURL(_ context.Context, locator string, _ time.Duration) (string, error) {
	if locator == "" {
		return "", nil
	}
	return "https://cdn.test/" + locator, nil
}

func (f *fakePhotoStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeNotifier records welcome mail recipients.
type fakeNotifier struct {
	mu         sync.Mutex
	recipients []string
}

func (f *fakeNotifier) SendWelcome(to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipients = append(f.recipients, to)
	return nil
}

// UserAPIIntegrationTestSuite exercises the full router against a real
// in-memory database.
type UserAPIIntegrationTestSuite struct {
	suite.Suite
	engine   http.Handler
	photos   *fakePhotoStore
	notifier *fakeNotifier
	issuer   *token.Issuer
}

func (s *UserAPIIntegrationTestSuite) SetupTest() {
	log := zaptest.NewLogger(s.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&postgres.UserSchema{}))

	repo := postgres.NewUserRepoPG(db, log)
	s.photos = newFakePhotoStore()
	s.notifier = &fakeNotifier{}
	s.issuer = token.NewIssuer("integration-secret", time.Hour)

	authUC := auth.New(repo, s.photos, s.notifier, s.issuer, log)
	profileUC := profile.New(repo, s.photos, log)

	uploadDir := s.T().TempDir()
	authHandler := handler.NewAuthHandler(authUC, uploadDir, log)
	userHandler := handler.NewUserHandler(profileUC, uploadDir, log)

	s.engine = router.SetupRouter(authHandler, userHandler, s.issuer, router.Config{
		FrontendOrigin: "http://localhost:3000",
		UploadDir:      uploadDir,
	}, log)
}

func (s *UserAPIIntegrationTestSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func (s *UserAPIIntegrationTestSuite) registerUser(email string) (tok string, userID string) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"email":     email,
		"password":  "secret1",
		"dob":       "1990-05-01",
		"gender":    "male",
	}
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	s.Require().NoError(w.WriteField("hobbies", "chess"))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	s.Require().NoError(err)
	_, err = part.Write([]byte("png-bytes"))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := s.do(req)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func (s *UserAPIIntegrationTestSuite) TestHealth() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "healthy")
}

func (s *UserAPIIntegrationTestSuite) TestRegisterLoginFlow() {
	tok, userID := s.registerUser("john@example.com")
	s.NotEmpty(tok)
	s.NotEmpty(userID)
	s.Equal([]string{"john@example.com"}, s.notifier.recipients)
	s.Equal(1, s.photos.count())

	body, _ := json.Marshal(map[string]string{"email": "john@example.com", "password": "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "https://cdn.test/user-photos/")
}

func (s *UserAPIIntegrationTestSuite) TestRegisterDuplicateEmail() {
	s.registerUser("dup@example.com")

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range map[string]string{
		"firstName": "Jane", "lastName": "Doe", "email": "dup@example.com",
		"password": "secret1", "dob": "1991-02-02", "gender": "female",
	} {
		s.Require().NoError(w.WriteField(k, v))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	s.Require().NoError(err)
	_, _ = part.Write([]byte("png"))
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/auth/register", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := s.do(req)

	s.Equal(http.StatusBadRequest, rec.Code)
	// Second blob must not survive the failed registration
	s.Equal(1, s.photos.count())
}

func (s *UserAPIIntegrationTestSuite) TestProtectedRoutesRequireToken() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/users", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	s.Equal(http.StatusUnauthorized, s.do(req).Code)
}

func (s *UserAPIIntegrationTestSuite) TestListAndProfile() {
	tok, userID := s.registerUser("list@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := s.do(req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"count":1`)
	s.Contains(rec.Body.String(), "https://cdn.test/user-photos/")
	s.NotContains(rec.Body.String(), `"password"`)

	req = httptest.NewRequest(http.MethodGet, "/users/profile/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = s.do(req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"id":"`+userID+`"`)
}

func (s *UserAPIIntegrationTestSuite) TestUpdateUser() {
	tok, userID := s.registerUser("update@example.com")

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	s.Require().NoError(w.WriteField("firstName", "Jane"))
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPut, "/users/"+userID, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"firstName":"Jane"`)
	// Untouched photo keeps its original blob
	s.Equal(1, s.photos.count())
}

func (s *UserAPIIntegrationTestSuite) TestDeleteUser() {
	tok, userID := s.registerUser("delete@example.com")

	req := httptest.NewRequest(http.MethodDelete, "/users/"+userID, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := s.do(req)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(0, s.photos.count())

	req = httptest.NewRequest(http.MethodGet, "/users/"+userID, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	s.Equal(http.StatusNotFound, s.do(req).Code)
}

func TestUserAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserAPIIntegrationTestSuite))
}
