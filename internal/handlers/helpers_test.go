package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/handlers"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/media"
	appmiddleware "github.com/AbhinavKRN/microsocial-native-assignment/internal/middleware"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/router"
	"github.com/AbhinavKRN/microsocial-native-assignment/internal/token"
	"github.com/AbhinavKRN/microsocial-native-assignment/validators"
	"github.com/labstack/echo/v4"
)

// testEnv wires the handlers against in-memory fakes, mirroring the route
// layout the router sets up in production
type testEnv struct {
	e      *echo.Echo
	users  *fakeUserRepo
	posts  *fakePostRepo
	issuer *token.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = router.HTTPErrorHandler

	users := newFakeUserRepo()
	posts := newFakePostRepo()
	issuer := token.NewIssuer("test-secret", time.Hour)
	store, err := media.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	guard := appmiddleware.JWTAuth(issuer)

	authHandler := handlers.NewAuthHandler(users, issuer, nil)
	authHandler.RegisterPublicRoutes(e.Group("/auth"))
	authHandler.RegisterProtectedRoutes(e.Group("/auth", guard))

	postHandler := handlers.NewPostHandler(posts, users, store)
	postHandler.RegisterPostRoutes(e.Group("/posts", guard))

	userHandler := handlers.NewUserHandler(users, posts)
	userHandler.RegisterUserRoutes(e.Group("/users", guard))

	return &testEnv{e: e, users: users, posts: posts, issuer: issuer}
}

// envelope mirrors the API response wrapper for assertions
type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
	Errors  []string                   `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope from %q: %v", rec.Body.String(), err)
	}
	return env
}

func dataField(t *testing.T, env envelope, key string, out interface{}) {
	t.Helper()
	raw, ok := env.Data[key]
	if !ok {
		t.Fatalf("response data has no %q field: %v", key, env.Data)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decoding data.%s: %v", key, err)
	}
}

func (env *testEnv) doJSON(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doMultipart(method, path, bearer string, fields map[string]string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

// registerUser registers a user and returns their bearer token and id
func (env *testEnv) registerUser(t *testing.T, username, email string) (bearer string, id uint) {
	t.Helper()

	rec := env.doJSON(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s returned %d: %s", username, rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	dataField(t, resp, "token", &bearer)
	var user struct {
		ID uint `json:"id"`
	}
	dataField(t, resp, "user", &user)
	return bearer, user.ID
}

// createPost creates a post and returns its id
func (env *testEnv) createPost(t *testing.T, bearer, content string) string {
	t.Helper()

	rec := env.doMultipart(http.MethodPost, "/posts", bearer, map[string]string{"content": content})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post returned %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	var post struct {
		ID string `json:"id"`
	}
	dataField(t, resp, "post", &post)
	if post.ID == "" {
		t.Fatal("create post returned empty id")
	}
	return post.ID
}

// longContent builds a string of exactly n characters
func longContent(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = 'a'
	}
	return string(buf)
}
