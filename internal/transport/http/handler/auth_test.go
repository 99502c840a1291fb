package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityboard/internal/app"
	"communityboard/internal/model"
	"communityboard/internal/transport/http/response"
)

const validPassword = "abcdefg123!@#"

type stubUserStore struct {
	byEmail map[string]*model.User
}

func (s *stubUserStore) Create(_ context.Context, user *model.User) error {
	user.ID = 1
	user.CreatedAt = time.Now()
	return nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.byEmail[email], nil
}

func (s *stubUserStore) GetByID(_ context.Context, _ uint) (*model.User, error) {
	return nil, nil
}

func (s *stubUserStore) Update(_ context.Context, _ uint, _ map[string]interface{}) (*model.User, error) {
	return nil, nil
}

type stubRecorder struct{}

func (stubRecorder) Record(_ context.Context, _ model.LoginRecord) error { return nil }

func newAuthRouter(store *stubUserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := app.NewAuthService(store, stubRecorder{}, "test-secret", time.Hour, log)
	h := NewAuthHandler(svc)

	router := gin.New()
	router.POST("/auth/signup", h.Signup)
	router.POST("/auth/login", h.Login)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSignup_Success_OmitsEmail(t *testing.T) {
	router := newAuthRouter(&stubUserStore{byEmail: map[string]*model.User{}})

	w := postJSON(router, "/auth/signup",
		`{"email":"new@example.com","password":"`+validPassword+`","username":"홍길동"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.CodeOK, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "id")
	assert.Contains(t, data, "username")
	assert.NotContains(t, data, "email")
	assert.NotContains(t, data, "password")
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	router := newAuthRouter(&stubUserStore{byEmail: map[string]*model.User{
		"taken@example.com": {ID: 2, Email: "taken@example.com"},
	}})

	w := postJSON(router, "/auth/signup",
		`{"email":"taken@example.com","password":"`+validPassword+`","username":"홍길동"}`)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.CodeConflict, resp.Code)
}

func TestSignup_InvalidPayload(t *testing.T) {
	router := newAuthRouter(&stubUserStore{byEmail: map[string]*model.User{}})

	w := postJSON(router, "/auth/signup", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_WeakPassword(t *testing.T) {
	router := newAuthRouter(&stubUserStore{byEmail: map[string]*model.User{}})

	w := postJSON(router, "/auth/signup",
		`{"email":"a@b.com","password":"short","username":"홍길동"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_UnknownEmailUnauthorized(t *testing.T) {
	router := newAuthRouter(&stubUserStore{byEmail: map[string]*model.User{}})

	w := postJSON(router, "/auth/login",
		`{"email":"ghost@example.com","password":"`+validPassword+`"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.CodeInvalidCredentials, resp.Code)
}
