package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/config"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/router"
	"github.com/taskhive-dev/taskhive/pkg/apierrors"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "password123"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb
	require.NoError(t, db.MigrateDatabase())

	cfg := &config.Config{
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	return router.NewRouter(cfg, zap.NewNop())
}

func performRequest(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Envelope {
	t.Helper()
	var envelope apierrors.Envelope
	decodeBody(t, rec, &envelope)
	return envelope
}

func registerUser(t *testing.T, r http.Handler, username, email string) {
	t.Helper()

	rec := performRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func loginUser(t *testing.T, r http.Handler, identifier string) string {
	t.Helper()

	rec := performRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": identifier,
		"password":   testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func registerAndLogin(t *testing.T, r http.Handler, username string) string {
	t.Helper()

	registerUser(t, r, username, username+"@example.com")
	return loginUser(t, r, username)
}

func createProject(t *testing.T, r http.Handler, token, name string) handlers.ProjectResponse {
	t.Helper()

	rec := performRequest(t, r, http.MethodPost, "/api/projects", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var project handlers.ProjectResponse
	decodeBody(t, rec, &project)
	return project
}

func createTask(t *testing.T, r http.Handler, token string, project handlers.ProjectResponse, body gin.H) handlers.TaskResponse {
	t.Helper()

	path := fmt.Sprintf("/api/projects/%s/tasks", project.ID)
	rec := performRequest(t, r, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task handlers.TaskResponse
	decodeBody(t, rec, &task)
	return task
}
