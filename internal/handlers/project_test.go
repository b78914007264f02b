package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/pkg/apierrors"
)

func TestCreateProject_TrimsName(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "alice")

	project := createProject(t, r, token, "  Apollo  ")
	require.Equal(t, "Apollo", project.Name)
	require.NotEqual(t, uuid.Nil, project.ID)
}

func TestCreateProject_RejectsInvalidName(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "alice")

	for _, name := range []string{"   ", strings.Repeat("x", 256)} {
		rec := performRequest(t, r, http.MethodPost, "/api/projects", token, gin.H{"name": name})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeError(t, rec)
		require.Equal(t, apierrors.CodeValidation, envelope.Code)
		require.Equal(t, "name", envelope.Field)
	}
}

func TestCreateProject_RequiresToken(t *testing.T) {
	r := setupRouter(t)

	rec := performRequest(t, r, http.MethodPost, "/api/projects", "", gin.H{"name": "Apollo"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListProjects_OnlyOwnedNewestFirst(t *testing.T) {
	r := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice")
	bobToken := registerAndLogin(t, r, "bob")

	first := createProject(t, r, aliceToken, "First")
	time.Sleep(10 * time.Millisecond)
	second := createProject(t, r, aliceToken, "Second")
	createProject(t, r, bobToken, "Foreign")

	rec := performRequest(t, r, http.MethodGet, "/api/projects", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Projects []handlers.ProjectResponse `json:"projects"`
		Count    int                        `json:"count"`
	}
	decodeBody(t, rec, &resp)

	require.Equal(t, 2, resp.Count)
	require.Len(t, resp.Projects, 2)
	require.Equal(t, second.ID, resp.Projects[0].ID)
	require.Equal(t, first.ID, resp.Projects[1].ID)

	for _, p := range resp.Projects {
		require.NotEqual(t, "Foreign", p.Name)
	}
}

func TestGetProject_OwnershipMatrix(t *testing.T) {
	r := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice")
	bobToken := registerAndLogin(t, r, "bob")

	project := createProject(t, r, aliceToken, "Apollo")
	path := "/api/projects/" + project.ID.String()

	rec := performRequest(t, r, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = performRequest(t, r, http.MethodGet, path, bobToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, apierrors.CodeAuthorization, decodeError(t, rec).Code)

	rec = performRequest(t, r, http.MethodGet, "/api/projects/"+uuid.NewString(), bobToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(t, r, http.MethodGet, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProject(t *testing.T) {
	r := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice")
	bobToken := registerAndLogin(t, r, "bob")

	project := createProject(t, r, aliceToken, "Apollo")
	path := "/api/projects/" + project.ID.String()

	rec := performRequest(t, r, http.MethodPut, path, aliceToken, gin.H{"name": "Artemis"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated handlers.ProjectResponse
	decodeBody(t, rec, &updated)
	require.Equal(t, "Artemis", updated.Name)

	rec = performRequest(t, r, http.MethodPut, path, bobToken, gin.H{"name": "Hijack"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Nonexistent id wins over ownership: 404 even with a valid token.
	rec = performRequest(t, r, http.MethodPut, "/api/projects/"+uuid.NewString(), bobToken, gin.H{"name": "Ghost"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(t, r, http.MethodPut, path, aliceToken, gin.H{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProject_MalformedID(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "alice")

	rec := performRequest(t, r, http.MethodPut, "/api/projects/not-a-uuid", token, gin.H{"name": "Apollo"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProject_CascadesToTasks(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "alice")

	project := createProject(t, r, token, "Apollo")
	createTask(t, r, token, project, gin.H{"title": "one"})
	createTask(t, r, token, project, gin.H{"title": "two"})

	var count int64
	require.NoError(t, db.DB.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)

	rec := performRequest(t, r, http.MethodDelete, "/api/projects/"+project.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, db.DB.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	rec = performRequest(t, r, http.MethodGet, "/api/projects/"+project.ID.String(), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProject_ForeignOwnerForbidden(t *testing.T) {
	r := setupRouter(t)
	aliceToken := registerAndLogin(t, r, "alice")
	bobToken := registerAndLogin(t, r, "bob")

	project := createProject(t, r, aliceToken, "Apollo")

	rec := performRequest(t, r, http.MethodDelete, "/api/projects/"+project.ID.String(), bobToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Still there for its owner.
	rec = performRequest(t, r, http.MethodGet, "/api/projects/"+project.ID.String(), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListProjects_EmptyIsZeroCount(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "alice")

	rec := performRequest(t, r, http.MethodGet, "/api/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Projects []handlers.ProjectResponse `json:"projects"`
		Count    int                        `json:"count"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, 0, resp.Count)
	require.NotNil(t, resp.Projects)
}

func TestProjectRoutes_InvalidTokenRejected(t *testing.T) {
	r := setupRouter(t)
	registerAndLogin(t, r, "alice")

	for _, token := range []string{"garbage", fmt.Sprintf("%s.%s.%s", "aaa", "bbb", "ccc")} {
		rec := performRequest(t, r, http.MethodGet, "/api/projects", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
