package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"github.com/taskhive-dev/taskhive/pkg/apierrors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

type ProjectResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:        project.ID,
		UserID:    project.UserID,
		Name:      project.Name,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

func validateProjectName(name string) (string, *apierrors.Envelope) {
	name = strings.TrimSpace(name)

	if name == "" {
		e := apierrors.ValidationField("name must not be empty", "name")
		return "", &e
	}

	if len(name) > 255 {
		e := apierrors.ValidationField("name must be at most 255 characters", "name")
		return "", &e
	}

	return name, nil
}

// resolveOwnedProject loads a project by id and checks it belongs to userID.
// Existence is reported before ownership: a missing id is always 404, even
// for callers who would be denied anyway.
func resolveOwnedProject(ctx *gin.Context, projectID, userID uuid.UUID) (*models.Project, bool) {
	var project models.Project

	if err := db.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, apierrors.NotFound(apierrors.MsgProjectNotFound))
		} else {
			zap.L().Error("failed to fetch project", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		}
		return nil, false
	}

	if project.UserID != userID {
		ctx.JSON(http.StatusForbidden, apierrors.Forbidden("You do not have access to this project"))
		return nil, false
	}

	return &project, true
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var body CreateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	name, verr := validateProjectName(body.Name)

	if verr != nil {
		ctx.JSON(http.StatusBadRequest, verr)
		return
	}

	project := models.Project{
		Name:   name,
		UserID: userID,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		zap.L().Error("failed to create project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to create project"))
		return
	}

	ctx.JSON(http.StatusCreated, toProjectResponse(project))
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var projects []models.Project

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		zap.L().Error("failed to list projects", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to retrieve projects"))
		return
	}

	response := make([]ProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, toProjectResponse(project))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"projects": response,
		"count":    len(response),
	})
}

func GetProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	project, ok := resolveOwnedProject(ctx, projectID, userID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(*project))
}

func UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	var body UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	name, verr := validateProjectName(body.Name)

	if verr != nil {
		ctx.JSON(http.StatusBadRequest, verr)
		return
	}

	project, ok := resolveOwnedProject(ctx, projectID, userID)

	if !ok {
		return
	}

	project.Name = name

	if err := db.DB.Save(project).Error; err != nil {
		zap.L().Error("failed to update project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to update project"))
		return
	}

	ctx.JSON(http.StatusOK, toProjectResponse(*project))
}

func DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	project, ok := resolveOwnedProject(ctx, projectID, userID)

	if !ok {
		return
	}

	// Tasks are removed in the same transaction so the cascade holds even
	// when foreign-key enforcement is off in the underlying store.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})

	if err != nil {
		zap.L().Error("failed to delete project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to delete project"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
