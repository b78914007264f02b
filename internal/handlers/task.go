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

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
	IsCompleted *bool   `json:"is_completed"`
}

// PatchTaskRequest carries partial updates; absent fields stay untouched.
// An empty due_date string clears the date.
type PatchTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
	IsCompleted *bool   `json:"is_completed"`
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"due_date"`
	Priority    int       `json:"priority"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const dueDateLayout = "2006-01-02"

func toTaskResponse(task models.Task) TaskResponse {
	var dueDate *string

	if task.DueDate != nil {
		formatted := task.DueDate.Format(dueDateLayout)
		dueDate = &formatted
	}

	return TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     dueDate,
		Priority:    task.Priority,
		IsCompleted: task.IsCompleted,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func validateTaskTitle(title string) (string, *apierrors.Envelope) {
	title = strings.TrimSpace(title)

	if title == "" {
		e := apierrors.ValidationField("title must not be empty", "title")
		return "", &e
	}

	if len(title) > 255 {
		e := apierrors.ValidationField("title must be at most 255 characters", "title")
		return "", &e
	}

	return title, nil
}

func parseDueDate(value string) (*time.Time, *apierrors.Envelope) {
	if parsed, err := time.Parse(dueDateLayout, value); err == nil {
		return &parsed, nil
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return &parsed, nil
	}

	e := apierrors.ValidationField("due_date must be a valid date (YYYY-MM-DD)", "due_date")
	return nil, &e
}

// resolveOwnedTask loads a task and checks the caller owns its parent
// project. Missing task is 404 before any ownership comparison.
func resolveOwnedTask(ctx *gin.Context, taskID, userID uuid.UUID) (*models.Task, bool) {
	var task models.Task

	if err := db.DB.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, apierrors.NotFound(apierrors.MsgTaskNotFound))
		} else {
			zap.L().Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		}
		return nil, false
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", task.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, apierrors.NotFound(apierrors.MsgTaskNotFound))
		} else {
			zap.L().Error("failed to fetch parent project", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		}
		return nil, false
	}

	if project.UserID != userID {
		ctx.JSON(http.StatusForbidden, apierrors.Forbidden("You do not have access to this task"))
		return nil, false
	}

	return &task, true
}

func CreateTask(ctx *gin.Context) {
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

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	title, verr := validateTaskTitle(req.Title)

	if verr != nil {
		ctx.JSON(http.StatusBadRequest, verr)
		return
	}

	priority := models.PriorityMedium

	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("priority must be 1, 2 or 3", "priority"))
			return
		}
		priority = *req.Priority
	}

	var dueDate *time.Time

	if req.DueDate != nil && *req.DueDate != "" {
		parsed, verr := parseDueDate(*req.DueDate)
		if verr != nil {
			ctx.JSON(http.StatusBadRequest, verr)
			return
		}
		dueDate = parsed
	}

	if _, ok := resolveOwnedProject(ctx, projectID, userID); !ok {
		return
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: req.Description,
		DueDate:     dueDate,
		Priority:    priority,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		zap.L().Error("failed to create task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to create task"))
		return
	}

	ctx.JSON(http.StatusCreated, toTaskResponse(task))
}

func ListTasks(ctx *gin.Context) {
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

	if _, ok := resolveOwnedProject(ctx, projectID, userID); !ok {
		return
	}

	var tasks []models.Task

	if err := db.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to retrieve tasks"))
		return
	}

	response := make([]TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, toTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"tasks": response,
		"count": len(response),
	})
}

func GetTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	task, ok := resolveOwnedTask(ctx, taskID, userID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(*task))
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	title, verr := validateTaskTitle(req.Title)

	if verr != nil {
		ctx.JSON(http.StatusBadRequest, verr)
		return
	}

	priority := models.PriorityMedium

	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("priority must be 1, 2 or 3", "priority"))
			return
		}
		priority = *req.Priority
	}

	var dueDate *time.Time

	if req.DueDate != nil && *req.DueDate != "" {
		parsed, verr := parseDueDate(*req.DueDate)
		if verr != nil {
			ctx.JSON(http.StatusBadRequest, verr)
			return
		}
		dueDate = parsed
	}

	task, ok := resolveOwnedTask(ctx, taskID, userID)

	if !ok {
		return
	}

	// Full replacement of mutable fields; omitted optional fields reset.
	task.Title = title
	task.Description = req.Description
	task.DueDate = dueDate
	task.Priority = priority
	task.IsCompleted = req.IsCompleted != nil && *req.IsCompleted

	if err := saveTask(task); err != nil {
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to update task"))
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(*task))
}

func PatchTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	var req PatchTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	task, ok := resolveOwnedTask(ctx, taskID, userID)

	if !ok {
		return
	}

	if req.Title != nil {
		title, verr := validateTaskTitle(*req.Title)
		if verr != nil {
			ctx.JSON(http.StatusBadRequest, verr)
			return
		}
		task.Title = title
	}

	if req.Description != nil {
		if *req.Description == "" {
			task.Description = nil
		} else {
			task.Description = req.Description
		}
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			task.DueDate = nil
		} else {
			parsed, verr := parseDueDate(*req.DueDate)
			if verr != nil {
				ctx.JSON(http.StatusBadRequest, verr)
				return
			}
			task.DueDate = parsed
		}
	}

	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("priority must be 1, 2 or 3", "priority"))
			return
		}
		task.Priority = *req.Priority
	}

	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if err := saveTask(task); err != nil {
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to update task"))
		return
	}

	ctx.JSON(http.StatusOK, toTaskResponse(*task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	task, ok := resolveOwnedTask(ctx, taskID, userID)

	if !ok {
		return
	}

	if err := db.DB.Delete(task).Error; err != nil {
		zap.L().Error("failed to delete task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal("Failed to delete task"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func saveTask(task *models.Task) error {
	if err := db.DB.Save(task).Error; err != nil {
		zap.L().Error("failed to save task", zap.Error(err))
		return err
	}
	return nil
}
