package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetProjectID(ctx *gin.Context) (uuid.UUID, error) {
	projectIDStr := ctx.Param("project_id")

	if projectIDStr == "" {
		return uuid.Nil, errors.New("project ID not found")
	}

	projectID, err := uuid.Parse(projectIDStr)

	if err != nil {
		return uuid.Nil, errors.New("invalid project ID")
	}

	return projectID, nil
}

func GetTaskID(ctx *gin.Context) (uuid.UUID, error) {
	taskIDStr := ctx.Param("task_id")

	if taskIDStr == "" {
		return uuid.Nil, errors.New("task ID not found")
	}

	taskID, err := uuid.Parse(taskIDStr)

	if err != nil {
		return uuid.Nil, errors.New("invalid task ID")
	}

	return taskID, nil
}
