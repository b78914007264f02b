package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"github.com/taskhive-dev/taskhive/pkg/apierrors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.Username) < 3 || len(req.Username) > 50 {
		ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("username must be between 3 and 50 characters", "username"))
		return
	}

	if !usernamePattern.MatchString(req.Username) {
		ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("username may only contain letters, digits and underscores", "username"))
		return
	}

	var existing models.User

	err := db.DB.Where("username = ?", req.Username).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, apierrors.Conflict("Username already exists", "username"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("failed to check existing username", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	err = db.DB.Where("email = ?", req.Email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, apierrors.Conflict("Email already exists", "email"))
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("failed to check existing email", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		zap.L().Error("failed to hash password", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	newUser := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		zap.L().Error("failed to create user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user_id": newUser.ID})
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.Validation(err.Error()))
		return
	}

	identifier := strings.TrimSpace(req.Identifier)

	var user models.User

	// The same generic message covers both an unknown identifier and a wrong
	// password so callers cannot enumerate accounts.
	err := db.DB.Where("email = ? OR username = ?", strings.ToLower(identifier), identifier).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized(apierrors.MsgInvalidCredentials))
			return
		}
		zap.L().Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized(apierrors.MsgInvalidCredentials))
		return
	}

	token, expiresAt, err := auth.GenerateJWT(user.ID, user.Username)

	if err != nil {
		zap.L().Error("failed to generate JWT", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC(),
		"user": types.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}

// DeleteUser removes the account after a password confirmation. Projects and
// their tasks go with it in one transaction.
func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var user models.User

	if err := db.DB.First(&user, "id = ?", currentUser.ID).Error; err != nil {
		zap.L().Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("password is required for account deletion", "password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, apierrors.ValidationField("password is incorrect", "password"))
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		ownedProjects := tx.Model(&models.Project{}).Select("id").Where("user_id = ?", user.ID)

		if err := tx.Where("project_id IN (?)", ownedProjects).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Project{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})

	if err != nil {
		zap.L().Error("failed to delete user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, apierrors.Unauthorized("User not authenticated"))
		return
	}

	var user models.User

	if err := db.DB.First(&user, "id = ?", currentUser.ID).Error; err != nil {
		zap.L().Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apierrors.Internal(apierrors.MsgInternalError))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	})
}
