package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-registration-service/internal/adapter/gin/middleware"
	"user-registration-service/internal/usecase/profile"
	apperrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/upload"
)

// UserHandler handles user listing, profile and management requests.
type UserHandler struct {
	uc        profile.Usecase
	uploadDir string
	log       *zap.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(uc profile.Usecase, uploadDir string, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:        uc,
		uploadDir: uploadDir,
		log:       log,
	}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	users := make([]UserView, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = profileUserView(u)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"count":   resp.Count,
		"users":   users,
	})
}

// GetProfile handles GET /users/profile/me for the authenticated user.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	user, err := h.uc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"user":    profileUserView(*user),
	})
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.uc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User retrieved successfully",
		"user":    profileUserView(*user),
	})
}

// UpdateUser handles PUT /users/:id. The request is multipart/form-data;
// absent fields are left unchanged and a photo part replaces the stored one.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	req, err := h.parseUpdateForm(c)
	if err != nil {
		h.log.Warn("invalid update request", zap.Error(err))
		handleError(c, h.log, err)
		return
	}
	if req.Photo != nil {
		defer req.Photo.Release()
	}

	user, err := h.uc.UpdateUser(c.Request.Context(), c.Param("id"), *req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    profileUserView(*user),
	})
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"userId":  id,
	})
}

func (h *UserHandler) parseUpdateForm(c *gin.Context) (*profile.UpdateRequest, error) {
	var req profile.UpdateRequest

	if v, ok := c.GetPostForm("firstName"); ok {
		v = strings.TrimSpace(v)
		req.FirstName = &v
	}
	if v, ok := c.GetPostForm("lastName"); ok {
		v = strings.TrimSpace(v)
		req.LastName = &v
	}
	if v, ok := c.GetPostForm("gender"); ok {
		v = strings.ToLower(strings.TrimSpace(v))
		req.Gender = &v
	}
	if v, ok := c.GetPostForm("dob"); ok {
		dob, err := parseDOB(v)
		if err != nil {
			return nil, apperrors.NewValidationError("dob", "dob must be a valid date")
		}
		req.DOB = &dob
	}
	if _, ok := c.GetPostFormArray("hobbies"); ok {
		hobbies := parseHobbies(c)
		req.Hobbies = &hobbies
	} else if _, ok := c.GetPostFormArray("hobbies[]"); ok {
		hobbies := parseHobbies(c)
		req.Hobbies = &hobbies
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return &req, nil
	}
	if fileHeader.Size > maxPhotoSize {
		return nil, apperrors.NewValidationError("photo", "photo must not exceed 5MB")
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedPhotoTypes[contentType] {
		return nil, apperrors.NewValidationError("photo", "photo must be a jpeg, png or gif image")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewUploadError("failed to read uploaded photo", err)
	}
	defer src.Close()

	staged, err := upload.Stage(h.uploadDir, fileHeader.Filename, contentType, src)
	if err != nil {
		return nil, apperrors.NewUploadError("failed to stage uploaded photo", err)
	}
	req.Photo = staged

	return &req, nil
}
