package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-registration-service/internal/usecase/auth"
	apperrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/upload"
)

// maxPhotoSize caps uploaded profile photos at 5 MiB.
const maxPhotoSize = 5 << 20

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	uc        auth.Usecase
	uploadDir string
	log       *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(uc auth.Usecase, uploadDir string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:        uc,
		uploadDir: uploadDir,
		log:       log,
	}
}

// LoginBody represents the JSON request body for logging in.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register. The request is multipart/form-data
// with text fields plus a required photo part.
func (h *AuthHandler) Register(c *gin.Context) {
	req, err := h.parseRegisterForm(c)
	if err != nil {
		h.log.Warn("invalid register request", zap.Error(err))
		handleError(c, h.log, err)
		return
	}
	// The usecase releases the staged photo on every exit path; this covers
	// the parse-then-panic window only.
	defer req.Photo.Release()

	resp, err := h.uc.Register(c.Request.Context(), *req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Welcome email sent.",
		"token":   resp.Token,
		"user":    authUserView(resp.User),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	resp, err := h.uc.Login(c.Request.Context(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   resp.Token,
		"user":    authUserView(resp.User),
	})
}

// parseRegisterForm extracts the registration fields and stages the photo
// part to local disk. The photo must be present, within the size cap and of
// an allowed image type.
func (h *AuthHandler) parseRegisterForm(c *gin.Context) (*auth.RegisterRequest, error) {
	req := auth.RegisterRequest{
		FirstName: strings.TrimSpace(c.PostForm("firstName")),
		LastName:  strings.TrimSpace(c.PostForm("lastName")),
		Email:     strings.TrimSpace(c.PostForm("email")),
		Password:  c.PostForm("password"),
		Gender:    strings.ToLower(strings.TrimSpace(c.PostForm("gender"))),
		Hobbies:   parseHobbies(c),
	}

	if dobStr := c.PostForm("dob"); dobStr != "" {
		dob, err := parseDOB(dobStr)
		if err != nil {
			return nil, apperrors.NewValidationError("dob", "dob must be a valid date")
		}
		req.DOB = dob
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, apperrors.NewValidationError("photo", "photo is required")
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

// parseHobbies accepts repeated form fields as well as a single
// comma-separated value.
func parseHobbies(c *gin.Context) []string {
	values := c.PostFormArray("hobbies")
	if len(values) == 0 {
		values = c.PostFormArray("hobbies[]")
	}

	hobbies := make([]string, 0, len(values))
	for _, v := range values {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hobbies = append(hobbies, h)
			}
		}
	}
	return hobbies
}

func parseDOB(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
