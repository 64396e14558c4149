package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-registration-service/internal/usecase/auth"
	"user-registration-service/internal/usecase/profile"
	apperrors "user-registration-service/pkg/errors"
)

// UserView is the JSON shape of a user in API responses. The photo field
// carries a time-limited signed URL, never the stored object key.
type UserView struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	DOB             time.Time `json:"dob"`
	Gender          string    `json:"gender"`
	Hobbies         []string  `json:"hobbies"`
	Photo           string    `json:"photo"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func authUserView(u auth.User) UserView {
	return UserView{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		DOB:             u.DOB,
		Gender:          u.Gender,
		Hobbies:         u.Hobbies,
		Photo:           u.Photo,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func profileUserView(u profile.User) UserView {
	return UserView{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		DOB:             u.DOB,
		Gender:          u.Gender,
		Hobbies:         u.Hobbies,
		Photo:           u.Photo,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// handleError maps usecase errors to HTTP responses. Errors without an HTTP
// status, and all 5xx errors, respond with a generic message so internals
// never reach the client.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
		return
	}

	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status := statuser.HTTPStatus()
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.Error(err))
			c.JSON(status, gin.H{"message": "Internal server error"})
			return
		}
		c.JSON(status, gin.H{"message": err.Error()})
		return
	}

	log.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
