package middleware

import (
	"net/http"

	"go-farmops/internal/shared/apperror"
	"go-farmops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrMissingClaim = apperror.New(
		apperror.CodeUnauthorized,
		"Token is missing required claims",
		http.StatusUnauthorized,
	)
	ErrRequestInProgress = apperror.New(
		apperror.CodeConflict,
		"This request is already being processed, please wait",
		http.StatusConflict,
	)
	ErrTooManyRequests = apperror.New(
		apperror.CodeTooManyRequests,
		"Too many requests",
		http.StatusTooManyRequests,
	)
)

func abortWithError(c *gin.Context, err *apperror.AppError, details any) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, details)
	c.Abort()
}
