package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/campusnet/internal/app/models/dto"
	"github.com/yigit/campusnet/internal/pkg/apperrors"
)

type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
}

// errorMappings is checked in order; the first matching sentinel wins
var errorMappings = []errorMapping{
	{
		targets: []error{apperrors.ErrCollegeNotFound, apperrors.ErrEventNotFound, apperrors.ErrEventTypeNotFound,
			apperrors.ErrUserNotFound, apperrors.ErrCredentialNotFound, apperrors.ErrResourceNotFound},
		status: http.StatusNotFound,
		code:   dto.ErrorCodeResourceNotFound,
	},
	{
		targets: []error{apperrors.ErrAlreadyApplied, apperrors.ErrEmailAlreadyExists,
			apperrors.ErrUsernameAlreadyExists, apperrors.ErrResourceAlreadyExists},
		status: http.StatusConflict,
		code:   dto.ErrorCodeResourceAlreadyExists,
	},
	{targets: []error{apperrors.ErrConflict}, status: http.StatusConflict, code: dto.ErrorCodeConflict},
	{targets: []error{apperrors.ErrValidationFailed}, status: http.StatusBadRequest, code: dto.ErrorCodeValidationFailed},
	{
		targets: []error{apperrors.ErrInvalidFollowAction, apperrors.ErrInvalidDate, apperrors.ErrBadRequest},
		status:  http.StatusBadRequest,
		code:    dto.ErrorCodeBadRequest,
	},
	{targets: []error{apperrors.ErrInvalidCredentials}, status: http.StatusUnauthorized, code: dto.ErrorCodeInvalidCredentials},
	{targets: []error{apperrors.ErrTokenExpired}, status: http.StatusUnauthorized, code: dto.ErrorCodeExpiredToken},
	{
		targets: []error{apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat},
		status:  http.StatusUnauthorized,
		code:    dto.ErrorCodeInvalidToken,
	},
	{targets: []error{apperrors.ErrProfileIncomplete}, status: http.StatusForbidden, code: dto.ErrorCodeProfileIncomplete},
	{targets: []error{apperrors.ErrPermissionDenied}, status: http.StatusForbidden, code: dto.ErrorCodeForbidden},
	{targets: []error{apperrors.ErrExternalService}, status: http.StatusBadGateway, code: dto.ErrorCodeExternalServiceError},
}

// errorMessage prefers the message of a CustomError, then the matched sentinel's text
func errorMessage(err, sentinel error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return sentinel.Error()
}

// HandleAPIError writes the response matching err's kind. Client errors carry WARNING severity;
// unknown errors become logged 500s with CRITICAL severity.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if errors.Is(err, target) {
				detail := dto.NewErrorDetail(m.code, errorMessage(err, target))
				if m.status < http.StatusInternalServerError {
					detail = detail.WithSeverity(dto.ErrorSeverityWarning)
				}
				c.JSON(m.status, dto.NewErrorResponse(detail))
				return
			}
		}
	}

	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)))
}
