package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/logger"
)

// HandleAPIError writes the error response matching err's kind
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetail(err error) (int, *dto.ErrorDetail) {
	var details interface{}
	var ce *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &ce) {
		message = ce.Error()
		if len(ce.Details) > 0 {
			details = ce.Details
		}
	}
	field := apperrors.FieldOf(err)

	switch {
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	}

	kind := apperrors.KindOf(err)
	var status int
	var code dto.ErrorCode
	switch kind {
	case apperrors.KindValidation:
		status, code = http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case apperrors.KindNotFound:
		status, code = http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case apperrors.KindDuplicate:
		status, code = http.StatusConflict, dto.ErrorCodeResourceAlreadyExists
	case apperrors.KindConflict:
		status, code = http.StatusConflict, dto.ErrorCodeResourceConflict
	case apperrors.KindStorage:
		status, code = http.StatusServiceUnavailable, dto.ErrorCodeDatabaseError
		message = "Storage is unavailable"
	default:
		status, code = http.StatusInternalServerError, dto.ErrorCodeInternalServer
		message = "Internal server error"
		field = ""
	}

	detail := dto.NewErrorDetail(code, message).WithKind(string(kind)).WithField(field)
	if status >= http.StatusInternalServerError {
		detail = detail.WithSeverity(dto.ErrorSeverityCritical)
	} else if details != nil {
		detail = detail.WithDetails(details)
	}
	return status, detail
}
