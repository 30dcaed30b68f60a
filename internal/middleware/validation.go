package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
)

// BindJSON binds the request body into obj. On failure it writes a 400 response naming the
// offending field when one can be determined, and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	var errorDetail *dto.ErrorDetail
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		errorDetail = dto.NewErrorDetail(dto.ErrorCodeValidationFailed, typeErr.Field+" has an invalid type").
			WithKind("ValidationError").
			WithField(typeErr.Field).
			WithDetails(err.Error())
	default:
		errorDetail = dto.HandleValidationError(err)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
	return false
}
