package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BIGvic-Coder/task-manager-api/internal/service"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var registerTagNames sync.Once

// useJSONFieldNames hace que los errores de validacion usen el nombre JSON del campo.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid":
		return field + " must be a valid id"
	default:
		return field + " is invalid"
	}
}

func validationErrors(err error) []fieldError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]fieldError, 0, len(ve))
		for _, fe := range ve {
			out = append(out, fieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}
	return []fieldError{{Field: "body", Message: "invalid JSON body"}}
}

// bindJSON decodifica y valida el cuerpo; responde 400 si falla.
func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErrors(err)})
		return false
	}
	return true
}

// pathID valida que :id sea un UUID.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Field: "id", Message: "id must be a valid id"}}})
		return "", false
	}
	return id, true
}

func internalError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
}

// writeServiceError traduce errores del servicio a respuestas HTTP.
func writeServiceError(c *gin.Context, logger *zap.Logger, entity string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": entity + " not found"})
	case errors.Is(err, service.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Field: "body", Message: msg}}})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied."})
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
	default:
		internalError(c, logger, strings.ToLower(entity)+" request failed", err)
	}
}
